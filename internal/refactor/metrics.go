package refactor

import (
	"context"
	"fmt"
	"time"

	"github.com/sevigo/evo-warden/internal/core"
)

// GetRefactorMetrics aggregates suggestion, execution and feedback outcomes
// over the given time range.
func (e *Executor) GetRefactorMetrics(ctx context.Context, tenant string, from, to time.Time) (*core.RefactorMetrics, error) {
	suggestions, err := e.store.ListSuggestionsCreatedBetween(ctx, tenant, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	executions, err := e.store.ListExecutionsBetween(ctx, tenant, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	feedback, err := e.store.ListFeedbackBetween(ctx, tenant, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	m := &core.RefactorMetrics{
		SuggestionsByStatus: map[core.SuggestionStatus]int{},
	}
	for _, s := range suggestions {
		m.SuggestionsByStatus[s.Status]++
	}

	var totalDuration time.Duration
	var durationCount int
	for _, ex := range executions {
		m.TotalExecutions++
		if ex.ExecutedBy == core.SystemActor {
			m.AutomaticExecutions++
		} else {
			m.ManualExecutions++
		}
		switch ex.Status {
		case core.ExecutionCompleted:
			m.CompletedExecutions++
		case core.ExecutionRolledBack:
			m.RolledBackExecutions++
		case core.ExecutionFailed:
			m.FailedExecutions++
		}
		if d := ex.Duration(); d > 0 {
			totalDuration += d
			durationCount++
		}
	}
	if m.TotalExecutions > 0 {
		m.SuccessRate = float64(m.CompletedExecutions) / float64(m.TotalExecutions)
	}
	if durationCount > 0 {
		m.TimeToImplementHours = (totalDuration / time.Duration(durationCount)).Hours()
	}

	var ratingSum int
	for _, fb := range feedback {
		ratingSum += fb.Rating
	}
	if len(feedback) > 0 {
		m.MeanFeedbackRating = float64(ratingSum) / float64(len(feedback))
	}
	return m, nil
}
