package core

import "time"

// ExecutionStatus tracks one application attempt through its lifecycle.
// Terminal states are completed, failed and rolled_back.
type ExecutionStatus string

const (
	ExecutionPending    ExecutionStatus = "pending"
	ExecutionInProgress ExecutionStatus = "in_progress"
	ExecutionCompleted  ExecutionStatus = "completed"
	ExecutionFailed     ExecutionStatus = "failed"
	ExecutionRolledBack ExecutionStatus = "rolled_back"
)

// SystemActor identifies the loop itself in ExecutedBy and TriggeredBy fields.
const SystemActor = "system"

// TestResults is the outcome of running a suggestion's associated tests.
type TestResults struct {
	Passed   int      `json:"passed"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	Coverage float64  `json:"coverage"`
	Errors   []string `json:"errors,omitempty"`
}

// RefactorExecution is one concrete attempt to apply a suggestion's changes,
// with its own test outcome and rollback path. Exactly one row exists per
// application attempt.
type RefactorExecution struct {
	ID           string            `json:"id"`
	Tenant       string            `json:"tenant"`
	SuggestionID string            `json:"suggestion_id"`
	Status       ExecutionStatus   `json:"status" validate:"oneof=pending in_progress completed failed rolled_back"`
	StartedAt    time.Time         `json:"started_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	ExecutedBy   string            `json:"executed_by"`
	Changes      []FileChange      `json:"changes"`
	RollbackPlan string            `json:"rollback_plan"`
	TestResults  *TestResults      `json:"test_results,omitempty"`
	BackupPath   string            `json:"backup_path,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Duration returns the wall-clock time the execution took, or zero while it
// is still running.
func (e *RefactorExecution) Duration() time.Duration {
	if e.CompletedAt == nil {
		return 0
	}
	return e.CompletedAt.Sub(e.StartedAt)
}

// FeedbackAction is a reviewer's verdict on a suggestion.
type FeedbackAction string

const (
	FeedbackApproved FeedbackAction = "approved"
	FeedbackRejected FeedbackAction = "rejected"
)

// RefactorFeedback records a reviewer's verdict and rating for a suggestion.
// Feedback is the only path by which a manual-automation suggestion becomes
// approved.
type RefactorFeedback struct {
	ID           string            `json:"id"`
	SuggestionID string            `json:"suggestion_id"`
	UserID       string            `json:"user_id"`
	Action       FeedbackAction    `json:"action" validate:"oneof=approved rejected"`
	Rating       int               `json:"rating" validate:"gte=1,lte=5"`
	Comments     string            `json:"comments,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// RefactorMetrics aggregates suggestion and execution outcomes over a time
// range, for the orchestrator's periodic snapshot.
type RefactorMetrics struct {
	SuggestionsByStatus   map[SuggestionStatus]int `json:"suggestions_by_status"`
	AutomaticExecutions   int                      `json:"automatic_executions"`
	ManualExecutions      int                      `json:"manual_executions"`
	MeanFeedbackRating    float64                  `json:"mean_feedback_rating"`
	SuccessRate           float64                  `json:"success_rate"`
	TimeToImplementHours  float64                  `json:"time_to_implement_hours"`
	TotalExecutions       int                      `json:"total_executions"`
	CompletedExecutions   int                      `json:"completed_executions"`
	RolledBackExecutions  int                      `json:"rolled_back_executions"`
	FailedExecutions      int                      `json:"failed_executions"`
}
