package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store implementations when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence operations the evolution loop needs. All
// serialization is the store's concern; the loop never owns a wire format.
//
//go:generate mockgen -destination=../../mocks/mock_store.go -package=mocks . Store
type Store interface {
	// Analysis results (append-only history).
	SaveAnalysisResult(ctx context.Context, result *AnalysisResult) error
	LatestAnalysisResult(ctx context.Context, tenant string, pass AnalysisPass) (*AnalysisResult, error)
	ListAnalysisResults(ctx context.Context, tenant string, since time.Time) ([]*AnalysisResult, error)

	// Suggestions.
	SaveSuggestion(ctx context.Context, s *Suggestion) error
	GetSuggestion(ctx context.Context, id string) (*Suggestion, error)
	UpdateSuggestionStatus(ctx context.Context, id string, status SuggestionStatus) error
	ListPendingSuggestions(ctx context.Context, tenant string, limit int) ([]*Suggestion, error)
	ListSuggestionsCreatedBetween(ctx context.Context, tenant string, from, to time.Time) ([]*Suggestion, error)

	// Feedback.
	SaveFeedback(ctx context.Context, fb *RefactorFeedback) error
	ListFeedbackBetween(ctx context.Context, tenant string, from, to time.Time) ([]*RefactorFeedback, error)

	// Executions.
	CreateExecution(ctx context.Context, e *RefactorExecution) error
	UpdateExecution(ctx context.Context, e *RefactorExecution) error
	GetExecution(ctx context.Context, id string) (*RefactorExecution, error)
	ListExecutionsByStatus(ctx context.Context, tenant string, status ExecutionStatus) ([]*RefactorExecution, error)
	ListExecutionsBetween(ctx context.Context, tenant string, from, to time.Time) ([]*RefactorExecution, error)
	CountExecutionsSince(ctx context.Context, tenant string, since time.Time) (int, error)

	// Canaries and comparisons.
	SaveCanary(ctx context.Context, m *CanaryModel) error
	UpdateCanary(ctx context.Context, m *CanaryModel) error
	GetCanary(ctx context.Context, id string) (*CanaryModel, error)
	ListCanariesByStatus(ctx context.Context, tenant string, statuses ...CanaryStatus) ([]*CanaryModel, error)
	SaveComparison(ctx context.Context, c *ModelComparison) error

	// Settings (single row per tenant).
	GetSettings(ctx context.Context, tenant string) (*EvolutionSettings, error)
	SaveSettings(ctx context.Context, s *EvolutionSettings) error

	// Events (append-only; writes go through EventRecorder).
	ListEvents(ctx context.Context, tenant string, limit int) ([]*EvolutionEvent, error)
}

// FileStore abstracts source-file access for analysis, change application and
// backup creation. Paths are relative to the store's project root.
//
//go:generate mockgen -destination=../../mocks/mock_filestore.go -package=mocks . FileStore
type FileStore interface {
	// List enumerates analyzable files under root. A listing failure aborts
	// the surrounding batch; per-file read failures do not.
	List(ctx context.Context, root string) ([]string, error)
	Read(ctx context.Context, path string) (string, error)
	Write(ctx context.Context, path, content string) error
	Delete(ctx context.Context, path string) error
	Rename(ctx context.Context, oldPath, newPath string) error
}

// TestRunner executes a suggestion's associated tests and reports the outcome.
// Implementations must honor the context deadline.
//
//go:generate mockgen -destination=../../mocks/mock_testrunner.go -package=mocks . TestRunner
type TestRunner interface {
	Run(ctx context.Context, dir string, tests []string) (*TestResults, error)
}

// EventRecorder is the append-only telemetry sink. Recording is best-effort:
// implementations log failures and never return them.
type EventRecorder interface {
	Record(ctx context.Context, event *EvolutionEvent)
}

// Notifier escalates situations that need a human: canaries flagged for manual
// review and emergency stops. Callers treat notification as best-effort.
//
//go:generate mockgen -destination=../../mocks/mock_notifier.go -package=mocks . Notifier
type Notifier interface {
	NotifyManualReview(ctx context.Context, model *CanaryModel, cmp *ModelComparison) error
	NotifyEmergencyStop(ctx context.Context, tenant, reason, actor string) error
}

// Clock abstracts time so that debounce windows and monitoring intervals are
// testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }
