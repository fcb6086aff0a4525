package core

import "time"

// Features toggles individual capabilities of the evolution loop per tenant.
type Features struct {
	CodeAnalysis  bool `json:"code_analysis"`
	AutoRefactor  bool `json:"auto_refactor"`
	CanaryTesting bool `json:"canary_testing"`
	LLMReasoning  bool `json:"llm_reasoning"`
}

// Safeguards bound the blast radius of autonomous action independent of any
// single suggestion's or canary's own merits.
type Safeguards struct {
	MaxDailyChanges       int     `json:"max_daily_changes" validate:"gte=0"`
	EmergencyStop         bool    `json:"emergency_stop"`
	TestCoverageThreshold float64 `json:"test_coverage_threshold" validate:"gte=0,lte=100"`
}

// EvolutionSettings is the per-tenant switchboard for the whole loop. A single
// row exists per tenant and is mutated by the orchestrator only.
type EvolutionSettings struct {
	Tenant     string     `json:"tenant"`
	Enabled    bool       `json:"enabled"`
	Features   Features   `json:"features"`
	Safeguards Safeguards `json:"safeguards"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DefaultSettings returns conservative settings for a tenant that has never
// been configured: analysis on, all autonomous action off.
func DefaultSettings(tenant string) *EvolutionSettings {
	return &EvolutionSettings{
		Tenant:  tenant,
		Enabled: false,
		Features: Features{
			CodeAnalysis: true,
		},
		Safeguards: Safeguards{
			MaxDailyChanges:       10,
			TestCoverageThreshold: 70,
		},
	}
}

// EventSeverity grades an evolution event for alerting.
type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// EvolutionEvent is one append-only audit/telemetry record. Writing events is
// best-effort; a failed write never aborts the triggering operation.
type EvolutionEvent struct {
	ID          string         `json:"id"`
	Tenant      string         `json:"tenant"`
	Type        string         `json:"type"`
	Severity    EventSeverity  `json:"severity"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
	TriggeredBy string         `json:"triggered_by"`
	CreatedAt   time.Time      `json:"created_at"`
}

// EvolutionMetrics is the orchestrator's periodic aggregate snapshot.
type EvolutionMetrics struct {
	Tenant         string          `json:"tenant"`
	Refactor       RefactorMetrics `json:"refactor"`
	ApprovalRate   float64         `json:"approval_rate"`
	RejectionRate  float64         `json:"rejection_rate"`
	AnalysisRuns   int             `json:"analysis_runs"`
	OpenFindings   int             `json:"open_findings"`
	ActiveCanaries int             `json:"active_canaries"`
	GeneratedAt    time.Time       `json:"generated_at"`
}
