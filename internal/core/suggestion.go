package core

import (
	"sort"
	"time"
)

// SuggestionType names the family of change a suggestion proposes.
type SuggestionType string

const (
	SuggestOptimizeQuery    SuggestionType = "optimize_query"
	SuggestOptimizeLoop     SuggestionType = "optimize_loop"
	SuggestReduceBundle     SuggestionType = "reduce_bundle"
	SuggestSecurityFix      SuggestionType = "security_fix"
	SuggestStyleImprovement SuggestionType = "style_improvement"
	SuggestReduceComplexity SuggestionType = "reduce_complexity"
)

// Priority orders suggestions for review and execution. It mirrors the worst
// impact among the contributing findings.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank orders priorities for the pending-suggestion sort.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// PriorityForImpact maps a finding impact to the suggestion priority it implies.
func PriorityForImpact(i Impact) Priority {
	switch i {
	case ImpactCritical:
		return PriorityCritical
	case ImpactHigh:
		return PriorityHigh
	case ImpactMedium:
		return PriorityMedium
	}
	return PriorityLow
}

// AutomationLevel states how much human involvement a suggestion requires
// before its changes may be applied.
type AutomationLevel string

const (
	AutomationManual    AutomationLevel = "manual"
	AutomationAssisted  AutomationLevel = "assisted"
	AutomationAutomatic AutomationLevel = "automatic"
)

// EstimatedImpact holds heuristic scores in [0,1] per improvement dimension.
// These are estimates, not measured outcomes.
type EstimatedImpact struct {
	Performance     float64 `json:"performance" validate:"gte=0,lte=1"`
	Security        float64 `json:"security" validate:"gte=0,lte=1"`
	Maintainability float64 `json:"maintainability" validate:"gte=0,lte=1"`
	Readability     float64 `json:"readability" validate:"gte=0,lte=1"`
}

// FileOperation is the kind of mutation a FileChange performs.
type FileOperation string

const (
	OpCreate FileOperation = "create"
	OpUpdate FileOperation = "update"
	OpDelete FileOperation = "delete"
	OpRename FileOperation = "rename"
)

// FileChange is a single file mutation. A change is only meaningful inside its
// parent suggestion's implementation and must be applied in list order.
type FileChange struct {
	File       string        `json:"file"`
	Operation  FileOperation `json:"operation" validate:"oneof=create update delete rename"`
	OldContent string        `json:"old_content,omitempty"`
	NewContent string        `json:"new_content,omitempty"`
	OldPath    string        `json:"old_path,omitempty"`
	NewPath    string        `json:"new_path,omitempty"`
}

// Implementation bundles the concrete changes a suggestion proposes, the tests
// that gate them, and a human-readable rollback plan.
type Implementation struct {
	Changes      []FileChange `json:"changes" validate:"dive"`
	Tests        []string     `json:"tests"`
	RollbackPlan string       `json:"rollback_plan"`
}

// SuggestionStatus is the single source of truth for whether a suggestion may
// be executed. Transitions happen only via explicit feedback or auto-application.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// Suggestion is a proposed, reviewable code change derived from one or more
// findings.
type Suggestion struct {
	ID              string           `json:"id"`
	Tenant          string           `json:"tenant"`
	AnalysisID      string           `json:"analysis_id,omitempty"`
	Type            SuggestionType   `json:"type"`
	Priority        Priority         `json:"priority" validate:"oneof=low medium high critical"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Files           []string         `json:"files"`
	EstimatedImpact EstimatedImpact  `json:"estimated_impact"`
	AutomationLevel AutomationLevel  `json:"automation_level" validate:"oneof=manual assisted automatic"`
	Implementation  Implementation   `json:"implementation"`
	Confidence      float64          `json:"confidence" validate:"gte=0,lte=1"`
	Reasoning       string           `json:"reasoning"`
	Status          SuggestionStatus `json:"status" validate:"oneof=pending approved rejected"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// PendingBefore reports whether a precedes b in the review queue: priority
// first, then confidence, then recency.
func PendingBefore(a, b *Suggestion) bool {
	if a.Priority.Rank() != b.Priority.Rank() {
		return a.Priority.Rank() > b.Priority.Rank()
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// SortPending orders suggestions per PendingBefore. Ties keep their input
// order.
func SortPending(suggestions []*Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		return PendingBefore(suggestions[i], suggestions[j])
	})
}
