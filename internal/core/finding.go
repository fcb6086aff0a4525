// Package core defines the essential domain types and interfaces that form the
// backbone of the evolution loop. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the loop's logic.
package core

import "time"

// FindingType classifies a detected issue in source code.
type FindingType string

const (
	FindingPerformance FindingType = "performance_issue"
	FindingSecurity    FindingType = "security_vulnerability"
	FindingStyle       FindingType = "style_violation"
	FindingCodeSmell   FindingType = "code_smell"
)

// Impact grades how severe a finding is if left unaddressed.
type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

// Rank orders impacts so that the worst one can be selected numerically.
func (i Impact) Rank() int {
	switch i {
	case ImpactCritical:
		return 4
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 1
	}
	return 0
}

// WorstImpact returns the highest-ranked impact among the given findings,
// or ImpactLow for an empty set.
func WorstImpact(findings []Finding) Impact {
	worst := ImpactLow
	for _, f := range findings {
		if f.Impact.Rank() > worst.Rank() {
			worst = f.Impact
		}
	}
	return worst
}

// Effort estimates how much work fixing a finding takes.
type Effort string

const (
	EffortTrivial Effort = "trivial"
	EffortEasy    Effort = "easy"
	EffortMedium  Effort = "medium"
	EffortHard    Effort = "hard"
)

// FindingContext carries the code surrounding a finding so that suggestion
// generation and human review do not need to re-read the file.
type FindingContext struct {
	BeforeCode      string `json:"before_code"`
	SurroundingCode string `json:"surrounding_code"`
}

// Finding is a single detected issue in source code. Findings are immutable
// once created and are produced only by the analyzer.
type Finding struct {
	ID          string         `json:"id"`
	Type        FindingType    `json:"type" validate:"oneof=performance_issue security_vulnerability style_violation code_smell"`
	File        string         `json:"file"`
	Line        int            `json:"line"`
	Description string         `json:"description"`
	Impact      Impact         `json:"impact" validate:"oneof=low medium high critical"`
	Effort      Effort         `json:"effort" validate:"oneof=trivial easy medium hard"`
	Tags        []string       `json:"tags"`
	Context     FindingContext `json:"context"`
	Fixable     bool           `json:"fixable"`
}

// HasTag reports whether the finding carries the given tag.
func (f *Finding) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AnalysisPass identifies one of the analyzer's heuristic passes.
type AnalysisPass string

const (
	PassPerformance AnalysisPass = "performance"
	PassSecurity    AnalysisPass = "security"
	PassStyle       AnalysisPass = "style"
	PassComplexity  AnalysisPass = "complexity"
)

// AllPasses lists every analysis pass in execution order.
func AllPasses() []AnalysisPass {
	return []AnalysisPass{PassPerformance, PassSecurity, PassStyle, PassComplexity}
}

// AnalysisResult aggregates the findings of one analyzer pass over one run,
// together with derived numeric metrics. Results are append-only history.
type AnalysisResult struct {
	ID         string             `json:"id"`
	Tenant     string             `json:"tenant"`
	Pass       AnalysisPass       `json:"pass" validate:"oneof=performance security style complexity"`
	CommitSHA  string             `json:"commit_sha,omitempty"`
	Findings   []Finding          `json:"findings"`
	Metrics    map[string]float64 `json:"metrics"`
	Confidence float64            `json:"confidence" validate:"gte=0,lte=1"`
	Severity   Impact             `json:"severity"`
	Errors     []string           `json:"errors,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}
