package analyzer

import (
	"regexp"

	"github.com/sevigo/evo-warden/internal/core"
)

// pattern is one line-oriented heuristic. Certainty expresses how often a
// match is a real issue, not a statistical measure.
type pattern struct {
	name        string
	re          *regexp.Regexp
	findingType core.FindingType
	impact      core.Impact
	effort      core.Effort
	tags        []string
	description string
	fixable     bool
	certainty   float64
}

// Performance pass: index loops over collections, unguarded data-access
// calls, and imports of known heavy libraries.
var performancePatterns = []pattern{
	{
		name:        "index-loop",
		re:          regexp.MustCompile(`for\s*\(.*\.length`),
		findingType: core.FindingPerformance,
		impact:      core.ImpactMedium,
		effort:      core.EffortEasy,
		tags:        []string{"loop"},
		description: "Index loop over a collection; prefer an iterator or bulk operation",
		fixable:     true,
		certainty:   0.7,
	},
	{
		name:        "sync-db-call",
		re:          regexp.MustCompile(`\b(?:db|database|client|prisma|knex)\.(?:query|raw|execute|findMany|findAll)\s*\(`),
		findingType: core.FindingPerformance,
		impact:      core.ImpactHigh,
		effort:      core.EffortMedium,
		tags:        []string{"database"},
		description: "Unguarded data-access call on a hot path; batch or guard it",
		fixable:     true,
		certainty:   0.6,
	},
	{
		name:        "heavy-import",
		re:          regexp.MustCompile(`(?:require\(|from\s+)['"](?:lodash|moment|rxjs)['"]`),
		findingType: core.FindingPerformance,
		impact:      core.ImpactMedium,
		effort:      core.EffortEasy,
		tags:        []string{"bundle"},
		description: "Import of a known heavy library inflates the bundle",
		fixable:     true,
		certainty:   0.9,
	},
}

// Security pass: interpolated query construction, literal-looking secrets,
// and dynamic code execution. Dynamic execution has no safe automatic
// rewrite, so it is never fixable.
var securityPatterns = []pattern{
	{
		name:        "sql-injection",
		re:          regexp.MustCompile(`(?i)(?:select|insert|update|delete)\b[^\n]*(?:\$\{|['"]\s*\+)`),
		findingType: core.FindingSecurity,
		impact:      core.ImpactCritical,
		effort:      core.EffortMedium,
		tags:        []string{"sql-injection"},
		description: "Query built by string interpolation; use parameterized queries",
		fixable:     true,
		certainty:   0.75,
	},
	{
		name:        "hardcoded-secret",
		re:          regexp.MustCompile(`(?i)\b(?:api[_-]?key|secret|password|token)\b\s*[:=]\s*['"][A-Za-z0-9+/_\-]{8,}['"]`),
		findingType: core.FindingSecurity,
		impact:      core.ImpactHigh,
		effort:      core.EffortEasy,
		tags:        []string{"hardcoded-secret"},
		description: "Literal-looking secret assignment; move it to configuration",
		fixable:     true,
		certainty:   0.8,
	},
	{
		name:        "dynamic-eval",
		re:          regexp.MustCompile(`\beval\s*\(|new\s+Function\s*\(`),
		findingType: core.FindingSecurity,
		impact:      core.ImpactCritical,
		effort:      core.EffortHard,
		tags:        []string{"dynamic-code"},
		description: "Dynamic code execution; no safe automatic rewrite exists",
		fixable:     false,
		certainty:   0.95,
	},
}

// Certainty mirrors the per-pattern heuristic certainty for a finding so the
// suggestion generator can average them. Unknown findings fall back to 0.5.
func Certainty(f *core.Finding) float64 {
	for _, set := range [][]pattern{performancePatterns, securityPatterns} {
		for _, p := range set {
			if p.findingType == f.Type && f.HasTag(p.tags[0]) {
				return p.certainty
			}
		}
	}
	switch f.Type {
	case core.FindingStyle:
		return styleCertainty
	case core.FindingCodeSmell:
		return complexityCertainty
	}
	return 0.5
}
