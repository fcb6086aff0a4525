package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sevigo/evo-warden/internal/core"
)

const (
	complexityCertainty = 0.75

	// DefaultComplexityThreshold is the branch count above which a function
	// is flagged. Projects can override it in .evo-warden.yml.
	DefaultComplexityThreshold = 10
)

var (
	funcStart = regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?(?:function\s+(\w+)|func\s+(?:\([^)]*\)\s*)?(\w+)\s*\(|(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s*)?(?:\([^)]*\)|\w+)\s*=>)`)
	branchRe  = regexp.MustCompile(`\b(?:if|for|while|switch|case)\b`)
)

// functionSpan is one detected function body with its branch count.
type functionSpan struct {
	name      string
	startLine int
	branches  int
}

// complexityFindings estimates cyclomatic complexity by counting branching
// constructs per function and flags functions over the threshold.
func complexityFindings(file, content string, threshold int, newID func() string) []core.Finding {
	if threshold <= 0 {
		threshold = DefaultComplexityThreshold
	}

	spans := scanFunctions(content)
	lines := strings.Split(content, "\n")

	var findings []core.Finding
	for _, fn := range spans {
		if fn.branches <= threshold {
			continue
		}
		impact := core.ImpactMedium
		if fn.branches > threshold*2 {
			impact = core.ImpactHigh
		}
		findings = append(findings, core.Finding{
			ID:          newID(),
			Type:        core.FindingCodeSmell,
			File:        file,
			Line:        fn.startLine,
			Description: fmt.Sprintf("Function %s has an estimated complexity of %d (threshold %d)", fn.name, fn.branches, threshold),
			Impact:      impact,
			Effort:      core.EffortHard,
			Tags:        []string{"complexity"},
			Context:     contextAround(lines, fn.startLine),
			Fixable:     true,
		})
	}
	return findings
}

// scanFunctions walks the file line by line, tracking brace depth to bound
// function bodies and counting branch keywords inside them.
func scanFunctions(content string) []functionSpan {
	var spans []functionSpan
	var current *functionSpan
	depth := 0

	for i, line := range strings.Split(content, "\n") {
		if current == nil {
			if m := funcStart.FindStringSubmatch(line); m != nil {
				name := firstNonEmpty(m[1:])
				current = &functionSpan{name: name, startLine: i + 1}
				depth = 0
			}
		}
		if current == nil {
			continue
		}

		current.branches += len(branchRe.FindAllString(line, -1))
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth <= 0 && strings.Contains(line, "}") {
			spans = append(spans, *current)
			current = nil
		}
	}
	if current != nil {
		spans = append(spans, *current)
	}
	return spans
}

func firstNonEmpty(groups []string) string {
	for _, g := range groups {
		if g != "" {
			return g
		}
	}
	return "anonymous"
}
