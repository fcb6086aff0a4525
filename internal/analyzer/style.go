package analyzer

import (
	"regexp"
	"strings"

	"github.com/sevigo/evo-warden/internal/core"
)

const styleCertainty = 0.85

var (
	identDecl  = regexp.MustCompile(`\b(?:let|const|var|function|func)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	snakeIdent = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)+$`)
	camelIdent = regexp.MustCompile(`^[a-z][a-z0-9]*(?:[A-Z][a-z0-9]*)+$`)
)

// styleFindings flags snake_case identifiers declared in a file whose naming
// is predominantly camelCase. Always trivial effort and fixable.
func styleFindings(file, content string, newID func() string) []core.Finding {
	var snake, camel []struct {
		name string
		line int
	}

	for i, line := range strings.Split(content, "\n") {
		for _, m := range identDecl.FindAllStringSubmatch(line, -1) {
			name := m[1]
			switch {
			case snakeIdent.MatchString(name):
				snake = append(snake, struct {
					name string
					line int
				}{name, i + 1})
			case camelIdent.MatchString(name):
				camel = append(camel, struct {
					name string
					line int
				}{name, i + 1})
			}
		}
	}

	// A file that is mostly snake_case has a consistent convention; only a
	// minority of snake identifiers in a camelCase file is a violation.
	if len(snake) == 0 || len(snake) >= len(camel) {
		return nil
	}

	lines := strings.Split(content, "\n")
	findings := make([]core.Finding, 0, len(snake))
	for _, s := range snake {
		findings = append(findings, core.Finding{
			ID:          newID(),
			Type:        core.FindingStyle,
			File:        file,
			Line:        s.line,
			Description: "Identifier " + s.name + " mixes snake_case into a camelCase file",
			Impact:      core.ImpactLow,
			Effort:      core.EffortTrivial,
			Tags:        []string{"naming"},
			Context:     contextAround(lines, s.line),
			Fixable:     true,
		})
	}
	return findings
}
