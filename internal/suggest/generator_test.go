package suggest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/evo-warden/internal/core"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type stubReasoner struct {
	text string
	err  error
}

func (r stubReasoner) EnrichReasoning(context.Context, *core.Suggestion, []core.Finding) (string, error) {
	return r.text, r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("sug-%d", n)
	}
}

func perfFinding(tag string, impact core.Impact, line int) core.Finding {
	return core.Finding{
		ID:          "f-" + tag,
		Type:        core.FindingPerformance,
		File:        "src/app.js",
		Line:        line,
		Description: "slow " + tag,
		Impact:      impact,
		Effort:      core.EffortEasy,
		Tags:        []string{tag},
		Fixable:     true,
	}
}

func TestGenerateForResult(t *testing.T) {
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	g := NewGenerator(discardLogger(), WithClock(fixedClock{now}), WithIDGenerator(sequentialIDs()))

	result := &core.AnalysisResult{
		ID:     "result-1",
		Tenant: "acme",
		Pass:   core.PassPerformance,
		Findings: []core.Finding{
			perfFinding("database", core.ImpactHigh, 5),
			perfFinding("loop", core.ImpactMedium, 2),
		},
	}

	suggestions := g.GenerateForResult(context.Background(), result, nil, false)
	require.Len(t, suggestions, 2)

	// Family order inside a file is fixed: data access first, then loops.
	assert.Equal(t, core.SuggestOptimizeQuery, suggestions[0].Type)
	assert.Equal(t, core.SuggestOptimizeLoop, suggestions[1].Type)
	for _, s := range suggestions {
		assert.Equal(t, "acme", s.Tenant)
		assert.Equal(t, "result-1", s.AnalysisID)
		assert.Equal(t, core.SuggestionPending, s.Status)
		assert.Equal(t, now, s.CreatedAt)
	}
	assert.Equal(t, core.PriorityHigh, suggestions[0].Priority)
	assert.Equal(t, core.PriorityMedium, suggestions[1].Priority)
}

func TestGenerateSecuritySuggestions(t *testing.T) {
	g := NewGenerator(discardLogger(), WithIDGenerator(sequentialIDs()))

	findings := []core.Finding{
		{
			Type:        core.FindingSecurity,
			File:        "src/auth.js",
			Line:        3,
			Description: "Dynamic code execution",
			Impact:      core.ImpactCritical,
			Tags:        []string{"dynamic-code"},
			Fixable:     false,
		},
		{
			Type:        core.FindingSecurity,
			File:        "src/auth.js",
			Line:        1,
			Description: "Hardcoded credential",
			Impact:      core.ImpactHigh,
			Tags:        []string{"secrets"},
			Fixable:     true,
		},
	}

	suggestions := g.GenerateSecuritySuggestions("src/auth.js", "", findings)
	require.Len(t, suggestions, 1)
	s := suggestions[0]

	assert.Equal(t, core.SuggestSecurityFix, s.Type)
	assert.Equal(t, core.PriorityCritical, s.Priority)
	assert.Equal(t, core.AutomationManual, s.AutomationLevel, "an un-fixable finding forces manual handling")
	assert.Contains(t, s.Description, "1 related finding")
	assert.Contains(t, s.Reasoning, "line 3")
	assert.Contains(t, s.Reasoning, "line 1")
}

func TestGenerateStyleSuggestions(t *testing.T) {
	g := NewGenerator(discardLogger(), WithIDGenerator(sequentialIDs()))

	content := "const user_name = load();\nsend(user_name);\n"
	findings := []core.Finding{{
		Type:        core.FindingStyle,
		File:        "src/util.js",
		Line:        1,
		Description: "Identifier user_name mixes snake_case into a camelCase file",
		Impact:      core.ImpactLow,
		Effort:      core.EffortTrivial,
		Tags:        []string{"naming"},
		Fixable:     true,
	}}

	t.Run("with content the rewrite is mechanical", func(t *testing.T) {
		suggestions := g.GenerateStyleSuggestions("src/util.js", content, findings)
		require.Len(t, suggestions, 1)
		s := suggestions[0]

		assert.Equal(t, core.AutomationAutomatic, s.AutomationLevel)
		require.Len(t, s.Implementation.Changes, 1)
		change := s.Implementation.Changes[0]
		assert.Equal(t, core.OpUpdate, change.Operation)
		assert.Equal(t, content, change.OldContent)
		assert.Equal(t, "const userName = load();\nsend(userName);\n", change.NewContent)
	})

	t.Run("without content the suggestion degrades to assisted", func(t *testing.T) {
		suggestions := g.GenerateStyleSuggestions("src/util.js", "", findings)
		require.Len(t, suggestions, 1)
		s := suggestions[0]

		assert.Equal(t, core.AutomationAssisted, s.AutomationLevel)
		assert.Empty(t, s.Implementation.Changes)
	})
}

func TestGenerateComplexitySuggestions(t *testing.T) {
	g := NewGenerator(discardLogger(), WithIDGenerator(sequentialIDs()))

	findings := []core.Finding{{
		Type:        core.FindingCodeSmell,
		File:        "src/messy.js",
		Line:        1,
		Description: "Function messy has an estimated complexity of 14 (threshold 10)",
		Impact:      core.ImpactMedium,
		Tags:        []string{"complexity"},
		Fixable:     true,
	}}

	suggestions := g.GenerateComplexitySuggestions("src/messy.js", "", findings)
	require.Len(t, suggestions, 1)
	assert.Equal(t, core.SuggestReduceComplexity, suggestions[0].Type)
	assert.Equal(t, core.AutomationAssisted, suggestions[0].AutomationLevel,
		"restructuring never gets a mechanical rewrite")

	assert.Empty(t, g.GenerateComplexitySuggestions("src/messy.js", "", nil))
}

func TestConfidencePenalty(t *testing.T) {
	single := confidence([]core.Finding{perfFinding("loop", core.ImpactMedium, 2)})
	pair := confidence([]core.Finding{
		perfFinding("loop", core.ImpactMedium, 2),
		perfFinding("loop", core.ImpactMedium, 9),
	})

	assert.InDelta(t, pair-0.1, single, 0.001, "a lone finding pays a corroboration penalty")
	assert.Zero(t, confidence(nil))
}

func TestReasonerEnrichment(t *testing.T) {
	result := &core.AnalysisResult{
		ID:       "result-1",
		Tenant:   "acme",
		Pass:     core.PassPerformance,
		Findings: []core.Finding{perfFinding("loop", core.ImpactMedium, 2)},
	}

	t.Run("replaces the heuristic reasoning on success", func(t *testing.T) {
		g := NewGenerator(discardLogger(),
			WithIDGenerator(sequentialIDs()),
			WithReasoner(stubReasoner{text: "iterator methods avoid manual index bookkeeping"}))

		suggestions := g.GenerateForResult(context.Background(), result, nil, true)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "iterator methods avoid manual index bookkeeping", suggestions[0].Reasoning)
	})

	t.Run("keeps the heuristic reasoning on failure", func(t *testing.T) {
		g := NewGenerator(discardLogger(),
			WithIDGenerator(sequentialIDs()),
			WithReasoner(stubReasoner{err: errors.New("model unavailable")}))

		suggestions := g.GenerateForResult(context.Background(), result, nil, true)
		require.Len(t, suggestions, 1)
		assert.Contains(t, suggestions[0].Reasoning, "Derived from 1 finding(s)")
	})

	t.Run("stays heuristic when the tenant has enrichment off", func(t *testing.T) {
		g := NewGenerator(discardLogger(),
			WithIDGenerator(sequentialIDs()),
			WithReasoner(stubReasoner{text: "must not appear"}))

		suggestions := g.GenerateForResult(context.Background(), result, nil, false)
		require.Len(t, suggestions, 1)
		assert.Contains(t, suggestions[0].Reasoning, "Derived from 1 finding(s)",
			"a configured reasoner is not consulted for tenants with the flag off")
	})
}

func TestRenameSnakeIdentifiers(t *testing.T) {
	findings := []core.Finding{{
		Type:        core.FindingStyle,
		Description: "Identifier user_name mixes snake_case into a camelCase file",
	}}

	t.Run("renames only flagged identifiers", func(t *testing.T) {
		content := "const user_name = 1;\nconst other_name = 2;\n"
		rewritten, changed := renameSnakeIdentifiers(content, findings)

		assert.True(t, changed)
		assert.Contains(t, rewritten, "userName")
		assert.Contains(t, rewritten, "other_name", "unflagged identifiers stay untouched")
	})

	t.Run("reports no change when nothing matches", func(t *testing.T) {
		content := "const alreadyCamel = 1;\n"
		rewritten, changed := renameSnakeIdentifiers(content, findings)

		assert.False(t, changed)
		assert.Equal(t, content, rewritten)
	})

	t.Run("multi-segment names collapse fully", func(t *testing.T) {
		assert.Equal(t, "maxRetryCount", snakeToCamel("max_retry_count"))
	})
}
