// Package suggest maps analyzer findings to reviewable suggestions: a
// proposed code change plus priority, confidence and automation level.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/sevigo/evo-warden/internal/analyzer"
	"github.com/sevigo/evo-warden/internal/core"
)

// Reasoner optionally rewrites a suggestion's heuristic reasoning into richer
// prose. Enrichment is best-effort; failures keep the heuristic text.
type Reasoner interface {
	EnrichReasoning(ctx context.Context, s *core.Suggestion, findings []core.Finding) (string, error)
}

// Generator derives suggestions from analysis results.
type Generator struct {
	logger   *slog.Logger
	clock    core.Clock
	reasoner Reasoner
	newID    func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithReasoner enables LLM reasoning enrichment.
func WithReasoner(r Reasoner) Option {
	return func(g *Generator) { g.reasoner = r }
}

// WithClock overrides the wall clock, for tests.
func WithClock(c core.Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// WithIDGenerator overrides suggestion id generation, for tests.
func WithIDGenerator(f func() string) Option {
	return func(g *Generator) { g.newID = f }
}

// NewGenerator creates a suggestion generator.
func NewGenerator(logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		logger: logger,
		clock:  core.SystemClock(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateForResult groups a result's findings per file and dispatches to the
// per-category generators. Content lookup failures only disable mechanical
// rewrites, never the suggestion itself. Reasoning enrichment runs only when
// the caller enables it and a reasoner is configured.
func (g *Generator) GenerateForResult(ctx context.Context, result *core.AnalysisResult, readFile func(string) (string, error), enrichReasoning bool) []core.Suggestion {
	byFile := map[string][]core.Finding{}
	for _, f := range result.Findings {
		byFile[f.File] = append(byFile[f.File], f)
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	var out []core.Suggestion
	for _, file := range files {
		content := ""
		if readFile != nil {
			if c, err := readFile(file); err == nil {
				content = c
			}
		}
		findings := byFile[file]
		var suggestions []core.Suggestion
		switch result.Pass {
		case core.PassPerformance:
			suggestions = g.GeneratePerformanceSuggestions(file, content, findings)
		case core.PassSecurity:
			suggestions = g.GenerateSecuritySuggestions(file, content, findings)
		case core.PassStyle:
			suggestions = g.GenerateStyleSuggestions(file, content, findings)
		case core.PassComplexity:
			suggestions = g.GenerateComplexitySuggestions(file, content, findings)
		}
		for i := range suggestions {
			suggestions[i].Tenant = result.Tenant
			suggestions[i].AnalysisID = result.ID
			if enrichReasoning {
				g.enrich(ctx, &suggestions[i], findings)
			}
		}
		out = append(out, suggestions...)
	}
	return out
}

// GeneratePerformanceSuggestions emits one suggestion per performance concern
// family found in the file: data access, loops, bundle weight.
func (g *Generator) GeneratePerformanceSuggestions(file, _ string, findings []core.Finding) []core.Suggestion {
	families := []struct {
		tag     string
		typ     core.SuggestionType
		title   string
		impact  core.EstimatedImpact
	}{
		{"database", core.SuggestOptimizeQuery, "Optimize data-access calls", core.EstimatedImpact{Performance: 0.8, Maintainability: 0.3}},
		{"loop", core.SuggestOptimizeLoop, "Replace index loops with iterators", core.EstimatedImpact{Performance: 0.5, Readability: 0.4}},
		{"bundle", core.SuggestReduceBundle, "Drop heavy library imports", core.EstimatedImpact{Performance: 0.6, Maintainability: 0.2}},
	}

	var out []core.Suggestion
	for _, fam := range families {
		group := filterByTag(findings, core.FindingPerformance, fam.tag)
		if len(group) == 0 {
			continue
		}
		s := g.newSuggestion(fam.typ, file, group)
		s.Title = fmt.Sprintf("%s in %s", fam.title, file)
		s.EstimatedImpact = fam.impact
		out = append(out, s)
	}
	return out
}

// GenerateSecuritySuggestions emits a single security_fix suggestion covering
// every security finding in the file.
func (g *Generator) GenerateSecuritySuggestions(file, _ string, findings []core.Finding) []core.Suggestion {
	group := filterByType(findings, core.FindingSecurity)
	if len(group) == 0 {
		return nil
	}
	s := g.newSuggestion(core.SuggestSecurityFix, file, group)
	s.Title = fmt.Sprintf("Fix security issues in %s", file)
	s.EstimatedImpact = core.EstimatedImpact{Security: 0.9, Maintainability: 0.2}
	return []core.Suggestion{s}
}

// GenerateStyleSuggestions emits a style_improvement suggestion with a
// mechanical rename when file content is available.
func (g *Generator) GenerateStyleSuggestions(file, content string, findings []core.Finding) []core.Suggestion {
	group := filterByType(findings, core.FindingStyle)
	if len(group) == 0 {
		return nil
	}
	s := g.newSuggestion(core.SuggestStyleImprovement, file, group)
	s.Title = fmt.Sprintf("Align naming convention in %s", file)
	s.EstimatedImpact = core.EstimatedImpact{Readability: 0.7, Maintainability: 0.4}

	if content != "" {
		if rewritten, changed := renameSnakeIdentifiers(content, group); changed {
			s.Implementation.Changes = []core.FileChange{{
				File:       file,
				Operation:  core.OpUpdate,
				OldContent: content,
				NewContent: rewritten,
			}}
			s.Implementation.RollbackPlan = "Restore the previous file content from the execution backup"
			s.AutomationLevel = automationLevel(group, true)
		}
	}
	return []core.Suggestion{s}
}

// GenerateComplexitySuggestions emits a reduce_complexity suggestion per file
// with flagged functions. Restructuring is never mechanical.
func (g *Generator) GenerateComplexitySuggestions(file, _ string, findings []core.Finding) []core.Suggestion {
	group := filterByType(findings, core.FindingCodeSmell)
	if len(group) == 0 {
		return nil
	}
	s := g.newSuggestion(core.SuggestReduceComplexity, file, group)
	s.Title = fmt.Sprintf("Reduce function complexity in %s", file)
	s.EstimatedImpact = core.EstimatedImpact{Maintainability: 0.8, Readability: 0.6}
	return []core.Suggestion{s}
}

// newSuggestion fills the fields every category shares: priority from the
// worst impact, confidence from averaged certainties, automation level from
// the fixability/impact rules.
func (g *Generator) newSuggestion(typ core.SuggestionType, file string, group []core.Finding) core.Suggestion {
	now := g.clock.Now()
	return core.Suggestion{
		ID:              g.newID(),
		Type:            typ,
		Priority:        core.PriorityForImpact(core.WorstImpact(group)),
		Description:     describe(group),
		Files:           []string{file},
		AutomationLevel: automationLevel(group, false),
		Implementation: core.Implementation{
			RollbackPlan: "Revert the change set from the execution backup",
		},
		Confidence: confidence(group),
		Reasoning:  reasoning(group),
		Status:     core.SuggestionPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (g *Generator) enrich(ctx context.Context, s *core.Suggestion, findings []core.Finding) {
	if g.reasoner == nil {
		return
	}
	enriched, err := g.reasoner.EnrichReasoning(ctx, s, findings)
	if err != nil {
		g.logger.Warn("reasoning enrichment failed, keeping heuristic text", "suggestion", s.ID, "error", err)
		return
	}
	if enriched != "" {
		s.Reasoning = enriched
	}
}

// automationLevel applies the mapping rule: anything touching critical impact
// or an un-fixable finding is manual; fixable findings at high impact or
// below are automatic only when a mechanical rewrite exists, assisted
// otherwise.
func automationLevel(group []core.Finding, mechanical bool) core.AutomationLevel {
	for _, f := range group {
		if !f.Fixable || f.Impact == core.ImpactCritical {
			return core.AutomationManual
		}
	}
	if mechanical {
		return core.AutomationAutomatic
	}
	return core.AutomationAssisted
}

// confidence averages the contributing certainties and applies a penalty when
// fewer than two corroborating findings exist.
func confidence(group []core.Finding) float64 {
	if len(group) == 0 {
		return 0
	}
	sum := 0.0
	for i := range group {
		sum += analyzer.Certainty(&group[i])
	}
	c := sum / float64(len(group))
	if len(group) < 2 {
		c -= 0.1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func describe(group []core.Finding) string {
	if len(group) == 1 {
		return group[0].Description
	}
	return fmt.Sprintf("%s (and %d related findings)", group[0].Description, len(group)-1)
}

func reasoning(group []core.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Derived from %d finding(s):", len(group))
	for _, f := range group {
		fmt.Fprintf(&b, "\n- line %d: %s [%s]", f.Line, f.Description, f.Impact)
	}
	return b.String()
}

func filterByType(findings []core.Finding, t core.FindingType) []core.Finding {
	var out []core.Finding
	for _, f := range findings {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

func filterByTag(findings []core.Finding, t core.FindingType, tag string) []core.Finding {
	var out []core.Finding
	for _, f := range findings {
		if f.Type == t && f.HasTag(tag) {
			out = append(out, f)
		}
	}
	return out
}
