// Package analyzer scans source files and emits typed findings across four
// heuristic passes: performance, security, style and complexity. The
// heuristics are intentionally approximate; each result carries a confidence
// that expresses heuristic certainty, not a statistical measure.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sevigo/evo-warden/internal/core"
)

// SHAResolver reports the commit the analyzed tree is at, so results can be
// pinned to a revision. Resolution failures are tolerated.
type SHAResolver interface {
	HeadSHA(path string) (string, error)
}

// ChangeResolver reports the files touched between a past commit and HEAD.
// Incremental runs use it to scope the file set.
type ChangeResolver interface {
	ChangedSince(path, sinceSHA string) ([]string, error)
}

// Analyzer runs heuristic passes over a project's files and persists one
// AnalysisResult per pass.
type Analyzer struct {
	files     core.FileStore
	store     core.Store
	sha       SHAResolver
	changes   ChangeResolver
	clock     core.Clock
	logger    *slog.Logger
	threshold int
	newID     func() string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSHAResolver pins analysis results to the project's HEAD commit.
func WithSHAResolver(r SHAResolver) Option {
	return func(a *Analyzer) { a.sha = r }
}

// WithChangeResolver enables incremental runs scoped to changed files.
func WithChangeResolver(r ChangeResolver) Option {
	return func(a *Analyzer) { a.changes = r }
}

// WithClock overrides the wall clock, for tests.
func WithClock(c core.Clock) Option {
	return func(a *Analyzer) { a.clock = c }
}

// WithComplexityThreshold overrides the default branch-count threshold.
func WithComplexityThreshold(n int) Option {
	return func(a *Analyzer) { a.threshold = n }
}

// WithIDGenerator overrides finding/result id generation, for tests.
func WithIDGenerator(f func() string) Option {
	return func(a *Analyzer) { a.newID = f }
}

// New creates an Analyzer over the given file and record stores.
func New(files core.FileStore, store core.Store, logger *slog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		files:     files,
		store:     store,
		clock:     core.SystemClock(),
		logger:    logger,
		threshold: DefaultComplexityThreshold,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs a single pass over the given files and returns the result
// without persisting it. Per-file read failures are recorded in the result's
// error list and the file is skipped; only enumeration failures abort a run.
func (a *Analyzer) Analyze(ctx context.Context, tenant string, pass core.AnalysisPass, files []string) (*core.AnalysisResult, error) {
	result := &core.AnalysisResult{
		ID:        a.newID(),
		Tenant:    tenant,
		Pass:      pass,
		Metrics:   map[string]float64{},
		CreatedAt: a.clock.Now(),
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := a.files.Read(ctx, file)
		if err != nil {
			a.logger.Warn("skipping unreadable file", "pass", pass, "file", file, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file, err))
			continue
		}
		result.Findings = append(result.Findings, a.runPass(pass, file, content)...)
	}

	result.Metrics["files_scanned"] = float64(len(files) - len(result.Errors))
	result.Metrics["finding_count"] = float64(len(result.Findings))
	result.Severity = core.WorstImpact(result.Findings)
	result.Confidence = resultConfidence(result.Findings)
	return result, nil
}

// PerformFullCodebaseAnalysis runs all four passes over the project at root
// and persists each result. A listing failure aborts the whole run. A nil
// project config means no exclusions.
func (a *Analyzer) PerformFullCodebaseAnalysis(ctx context.Context, tenant, root string, cfg *core.ProjectConfig) ([]*core.AnalysisResult, error) {
	files, err := a.files.List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list project files: %w", err)
	}
	files = FilterFiles(files, cfg)
	a.logger.Info("starting full codebase analysis", "tenant", tenant, "files", len(files))
	return a.runPasses(ctx, tenant, root, files)
}

// PerformIncrementalAnalysis analyzes only the files changed since the commit
// the newest persisted result is pinned to. It degrades to a full run without
// a change resolver, a prior revision, or a resolvable diff; a clean diff
// persists nothing.
func (a *Analyzer) PerformIncrementalAnalysis(ctx context.Context, tenant, root string, cfg *core.ProjectConfig) ([]*core.AnalysisResult, error) {
	if a.changes == nil {
		return a.PerformFullCodebaseAnalysis(ctx, tenant, root, cfg)
	}
	sinceSHA := a.lastAnalyzedSHA(ctx, tenant)
	if sinceSHA == "" {
		a.logger.Info("no pinned revision to diff against, running full analysis", "tenant", tenant)
		return a.PerformFullCodebaseAnalysis(ctx, tenant, root, cfg)
	}
	files, err := a.changes.ChangedSince(root, sinceSHA)
	if err != nil {
		a.logger.Warn("failed to resolve changed files, running full analysis", "since", sinceSHA, "error", err)
		return a.PerformFullCodebaseAnalysis(ctx, tenant, root, cfg)
	}
	files = FilterFiles(files, cfg)
	if len(files) == 0 {
		a.logger.Info("no analyzable changes since last run", "tenant", tenant, "since", sinceSHA)
		return nil, nil
	}
	a.logger.Info("starting incremental analysis", "tenant", tenant, "since", sinceSHA, "files", len(files))
	return a.runPasses(ctx, tenant, root, files)
}

// runPasses executes all four passes over the file set and persists each
// result, pinned to HEAD and carrying the latest known coverage.
func (a *Analyzer) runPasses(ctx context.Context, tenant, root string, files []string) ([]*core.AnalysisResult, error) {
	commitSHA := ""
	if a.sha != nil {
		if sha, err := a.sha.HeadSHA(root); err == nil {
			commitSHA = sha
		} else {
			a.logger.Warn("failed to resolve HEAD SHA", "error", err)
		}
	}

	coverage := a.latestCoverage(ctx, tenant)

	results := make([]*core.AnalysisResult, 0, 4)
	for _, pass := range core.AllPasses() {
		result, err := a.Analyze(ctx, tenant, pass, files)
		if err != nil {
			return nil, fmt.Errorf("%s pass failed: %w", pass, err)
		}
		result.CommitSHA = commitSHA
		if coverage >= 0 {
			result.Metrics["test_coverage"] = coverage
		}
		if err := a.store.SaveAnalysisResult(ctx, result); err != nil {
			return nil, fmt.Errorf("failed to persist %s pass result: %w", pass, err)
		}
		a.logger.Info("analysis pass complete",
			"pass", pass,
			"findings", len(result.Findings),
			"severity", result.Severity,
			"errors", len(result.Errors),
		)
		results = append(results, result)
	}
	return results, nil
}

// lastAnalyzedSHA returns the commit the newest persisted result is pinned
// to, or "" when no result carries a revision.
func (a *Analyzer) lastAnalyzedSHA(ctx context.Context, tenant string) string {
	var newest time.Time
	sha := ""
	for _, pass := range core.AllPasses() {
		result, err := a.store.LatestAnalysisResult(ctx, tenant, pass)
		if err != nil || result.CommitSHA == "" {
			continue
		}
		if result.CreatedAt.After(newest) {
			newest = result.CreatedAt
			sha = result.CommitSHA
		}
	}
	return sha
}

func (a *Analyzer) runPass(pass core.AnalysisPass, file, content string) []core.Finding {
	switch pass {
	case core.PassPerformance:
		return a.matchPatterns(file, content, performancePatterns)
	case core.PassSecurity:
		return a.matchPatterns(file, content, securityPatterns)
	case core.PassStyle:
		return styleFindings(file, content, a.newID)
	case core.PassComplexity:
		return complexityFindings(file, content, a.threshold, a.newID)
	}
	return nil
}

func (a *Analyzer) matchPatterns(file, content string, patterns []pattern) []core.Finding {
	lines := strings.Split(content, "\n")
	var findings []core.Finding
	for i, line := range lines {
		for _, p := range patterns {
			if !p.re.MatchString(line) {
				continue
			}
			findings = append(findings, core.Finding{
				ID:          a.newID(),
				Type:        p.findingType,
				File:        file,
				Line:        i + 1,
				Description: p.description,
				Impact:      p.impact,
				Effort:      p.effort,
				Tags:        append([]string(nil), p.tags...),
				Context:     contextAround(lines, i+1),
				Fixable:     p.fixable,
			})
		}
	}
	return findings
}

// latestCoverage pulls the most recent test coverage figure from execution
// history. Returns -1 when no execution has reported coverage yet.
func (a *Analyzer) latestCoverage(ctx context.Context, tenant string) float64 {
	since := a.clock.Now().Add(-30 * 24 * time.Hour)
	executions, err := a.store.ListExecutionsBetween(ctx, tenant, since, a.clock.Now())
	if err != nil {
		a.logger.Warn("failed to load execution history for coverage", "error", err)
		return -1
	}
	coverage := -1.0
	var latest time.Time
	for _, e := range executions {
		if e.TestResults == nil || e.CompletedAt == nil {
			continue
		}
		if e.CompletedAt.After(latest) {
			latest = *e.CompletedAt
			coverage = e.TestResults.Coverage
		}
	}
	return coverage
}

// resultConfidence averages the per-finding heuristic certainties. A clean
// pass is reported with high confidence.
func resultConfidence(findings []core.Finding) float64 {
	if len(findings) == 0 {
		return 0.9
	}
	sum := 0.0
	for i := range findings {
		sum += Certainty(&findings[i])
	}
	return sum / float64(len(findings))
}

// contextAround captures the finding's line and two lines either side.
func contextAround(lines []string, line int) core.FindingContext {
	idx := line - 1
	if idx < 0 || idx >= len(lines) {
		return core.FindingContext{}
	}
	start := max(0, idx-2)
	end := min(len(lines), idx+3)
	return core.FindingContext{
		BeforeCode:      strings.TrimSpace(lines[idx]),
		SurroundingCode: strings.Join(lines[start:end], "\n"),
	}
}

// FilterFiles applies a project config's exclusions to a file list.
func FilterFiles(files []string, cfg *core.ProjectConfig) []string {
	if cfg == nil || (len(cfg.ExcludeDirs) == 0 && len(cfg.ExcludeExts) == 0) {
		return files
	}
	exts := make(map[string]struct{}, len(cfg.ExcludeExts))
	for _, e := range cfg.ExcludeExts {
		exts["."+strings.TrimPrefix(strings.ToLower(e), ".")] = struct{}{}
	}
	dirs := make(map[string]struct{}, len(cfg.ExcludeDirs))
	for _, d := range cfg.ExcludeDirs {
		dirs[d] = struct{}{}
	}

	kept := files[:0:0]
	for _, f := range files {
		if _, ok := exts[strings.ToLower(filepath.Ext(f))]; ok {
			continue
		}
		excluded := false
		for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(f)), "/") {
			if _, ok := dirs[part]; ok {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, f)
		}
	}
	return kept
}
