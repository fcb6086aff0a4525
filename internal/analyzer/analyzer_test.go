package analyzer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/evo-warden/internal/core"
	"github.com/sevigo/evo-warden/mocks"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type staticSHA struct{ sha string }

func (s staticSHA) HeadSHA(string) (string, error) { return s.sha, nil }

type staticChanges struct {
	files []string
	err   error
}

func (s staticChanges) ChangedSince(string, string) ([]string, error) { return s.files, s.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAnalyzer(t *testing.T, files core.FileStore, store core.Store, opts ...Option) *Analyzer {
	t.Helper()
	return New(files, store, discardLogger(), opts...)
}

func TestAnalyzePerformancePass(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockFileStore(ctrl)
	store := mocks.NewMockStore(ctrl)

	source := `const items = loadItems();
for (let i = 0; i < items.length; i++) {
  process(items[i]);
}
const rows = db.query("SELECT id FROM events");
`
	files.EXPECT().Read(gomock.Any(), "src/app.js").Return(source, nil)

	a := newTestAnalyzer(t, files, store)
	result, err := a.Analyze(context.Background(), "acme", core.PassPerformance, []string{"src/app.js"})
	require.NoError(t, err)

	require.Len(t, result.Findings, 2)
	loop, query := result.Findings[0], result.Findings[1]
	assert.Equal(t, 2, loop.Line)
	assert.True(t, loop.HasTag("loop"))
	assert.Equal(t, core.ImpactMedium, loop.Impact)
	assert.Equal(t, 5, query.Line)
	assert.True(t, query.HasTag("database"))
	assert.Equal(t, core.ImpactHigh, query.Impact)

	assert.Equal(t, core.ImpactHigh, result.Severity)
	assert.Equal(t, float64(1), result.Metrics["files_scanned"])
	assert.Equal(t, float64(2), result.Metrics["finding_count"])
}

func TestAnalyzeSecurityPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockFileStore(ctrl)
	store := mocks.NewMockStore(ctrl)

	source := `const apiKey = "sk_live_abcdef123456";
const q = "SELECT * FROM users WHERE id = " + userId;
eval(userInput);
`
	files.EXPECT().Read(gomock.Any(), "src/auth.js").Return(source, nil)

	a := newTestAnalyzer(t, files, store)
	result, err := a.Analyze(context.Background(), "acme", core.PassSecurity, []string{"src/auth.js"})
	require.NoError(t, err)

	require.Len(t, result.Findings, 3)
	assert.Equal(t, core.ImpactCritical, result.Severity)

	var evalFinding *core.Finding
	for i := range result.Findings {
		if result.Findings[i].HasTag("dynamic-code") {
			evalFinding = &result.Findings[i]
		}
	}
	require.NotNil(t, evalFinding)
	assert.False(t, evalFinding.Fixable, "dynamic execution has no safe automatic rewrite")
	assert.Equal(t, 3, evalFinding.Line)
}

func TestAnalyzeSkipsUnreadableFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockFileStore(ctrl)
	store := mocks.NewMockStore(ctrl)

	files.EXPECT().Read(gomock.Any(), "src/bad.js").Return("", errors.New("permission denied"))
	files.EXPECT().Read(gomock.Any(), "src/ok.js").Return("const fine = 1;\n", nil)

	a := newTestAnalyzer(t, files, store)
	result, err := a.Analyze(context.Background(), "acme", core.PassPerformance, []string{"src/bad.js", "src/ok.js"})
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "src/bad.js")
	assert.Equal(t, float64(1), result.Metrics["files_scanned"])
	assert.Empty(t, result.Findings)
	assert.InDelta(t, 0.9, result.Confidence, 0.001, "a clean pass reports high confidence")
}

func TestStyleFindings(t *testing.T) {
	t.Run("flags snake_case in a camelCase file", func(t *testing.T) {
		source := `const myValue = 1;
const otherValue = 2;
const third_value = 3;
`
		findings := styleFindings("src/util.js", source, func() string { return "id" })
		require.Len(t, findings, 1)
		assert.Equal(t, 3, findings[0].Line)
		assert.Contains(t, findings[0].Description, "third_value")
		assert.Equal(t, core.EffortTrivial, findings[0].Effort)
	})

	t.Run("a consistently snake_case file is not a violation", func(t *testing.T) {
		source := `const my_value = 1;
const other_value = 2;
const thirdValue = 3;
`
		findings := styleFindings("src/util.py", source, func() string { return "id" })
		assert.Empty(t, findings)
	})
}

func TestComplexityFindings(t *testing.T) {
	branchy := func(branches int) string {
		src := "function messy(a) {\n"
		for range branches {
			src += "  if (a) { a--; }\n"
		}
		src += "}\n"
		return src
	}

	t.Run("flags a function over the threshold", func(t *testing.T) {
		findings := complexityFindings("src/messy.js", branchy(11), 10, func() string { return "id" })
		require.Len(t, findings, 1)
		assert.Equal(t, 1, findings[0].Line)
		assert.Equal(t, core.ImpactMedium, findings[0].Impact)
		assert.Contains(t, findings[0].Description, "messy")
		assert.Contains(t, findings[0].Description, "11")
	})

	t.Run("doubly exceeded threshold raises the impact", func(t *testing.T) {
		findings := complexityFindings("src/messy.js", branchy(25), 10, func() string { return "id" })
		require.Len(t, findings, 1)
		assert.Equal(t, core.ImpactHigh, findings[0].Impact)
	})

	t.Run("a simple function stays silent", func(t *testing.T) {
		findings := complexityFindings("src/tidy.js", branchy(3), 10, func() string { return "id" })
		assert.Empty(t, findings)
	})
}

func TestFilterFiles(t *testing.T) {
	files := []string{
		"src/app.js",
		"node_modules/pkg/index.js",
		"docs/readme.md",
		"src/vendored/min.js",
	}
	cfg := &core.ProjectConfig{
		ExcludeDirs: []string{"node_modules", "vendored"},
		ExcludeExts: []string{"md"},
	}

	kept := FilterFiles(files, cfg)
	assert.Equal(t, []string{"src/app.js"}, kept)

	assert.Equal(t, files, FilterFiles(files, nil), "nil config means no exclusions")
}

func TestPerformFullCodebaseAnalysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockFileStore(ctrl)
	store := mocks.NewMockStore(ctrl)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	files.EXPECT().List(gomock.Any(), "/project").Return([]string{"src/app.js"}, nil)
	files.EXPECT().Read(gomock.Any(), "src/app.js").Return("const fine = 1;\n", nil).Times(4)

	completed := now.Add(-time.Hour)
	store.EXPECT().ListExecutionsBetween(gomock.Any(), "acme", gomock.Any(), gomock.Any()).
		Return([]*core.RefactorExecution{
			{
				ID:          "exec-1",
				CompletedAt: &completed,
				TestResults: &core.TestResults{Coverage: 82.5},
			},
		}, nil)

	var saved []*core.AnalysisResult
	store.EXPECT().SaveAnalysisResult(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *core.AnalysisResult) error {
			saved = append(saved, r)
			return nil
		}).Times(4)

	a := newTestAnalyzer(t, files, store,
		WithClock(fixedClock{now}),
		WithSHAResolver(staticSHA{"abc1234"}),
	)
	results, err := a.PerformFullCodebaseAnalysis(context.Background(), "acme", "/project", nil)
	require.NoError(t, err)

	require.Len(t, results, 4)
	require.Len(t, saved, 4)
	passes := make([]core.AnalysisPass, 0, 4)
	for _, r := range results {
		passes = append(passes, r.Pass)
		assert.Equal(t, "abc1234", r.CommitSHA)
		assert.Equal(t, 82.5, r.Metrics["test_coverage"])
	}
	assert.Equal(t, core.AllPasses(), passes)
}

func TestPerformIncrementalAnalysis(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	expectPinnedSHA := func(store *mocks.MockStore, sha string) {
		store.EXPECT().LatestAnalysisResult(gomock.Any(), "acme", core.PassPerformance).
			Return(&core.AnalysisResult{CommitSHA: sha, CreatedAt: now.Add(-time.Hour)}, nil)
		for _, pass := range []core.AnalysisPass{core.PassSecurity, core.PassStyle, core.PassComplexity} {
			store.EXPECT().LatestAnalysisResult(gomock.Any(), "acme", pass).Return(nil, core.ErrNotFound)
		}
	}
	expectFullRun := func(files *mocks.MockFileStore, store *mocks.MockStore) {
		files.EXPECT().List(gomock.Any(), "/project").Return([]string{"src/app.js"}, nil)
		files.EXPECT().Read(gomock.Any(), "src/app.js").Return("const fine = 1;\n", nil).Times(4)
		store.EXPECT().ListExecutionsBetween(gomock.Any(), "acme", gomock.Any(), gomock.Any()).Return(nil, nil)
		store.EXPECT().SaveAnalysisResult(gomock.Any(), gomock.Any()).Return(nil).Times(4)
	}

	t.Run("analyzes only the changed files", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		files := mocks.NewMockFileStore(ctrl)
		store := mocks.NewMockStore(ctrl)

		expectPinnedSHA(store, "abc1234")
		files.EXPECT().Read(gomock.Any(), "src/changed.js").Return("const fine = 1;\n", nil).Times(4)
		store.EXPECT().ListExecutionsBetween(gomock.Any(), "acme", gomock.Any(), gomock.Any()).Return(nil, nil)

		var saved []*core.AnalysisResult
		store.EXPECT().SaveAnalysisResult(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, r *core.AnalysisResult) error {
				saved = append(saved, r)
				return nil
			}).Times(4)

		a := newTestAnalyzer(t, files, store,
			WithClock(fixedClock{now}),
			WithSHAResolver(staticSHA{"def5678"}),
			WithChangeResolver(staticChanges{files: []string{"src/changed.js"}}),
		)
		results, err := a.PerformIncrementalAnalysis(context.Background(), "acme", "/project", nil)
		require.NoError(t, err)

		require.Len(t, results, 4)
		require.Len(t, saved, 4)
		for _, r := range saved {
			assert.Equal(t, "def5678", r.CommitSHA, "results pin the new HEAD, not the diff base")
			assert.Equal(t, float64(1), r.Metrics["files_scanned"])
		}
	})

	t.Run("a clean diff persists nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		files := mocks.NewMockFileStore(ctrl)
		store := mocks.NewMockStore(ctrl)

		expectPinnedSHA(store, "abc1234")

		a := newTestAnalyzer(t, files, store,
			WithClock(fixedClock{now}),
			WithChangeResolver(staticChanges{}),
		)
		results, err := a.PerformIncrementalAnalysis(context.Background(), "acme", "/project", nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("no pinned revision degrades to a full run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		files := mocks.NewMockFileStore(ctrl)
		store := mocks.NewMockStore(ctrl)

		store.EXPECT().LatestAnalysisResult(gomock.Any(), "acme", gomock.Any()).
			Return(nil, core.ErrNotFound).Times(4)
		expectFullRun(files, store)

		a := newTestAnalyzer(t, files, store,
			WithClock(fixedClock{now}),
			WithChangeResolver(staticChanges{files: []string{"src/changed.js"}}),
		)
		results, err := a.PerformIncrementalAnalysis(context.Background(), "acme", "/project", nil)
		require.NoError(t, err)
		assert.Len(t, results, 4)
	})

	t.Run("a diff failure degrades to a full run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		files := mocks.NewMockFileStore(ctrl)
		store := mocks.NewMockStore(ctrl)

		expectPinnedSHA(store, "abc1234")
		expectFullRun(files, store)

		a := newTestAnalyzer(t, files, store,
			WithClock(fixedClock{now}),
			WithChangeResolver(staticChanges{err: errors.New("unknown revision")}),
		)
		results, err := a.PerformIncrementalAnalysis(context.Background(), "acme", "/project", nil)
		require.NoError(t, err)
		assert.Len(t, results, 4)
	})
}

func TestPerformFullCodebaseAnalysisListingFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockFileStore(ctrl)
	store := mocks.NewMockStore(ctrl)

	files.EXPECT().List(gomock.Any(), "/project").Return(nil, errors.New("no such directory"))

	a := newTestAnalyzer(t, files, store)
	_, err := a.PerformFullCodebaseAnalysis(context.Background(), "acme", "/project", nil)
	assert.ErrorContains(t, err, "failed to list project files")
}
