package wire

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/sevigo/evo-warden/internal/analyzer"
	"github.com/sevigo/evo-warden/internal/canary"
	"github.com/sevigo/evo-warden/internal/config"
	"github.com/sevigo/evo-warden/internal/core"
	"github.com/sevigo/evo-warden/internal/db"
	"github.com/sevigo/evo-warden/internal/evolution"
	"github.com/sevigo/evo-warden/internal/fileops"
	"github.com/sevigo/evo-warden/internal/gitutil"
	"github.com/sevigo/evo-warden/internal/jobs"
	"github.com/sevigo/evo-warden/internal/llm"
	"github.com/sevigo/evo-warden/internal/logger"
	"github.com/sevigo/evo-warden/internal/metrics"
	"github.com/sevigo/evo-warden/internal/notify"
	"github.com/sevigo/evo-warden/internal/refactor"
	"github.com/sevigo/evo-warden/internal/server"
	"github.com/sevigo/evo-warden/internal/storage"
	"github.com/sevigo/evo-warden/internal/suggest"
	"github.com/sevigo/evo-warden/internal/testrunner"
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stderr":
		return os.Stderr
	case "file":
		f, _ := os.OpenFile("evo-warden.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		return f
	default:
		return os.Stdout
	}
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return &cfg.Database
}

func provideFileStore(cfg *config.Config) (*fileops.Local, error) {
	return fileops.NewLocal(cfg.Evolution.ProjectRoot)
}

func provideEventRecorder(dbConn *db.DB, m *metrics.Metrics, slogLogger *slog.Logger) core.EventRecorder {
	return metrics.NewRecorder(storage.NewEventRecorder(dbConn.DB, slogLogger), m)
}

func provideAnalyzer(files *fileops.Local, store core.Store, git *gitutil.Client, slogLogger *slog.Logger) *analyzer.Analyzer {
	return analyzer.New(files, store, slogLogger,
		analyzer.WithSHAResolver(git),
		analyzer.WithChangeResolver(git),
	)
}

// provideGenerator attaches the LLM reasoner only when a provider is
// configured; the loop is fully functional without one.
func provideGenerator(ctx context.Context, cfg *config.Config, slogLogger *slog.Logger) (*suggest.Generator, error) {
	if cfg.LLM.Provider == "" {
		return suggest.NewGenerator(slogLogger), nil
	}
	model, err := llm.NewGeneratorLLM(ctx, &cfg.LLM, slogLogger)
	if err != nil {
		return nil, err
	}
	return suggest.NewGenerator(slogLogger, suggest.WithReasoner(llm.NewReasoner(model, slogLogger))), nil
}

func provideTestRunner(slogLogger *slog.Logger) *testrunner.Exec {
	return testrunner.NewExec(nil, slogLogger)
}

func provideExecutor(store core.Store, files *fileops.Local, runner *testrunner.Exec, events core.EventRecorder, cfg *config.Config, slogLogger *slog.Logger) *refactor.Executor {
	return refactor.NewExecutor(store, files, runner, events, slogLogger,
		cfg.Evolution.ProjectRoot, cfg.Evolution.BackupRoot,
		refactor.WithDebounce(cfg.Evolution.DebounceWindow),
	)
}

func provideCollector(slogLogger *slog.Logger) canary.MetricsCollector {
	return canary.NewHTTPCollector(nil, slogLogger)
}

// provideNotifier returns nil when no GitHub token is configured; escalation
// is then log-only.
func provideNotifier(ctx context.Context, cfg *config.Config, slogLogger *slog.Logger) core.Notifier {
	if cfg.GitHub.Token == "" || cfg.GitHub.Owner == "" || cfg.GitHub.Repo == "" {
		return nil
	}
	issues := notify.NewPATClient(ctx, cfg.GitHub.Token, slogLogger)
	return notify.NewGitHubNotifier(issues, cfg.GitHub.Owner, cfg.GitHub.Repo, slogLogger)
}

func provideCanaryController(store core.Store, collector canary.MetricsCollector, events core.EventRecorder, notifier core.Notifier, slogLogger *slog.Logger) *canary.Controller {
	opts := []canary.Option{}
	if notifier != nil {
		opts = append(opts, canary.WithNotifier(notifier))
	}
	return canary.NewController(store, collector, events, slogLogger, opts...)
}

func provideOrchestrator(
	store core.Store,
	events core.EventRecorder,
	an *analyzer.Analyzer,
	gen *suggest.Generator,
	exec *refactor.Executor,
	canaries *canary.Controller,
	files *fileops.Local,
	notifier core.Notifier,
	cfg *config.Config,
	slogLogger *slog.Logger,
) *evolution.Orchestrator {
	opts := []evolution.Option{}
	if notifier != nil {
		opts = append(opts, evolution.WithNotifier(notifier))
	}
	return evolution.NewOrchestrator(store, events, an, gen, exec, canaries, files, slogLogger, cfg.Evolution.ProjectRoot, opts...)
}

func provideLoop(orch *evolution.Orchestrator, cfg *config.Config, slogLogger *slog.Logger) *evolution.Loop {
	return evolution.NewLoop(orch, evolution.LoopConfig{
		Tenant:           cfg.Evolution.Tenant,
		AnalysisInterval: cfg.Evolution.AnalysisInterval,
		CanaryInterval:   cfg.Evolution.CanaryInterval,
		MetricsInterval:  cfg.Evolution.MetricsInterval,
	}, slogLogger)
}

func provideMaxWorkers(cfg *config.Config) int {
	return cfg.Evolution.MaxWorkers
}

func provideServerDeps(
	cfg *config.Config,
	store core.Store,
	orch *evolution.Orchestrator,
	exec *refactor.Executor,
	canaries *canary.Controller,
	dispatcher jobs.Dispatcher,
	m *metrics.Metrics,
	slogLogger *slog.Logger,
) server.Deps {
	return server.Deps{
		Config:     cfg,
		Store:      store,
		Orch:       orch,
		Executor:   exec,
		Canaries:   canaries,
		Dispatcher: dispatcher,
		Metrics:    m,
		Logger:     slogLogger,
	}
}
