// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/sevigo/evo-warden/internal/app"
	"github.com/sevigo/evo-warden/internal/config"
	"github.com/sevigo/evo-warden/internal/db"
	"github.com/sevigo/evo-warden/internal/gitutil"
	"github.com/sevigo/evo-warden/internal/jobs"
	"github.com/sevigo/evo-warden/internal/metrics"
	"github.com/sevigo/evo-warden/internal/server"
	"github.com/sevigo/evo-warden/internal/storage"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	loggerConfig := provideLoggerConfig(cfg)
	logWriter := provideLogWriter(cfg)
	slogLogger := provideSlogLogger(loggerConfig, logWriter)

	// Database (migrations run during connect)
	dbConfig := provideDBConfig(cfg)
	dbConn, dbCleanup, err := db.NewDatabase(dbConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Storage
	store := storage.NewStore(dbConn.DB)

	// Metrics registry and event recorder
	promMetrics := metrics.New()
	events := provideEventRecorder(dbConn, promMetrics, slogLogger)

	// Project file access
	files, err := provideFileStore(cfg)
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to open project root: %w", err)
	}

	// Git Client
	gitClient := gitutil.NewClient(slogLogger)

	// Analyzer
	codeAnalyzer := provideAnalyzer(files, store, gitClient, slogLogger)

	// Suggestion generator (LLM reasoner optional)
	generator, err := provideGenerator(ctx, cfg, slogLogger)
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to create suggestion generator: %w", err)
	}

	// Test runner and refactor executor
	runner := provideTestRunner(slogLogger)
	executor := provideExecutor(store, files, runner, events, cfg, slogLogger)

	// Notifier (nil without a GitHub token)
	notifier := provideNotifier(ctx, cfg, slogLogger)

	// Canary controller
	collector := provideCollector(slogLogger)
	canaryController := provideCanaryController(store, collector, events, notifier, slogLogger)

	// Evolution orchestrator and background loop
	orchestrator := provideOrchestrator(store, events, codeAnalyzer, generator, executor, canaryController, files, notifier, cfg, slogLogger)
	loop := provideLoop(orchestrator, cfg, slogLogger)

	// Dispatcher
	dispatcher := jobs.NewDispatcher(provideMaxWorkers(cfg), slogLogger)

	// Server
	srv := server.NewServer(provideServerDeps(cfg, store, orchestrator, executor, canaryController, dispatcher, promMetrics, slogLogger))

	// App
	application := app.NewApp(cfg, srv, loop, dispatcher, slogLogger)

	cleanup := func() {
		dbCleanup()
	}

	return application, cleanup, nil
}
