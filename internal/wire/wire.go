//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sevigo/evo-warden/internal/app"
	"github.com/sevigo/evo-warden/internal/config"
	"github.com/sevigo/evo-warden/internal/db"
	"github.com/sevigo/evo-warden/internal/gitutil"
	"github.com/sevigo/evo-warden/internal/jobs"
	"github.com/sevigo/evo-warden/internal/metrics"
	"github.com/sevigo/evo-warden/internal/server"
	"github.com/sevigo/evo-warden/internal/storage"
)

func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		app.NewApp,
		server.NewServer,
		config.LoadConfig,
		db.NewDatabase,
		storage.NewStore,
		gitutil.NewClient,
		jobs.NewDispatcher,
		metrics.New,
		provideSlogLogger,
		provideLoggerConfig,
		provideLogWriter,
		provideDBConfig,
		provideFileStore,
		provideEventRecorder,
		provideAnalyzer,
		provideGenerator,
		provideTestRunner,
		provideExecutor,
		provideCollector,
		provideNotifier,
		provideCanaryController,
		provideOrchestrator,
		provideLoop,
		provideServerDeps,
		provideMaxWorkers,
	)
	return &app.App{}, nil, nil
}
