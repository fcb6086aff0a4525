// Package app initializes and orchestrates the main components of the
// evo-warden service: the evolution loop, the worker pool, and the ops HTTP
// server.
package app

import (
	"context"
	"log/slog"

	"github.com/sevigo/evo-warden/internal/config"
	"github.com/sevigo/evo-warden/internal/evolution"
	"github.com/sevigo/evo-warden/internal/jobs"
	"github.com/sevigo/evo-warden/internal/server"
)

// App holds the main application components.
type App struct {
	cfg        *config.Config
	server     *server.Server
	loop       *evolution.Loop
	dispatcher jobs.Dispatcher
	logger     *slog.Logger
	cancelLoop context.CancelFunc
}

// NewApp assembles the application from its wired components.
func NewApp(cfg *config.Config, srv *server.Server, loop *evolution.Loop, dispatcher jobs.Dispatcher, logger *slog.Logger) *App {
	return &App{
		cfg:        cfg,
		server:     srv,
		loop:       loop,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start launches the evolution loop and blocks serving HTTP until shutdown.
func (a *App) Start() error {
	a.logger.Info("starting evo-warden",
		"tenant", a.cfg.Evolution.Tenant,
		"project_root", a.cfg.Evolution.ProjectRoot,
		"server_port", a.cfg.Server.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelLoop = cancel
	a.loop.Start(ctx)

	return a.server.Start()
}

// Stop shuts down the application cleanly: the HTTP server first to stop new
// requests, then the loop and the worker pool.
func (a *App) Stop() error {
	a.logger.Info("shutting down evo-warden services")

	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	if a.cancelLoop != nil {
		a.cancelLoop()
		a.loop.Wait()
	}
	a.dispatcher.Stop()

	if serverErr != nil {
		a.logger.Error("evo-warden stopped with errors", "error", serverErr)
		return serverErr
	}
	a.logger.Info("evo-warden stopped successfully")
	return nil
}
