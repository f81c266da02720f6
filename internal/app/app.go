package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Oktaederim/RLT-Berechnung/internal/controllers/restserver"
	"github.com/Oktaederim/RLT-Berechnung/internal/log"
	"github.com/Oktaederim/RLT-Berechnung/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the REST server and blocks until a shutdown signal arrives or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sc, err := a.configProvider.GetServer()
	if err != nil {
		return fmt.Errorf("error loading server configuration: %w", err)
	}

	ctrl, err := restserver.NewController(ctx, &wg, a.configProvider, *sc, a.logger)
	if err != nil {
		return err
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	log.Infow("application started", "addr", ctrl.Server.Addr, "presets", len(ctrl.Presets), "session_ttl", ctrl.SessionTTL)

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
