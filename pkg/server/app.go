package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
)

// Runner is a background component tied to the application lifetime.
type Runner interface {
	Run(ctx context.Context)
}

// App owns the HTTP server and background runners and handles
// graceful shutdown on SIGINT/SIGTERM.
type App struct {
	server          *xhttp.Server
	log             *applogger.Logger
	shutdownTimeout time.Duration
	runners         []Runner
}

// New creates an App.
func New(server *xhttp.Server, log *applogger.Logger, shutdownTimeout time.Duration, runners ...Runner) *App {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &App{
		server:          server,
		log:             log,
		shutdownTimeout: shutdownTimeout,
		runners:         runners,
	}
}

// Run starts everything and blocks until a termination signal.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.server.Start(); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, r := range a.runners {
		wg.Add(1)
		go func(r Runner) {
			defer wg.Done()
			r.Run(ctx)
		}(r)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("shutting down")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer stop()

	err := a.server.Stop(shutdownCtx)
	wg.Wait()
	return err
}
