// Package server wires the stub review service: it seeds the in-memory store,
// serves the review API over HTTP and shuts down gracefully on signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/docreview/internal/logging"
	"github.com/dmitrijs2005/docreview/internal/server/api"
	"github.com/dmitrijs2005/docreview/internal/server/config"
	"github.com/dmitrijs2005/docreview/internal/server/store"
	"github.com/dmitrijs2005/docreview/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       *store.Store
	userService *users.Service
}

func NewApp(c *config.Config) (*App, error) {
	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	st := store.New()
	if err := st.LoadFile(context.Background(), c.SeedFile); err != nil {
		return nil, fmt.Errorf("seed load error: %w", err)
	}

	us := users.NewService(st, c)

	return &App{config: c, logger: logger, store: st, userService: us}, nil
}

// Handler returns the fully wired HTTP handler.
func (app *App) Handler() http.Handler {
	h := api.NewHandler(app.store, app.userService, app.logger)
	return api.NewRouter(h, app.config.StaticDir)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "listening", "addr", app.config.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "stopped")
}
