// Package server wires the clinic service to its gRPC endpoint and the
// optional metrics endpoint, and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/adhamfakhereldeen/Cyber/internal/audit"
	"github.com/adhamfakhereldeen/Cyber/internal/backup"
	"github.com/adhamfakhereldeen/Cyber/internal/clinic"
	"github.com/adhamfakhereldeen/Cyber/internal/config"
	"github.com/adhamfakhereldeen/Cyber/internal/logging"
	"github.com/adhamfakhereldeen/Cyber/internal/server/metrics"
	"github.com/adhamfakhereldeen/Cyber/internal/storage/backend"

	gs "github.com/adhamfakhereldeen/Cyber/internal/server/grpc"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	clinic  *clinic.Service
	metrics *metrics.Metrics
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	gw, err := backend.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	recorder := audit.NewFileRecorder(c.AuditLogPath, logger)
	exporter := backup.NewExporter(backup.Options{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
	})

	svc, err := clinic.NewService(gw, recorder, exporter, logger, clinic.OptionsFromConfig(c))
	if err != nil {
		_ = gw.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, clinic: svc, metrics: metrics.New()}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.clinic, app.logger, gs.Options{
		Address:        app.config.EndpointAddrGRPC,
		SecretKey:      app.config.SecretKey,
		TokenTTL:       app.config.AccessTokenValidityDuration,
		LoginRateLimit: app.config.LoginRateLimit,
		LoginRateBurst: app.config.LoginRateBurst,
		Metrics:        app.metrics,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.metrics.Handler())
	srv := &http.Server{Addr: app.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run loads the state, serves until a signal arrives or ctx ends, then
// saves and closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.clinic.Start(ctx); err != nil {
		return err
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	// ctx is done by now
	final := context.Background()
	saveErr := app.clinic.Save(final)
	if err := app.clinic.Close(); err != nil {
		app.logger.Warn(final, "failed to close storage", "error", err)
	}
	app.logger.Info(final, "Stopped")
	return saveErr
}
