// Package main initializes and starts the ReportKeeper HTTP server,
// setting up configuration, logging, storage, metrics, services, handlers,
// and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/ReportKeeper/internal/config"
	"github.com/atinyakov/ReportKeeper/internal/generate"
	"github.com/atinyakov/ReportKeeper/internal/logger"
	"github.com/atinyakov/ReportKeeper/internal/metrics"
	"github.com/atinyakov/ReportKeeper/internal/reports"
	"github.com/atinyakov/ReportKeeper/internal/server/handler/http"
	"github.com/atinyakov/ReportKeeper/internal/service"
	"github.com/atinyakov/ReportKeeper/internal/session"
	"github.com/atinyakov/ReportKeeper/internal/storage"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, options *config.Options, zapLogger *zap.Logger) error {
	// Open the storage backend holding the report collection.
	backend, err := storage.Open(storage.Kind(options.StorageKind), options.StorageDSN)
	if err != nil {
		return fmt.Errorf("cannot open storage: %w", err)
	}
	defer func() { _ = backend.Close() }()

	// Register Prometheus instruments.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(reg)

	store, err := reports.New(ctx, backend, zapLogger, reports.WithObserver(collector))
	if err != nil {
		return fmt.Errorf("cannot load reports: %w", err)
	}

	// Initialize business-logic services.
	sess := session.New()
	authService := service.NewAuthService(sess, zapLogger, collector)
	reportService := service.NewReportService(store, sess, newGenerator(options, zapLogger), zapLogger, collector)

	// Create HTTP handlers for auth and report endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	reportHandler := &http.ReportHandler{ReportService: reportService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, reportHandler, sess, zapLogger, metrics.Handler(reg))

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if options.TLSCert != "" && options.TLSKey != "" {
			zapLogger.Info("starting HTTPS server", zap.String("addr", options.Addr))
			err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
		} else {
			zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
			err = server.ListenAndServe()
		}
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newGenerator picks the content source: a local fixture when configured,
// otherwise the HTTP endpoint. Without either, generation always fails.
func newGenerator(options *config.Options, zapLogger *zap.Logger) generate.Client {
	switch {
	case options.GeneratorFixture != "":
		zapLogger.Info("serving generation from fixture", zap.String("path", options.GeneratorFixture))
		return generate.NewFixtureClient(options.GeneratorFixture)
	case options.GeneratorURL != "":
		c := generate.NewHTTPClient(options.GeneratorURL, options.GeneratorModel, &nethttp.Client{Timeout: 30 * time.Second})
		c.Token = options.GeneratorToken
		return c
	default:
		zapLogger.Warn("no generator configured, generation requests will fail")
		return nil
	}
}
