package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orderscope/internal/config"
	"orderscope/internal/eventbus"
	"orderscope/internal/logging"
	"orderscope/internal/storefront"
	"orderscope/internal/telemetry"
	"orderscope/internal/ui"
	"orderscope/internal/ui/handlers"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command line arguments
	var configPath, apiURL, metricsAddr string
	flag.StringVar(&configPath, "config", config.DefaultPath(), "Path to the config file")
	flag.StringVar(&configPath, "c", config.DefaultPath(), "Path to the config file (shorthand)")
	flag.StringVar(&apiURL, "api", "", "Shop API URL, overrides api_url from the config")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. 127.0.0.1:9464")
	flag.Parse()

	// Create event bus; it logs through slog.Default until the file logger exists
	bus := eventbus.New(slog.Default())
	defer bus.Close()

	// Subscribed before the config load so ConfigLoaded is not missed
	eventHandler := handlers.NewEventHandler(slog.Default())
	defer eventHandler.Register(bus)()

	// Load configuration with event bus support
	configSvc := config.NewConfigServiceWithBus(configPath, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}

	// Set up logging; the terminal belongs to the UI
	var logWriter io.Writer = io.Discard
	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
	} else {
		defer logFile.Close()
		logWriter = logFile
	}
	logger := logging.New("orderscope", cfg.LogLevel, logWriter)
	slog.SetDefault(logger)
	logger.Info("config loaded", slog.String("path", configSvc.Path()), slog.String("api_url", cfg.APIURL))

	eventHandler.SetLogger(logger.With(slog.String("component", "history")))

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Config{
		ServiceName:    "orderscope",
		ServiceVersion: version,
		Endpoint:       cfg.Tracing.Endpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		logger.Error("tracing disabled", slog.Any("error", err))
		shutdownTracer = func(context.Context) error { return nil }
	}
	defer func() {
		flushCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Warn("tracer shutdown", slog.Any("error", err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, registry, logger)
		defer srv.Close()
	}

	client, err := storefront.New(storefront.Options{
		Endpoint:     cfg.APIURL,
		AuthToken:    cfg.AuthToken,
		ChannelToken: cfg.ChannelToken,
		LanguageCode: cfg.LanguageCode,
		Timeout:      cfg.RequestTimeout.Std(),
		Logger:       logger.With(slog.String("component", "storefront")),
		Metrics:      storefront.NewMetrics(registry),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// The first page is loaded before the UI starts
	initial, err := storefront.InitialOrders(ctx, client, cfg.PageSize)
	switch {
	case errors.Is(err, storefront.ErrSignInRequired):
		fmt.Fprintln(os.Stderr, "Sign in required: set auth_token in the config or ORDERSCOPE_AUTH_TOKEN.")
		return 2
	case err != nil:
		logger.Error("loading orders failed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Could not load orders from %s: %v\n", cfg.APIURL, err)
		return 1
	}
	logger.Info("orders loaded", slog.Int("count", len(initial.Items)), slog.Int("total", initial.TotalItems))

	uiModel := ui.NewModel(ui.Options{
		Context:   ctx,
		Source:    client,
		Initial:   initial,
		Config:    cfg,
		Publisher: bus,
		Logger:    logger.With(slog.String("component", "ui")),
	})

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Run the UI
	logger.Info("starting UI")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("error running program", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return 1
	}
	logger.Info("UI exited normally")
	return 0
}

// serveMetrics exposes the registry over HTTP in the background
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", slog.Any("error", err))
		}
	}()
	return srv
}
