package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codex-k8s/stripe-mcp-server/configs"
	"github.com/codex-k8s/stripe-mcp-server/internal/app"
	"github.com/codex-k8s/stripe-mcp-server/internal/audit"
	"github.com/codex-k8s/stripe-mcp-server/internal/catalog"
	"github.com/codex-k8s/stripe-mcp-server/internal/config"
	"github.com/codex-k8s/stripe-mcp-server/internal/constants"
	"github.com/codex-k8s/stripe-mcp-server/internal/log"
	"github.com/codex-k8s/stripe-mcp-server/internal/observe"
	"github.com/codex-k8s/stripe-mcp-server/internal/runtime"
	"github.com/codex-k8s/stripe-mcp-server/internal/security"
	"github.com/codex-k8s/stripe-mcp-server/internal/stripe"
	"github.com/codex-k8s/stripe-mcp-server/internal/templates"
)

func main() {
	embeddedConfig := flag.String("embedded-config", configs.CatalogFile, "Embedded tool catalog from configs/ (filename)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.LogLevel, os.Stderr)
	if err := run(cfg, *embeddedConfig, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, catalogName string, logger *slog.Logger) error {
	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Warn("shutdown requested", "signal", sig.String())
			cancel()
		case <-baseCtx.Done():
		}
	}()

	raw, err := configs.Load(catalogName)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	cat, err := catalog.Load(raw)
	if err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	templateBundle, err := templates.Load(cfg.Lang)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	shutdownTelemetry, err := observe.InitProvider(baseCtx, observe.ProviderConfig{
		ServiceName:    cat.Server().Name,
		ServiceVersion: cat.Server().Version,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg.ShutdownTimeout))
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	client, err := stripe.NewClient(cfg.SecretKey, stripe.Options{
		BaseURL:   cfg.BaseURL,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
		Recorder:  metrics,
	})
	if err != nil {
		return fmt.Errorf("create stripe client: %w", err)
	}
	probeCtx, probeCancel := context.WithTimeout(baseCtx, cfg.ToolTimeout)
	err = client.Probe(probeCtx)
	probeCancel()
	if err != nil {
		return fmt.Errorf("stripe connection check failed (key %s): %w", security.MaskKey(cfg.SecretKey), err)
	}
	logger.Info("stripe client ready", "key", security.MaskKey(cfg.SecretKey), "base_url", cfg.BaseURL)

	dispatcher, err := runtime.NewDispatcher(runtime.Options{
		Catalog:   cat,
		Provider:  client,
		Timeout:   cfg.ToolTimeout,
		Templates: templateBundle,
		Logger:    logger,
		Audit:     audit.New(logger),
		Metrics:   metrics,
	})
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}
	server, err := runtime.Builder{Catalog: cat, Dispatcher: dispatcher, Logger: logger}.Build()
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	switch cfg.Transport {
	case constants.TransportStdio:
		return runStdio(baseCtx, server)
	case constants.TransportHTTP:
		return runHTTP(baseCtx, cfg, server, logger)
	default:
		return fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func runStdio(ctx context.Context, server *mcp.Server) error {
	err := server.Run(ctx, &mcp.StdioTransport{})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func runHTTP(ctx context.Context, cfg config.Config, server *mcp.Server, logger *slog.Logger) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless: cfg.HTTP.Stateless,
	})

	application, err := app.New(ctx, cfg.HTTP, handler, map[string]http.Handler{
		"/metrics": promhttp.Handler(),
	}, logger, shutdownTimeout(cfg.ShutdownTimeout))
	if err != nil {
		return err
	}
	return application.Run(ctx)
}

func shutdownTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}
