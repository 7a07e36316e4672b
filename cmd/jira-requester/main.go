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

	mcpGoServer "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/i2y/jira-requester/configs"
	"github.com/i2y/jira-requester/internal/adapter/inbound/mcphttp"
	"github.com/i2y/jira-requester/internal/adapter/inbound/mcpserver"
	"github.com/i2y/jira-requester/internal/adapter/outbound/jira"
	"github.com/i2y/jira-requester/internal/adapter/outbound/memrepo"
	"github.com/i2y/jira-requester/internal/observability"
	"github.com/i2y/jira-requester/internal/usecase"
)

func main() {
	// === Command Line Flags ===
	var transport string
	flag.StringVar(&transport, "transport", "stdio", "Transport mode: stdio or sse")
	flag.Parse()

	if transport != "stdio" && transport != "sse" {
		fmt.Fprintf(os.Stderr, "Invalid transport mode %q: expected stdio or sse\n", transport)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Configuration ===
	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// === Logging ===
	// stdout belongs to the stdio transport, so logs go to stderr or LOG_FILE.
	logLevel := cfg.ParsedLogLevel()
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.LogFile, err)
			os.Exit(1)
		}
		defer logFile.Close()
		logOut = logFile
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	logger.Info("Logger initialized.", slog.String("level", logLevel.String()), slog.String("transport", transport))

	// === OpenTelemetry Initialization ===
	shutdownOtel, err := observability.InitTracing(ctx, cfg.Tracing(mcpserver.ServerName, mcpserver.ServerVersion), logger)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry.", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry TracerProvider.", slog.Any("error", err))
		}
	}()

	// === Dependency Injection ===
	jiraClient, err := jira.NewClient(cfg.Jira(), logger)
	if err != nil {
		logger.Error("Failed to create Jira client.", slog.Any("error", err))
		os.Exit(1)
	}

	registry := memrepo.NewInMemoryToolRegistry(logger)
	if err := registry.Register(usecase.NewGetTicketHandler(jiraClient, logger)); err != nil {
		logger.Error("Failed to register tool handler.", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	dispatcher := usecase.NewDispatcher(registry, metrics, logger)

	// === MCP Server (mark3labs/mcp-go) ===
	mcpSrv := mcpserver.NewServer()
	if err := mcpserver.RegisterTools(mcpSrv, dispatcher, logger); err != nil {
		logger.Error("Failed to register MCP tools.", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("MCP server initialized.", slog.Int("tools", len(dispatcher.ListTools())))

	g, gctx := errgroup.WithContext(ctx)
	var shutdowns []func(context.Context) error

	// === Admin HTTP Server ===
	if cfg.AdminAddr != "" {
		adminMux := http.NewServeMux()
		mcphttp.NewHandlers(dispatcher, mcpserver.ServerVersion, logger).RegisterAdminRoutes(adminMux)
		adminMux.Handle("GET /metrics", metrics.Handler())
		adminServer := &http.Server{
			Addr:    cfg.AdminAddr,
			Handler: adminMux,
		}
		shutdowns = append(shutdowns, adminServer.Shutdown)
		g.Go(func() error {
			logger.Info("Admin HTTP server starting.", slog.String("address", adminServer.Addr))
			if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin HTTP server: %w", err)
			}
			return nil
		})
	}

	// === Transport Mode Selection ===
	switch transport {
	case "stdio":
		stdioServer := mcpGoServer.NewStdioServer(mcpSrv)
		g.Go(func() error {
			// The client closing stdin ends the process.
			defer stop()
			logger.Info("Starting in STDIO mode")
			if err := stdioServer.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("stdio server: %w", err)
			}
			return nil
		})

	case "sse":
		sseServer := mcpGoServer.NewSSEServer(mcpSrv, mcpGoServer.WithBaseURL("http://"+cfg.ListenAddr))
		shutdowns = append(shutdowns, sseServer.Shutdown)
		g.Go(func() error {
			logger.Info("MCP SSE server starting.", slog.String("address", cfg.ListenAddr))
			if err := sseServer.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("sse server: %w", err)
			}
			return nil
		})
	}

	// === Server Shutdown ===
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		var errs []error
		for _, shutdown := range shutdowns {
			errs = append(errs, shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error.", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Servers shut down gracefully.")
}
