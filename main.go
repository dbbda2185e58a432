package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/athapong/bbslate/pkg/config"
	"github.com/athapong/bbslate/pkg/rules"
	"github.com/athapong/bbslate/pkg/transducer"
	"github.com/athapong/bbslate/prompts"
	"github.com/athapong/bbslate/tools"
)

func main() {
	envFile := flag.String("env", ".env", "Path to environment file")
	enableSSE := flag.Bool("sse", false, "Enable SSE server")
	sseAddr := flag.String("sse-addr", ":8080", "Address for SSE server to listen on")
	sseBasePath := flag.String("sse-base-path", "/mcp", "Base path for SSE endpoints")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger := cfg.NewLogger()

	allowedTags := cfg.AllowedTags
	if allowedTags == nil {
		allowedTags = rules.Tags()
	}
	tr := transducer.New(rules.Standard(), allowedTags, transducer.WithLogger(logger))

	mcpServer := server.NewMCPServer(
		"bbslate",
		"1.0.0",
		server.WithLogging(),
		server.WithPromptCapabilities(true),
		server.WithToolCapabilities(true),
	)

	var enabled []string
	for _, g := range tools.Groups {
		if cfg.ToolEnabled(g.Name) {
			enabled = append(enabled, g.Name)
		}
	}
	manager := tools.NewManager(tools.Groups, enabled...)
	tools.RegisterToolManagerTool(mcpServer, manager)

	toolset := tools.NewToolset(tr, manager, logger,
		tools.WithDeserializeType(cfg.DeserializeType),
		tools.WithSeparator(cfg.BlockSeparator),
	)

	if cfg.ToolEnabled(tools.GroupConvert) {
		toolset.RegisterConvertTools(mcpServer)
	}

	if cfg.ToolEnabled(tools.GroupMarkdown) {
		toolset.RegisterMarkdownTool(mcpServer)
	}

	if cfg.ToolEnabled(tools.GroupRoundtrip) {
		toolset.RegisterRoundtripTool(mcpServer)
	}

	prompts.RegisterAuthoringPrompt(mcpServer)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

		go func() {
			logger.Infof("Serving metrics on %s/metrics", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("Metrics server failed: %v", err)
			}
		}()
	}

	if *enableSSE || cfg.EnableSSE {
		sseServer := server.NewSSEServer(
			mcpServer,
			server.WithBasePath(*sseBasePath),
			server.WithKeepAlive(true),
		)

		go func() {
			logger.Infof("Starting SSE server on %s with base path %s", *sseAddr, *sseBasePath)
			if err := sseServer.Start(*sseAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatalf("Failed to start SSE server: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		sig := <-sigCh
		logger.Infof("Received signal %v, shutting down...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := sseServer.Shutdown(ctx); err != nil {
			logger.Errorf("Error during SSE server shutdown: %v", err)
		}
		shutdownMetrics(ctx, metricsServer, logger)
		logger.Info("SSE server shutdown complete")
		return
	}

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
	shutdownMetrics(context.Background(), metricsServer, logger)
}

func shutdownMetrics(ctx context.Context, srv *http.Server, logger logrus.FieldLogger) {
	if srv == nil {
		return
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Error during metrics server shutdown: %v", err)
	}
}
