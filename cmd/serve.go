package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/slighter12/unity-mcp-go/config"
	"github.com/slighter12/unity-mcp-go/logger"
	"github.com/slighter12/unity-mcp-go/mcp"
	"github.com/slighter12/unity-mcp-go/metrics"
	"github.com/slighter12/unity-mcp-go/tools"
	"github.com/slighter12/unity-mcp-go/transport/http"
	"github.com/slighter12/unity-mcp-go/transport/shared"
	"github.com/slighter12/unity-mcp-go/transport/stdio"
	"github.com/slighter12/unity-mcp-go/unitybridge"
)

var (
	stdioMode bool
	debugMode bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server.

With --stdio the server speaks newline-delimited JSON-RPC on stdin/stdout
and logs to stderr. Otherwise it serves Streamable HTTP on the configured
host and port when that transport is enabled, and falls back to stdio.`,
	RunE: runServe,
}

func serveFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	fs.BoolVar(&stdioMode, "stdio", false, "serve MCP over stdin/stdout")
	fs.BoolVar(&debugMode, "debug", false, "enable debug logging")
	return fs
}

func init() {
	serveCmd.Flags().AddFlagSet(serveFlags())
	rootCmd.AddCommand(serveCmd)
}

func loadConfig() (*config.Config, string, error) {
	path := strings.TrimSpace(cfgFile)
	if path == "" {
		resolved, err := config.ResolveConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = resolved
	}
	if err := config.EnsureDefaultConfig(path); err != nil {
		return nil, "", fmt.Errorf("failed to create default config: %w", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load configuration: %w", err)
	}
	if debugMode {
		cfg.Server.Debug = true
	}
	if cfg.Server.Debug {
		cfg.Logging.Level = "debug"
	}
	return cfg, path, nil
}

func newBridge(cfg *config.Config, m *metrics.Metrics) *unitybridge.Connection {
	return unitybridge.NewConnection(unitybridge.Options{
		Address:            cfg.Unity.Address(),
		ConnectTimeout:     time.Duration(cfg.Unity.ConnectTimeoutSeconds) * time.Second,
		CommandTimeout:     time.Duration(cfg.Unity.CommandTimeoutSeconds) * time.Second,
		MaxConnectAttempts: cfg.Unity.MaxConnectAttempts,
		Metrics:            m,
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	useStdio := stdioMode || !cfg.HasEnabledTransport("streamable_http")
	level := logger.GetLevelFromString(cfg.Logging.Level)
	format := logger.Format(cfg.Logging.Format)
	if useStdio {
		err = logger.InitStdio(level, format, cfg.Logging.Path)
	} else {
		err = logger.Init(level, format, cfg.Logging.Path)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Default().Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	bridge := newBridge(cfg, m)
	defer bridge.Close()

	toolManager := tools.NewManager(m)
	toolManager.RegisterTools(tools.GetAllTools(tools.Dependencies{
		Bridge:              bridge,
		Pinger:              bridge,
		DefaultPrefabFolder: cfg.GameObject.DefaultPrefabFolder,
	}))
	resources := shared.NewResources(bridge)
	info := mcp.Implementation{Name: cfg.Name, Version: cfg.Version}

	watchConfig(ctx, path)

	logger.Info("Starting unity-mcp-go", "version", Version, "unity_address", cfg.Unity.Address(), "stdio", useStdio, "config", path)

	if useStdio {
		return stdio.NewStdioServer(toolManager, resources, info).Serve(ctx, os.Stdin, os.Stdout)
	}
	return http.NewServer(cfg, toolManager, resources, info, http.WithMetrics(registry)).Start(ctx)
}

// watchConfig applies log level changes without a restart. Other settings
// need one.
func watchConfig(ctx context.Context, path string) {
	watcher, err := config.NewWatcher(path, func(updated *config.Config) {
		level := updated.Logging.Level
		if debugMode || updated.Server.Debug {
			level = "debug"
		}
		logger.SetLevel(logger.GetLevelFromString(level))
		logger.Info("Configuration reloaded", "log_level", level)
	})
	if err != nil {
		logger.Warn("Config watcher disabled", "path", path, "error", err)
		return
	}
	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Warn("Config watcher stopped", "error", err)
		}
	}()
}
