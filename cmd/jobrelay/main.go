package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobrelay/internal/bus"
	"jobrelay/internal/channel"
	"jobrelay/internal/classify"
	"jobrelay/internal/config"
	"jobrelay/internal/metrics"
	"jobrelay/internal/relay"
	"jobrelay/internal/router"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "jobrelay",
		Short: "jobrelay: Telegram job-post relay to a local WhatsApp bridge",
		Long:  "jobrelay watches one Telegram chat, picks out job-related messages and documents, and forwards them to a local bridge service over HTTP.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.jobrelay/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(runCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(configCmd())
	root.AddCommand(daemonCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize config and download directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir := config.DefaultConfigDir()
			cfgPath := config.DefaultConfigPath()
			if err := os.MkdirAll(cfgDir, 0o755); err != nil {
				return err
			}
			cfg := config.Defaults()
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			downloadDir := config.ExpandPath(cfg.General.DownloadDir)
			if err := os.MkdirAll(downloadDir, 0o755); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath, "downloads", downloadDir)
			return nil
		},
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the relay (Telegram listener + bridge delivery)",
		Long:  "Connects to Telegram, watches the configured target chat, and relays job-related text and documents to the bridge. Press Ctrl+C to stop.",
		RunE:  runRelay,
	}
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err = buildLogger(cfg.General)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.General.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messageBus := bus.New(100, logger)
	eventBus := bus.NewEventBus(logger)
	metrics.BindEventBus(eventBus)

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.HandleFunc("/metrics", metrics.Collector.Handler())
		metricsSrv = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Metrics.Host, cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			logger.Info("metrics endpoint listening", "addr", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", "err", err)
			}
		}()
	}

	classifier := classify.New(loadKeywords(cfg))
	logger.Info("classifier ready", "keywords", len(classifier.Keywords()))

	relayClient := relay.NewClient(relay.Config{
		TextURL:     cfg.Bridge.TextURL,
		FileURL:     cfg.Bridge.FileURL,
		TextTimeout: time.Duration(cfg.Bridge.TextTimeoutSeconds) * time.Second,
		FileTimeout: time.Duration(cfg.Bridge.FileTimeoutSeconds) * time.Second,
		Logger:      logger,
	})

	telegramCh := channel.NewTelegram(channel.TelegramConfig{
		Token:      cfg.Telegram.Token,
		TargetChat: cfg.Telegram.TargetChat,
		Logger:     logger,
	})

	rtr := router.New(router.Config{
		TargetChat:  cfg.Telegram.TargetChat,
		DownloadDir: cfg.General.DownloadDir,
		Classifier:  classifier,
		Relay:       relayClient,
		Downloader:  telegramCh,
		Bus:         messageBus,
		Events:      eventBus,
		Logger:      logger,
	})

	go rtr.Run(ctx)

	go func() {
		if err := telegramCh.Start(ctx, messageBus); err != nil {
			logger.Error("telegram channel error", "err", err)
			stop()
		}
	}()

	logger.Info("relay started. Press Ctrl+C to stop.", "target", cfg.Telegram.TargetChat)

	<-ctx.Done()
	logger.Info("shutting down relay...")

	const shutdownTimeout = 10 * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		telegramCh.Stop()
		messageBus.Close()
		if metricsSrv != nil {
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown error", "err", err)
			}
		}
	}()

	select {
	case <-done:
		logger.Info("shutdown complete")
		return nil
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timed out, forcing exit")
		return fmt.Errorf("shutdown timed out")
	}
}

// loadKeywords merges the config keyword list with the optional YAML keyword
// file. A broken keyword file is logged and skipped rather than aborting
// startup.
func loadKeywords(cfg *config.Config) []string {
	keywords := []string(cfg.Keywords.Words)
	if len(keywords) == 0 {
		keywords = classify.DefaultKeywords()
	}
	if cfg.Keywords.File != "" {
		extra, err := classify.LoadKeywordsFile(cfg.Keywords.File)
		if err != nil {
			logger.Warn("cannot load keywords file, using config keywords only",
				"path", cfg.Keywords.File, "err", err)
		} else {
			keywords = append(keywords, extra...)
		}
	}
	return keywords
}

// buildLogger constructs the process logger from general config: level from
// logLevel, output to logFile when set, stderr otherwise.
func buildLogger(gc config.GeneralConfig) (*slog.Logger, error) {
	var out io.Writer = os.Stderr
	if gc.LogFile != "" {
		f, err := os.OpenFile(gc.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
	}

	var level slog.Level
	switch gc.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), nil
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show relay status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				logger.Info("config", "path", cfgPath, "loaded", false)
				return nil
			}
			logger.Info("config", "path", cfgPath, "loaded", true)
			logger.Info("target", "chat", cfg.Telegram.TargetChat)
			logger.Info("keywords", "count", len(cfg.Keywords.Words), "file", cfg.Keywords.File)
			for name, url := range map[string]string{"text": cfg.Bridge.TextURL, "file": cfg.Bridge.FileURL} {
				if err := checkEndpoint(url); err != nil {
					logger.Warn("bridge endpoint unreachable", "endpoint", name, "url", url, "err", err)
				} else {
					logger.Info("bridge endpoint reachable", "endpoint", name, "url", url)
				}
			}
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Long:  "Get, set, and list configuration values. Changes are saved to the config file.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [path]",
		Short: "Get a config value (e.g. bridge.textUrl)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			val, err := config.GetByPath(cfg, args[0])
			if err != nil {
				return err
			}
			data, _ := json.MarshalIndent(val, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [path] [value]",
		Short: "Set a config value (e.g. telegram.targetChat MyGroup)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := config.SetByPath(cfg, args[0], args[1]); err != nil {
				return fmt.Errorf("set value: %w", err)
			}
			if err := config.Save(cfgPath, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			logger.Info("config updated", "path", args[0], "value", args[1], "file", cfgPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			sanitized := config.Sanitize(cfg)
			data, _ := json.MarshalIndent(sanitized, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(resolveConfigPath())
		},
	})

	return cmd
}

func daemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Manage the background daemon",
	}
	cmd.AddCommand(installDaemonCmd())
	cmd.AddCommand(uninstallDaemonCmd())
	return cmd
}
