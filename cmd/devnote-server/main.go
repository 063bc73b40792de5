package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/devnote/internal/bootstrap"
	"github.com/at-ishikawa/devnote/internal/config"
	"github.com/at-ishikawa/devnote/internal/journal"
	"github.com/at-ishikawa/devnote/internal/server"
)

var configFile string

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "devnote-server",
		Short:         "devnote journal HTTP API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	j, err := bootstrap.OpenJournal(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("bootstrap.OpenJournal() > %w", err)
	}
	app.AddShutdownHook(func(ctx context.Context) error {
		return j.Close()
	})

	if cfg.Storage.BackupIntervalSeconds > 0 {
		guardian := j.NewBackupGuardian(slog.Default())
		if err := guardian.Start(ctx, time.Duration(cfg.Storage.BackupIntervalSeconds)*time.Second); err != nil {
			_ = j.Close()
			return fmt.Errorf("guardian.Start() > %w", err)
		}
		app.AddShutdownHook(func(ctx context.Context) error {
			guardian.Stop()
			return nil
		})
	}

	srv, err := newHTTPServer(cfg, j.Store)
	if err != nil {
		_ = j.Close()
		return err
	}
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Info("Starting server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func newHTTPServer(cfg *config.Config, store *journal.Store) (*http.Server, error) {
	loc, err := bootstrap.Location(cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap.Location() > %w", err)
	}
	handler := server.NewHandler(store, server.Options{
		Stats:       bootstrap.StatsOptions(cfg),
		Location:    loc,
		ReviewLimit: cfg.Review.Limit,
		Logger:      slog.Default(),
	})
	router := server.NewRouter(handler, cfg.Server.CORS.AllowedOrigins)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
