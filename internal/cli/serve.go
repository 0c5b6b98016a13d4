// Package cli — serve.go implements the "skyview serve" command.
//
// The serve command runs the dashboard HTTP server in the foreground
// until interrupted. It wires together the weather API client, the
// prediction client, the optional history cache, and the location
// catalog, then binds the configured port.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/data-tamer2410/sky-view/internal/config"
	"github.com/data-tamer2410/sky-view/internal/forecast"
	"github.com/data-tamer2410/sky-view/internal/history"
	"github.com/data-tamer2410/sky-view/internal/locations"
	"github.com/data-tamer2410/sky-view/internal/model"
	"github.com/data-tamer2410/sky-view/internal/port"
	"github.com/data-tamer2410/sky-view/internal/server"
	"github.com/data-tamer2410/sky-view/internal/weatherapi"
)

// defaultConfigFile is consulted when --config is not given. A missing
// file is fine; defaults plus environment variables are complete.
const defaultConfigFile = "skyview.yaml"

// cachePruneDays is how long cached history entries are kept. The
// feature window only ever reads the past seven days; thirty keeps some
// slack for clock skew and reruns.
const cachePruneDays = 30

// NewServeCommand creates the "serve" cobra command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the weather dashboard server",
		Long: `Run the dashboard HTTP server in the foreground.

The server binds the configured port (default 8501) and serves the
dashboard at / plus a JSON API under /api/. It shuts down gracefully
on SIGINT or SIGTERM.

Examples:
  skyview serve
  skyview serve --config /etc/skyview.yaml
  SKYVIEW_PORT=9000 skyview serve`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// loadCLIConfig loads the configuration honoring the --config flag.
// Shared by every subcommand that needs the config file.
func loadCLIConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = defaultConfigFile
	}
	return config.Load(path)
}

// newLogger builds the structured logger for long-running commands.
// Verbose mode lowers the level to Debug.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// runServe is the main logic for the serve command: load configuration,
// wire the service graph, pre-flight the port, and run until a signal
// arrives.
func runServe(ctx context.Context) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	// Pre-flight the port before doing any network setup, so a busy
	// port fails fast with its dedicated exit code.
	if err := port.NewScanner().Check(cfg.ListenPort); err != nil {
		return model.WrapCLIError(
			model.ExitPortConflict,
			fmt.Sprintf("port %d is not available", cfg.ListenPort),
			err,
		)
	}

	weather := weatherapi.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, nil)
	predictor := forecast.NewPredictor(cfg.PredictorURL, nil)

	// The history cache is optional. Without it every request refetches
	// the full seven-day window.
	var cache forecast.HistoryCache
	if cfg.CachePath != "" {
		c, err := history.Open(cfg.CachePath)
		if err != nil {
			return fmt.Errorf("failed to open history cache %q: %w", cfg.CachePath, err)
		}
		defer c.Close()
		cache = c
		logger.Info("history cache enabled", "path", cfg.CachePath)

		// Entries older than the feature window plus a generous margin
		// can never be read again; drop them at startup.
		if n, err := c.Prune(ctx, time.Now().AddDate(0, 0, -cachePruneDays)); err != nil {
			logger.Warn("history cache prune failed", "error", err)
		} else if n > 0 {
			logger.Info("pruned stale history cache entries", "count", n)
		}
	}

	svc := forecast.NewService(weather, predictor, cache, logger)

	// A missing catalog file leaves only the free-text input on the
	// dashboard, which is a degraded but working state.
	catalog, err := locations.Load(cfg.LocationsPath)
	if err != nil {
		logger.Warn("location catalog unavailable", "path", cfg.LocationsPath, "error", err)
		catalog = nil
	} else {
		logger.Info("location catalog loaded", "path", cfg.LocationsPath, "count", len(catalog))
	}

	srv, err := server.New(cfg.ListenPort, svc, catalog, logger)
	if err != nil {
		return err
	}

	// SIGINT/SIGTERM cancel the context, which triggers the server's
	// graceful shutdown.
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(runCtx)
}
