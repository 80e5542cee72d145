package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/filemill/filemill/internal/config"
	"github.com/filemill/filemill/internal/handlers"
	"github.com/filemill/filemill/internal/raster"
	"github.com/filemill/filemill/internal/server"
	"github.com/filemill/filemill/internal/storage"
	"github.com/filemill/filemill/internal/tools"
)

// Version information (set during build)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// parseLogLevel parses the LOG_LEVEL environment variable. Defaults to
// WarnLevel if not set or invalid.
func parseLogLevel() logrus.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:    "filemill",
		Usage:   "document-processing HTTP gateway",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Path to an optional .env file",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides PORT)",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Absolute URL clients reach this server at (overrides BASE_URL)",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory for uploads and results (overrides DATA_DIR)",
			},
		},
		Action: run,
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(c.String("env-file")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading env file: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(parseLogLevel())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}

	ws, err := storage.New(cfg.DataDir, cfg.BaseURL, logger)
	if err != nil {
		return fmt.Errorf("initialising workspace: %w", err)
	}
	// Clear leftovers from a previous crash; per-request cleanup handles
	// the steady state.
	ws.SweepUploads(24 * time.Hour)

	runner := tools.NewRunner(logger, cfg.ToolTimeout)
	h := handlers.New(
		logger,
		ws,
		tools.NewOffice(runner),
		tools.NewOCR(runner),
		tools.NewEncrypt(runner),
		tools.NewVideo(runner),
		raster.Engine{},
	)

	srv := server.New(cfg, logger, h, ws.ResultsDir())

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"base_url": cfg.BaseURL,
			"data_dir": cfg.DataDir,
		}).Info("filemill listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-c.Context.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
