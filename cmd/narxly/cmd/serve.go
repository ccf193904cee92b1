package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jasurbekn/narxly/internal/api"
	"github.com/jasurbekn/narxly/internal/catalog"
	"github.com/jasurbekn/narxly/internal/config"
	"github.com/jasurbekn/narxly/internal/ingest"
	"github.com/jasurbekn/narxly/pkg/logger"
	domain "github.com/jasurbekn/narxly/pkg/types"
)

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog API server and refresh scheduler",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config-file", "f", "", "service config file (YAML)")

	return cmd
}

func runServe(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}

	// First snapshot before accepting traffic. A missing or empty data
	// directory yields an empty catalog, not a startup failure.
	if err := svc.Refresh(context.Background()); err != nil {
		log.Error("initial catalog build failed, serving empty catalog", "error", err)
	}

	scheduler, err := catalog.NewScheduler(svc, cfg.Catalog.RefreshInterval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	scheduler.Start()

	e := api.NewServer(svc, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	log.Info("starting server", "addr", addr, "data_dir", cfg.Catalog.DataDir)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newService(cfg *config.Config, log *slog.Logger) (*catalog.Service, error) {
	classifier, err := catalog.NewClassifier(
		cfg.Classify,
		domain.ParseCategory(cfg.Catalog.DefaultCategory),
	)
	if err != nil {
		return nil, fmt.Errorf("building classifier: %w", err)
	}

	reader := ingest.NewReader(cfg.Catalog.DataDir, log)
	normalizer := catalog.NewNormalizer(classifier, cfg.Pricing)
	builder := catalog.NewBuilder(reader, normalizer, log)

	return catalog.NewService(builder, cfg.Catalog.RebuildPerMinute, log), nil
}
