package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasurbekn/narxly/internal/catalog"
	"github.com/jasurbekn/narxly/pkg/logger"
)

func listAllQuery() catalog.ListQuery {
	return catalog.ListQuery{Page: 1, Limit: 100}
}

func buildCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run a one-shot catalog build and print the result",
		Long: "Reads every CSV export in the data directory, runs the full\n" +
			"normalize/deduplicate/merge pipeline once, and prints the resulting\n" +
			"catalog without starting a server.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBuild(configPath, dataDir, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config-file", "f", "", "service config file (YAML)")
	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "override the data directory")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level during the build")

	return cmd
}

func runBuild(configPath, dataDir, logLevel string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.Catalog.DataDir = dataDir
	}

	log := logger.New(logLevel, cfg.Logging.Format)

	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}

	if err := svc.Refresh(context.Background()); err != nil {
		return fmt.Errorf("building catalog: %w", err)
	}

	// Pull the whole catalog page by page at the maximum page size.
	result := svc.List(context.Background(), listAllQuery())
	products := result.Products
	for result.HasMore {
		next := listAllQuery()
		next.Page = result.Page + 1
		result = svc.List(context.Background(), next)
		products = append(products, result.Products...)
	}

	if jsonOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}

	return printProductsTable(products)
}
