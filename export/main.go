// Command export dumps all records of one or more Zoho CRM modules to
// JSON-lines files.
//
// Usage:
//
//	export Accounts Contacts Deals
//
// Configuration comes from the environment (see zohocrm.LoadConfig). When
// DATABASE_URL is set the access token is restored from and persisted to
// Postgres between runs; without it each run starts with a fresh refresh.
// ZOHO_EXPORT_DIR overrides the output directory (default ./export-out).
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/AEtheve/zohoxide-crm/export/services"
	"github.com/AEtheve/zohoxide-crm/pkg/tokenstore"
	zohocrm "github.com/AEtheve/zohoxide-crm/pkg/zoho/crm"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	modules := os.Args[1:]
	if len(modules) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: export MODULE [MODULE...]")
		os.Exit(2)
	}

	cfg, err := zohocrm.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Token persistence is optional; without a database every run simply
	// starts with a token refresh.
	var store tokenstore.Store
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pgStore, err := tokenstore.NewPostgresStore(ctx, dsn, logger)
		if err != nil {
			logger.Error("Failed to connect to token store", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Failed to connect to token store: %v\n", err)
			os.Exit(1)
		}
		defer pgStore.Close()
		if err := pgStore.EnsureSchema(ctx); err != nil {
			logger.Error("Failed to prepare token store schema", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Failed to prepare token store schema: %v\n", err)
			os.Exit(1)
		}
		store = pgStore
		logger.Info("Token store connected")
	}

	outDir := os.Getenv("ZOHO_EXPORT_DIR")
	if outDir == "" {
		outDir = "export-out"
	}

	exporter := services.NewExporter(cfg, store, logger, outDir)

	metrics, err := exporter.ExportAll(ctx, modules)
	fmt.Printf("Export finished: %d modules succeeded, %d failed, %d records written\n",
		metrics.ModulesSucceeded, metrics.ModulesFailed, metrics.RecordsExported)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export finished with errors: %v\n", err)
		os.Exit(1)
	}
}
