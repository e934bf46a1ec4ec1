// Command importer loads a store catalog export (CSV, XLSX or XLS) into the
// catalog database, recording price history for changed prices.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pricio/backend/config"
	"github.com/pricio/backend/internal/domain"
	"github.com/pricio/backend/internal/infrastructure/catalog"
	"github.com/pricio/backend/internal/infrastructure/fileio"
)

func main() {
	var (
		file      = flag.String("file", "", "Catalog file (.csv, .xlsx, .xls)")
		storeID   = flag.String("store", "", "Store id the catalog belongs to, e.g. 5ka")
		headerRow = flag.Int("header", 1, "1-based row that holds column names")
		dryRun    = flag.Bool("dry-run", false, "Parse the file without writing to the database")
	)
	flag.Parse()

	if *file == "" || *storeID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.SetupLogger(cfg)

	known := false
	for _, st := range cfg.Stores {
		if st.ID == *storeID {
			known = true
			break
		}
	}
	if !known {
		logger.Fatal().Str("store", *storeID).Msg("store is not configured")
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open catalog file")
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var writer fileio.ProductWriter = discardWriter{}
	if !*dryRun {
		repo, err := catalog.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open catalog database")
		}
		defer repo.Close()
		writer = repo
	}

	report, err := fileio.NewImporter(writer, logger).Import(ctx, f, filepath.Base(*file), *storeID, *headerRow, *dryRun)
	if err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}
	fmt.Printf("rows=%d products=%d skipped=%d saved=%d\n", report.Rows, report.Products, report.Skipped, report.Saved)
}

// discardWriter stands in for the database on dry runs
type discardWriter struct{}

func (discardWriter) UpsertProducts(context.Context, []domain.Product) (int, error) { return 0, nil }
