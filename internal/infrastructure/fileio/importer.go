package fileio

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pricio/backend/internal/domain"
)

// ProductWriter stores imported products and returns how many were saved
type ProductWriter interface {
	UpsertProducts(ctx context.Context, products []domain.Product) (int, error)
}

// Importer turns a catalog export into stored products
type Importer struct {
	writer ProductWriter
	logger zerolog.Logger
}

// NewImporter creates an importer that saves through writer
func NewImporter(writer ProductWriter, logger zerolog.Logger) *Importer {
	return &Importer{writer: writer, logger: logger}
}

// Import reads a CSV, XLSX or XLS file and upserts its products into the store.
// Unreadable files are ErrInvalidRequest; storage failures are ErrCatalogUnavailable.
func (i *Importer) Import(
	ctx context.Context,
	r io.Reader,
	filename, storeID string,
	headerRow int,
	dryRun bool,
) (domain.ImportReport, error) {
	report := domain.ImportReport{StoreID: storeID, DryRun: dryRun}

	rows, err := ReadAnyMaps(r, filename, headerRow)
	if err != nil {
		return report, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	products, skipped := ProductsFromRows(rows, storeID)
	report.Rows = len(rows)
	report.Products = len(products)
	report.Skipped = skipped

	logger := i.logger.With().Str("file", filename).Str("store", storeID).Logger()
	logger.Info().Int("rows", report.Rows).Int("products", report.Products).Int("skipped", skipped).Msg("catalog parsed")

	if dryRun || len(products) == 0 {
		return report, nil
	}

	saved, err := i.writer.UpsertProducts(ctx, products)
	if err != nil {
		return report, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	report.Saved = saved
	logger.Info().Int("saved", saved).Msg("catalog imported")
	return report, nil
}
