// Package catalog implements the narxly product pipeline: normalizing
// scraped marketplace listings, deduplicating them into canonical products,
// and serving the merged catalog to the API layer.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jasurbekn/narxly/internal/ingest"
	"github.com/jasurbekn/narxly/internal/metrics"
	domain "github.com/jasurbekn/narxly/pkg/types"
)

// Builder runs the full ingest, normalize, merge pipeline over a data
// directory. Builds are single-pass and deterministic: files in sorted
// name order, rows in file order. Each build constructs its own group map
// from scratch; nothing persists between builds.
type Builder struct {
	reader     *ingest.Reader
	normalizer *Normalizer
	log        *slog.Logger
}

// NewBuilder creates a Builder with injected dependencies.
func NewBuilder(reader *ingest.Reader, normalizer *Normalizer, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{reader: reader, normalizer: normalizer, log: log}
}

// Build produces the finalized, sorted catalog. Per-file parse failures
// contribute zero listings without aborting the run; the only errors
// returned are caller-level ones (context cancellation, unreadable
// directory other than absence).
func (b *Builder) Build(ctx context.Context) ([]domain.Product, error) {
	start := time.Now()
	defer func() {
		metrics.BuildDuration.Observe(time.Since(start).Seconds())
	}()
	metrics.BuildsTotal.Inc()

	files, err := b.reader.Files()
	if err != nil {
		metrics.BuildFailuresTotal.Inc()
		return nil, fmt.Errorf("listing csv files: %w", err)
	}

	groups := make(map[string]*domain.Product)

	for _, file := range files {
		if ctx.Err() != nil {
			metrics.BuildFailuresTotal.Inc()
			return nil, ctx.Err()
		}
		b.mergeFile(file, groups)
	}

	products := make([]domain.Product, 0, len(groups))
	for _, p := range groups {
		Finalize(p)
		products = append(products, *p)
	}
	SortProducts(products)

	b.log.Info("catalog build complete",
		"files", len(files),
		"products", len(products),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	metrics.ProductsGauge.Set(float64(len(products)))

	return products, nil
}

func (b *Builder) mergeFile(file string, groups map[string]*domain.Product) {
	rows, err := b.reader.ReadFile(file)
	if err != nil {
		// Isolated: this file contributes nothing, the rest proceed.
		b.log.Error("reading file failed, skipping", "file", file, "error", err)
		return
	}

	accepted := 0
	for _, row := range rows {
		listing, ok := b.normalizer.Normalize(row, file)
		if !ok {
			metrics.RowsSkippedTotal.WithLabelValues(file).Inc()
			continue
		}
		groups[listing.GroupKey] = Merge(groups[listing.GroupKey], listing)
		accepted++
	}

	metrics.RowsReadTotal.WithLabelValues(file).Add(float64(len(rows)))
	metrics.ListingsAcceptedTotal.Add(float64(accepted))

	b.log.Debug("file merged",
		"file", file,
		"rows", len(rows),
		"accepted", accepted,
	)
}
