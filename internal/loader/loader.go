// Package loader walks a data directory of store publications and builds the
// in-memory market repository from them.
//
// File names carry the metadata: <store>_<date>.csv is a catalog snapshot and
// <store>_discounts_<date>.csv is a discount publication, both dated
// YYYY-MM-DD. The same layouts are accepted as .xlsx workbooks.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/pricecomparator/market-service/internal/market"
	"github.com/pricecomparator/market-service/internal/matching"
	"github.com/pricecomparator/market-service/internal/parsers/csv"
	"github.com/pricecomparator/market-service/internal/parsers/xlsx"
)

const discountsMarker = "discounts"

// fileInfo is one recognized data file.
type fileInfo struct {
	path       string
	store      string
	date       market.Date
	isDiscount bool
	isXLSX     bool
}

// fileResult holds one parsed file, indexed by walk position so assembly
// order is independent of goroutine scheduling.
type fileResult struct {
	info      fileInfo
	products  []market.ProductSnapshot
	discounts []market.DiscountInterval
}

// Loader parses store publications into market stores.
type Loader struct {
	csvParser   *csv.Parser
	xlsxParser  *xlsx.Parser
	concurrency int
	logger      zerolog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency caps the number of files parsed in parallel.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// New creates a loader. Files are assumed to carry a header row.
func New(opts ...Option) *Loader {
	l := &Loader{
		csvParser:   csv.NewParser(csv.Options{HasHeader: true}),
		xlsxParser:  xlsx.NewParser(xlsx.Options{HasHeader: true}),
		concurrency: 4,
		logger:      log.With().Str("component", "loader").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadDirectory parses every recognized file under dir and assembles the
// repository. Files parse in parallel but assemble in sorted filename order,
// so repeated loads of the same directory produce identical stores and
// identical discount tie-breaks.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) (*market.Repository, error) {
	files, err := l.scan(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no data files found in %s", dir)
	}

	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, info := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := l.parseFile(info)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(info.path), err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var snapshots []market.CatalogSnapshot
	discountsByStore := make(map[string][]market.DiscountInterval)

	for _, r := range results {
		if r.info.isDiscount {
			intervals := r.discounts
			for i := range intervals {
				intervals[i].PublishedAt = r.info.date
			}
			discountsByStore[r.info.store] = append(discountsByStore[r.info.store], intervals...)
			continue
		}
		snapshots = append(snapshots, market.CatalogSnapshot{
			Store:    r.info.store,
			Date:     r.info.date,
			Products: r.products,
		})
	}

	l.logger.Info().
		Int("files", len(files)).
		Int("catalogs", len(snapshots)).
		Msg("Data directory loaded")

	catalogs := market.NewCatalogStore(snapshots)
	discounts := market.NewDiscountStore(discountsByStore)
	return market.NewRepository(catalogs, discounts), nil
}

// scan lists the recognized files under dir in sorted name order.
func (l *Loader) scan(dir string) ([]fileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var files []fileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, ok := parseFilename(entry.Name())
		if !ok {
			l.logger.Debug().Str("file", entry.Name()).Msg("Skipping unrecognized file")
			continue
		}
		info.path = filepath.Join(dir, entry.Name())
		files = append(files, info)
	}
	return files, nil
}

// parseFile reads and parses one file according to its kind.
func (l *Loader) parseFile(info fileInfo) (fileResult, error) {
	content, err := os.ReadFile(info.path)
	if err != nil {
		return fileResult{}, err
	}

	result := fileResult{info: info}
	var parseErrs []csv.ParseError

	switch {
	case info.isDiscount && info.isXLSX:
		result.discounts, parseErrs, err = l.xlsxParser.ParseDiscounts(content)
	case info.isDiscount:
		result.discounts, parseErrs, err = l.csvParser.ParseDiscounts(content)
	case info.isXLSX:
		result.products, parseErrs, err = l.xlsxParser.ParseProducts(content)
	default:
		result.products, parseErrs, err = l.csvParser.ParseProducts(content)
	}
	if err != nil {
		return fileResult{}, err
	}

	for _, pe := range parseErrs {
		l.logger.Warn().
			Str("file", filepath.Base(info.path)).
			Int("row", pe.RowNumber).
			Str("field", pe.Field).
			Msg(pe.Message)
	}
	return result, nil
}

// parseFilename extracts store, date and kind from a data file name.
func parseFilename(name string) (fileInfo, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".csv" && ext != ".xlsx" {
		return fileInfo{}, false
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))

	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return fileInfo{}, false
	}

	date, err := market.ParseDate(parts[len(parts)-1])
	if err != nil {
		return fileInfo{}, false
	}
	parts = parts[:len(parts)-1]

	isDiscount := false
	if parts[len(parts)-1] == discountsMarker {
		isDiscount = true
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return fileInfo{}, false
	}

	return fileInfo{
		store:      matching.NormalizeStoreName(strings.Join(parts, "_")),
		date:       date,
		isDiscount: isDiscount,
		isXLSX:     ext == ".xlsx",
	}, true
}
