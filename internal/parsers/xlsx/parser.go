// Package xlsx parses catalog and discount workbooks exported by stores
// that publish spreadsheets instead of CSV files. Columns follow the same
// layout as the CSV formats.
package xlsx

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/pricecomparator/market-service/internal/market"
	"github.com/pricecomparator/market-service/internal/parsers/csv"
)

// Options controls workbook parsing.
type Options struct {
	SheetName string // empty means first sheet
	HasHeader bool
}

// Parser reads store workbooks via excelize.
type Parser struct {
	options Options
}

// NewParser creates a new XLSX parser.
func NewParser(options Options) *Parser {
	return &Parser{options: options}
}

// ParseProducts parses a catalog workbook into product snapshots.
func (p *Parser) ParseProducts(content []byte) ([]market.ProductSnapshot, []csv.ParseError, error) {
	rows, start, err := p.rows(content)
	if err != nil {
		return nil, nil, err
	}

	var products []market.ProductSnapshot
	var errs []csv.ParseError

	for i := start; i < len(rows); i++ {
		row := rows[i]
		rowNumber := i + 1
		if isEmptyRow(row) {
			continue
		}
		if len(row) < 8 {
			errs = append(errs, csv.ParseError{
				RowNumber: rowNumber,
				Message:   fmt.Sprintf("expected 8 columns, got %d", len(row)),
			})
			continue
		}

		quantity, err := parseDecimal(row[4])
		if err != nil {
			errs = append(errs, csv.ParseError{RowNumber: rowNumber, Field: "quantity", Message: "invalid quantity", Value: row[4]})
			continue
		}
		price, err := parseDecimal(row[6])
		if err != nil {
			errs = append(errs, csv.ParseError{RowNumber: rowNumber, Field: "price", Message: "invalid price", Value: row[6]})
			continue
		}
		if row[0] == "" {
			errs = append(errs, csv.ParseError{RowNumber: rowNumber, Field: "id", Message: "product ID is required"})
			continue
		}

		products = append(products, market.ProductSnapshot{
			ID:       row[0],
			Name:     row[1],
			Category: row[2],
			Brand:    row[3],
			Quantity: quantity,
			Unit:     row[5],
			Price:    price,
			Currency: row[7],
		})
	}

	if len(errs) > 0 {
		log.Warn().Int("rejected", len(errs)).Int("accepted", len(products)).Msg("Workbook catalog rows rejected")
	}
	return products, errs, nil
}

// ParseDiscounts parses a discount workbook into discount intervals.
func (p *Parser) ParseDiscounts(content []byte) ([]market.DiscountInterval, []csv.ParseError, error) {
	rows, start, err := p.rows(content)
	if err != nil {
		return nil, nil, err
	}

	var discounts []market.DiscountInterval
	var errs []csv.ParseError

	for i := start; i < len(rows); i++ {
		row := rows[i]
		rowNumber := i + 1
		if isEmptyRow(row) {
			continue
		}
		if len(row) < 9 {
			errs = append(errs, csv.ParseError{
				RowNumber: rowNumber,
				Message:   fmt.Sprintf("expected 9 columns, got %d", len(row)),
			})
			continue
		}

		from, err := market.ParseDate(row[6])
		if err != nil {
			errs = append(errs, csv.ParseError{RowNumber: rowNumber, Field: "from", Message: "invalid start date", Value: row[6]})
			continue
		}
		to, err := market.ParseDate(row[7])
		if err != nil {
			errs = append(errs, csv.ParseError{RowNumber: rowNumber, Field: "to", Message: "invalid end date", Value: row[7]})
			continue
		}
		if to.Before(from.Time) {
			errs = append(errs, csv.ParseError{RowNumber: rowNumber, Field: "to", Message: "end date before start date", Value: row[7]})
			continue
		}
		percent, err := strconv.Atoi(strings.TrimSpace(row[8]))
		if err != nil || percent < 0 || percent > 100 {
			errs = append(errs, csv.ParseError{RowNumber: rowNumber, Field: "percent", Message: "invalid discount percentage", Value: row[8]})
			continue
		}

		discounts = append(discounts, market.DiscountInterval{
			ProductID:   row[0],
			ProductName: row[1],
			Brand:       row[2],
			Quantity:    row[3],
			Unit:        row[4],
			Category:    row[5],
			FromDate:    from,
			ToDate:      to,
			Percent:     percent,
		})
	}

	if len(errs) > 0 {
		log.Warn().Int("rejected", len(errs)).Int("accepted", len(discounts)).Msg("Workbook discount rows rejected")
	}
	return discounts, errs, nil
}

// rows opens the workbook and returns the selected sheet's trimmed rows plus
// the index of the first data row.
func (p *Parser) rows(content []byte) ([][]string, int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := p.selectSheet(f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read worksheet: %w", err)
	}

	for _, row := range rows {
		for i, cell := range row {
			row[i] = strings.TrimSpace(cell)
		}
	}

	start := 0
	if p.options.HasHeader && len(rows) > 0 {
		start = 1
	}
	return rows, start, nil
}

// selectSheet selects the configured sheet, defaulting to the first.
func (p *Parser) selectSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if p.options.SheetName == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if name == p.options.SheetName {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found. Available sheets: %s", p.options.SheetName, strings.Join(sheets, ", "))
}

// isEmptyRow checks if a row is empty
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// parseDecimal parses a decimal number accepting both dot and comma
// separators.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	return strconv.ParseFloat(s, 64)
}
