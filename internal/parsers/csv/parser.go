// Package csv parses the semicolon-delimited catalog and discount files
// published by the stores.
package csv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pricecomparator/market-service/internal/market"
	"github.com/pricecomparator/market-service/internal/parsers/charset"
)

// Column counts of the two file formats.
const (
	productColumns  = 8 // id;name;category;brand;quantity;unit;price;currency
	discountColumns = 9 // productID;name;brand;quantity;unit;category;from;to;percent
)

// ParseError describes one rejected row.
type ParseError struct {
	RowNumber int    `json:"rowNumber"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
	Value     string `json:"value,omitempty"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("row %d: %s", e.RowNumber, e.Message)
}

// Options controls parsing behavior.
type Options struct {
	Delimiter rune   // defaults to ';'
	Encoding  string // empty means detect
	HasHeader bool
}

// Parser parses store CSV files with encoding detection.
type Parser struct {
	options Options
}

// NewParser creates a new CSV parser with the given options.
func NewParser(options Options) *Parser {
	if options.Delimiter == 0 {
		options.Delimiter = ';'
	}
	return &Parser{options: options}
}

// ParseProducts parses catalog content into product snapshots. Rejected rows
// are collected as errors rather than aborting the parse, so one bad line
// does not lose the rest of the file.
func (p *Parser) ParseProducts(content []byte) ([]market.ProductSnapshot, []ParseError, error) {
	rows, start, err := p.rows(content)
	if err != nil {
		return nil, nil, err
	}

	var products []market.ProductSnapshot
	var errs []ParseError

	for i := start; i < len(rows); i++ {
		row := rows[i]
		rowNumber := i + 1
		if isEmptyRow(row) {
			continue
		}
		if len(row) < productColumns {
			errs = append(errs, ParseError{
				RowNumber: rowNumber,
				Message:   fmt.Sprintf("expected %d columns, got %d", productColumns, len(row)),
			})
			continue
		}

		quantity, err := parseDecimal(row[4])
		if err != nil {
			errs = append(errs, ParseError{RowNumber: rowNumber, Field: "quantity", Message: "invalid quantity", Value: row[4]})
			continue
		}
		price, err := parseDecimal(row[6])
		if err != nil {
			errs = append(errs, ParseError{RowNumber: rowNumber, Field: "price", Message: "invalid price", Value: row[6]})
			continue
		}
		if row[0] == "" {
			errs = append(errs, ParseError{RowNumber: rowNumber, Field: "id", Message: "product ID is required"})
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
		log.Warn().Int("rejected", len(errs)).Int("accepted", len(products)).Msg("Catalog rows rejected")
	}
	return products, errs, nil
}

// ParseDiscounts parses discount content into discount intervals.
func (p *Parser) ParseDiscounts(content []byte) ([]market.DiscountInterval, []ParseError, error) {
	rows, start, err := p.rows(content)
	if err != nil {
		return nil, nil, err
	}

	var discounts []market.DiscountInterval
	var errs []ParseError

	for i := start; i < len(rows); i++ {
		row := rows[i]
		rowNumber := i + 1
		if isEmptyRow(row) {
			continue
		}
		if len(row) < discountColumns {
			errs = append(errs, ParseError{
				RowNumber: rowNumber,
				Message:   fmt.Sprintf("expected %d columns, got %d", discountColumns, len(row)),
			})
			continue
		}

		from, err := market.ParseDate(row[6])
		if err != nil {
			errs = append(errs, ParseError{RowNumber: rowNumber, Field: "from", Message: "invalid start date", Value: row[6]})
			continue
		}
		to, err := market.ParseDate(row[7])
		if err != nil {
			errs = append(errs, ParseError{RowNumber: rowNumber, Field: "to", Message: "invalid end date", Value: row[7]})
			continue
		}
		percent, err := strconv.Atoi(strings.TrimSpace(row[8]))
		if err != nil || percent < 0 || percent > 100 {
			errs = append(errs, ParseError{RowNumber: rowNumber, Field: "percent", Message: "invalid discount percentage", Value: row[8]})
			continue
		}
		if to.Before(from.Time) {
			errs = append(errs, ParseError{RowNumber: rowNumber, Field: "to", Message: "end date before start date", Value: row[7]})
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
		log.Warn().Int("rejected", len(errs)).Int("accepted", len(discounts)).Msg("Discount rows rejected")
	}
	return discounts, errs, nil
}

// rows decodes the content and splits it into trimmed field rows, returning
// the index of the first data row.
func (p *Parser) rows(content []byte) ([][]string, int, error) {
	enc := charset.Encoding(p.options.Encoding)
	if enc == "" {
		enc = charset.DetectEncoding(content)
	}
	decoded, err := charset.Decode(content, enc)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode content: %w", err)
	}

	lines := splitLines(decoded)
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Split(line, string(p.options.Delimiter))
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
		rows = append(rows, fields)
	}

	start := 0
	if p.options.HasHeader && len(rows) > 0 {
		start = 1
	}
	return rows, start, nil
}

// splitLines splits content into lines handling different line endings
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
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
