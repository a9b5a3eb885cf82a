// Package importer turns spreadsheet exports into invoice line items.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

var ErrNoHeader = errors.New("no header row with description and rate columns found")

// Line is one parsed row, ready to become a line item.
type Line struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
}

type column int

const (
	colDescription column = iota
	colQuantity
	colRate
)

var headerAliases = map[string]column{
	"description": colDescription,
	"item":        colDescription,
	"descrição":   colDescription,
	"quantity":    colQuantity,
	"qty":         colQuantity,
	"quantidade":  colQuantity,
	"rate":        colRate,
	"price":       colRate,
	"unit price":  colRate,
	"unit_price":  colRate,
	"preço":       colRate,
}

var delimiters = []rune{';', ','}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a CSV export. The header may be preceded by any number of
// preamble rows; it is the first row naming at least a description and a
// rate column. Quantity defaults to 1 when the column is absent.
func (p *Parser) Parse(r io.Reader) ([]Line, error) {
	utf8r, err := toUTF8(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, delim := range delimiters {
		rows, err := readRows(data, delim)
		if err != nil {
			continue
		}

		cols, headerIdx, ok := findHeader(rows)
		if !ok {
			continue
		}

		return parseRows(cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrNoHeader
}

func readRows(data []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

func findHeader(rows [][]string) (map[column]int, int, bool) {
	for rowIdx, row := range rows {
		cols := make(map[column]int)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if c, ok := headerAliases[name]; ok {
				if _, seen := cols[c]; !seen {
					cols[c] = i
				}
			}
		}

		_, hasDesc := cols[colDescription]
		_, hasRate := cols[colRate]

		if hasDesc && hasRate {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

// parseRows skips blank rows and rows whose numbers do not parse (totals,
// footers). A priced row without a description is an error.
func parseRows(cols map[column]int, rows [][]string, headerRowNum int) ([]Line, error) {
	var lines []Line

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		if isBlank(row) {
			continue
		}

		rate, ok := number(row, cols[colRate])
		if !ok {
			continue
		}

		qty := decimal.NewFromInt(1)

		if idx, present := cols[colQuantity]; present {
			if qty, ok = number(row, idx); !ok {
				continue
			}
		}

		desc := cell(row, cols[colDescription])
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		lines = append(lines, Line{Description: desc, Quantity: qty, Rate: rate})
	}

	return lines, nil
}

func number(row []string, idx int) (decimal.Decimal, bool) {
	s := cell(row, idx)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseNumber(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}

	return d, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

// Service appends imported lines to a record.
type Service struct {
	parser *Parser
}

func NewService() *Service {
	return &Service{parser: NewParser()}
}

// Import parses r and appends one line item per row to rec. A record whose
// only item is still untouched has that item replaced. It returns the number
// of items added.
func (s *Service) Import(rec *invoice.Record, r io.Reader) (int, error) {
	lines, err := s.parser.Parse(r)
	if err != nil {
		return 0, err
	}

	if len(lines) == 0 {
		return 0, nil
	}

	placeholder := ""
	if len(rec.LineItems) == 1 && isUntouched(rec.LineItems[0]) {
		placeholder = rec.LineItems[0].ID
	}

	for _, l := range lines {
		item := rec.AddLineItem()

		desc, qty, rate := l.Description, l.Quantity, l.Rate
		if err := rec.UpdateLineItem(item.ID, invoice.LineItemUpdate{
			Description: &desc,
			Quantity:    &qty,
			Rate:        &rate,
		}); err != nil {
			return 0, fmt.Errorf("adding imported item: %w", err)
		}
	}

	if placeholder != "" {
		rec.RemoveLineItem(placeholder)
	}

	return len(lines), nil
}

func isUntouched(item invoice.LineItem) bool {
	return item.Description == "" && item.Quantity.Equal(decimal.NewFromInt(1)) && item.Rate.IsZero()
}
