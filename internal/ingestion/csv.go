package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
)

const csvDateLayout = "2006-01-02"

// expectedHeaders enforces strict column ordering for price files.
var expectedHeaders = []string{"date", "close"}

// CSVSource reads "<Dir>/<TICKER>.csv" files with a "date;close" header.
// Dates are "2006-01-02"; closes may use either '.' or ',' as decimal separator.
type CSVSource struct {
	Dir string
}

// NewCSVSource returns a Source reading price files from dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{Dir: dir}
}

func (s *CSVSource) Name() string { return "csv" }

// Fetch parses the ticker's file. A missing file is an unknown ticker; a
// malformed file fails the whole fetch.
func (s *CSVSource) Fetch(ctx context.Context, ticker string) ([]models.Observation, error) {
	ticker, err := models.NormalizeTicker(ticker)
	if err != nil {
		return nil, fmt.Errorf("csv source: %w", err)
	}
	path := filepath.Join(s.Dir, ticker+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("csv source: no file for %s: %w", ticker, errs.ErrTickerNotFound)
		}
		return nil, fmt.Errorf("csv source: open %s: %w: %w", path, errs.ErrRepository, err)
	}
	defer func() { _ = f.Close() }()

	out, err := parsePrices(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("csv source %s: %w: %w", path, errs.ErrRepository, err)
	}
	return out, nil
}

// parsePrices validates the header strictly, then parses every row.
func parsePrices(ctx context.Context, in io.Reader) ([]models.Observation, error) {
	r := csv.NewReader(in)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return nil, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(h), expectedHeaders[i]) {
			return nil, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}

	var out []models.Observation
	lineNumber := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedHeaders) {
			return nil, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedHeaders), len(rec))
		}
		o, err := recordToObservation(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		out = append(out, o)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func recordToObservation(rec []string) (models.Observation, error) {
	var o models.Observation

	d, err := time.Parse(csvDateLayout, strings.TrimSpace(rec[0]))
	if err != nil {
		return o, fmt.Errorf("invalid date: %v", err)
	}
	o.Timestamp = d

	price, err := parseDecimal(strings.ReplaceAll(strings.TrimSpace(rec[1]), ",", "."))
	if err != nil {
		return o, fmt.Errorf("invalid close: %v", err)
	}
	o.Price = price
	return o, nil
}

// parseDecimal parses a price string exactly before narrowing it to float64.
func parseDecimal(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
