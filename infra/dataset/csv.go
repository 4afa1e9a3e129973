package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kilianp07/routetime/core/model"
)

// CSVSource reads records from a CSV file with a header row. Extra columns
// are ignored and column order is free.
type CSVSource struct {
	Path string
}

// Load implements Source.
func (s *CSVSource) Load(ctx context.Context) ([]model.RouteRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()
	recs, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return recs, nil
}

// ReadCSV parses route records from r. Row numbers in errors count the
// header as row 1.
func ReadCSV(ctx context.Context, r io.Reader) ([]model.RouteRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file has no header", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var pos [numColumns]int
	for i, c := range model.RecordColumns {
		j, ok := index[c]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
		pos[i] = j
	}

	var out []model.RouteRecord
	for row := 2; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		var vals [numColumns]float64
		for i, c := range model.RecordColumns {
			raw := strings.TrimSpace(line[pos[i]])
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w %q", row, c, ErrParse, raw)
			}
			vals[i] = v
		}
		rec := recordFrom(vals)
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
