// Package dataset loads historical route records for training.
//
// Sources are selected by URI: a plain path or file:// URI reads CSV,
// sqlite:// reads a SQLite table and postgres:// reads a PostgreSQL table.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kilianp07/routetime/core/model"
)

// DefaultPath is the CSV read when no source is configured.
const DefaultPath = "data/route_history.csv"

// DefaultTable is the table queried by SQL sources.
const DefaultTable = "route_history"

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrParse is returned when a value cannot be read as a number.
	ErrParse = errors.New("malformed value")
)

// Source yields route records.
type Source interface {
	Load(ctx context.Context) ([]model.RouteRecord, error)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Open returns the source addressed by uri. table is used by SQL sources and
// defaults to DefaultTable.
func Open(uri, table string) (Source, error) {
	if uri == "" {
		uri = DefaultPath
	}
	if table == "" {
		table = DefaultTable
	}
	switch {
	case strings.HasPrefix(uri, "sqlite://"):
		if !identRe.MatchString(table) {
			return nil, fmt.Errorf("invalid table name %q", table)
		}
		return &SQLiteSource{Path: strings.TrimPrefix(uri, "sqlite://"), Table: table}, nil
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		if !identRe.MatchString(table) {
			return nil, fmt.Errorf("invalid table name %q", table)
		}
		return &PostgresSource{DSN: uri, Table: table}, nil
	case strings.HasPrefix(uri, "file://"):
		return &CSVSource{Path: strings.TrimPrefix(uri, "file://")}, nil
	case strings.Contains(uri, "://"):
		return nil, fmt.Errorf("unsupported data source %q", uri)
	default:
		return &CSVSource{Path: uri}, nil
	}
}

// selectColumns is the projection shared by SQL sources, in RecordColumns order.
func selectColumns(cast string) string {
	cols := make([]string, len(model.RecordColumns))
	for i, c := range model.RecordColumns {
		cols[i] = fmt.Sprintf(cast, c)
	}
	return strings.Join(cols, ", ")
}

// numColumns is len(model.RecordColumns).
const numColumns = model.NumFeatures + 1

func recordFrom(vals [numColumns]float64) model.RouteRecord {
	return model.RouteRecord{
		DistanceKm:        vals[0],
		Hour:              vals[1],
		DayOfWeek:         vals[2],
		TrafficCongestion: vals[3],
		OSRMTimeEst:       vals[4],
		ActualTime:        vals[5],
	}
}
