package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kilianp07/routetime/core/model"
	_ "modernc.org/sqlite"
)

// SQLiteSource reads records from a table in a SQLite database file.
type SQLiteSource struct {
	Path  string
	Table string
}

// Load implements Source.
func (s *SQLiteSource) Load(ctx context.Context) ([]model.RouteRecord, error) {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", s.Path, err)
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf("SELECT %s FROM %s", selectColumns("CAST(%s AS REAL)"), s.Table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.RouteRecord
	for n := 1; rows.Next(); n++ {
		var v [numColumns]float64
		if err := rows.Scan(&v[0], &v[1], &v[2], &v[3], &v[4], &v[5]); err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		rec := recordFrom(v)
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
