package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kilianp07/routetime/core/model"
)

// PostgresSource reads records from a PostgreSQL table. Table may be
// schema qualified.
type PostgresSource struct {
	DSN   string
	Table string
}

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context) ([]model.RouteRecord, error) {
	pool, err := pgxpool.New(ctx, s.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	table := pgx.Identifier(strings.Split(s.Table, ".")).Sanitize()
	query := fmt.Sprintf("SELECT %s FROM %s", selectColumns("%s::float8"), table)
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

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
