package dataset

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/routetime/core/model"
	"github.com/kilianp07/routetime/test/util"
)

func TestPostgresSource(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn, cleanup, err := util.StartPostgres(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	defer cleanup()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `CREATE SCHEMA fleet;
        CREATE TABLE fleet.route_history (
            distance_km numeric,
            hour integer,
            day_of_week integer,
            traffic_congestion integer,
            osrm_time_est double precision,
            actual_time double precision
        );
        INSERT INTO fleet.route_history VALUES (5, 14, 3, 3, 500, 620), (12.5, 18, 5, 4, 780, 1010);`)
	require.NoError(t, err)
	pool.Close()

	src, err := Open(dsn, "fleet.route_history")
	require.NoError(t, err)
	recs, err := src.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, model.NewFeatureVector(12.5, 18, 5, 4, 780), recs[1].Features())
	assert.Equal(t, 1010.0, recs[1].ActualTime)
}
