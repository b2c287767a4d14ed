// Package storage provides the gorm-backed access layer for the relational
// sink. It executes the DDL and generated statements produced by the loading
// tasks and bulk-upserts hourly forecast rows.
package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
)

// hourlyBatchSize bounds how many rows go into a single INSERT.
const hourlyBatchSize = 500

// ForecastStore executes sink DDL and DML for the pipelines.
// Safe for concurrent use by activity workers.
type ForecastStore struct {
	db *gorm.DB
}

// Open connects to the Postgres sink identified by dsn.
func Open(dsn string) (*ForecastStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sink database: %w", err)
	}
	return &ForecastStore{db: db}, nil
}

// NewWithDB wraps an existing gorm handle. Used by tests with a mocked
// database connection.
func NewWithDB(db *gorm.DB) *ForecastStore {
	return &ForecastStore{db: db}
}

// Exec runs a statement with its bound arguments against the sink and
// returns the number of rows affected. Used for both the
// create-table-if-not-exists DDL and the generated insert statements.
func (s *ForecastStore) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tx := s.db.WithContext(ctx).Exec(sql, args...)
	if tx.Error != nil {
		return 0, fmt.Errorf("exec statement: %w", tx.Error)
	}
	return tx.RowsAffected, nil
}

// UpsertHourly writes hourly forecast rows in batches. A conflicting
// primary key (same hour and coordinates) refreshes the stored reading.
func (s *ForecastStore) UpsertHourly(ctx context.Context, rows []domain.HourlyForecast) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "time"}, {Name: "latitude"}, {Name: "longitude"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"weather_code", "temperature_2m", "collected_at",
			}),
		}).
		CreateInBatches(rows, hourlyBatchSize)
	if tx.Error != nil {
		return 0, fmt.Errorf("upsert hourly rows: %w", tx.Error)
	}
	return tx.RowsAffected, nil
}

// Ping verifies sink connectivity. Used at worker startup.
func (s *ForecastStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("sink database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sink database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *ForecastStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("sink database handle: %w", err)
	}
	return sqlDB.Close()
}
