package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
)

// newMockStore wraps a sqlmock connection in a gorm handle the way the
// production Open does, minus the real network.
func newMockStore(t *testing.T) (*ForecastStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewWithDB(gormDB), mock
}

func TestExecRunsStatementWithArgs(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO weather_data (city_name, humidity) VALUES ($1, $2);")).
		WithArgs("London", 72).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := store.Exec(context.Background(),
		"INSERT INTO weather_data (city_name, humidity) VALUES ($1, $2);", "London", 72)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecPropagatesDatabaseError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS weather_data").
		WillReturnError(assert.AnError)

	_, err := store.Exec(context.Background(), "CREATE TABLE IF NOT EXISTS weather_data (id SERIAL);")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertHourly(t *testing.T) {
	store, mock := newMockStore(t)

	rows := []domain.HourlyForecast{
		{
			Time:          time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			WeatherCode:   1,
			Temperature2M: 18.2,
			Latitude:      35.6586,
			Longitude:     139.7454,
			CollectedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			Time:          time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC),
			WeatherCode:   3,
			Temperature2M: 17.9,
			Latitude:      35.6586,
			Longitude:     139.7454,
			CollectedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "hourly_forecast" .+ ON CONFLICT \("time","latitude","longitude"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	affected, err := store.UpsertHourly(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertHourlyNoRows(t *testing.T) {
	store, mock := newMockStore(t)

	affected, err := store.UpsertHourly(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertHourlyPropagatesDatabaseError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "hourly_forecast"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := store.UpsertHourly(context.Background(), []domain.HourlyForecast{
		{Time: time.Now().UTC(), Latitude: 1, Longitude: 2},
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	store := NewWithDB(gormDB)

	mock.ExpectPing()
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
