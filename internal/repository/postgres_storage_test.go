package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"agrovision/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgresStorage(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStorage(sqlx.NewDb(db, "postgres")), mock
}

var farmerRowColumns = []string{"id", "name", "location", "phone", "language", "health_score", "achievements", "created_at"}

func TestPostgresStorage_GetFarmer_NotFound(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)

	mock.ExpectQuery(`SELECT .+ FROM farmers WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(farmerRowColumns))

	farmer, err := storage.GetFarmer(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, farmer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_CreateFarmer(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO farmers`).
		WithArgs(sqlmock.AnyArg(), "Ravi Kumar", "Cuttack, Odisha", nil, "en", 0, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(farmerRowColumns).
			AddRow("f-1", "Ravi Kumar", "Cuttack, Odisha", nil, "en", 0, "{}", now))

	farmer, err := storage.CreateFarmer(context.Background(), models.CreateFarmerInput{
		Name:     "Ravi Kumar",
		Location: "Cuttack, Odisha",
	})

	require.NoError(t, err)
	assert.Equal(t, "f-1", farmer.ID)
	assert.Equal(t, "en", farmer.Language)
	assert.Empty(t, farmer.Achievements)
	assert.Nil(t, farmer.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_CreateUser_DuplicateMapsToErrDuplicate(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := storage.CreateUser(context.Background(), models.CreateUserInput{Email: ptr("ravi@example.com")})

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_UpdateFarmer(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM farmers WHERE id = \$1 FOR UPDATE`).
		WithArgs("f-1").
		WillReturnRows(sqlmock.NewRows(farmerRowColumns).
			AddRow("f-1", "Ravi Kumar", "Cuttack, Odisha", "+91 9876543210", "en", 85, "{early_adopter}", now))
	mock.ExpectQuery(`UPDATE farmers`).
		WithArgs("f-1", "Ravi Kumar", "Cuttack, Odisha", "+91 9876543210", "en", 92, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(farmerRowColumns).
			AddRow("f-1", "Ravi Kumar", "Cuttack, Odisha", "+91 9876543210", "en", 92, "{early_adopter}", now))
	mock.ExpectCommit()

	farmer, err := storage.UpdateFarmer(context.Background(), "f-1", models.UpdateFarmerInput{HealthScore: ptr(92)})

	require.NoError(t, err)
	require.NotNil(t, farmer)
	assert.Equal(t, 92, farmer.HealthScore)
	assert.Equal(t, []string{"early_adopter"}, []string(farmer.Achievements))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_UpdateFarmer_NotFound(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM farmers WHERE id = \$1 FOR UPDATE`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(farmerRowColumns))
	mock.ExpectRollback()

	farmer, err := storage.UpdateFarmer(context.Background(), "missing", models.UpdateFarmerInput{Name: ptr("x")})

	assert.NoError(t, err)
	assert.Nil(t, farmer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_CreateOrUpdateWeatherData(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO weather_data .+ ON CONFLICT \(location\) DO UPDATE`).
		WithArgs(sqlmock.AnyArg(), "Puri", 31.5, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "location", "temperature", "humidity", "rainfall", "uv_index", "alerts", "updated_at"}).
			AddRow("w-1", "Puri", 31.5, 70.0, nil, 5, "{\"High humidity detected\"}", now))

	weather, err := storage.CreateOrUpdateWeatherData(context.Background(), models.WeatherInput{
		Location:    "Puri",
		Temperature: ptr(31.5),
	})

	require.NoError(t, err)
	assert.Equal(t, 31.5, *weather.Temperature)
	assert.Equal(t, 70.0, *weather.Humidity)
	assert.Nil(t, weather.Rainfall)
	assert.Equal(t, 5, *weather.UVIndex)
	assert.Equal(t, []string{"High humidity detected"}, []string(weather.Alerts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_GetDiseaseAlerts(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)

	mock.ExpectQuery(`FROM disease_alerts\s+WHERE is_active = true`).
		WithArgs("Odisha").
		WillReturnRows(sqlmock.NewRows([]string{"id", "disease", "location", "risk_level", "description", "report_count", "is_active", "created_at"}).
			AddRow("a-1", "Tomato Blight", "Odisha", "high", "Reported in 3 nearby farms", 3, true, time.Now()))

	alerts, err := storage.GetDiseaseAlerts(context.Background(), "Odisha")

	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.RiskHigh, alerts[0].RiskLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var storeRowColumns = []string{"id", "name", "description", "location", "distance", "rating", "services", "contact", "image_path"}

func TestPostgresStorage_GetAgriStores_WithLocation(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)

	mock.ExpectQuery(`FROM agri_stores WHERE strpos\(location, \$1\) > 0`).
		WithArgs("Bhubaneswar").
		WillReturnRows(sqlmock.NewRows(storeRowColumns).
			AddRow("s-1", "Krishna Agri Store", nil, "Bhubaneswar, Odisha", 2.3, 4.5, "{Seeds}", nil, nil))

	stores, err := storage.GetAgriStores(context.Background(), "Bhubaneswar")

	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, 2.3, stores[0].DistanceOrZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_GetAgriStores_OrderedByDistance(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)

	mock.ExpectQuery(`FROM agri_stores ORDER BY COALESCE\(distance, 0\) ASC`).
		WillReturnRows(sqlmock.NewRows(storeRowColumns))

	stores, err := storage.GetAgriStores(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, stores)
	assert.Empty(t, stores)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_CountAgriStores(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM agri_stores`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := storage.CountAgriStores(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_CreateCropDiagnosis_UnknownFarmer(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)
	farmerID := "ghost"

	mock.ExpectQuery(`INSERT INTO crop_diagnoses`).
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

	_, err := storage.CreateCropDiagnosis(context.Background(), models.CreateCropDiagnosisInput{
		FarmerID:  &farmerID,
		ImagePath: "uploads/leaf.jpg",
		Disease:   "Leaf Spot",
		Severity:  models.SeverityLow,
	})

	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectSeedPrologue(mock sqlmock.Sqlmock, stores int) {
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(seedLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM agri_stores`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(stores))
}

func idRow(id string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id)
}

func TestPostgresStorage_SeedSampleData_OneTransaction(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)

	expectSeedPrologue(mock, 0)
	for range SampleFarmers {
		mock.ExpectQuery(`INSERT INTO farmers`).WillReturnRows(idRow("f"))
	}
	for range SampleWeather {
		mock.ExpectQuery(`INSERT INTO weather_data`).WillReturnRows(idRow("w"))
	}
	for range SampleDiseaseAlerts {
		mock.ExpectQuery(`INSERT INTO disease_alerts`).WillReturnRows(idRow("a"))
	}
	for range SampleAgriStores {
		mock.ExpectQuery(`INSERT INTO agri_stores`).WillReturnRows(idRow("s"))
	}
	mock.ExpectCommit()

	seeded, err := SeedIfEmpty(context.Background(), storage)

	require.NoError(t, err)
	assert.True(t, seeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_SeedSampleData_RollsBackOnFailure(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)

	expectSeedPrologue(mock, 0)
	for range SampleFarmers {
		mock.ExpectQuery(`INSERT INTO farmers`).WillReturnRows(idRow("f"))
	}
	for range SampleWeather {
		mock.ExpectQuery(`INSERT INTO weather_data`).WillReturnRows(idRow("w"))
	}
	for range SampleDiseaseAlerts {
		mock.ExpectQuery(`INSERT INTO disease_alerts`).WillReturnRows(idRow("a"))
	}
	mock.ExpectQuery(`INSERT INTO agri_stores`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	seeded, err := SeedIfEmpty(context.Background(), storage)

	require.Error(t, err)
	assert.Contains(t, err.Error(), SampleAgriStores[0].Name)
	assert.False(t, seeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_SeedSampleData_SkipsWhenStoresExist(t *testing.T) {
	storage, mock := newMockPostgresStorage(t)

	expectSeedPrologue(mock, 3)
	mock.ExpectRollback()

	seeded, err := SeedIfEmpty(context.Background(), storage)

	require.NoError(t, err)
	assert.False(t, seeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}
