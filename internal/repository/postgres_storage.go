package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agrovision/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	userColumns      = `id, email, first_name, last_name, profile_image_url, github_id, created_at, updated_at`
	farmerColumns    = `id, name, location, phone, language, health_score, achievements, created_at`
	diagnosisColumns = `id, farmer_id, image_path, disease, severity, confidence, treatments, created_at`
	weatherColumns   = `id, location, temperature, humidity, rainfall, uv_index, alerts, updated_at`
	alertColumns     = `id, disease, location, risk_level, description, report_count, is_active, created_at`
	storeColumns     = `id, name, description, location, distance, rating, services, contact, image_path`
)

// PostgresStorage persists records in the tables created by
// database/postgres. Every method is a single statement or one short
// transaction.
type PostgresStorage struct {
	db *sqlx.DB
}

// NewPostgresStorage returns an IStorage backed by db. The schema must already
// exist; postgres.ConnectWithRetry creates it on startup. The caller owns db
// and closes it on shutdown.
func NewPostgresStorage(db *sqlx.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (r *PostgresStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

func (r *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *PostgresStorage) CreateUser(ctx context.Context, input models.CreateUserInput) (*models.User, error) {
	return r.insertUser(ctx, uuid.NewString(), input)
}

func (r *PostgresStorage) insertUser(ctx context.Context, id string, input models.CreateUserInput) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, github_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING ` + userColumns

	var user models.User
	err := r.db.GetContext(ctx, &user, query,
		id,
		input.Email,
		input.FirstName,
		input.LastName,
		input.ProfileImageURL,
		input.ExternalID,
	)
	if err != nil {
		return nil, wrapWriteError("failed to create user", err)
	}
	return &user, nil
}

func (r *PostgresStorage) UpsertUser(ctx context.Context, input models.UpsertUserInput) (*models.User, error) {
	id := uuid.NewString()
	if input.ID != nil && *input.ID != "" {
		id = *input.ID
	}
	if input.ExternalID == nil {
		return r.insertUser(ctx, id, input.CreateUserInput)
	}

	query := `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, github_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (github_id) DO UPDATE SET
			email             = COALESCE(EXCLUDED.email, users.email),
			first_name        = COALESCE(EXCLUDED.first_name, users.first_name),
			last_name         = COALESCE(EXCLUDED.last_name, users.last_name),
			profile_image_url = COALESCE(EXCLUDED.profile_image_url, users.profile_image_url),
			updated_at        = now()
		RETURNING ` + userColumns

	var user models.User
	err := r.db.GetContext(ctx, &user, query,
		id,
		input.Email,
		input.FirstName,
		input.LastName,
		input.ProfileImageURL,
		input.ExternalID,
	)
	if err != nil {
		return nil, wrapWriteError("failed to upsert user", err)
	}
	return &user, nil
}

func (r *PostgresStorage) GetFarmer(ctx context.Context, id string) (*models.Farmer, error) {
	var farmer models.Farmer
	query := `SELECT ` + farmerColumns + ` FROM farmers WHERE id = $1`
	if err := r.db.GetContext(ctx, &farmer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get farmer by ID: %w", err)
	}
	return &farmer, nil
}

func (r *PostgresStorage) ListFarmers(ctx context.Context) ([]models.Farmer, error) {
	farmers := []models.Farmer{}
	query := `SELECT ` + farmerColumns + ` FROM farmers ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &farmers, query); err != nil {
		return nil, fmt.Errorf("failed to list farmers: %w", err)
	}
	return farmers, nil
}

func (r *PostgresStorage) CreateFarmer(ctx context.Context, input models.CreateFarmerInput) (*models.Farmer, error) {
	return insertFarmer(ctx, r.db, input)
}

func insertFarmer(ctx context.Context, q sqlx.QueryerContext, input models.CreateFarmerInput) (*models.Farmer, error) {
	healthScore := 0
	if input.HealthScore != nil {
		healthScore = *input.HealthScore
	}

	query := `
		INSERT INTO farmers (id, name, location, phone, language, health_score, achievements, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING ` + farmerColumns

	var farmer models.Farmer
	err := sqlx.GetContext(ctx, q, &farmer, query,
		uuid.NewString(),
		input.Name,
		input.Location,
		input.Phone,
		languageOrDefault(input.Language),
		healthScore,
		pq.Array(stringsOrEmpty(input.Achievements)),
	)
	if err != nil {
		return nil, wrapWriteError("failed to create farmer", err)
	}
	return &farmer, nil
}

// UpdateFarmer locks the row, merges the provided fields in Go and writes
// the whole row back inside one transaction.
func (r *PostgresStorage) UpdateFarmer(ctx context.Context, id string, input models.UpdateFarmerInput) (*models.Farmer, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var farmer models.Farmer
	query := `SELECT ` + farmerColumns + ` FROM farmers WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &farmer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load farmer for update: %w", err)
	}

	applyFarmerUpdate(&farmer, input)

	update := `
		UPDATE farmers
		SET name = $2, location = $3, phone = $4, language = $5, health_score = $6, achievements = $7
		WHERE id = $1
		RETURNING ` + farmerColumns

	var updated models.Farmer
	err = tx.GetContext(ctx, &updated, update,
		farmer.ID,
		farmer.Name,
		farmer.Location,
		farmer.Phone,
		farmer.Language,
		farmer.HealthScore,
		pq.Array([]string(farmer.Achievements)),
	)
	if err != nil {
		return nil, wrapWriteError("failed to update farmer", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit farmer update: %w", err)
	}
	return &updated, nil
}

func (r *PostgresStorage) GetCropDiagnosis(ctx context.Context, id string) (*models.CropDiagnosis, error) {
	var diagnosis models.CropDiagnosis
	query := `SELECT ` + diagnosisColumns + ` FROM crop_diagnoses WHERE id = $1`
	if err := r.db.GetContext(ctx, &diagnosis, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get crop diagnosis by ID: %w", err)
	}
	return &diagnosis, nil
}

func (r *PostgresStorage) GetCropDiagnosesByFarmer(ctx context.Context, farmerID string) ([]models.CropDiagnosis, error) {
	diagnoses := []models.CropDiagnosis{}
	query := `SELECT ` + diagnosisColumns + ` FROM crop_diagnoses WHERE farmer_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &diagnoses, query, farmerID); err != nil {
		return nil, fmt.Errorf("failed to get crop diagnoses by farmer: %w", err)
	}
	return diagnoses, nil
}

func (r *PostgresStorage) CreateCropDiagnosis(ctx context.Context, input models.CreateCropDiagnosisInput) (*models.CropDiagnosis, error) {
	query := `
		INSERT INTO crop_diagnoses (id, farmer_id, image_path, disease, severity, confidence, treatments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING ` + diagnosisColumns

	var diagnosis models.CropDiagnosis
	err := r.db.GetContext(ctx, &diagnosis, query,
		uuid.NewString(),
		input.FarmerID,
		input.ImagePath,
		input.Disease,
		input.Severity,
		input.Confidence,
		pq.Array(stringsOrEmpty(input.Treatments)),
	)
	if err != nil {
		return nil, wrapWriteError("failed to create crop diagnosis", err)
	}
	return &diagnosis, nil
}

func (r *PostgresStorage) GetWeatherData(ctx context.Context, location string) (*models.WeatherData, error) {
	var weather models.WeatherData
	query := `SELECT ` + weatherColumns + ` FROM weather_data WHERE location = $1`
	if err := r.db.GetContext(ctx, &weather, query, location); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get weather data: %w", err)
	}
	return &weather, nil
}

// CreateOrUpdateWeatherData upserts on the unique location column. NULL
// parameters keep the stored value.
func (r *PostgresStorage) CreateOrUpdateWeatherData(ctx context.Context, input models.WeatherInput) (*models.WeatherData, error) {
	return upsertWeather(ctx, r.db, input)
}

func upsertWeather(ctx context.Context, q sqlx.QueryerContext, input models.WeatherInput) (*models.WeatherData, error) {
	var alerts any
	if input.Alerts != nil {
		alerts = pq.Array(input.Alerts)
	}

	query := `
		INSERT INTO weather_data (id, location, temperature, humidity, rainfall, uv_index, alerts, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7::text[], '{}'::text[]), now())
		ON CONFLICT (location) DO UPDATE SET
			temperature = COALESCE(EXCLUDED.temperature, weather_data.temperature),
			humidity    = COALESCE(EXCLUDED.humidity, weather_data.humidity),
			rainfall    = COALESCE(EXCLUDED.rainfall, weather_data.rainfall),
			uv_index    = COALESCE(EXCLUDED.uv_index, weather_data.uv_index),
			alerts      = COALESCE($7::text[], weather_data.alerts),
			updated_at  = now()
		RETURNING ` + weatherColumns

	var weather models.WeatherData
	err := sqlx.GetContext(ctx, q, &weather, query,
		uuid.NewString(),
		input.Location,
		input.Temperature,
		input.Humidity,
		input.Rainfall,
		input.UVIndex,
		alerts,
	)
	if err != nil {
		return nil, wrapWriteError("failed to upsert weather data", err)
	}
	return &weather, nil
}

func (r *PostgresStorage) GetDiseaseAlerts(ctx context.Context, location string) ([]models.DiseaseAlert, error) {
	alerts := []models.DiseaseAlert{}
	query := `
		SELECT ` + alertColumns + `
		FROM disease_alerts
		WHERE is_active = true AND ($1 = '' OR location = $1)
		ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &alerts, query, location); err != nil {
		return nil, fmt.Errorf("failed to get disease alerts: %w", err)
	}
	return alerts, nil
}

func (r *PostgresStorage) CreateDiseaseAlert(ctx context.Context, input models.CreateDiseaseAlertInput) (*models.DiseaseAlert, error) {
	return insertDiseaseAlert(ctx, r.db, input)
}

func insertDiseaseAlert(ctx context.Context, q sqlx.QueryerContext, input models.CreateDiseaseAlertInput) (*models.DiseaseAlert, error) {
	reportCount := 0
	if input.ReportCount != nil {
		reportCount = *input.ReportCount
	}

	query := `
		INSERT INTO disease_alerts (id, disease, location, risk_level, description, report_count, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, now())
		RETURNING ` + alertColumns

	var alert models.DiseaseAlert
	err := sqlx.GetContext(ctx, q, &alert, query,
		uuid.NewString(),
		input.Disease,
		input.Location,
		input.RiskLevel,
		input.Description,
		reportCount,
	)
	if err != nil {
		return nil, wrapWriteError("failed to create disease alert", err)
	}
	return &alert, nil
}

func (r *PostgresStorage) GetAgriStores(ctx context.Context, location string) ([]models.AgriStore, error) {
	stores := []models.AgriStore{}

	var err error
	if location != "" {
		// strpos keeps the match literal and case-sensitive, unlike LIKE.
		query := `SELECT ` + storeColumns + ` FROM agri_stores WHERE strpos(location, $1) > 0`
		err = r.db.SelectContext(ctx, &stores, query, location)
	} else {
		query := `SELECT ` + storeColumns + ` FROM agri_stores ORDER BY COALESCE(distance, 0) ASC`
		err = r.db.SelectContext(ctx, &stores, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agri stores: %w", err)
	}
	return stores, nil
}

func (r *PostgresStorage) CreateAgriStore(ctx context.Context, input models.CreateAgriStoreInput) (*models.AgriStore, error) {
	return insertAgriStore(ctx, r.db, input)
}

func insertAgriStore(ctx context.Context, q sqlx.QueryerContext, input models.CreateAgriStoreInput) (*models.AgriStore, error) {
	rating := 0.0
	if input.Rating != nil {
		rating = *input.Rating
	}

	query := `
		INSERT INTO agri_stores (id, name, description, location, distance, rating, services, contact, image_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + storeColumns

	var store models.AgriStore
	err := sqlx.GetContext(ctx, q, &store, query,
		uuid.NewString(),
		input.Name,
		input.Description,
		input.Location,
		input.Distance,
		rating,
		pq.Array(stringsOrEmpty(input.Services)),
		input.Contact,
		input.ImagePath,
	)
	if err != nil {
		return nil, wrapWriteError("failed to create agri store", err)
	}
	return &store, nil
}

func (r *PostgresStorage) CountAgriStores(ctx context.Context) (int, error) {
	return countAgriStores(ctx, r.db)
}

func countAgriStores(ctx context.Context, q sqlx.QueryerContext) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, q, &count, `SELECT COUNT(*) FROM agri_stores`); err != nil {
		return 0, fmt.Errorf("failed to count agri stores: %w", err)
	}
	return count, nil
}

// seedLockKey serializes sample seeding across processes sharing a database.
const seedLockKey int64 = 0x61677276

// SeedSampleData inserts the sample dataset in one transaction, so a failure
// leaves nothing behind. The advisory lock keeps two instances starting at
// once from both seeing an empty store.
func (r *PostgresStorage) SeedSampleData(ctx context.Context) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, seedLockKey); err != nil {
		return false, fmt.Errorf("failed to acquire seed lock: %w", err)
	}

	count, err := countAgriStores(ctx, tx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	for _, farmer := range SampleFarmers {
		if _, err := insertFarmer(ctx, tx, farmer); err != nil {
			return false, fmt.Errorf("failed to seed farmer %s: %w", farmer.Name, err)
		}
	}
	for _, weather := range SampleWeather {
		if _, err := upsertWeather(ctx, tx, weather); err != nil {
			return false, fmt.Errorf("failed to seed weather for %s: %w", weather.Location, err)
		}
	}
	for _, alert := range SampleDiseaseAlerts {
		if _, err := insertDiseaseAlert(ctx, tx, alert); err != nil {
			return false, fmt.Errorf("failed to seed disease alert %s: %w", alert.Disease, err)
		}
	}
	for _, store := range SampleAgriStores {
		if _, err := insertAgriStore(ctx, tx, store); err != nil {
			return false, fmt.Errorf("failed to seed agri store %s: %w", store.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit sample data: %w", err)
	}
	return true, nil
}

const (
	pqUniqueViolation     = pq.ErrorCode("23505")
	pqForeignKeyViolation = pq.ErrorCode("23503")
)

// wrapWriteError maps constraint violations onto the package sentinels so
// callers do not depend on driver error types.
func wrapWriteError(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%s: %w", msg, ErrDuplicate)
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %w", msg, ErrInvalidReference)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
