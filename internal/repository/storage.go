package repository

import (
	"context"

	"agrovision/internal/models"
)

// IStorage is implemented by MemStorage and PostgresStorage. Lookups of a
// record that does not exist return nil and a nil error.
type IStorage interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, input models.CreateUserInput) (*models.User, error)
	UpsertUser(ctx context.Context, input models.UpsertUserInput) (*models.User, error)

	GetFarmer(ctx context.Context, id string) (*models.Farmer, error)
	ListFarmers(ctx context.Context) ([]models.Farmer, error)
	CreateFarmer(ctx context.Context, input models.CreateFarmerInput) (*models.Farmer, error)
	UpdateFarmer(ctx context.Context, id string, input models.UpdateFarmerInput) (*models.Farmer, error)

	GetCropDiagnosis(ctx context.Context, id string) (*models.CropDiagnosis, error)
	GetCropDiagnosesByFarmer(ctx context.Context, farmerID string) ([]models.CropDiagnosis, error)
	CreateCropDiagnosis(ctx context.Context, input models.CreateCropDiagnosisInput) (*models.CropDiagnosis, error)

	GetWeatherData(ctx context.Context, location string) (*models.WeatherData, error)
	CreateOrUpdateWeatherData(ctx context.Context, input models.WeatherInput) (*models.WeatherData, error)

	// GetDiseaseAlerts returns active alerts; an empty location disables the
	// exact-match filter.
	GetDiseaseAlerts(ctx context.Context, location string) ([]models.DiseaseAlert, error)
	CreateDiseaseAlert(ctx context.Context, input models.CreateDiseaseAlertInput) (*models.DiseaseAlert, error)

	// GetAgriStores filters by substring when location is set, otherwise
	// returns every store ordered by ascending distance.
	GetAgriStores(ctx context.Context, location string) ([]models.AgriStore, error)
	CreateAgriStore(ctx context.Context, input models.CreateAgriStoreInput) (*models.AgriStore, error)
	CountAgriStores(ctx context.Context) (int, error)
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func languageOrDefault(language *string) string {
	if language == nil || *language == "" {
		return models.DefaultLanguage
	}
	return *language
}
