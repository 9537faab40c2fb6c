package repository

import (
	"context"
	"fmt"

	"agrovision/internal/models"
)

func ptr[T any](v T) *T { return &v }

// SampleFarmers and the other Sample* slices are the fixed dataset every
// backend starts from.
var SampleFarmers = []models.CreateFarmerInput{
	{
		Name:         "Ravi Kumar",
		Location:     "Cuttack, Odisha",
		Phone:        ptr("+91 9876543210"),
		Language:     ptr(models.LanguageEnglish),
		HealthScore:  ptr(85),
		Achievements: []string{"early_adopter", "crop_protector", "pest_defender"},
	},
}

var SampleWeather = []models.WeatherInput{
	{
		Location:    "Bhubaneswar, Odisha",
		Temperature: ptr(28.0),
		Humidity:    ptr(65.0),
		Rainfall:    ptr(12.0),
		UVIndex:     ptr(6),
		Alerts:      []string{"High humidity detected"},
	},
}

var SampleDiseaseAlerts = []models.CreateDiseaseAlertInput{
	{
		Disease:     "Tomato Blight",
		Location:    "Odisha",
		RiskLevel:   models.RiskHigh,
		Description: ptr("Reported in 3 nearby farms"),
		ReportCount: ptr(3),
	},
	{
		Disease:     "Aphid Infestation",
		Location:    "Odisha",
		RiskLevel:   models.RiskMedium,
		Description: ptr("Monitor crops closely"),
		ReportCount: ptr(1),
	},
}

var SampleAgriStores = []models.CreateAgriStoreInput{
	{
		Name:        "Krishna Agri Store",
		Description: ptr("Seeds, Fertilizers, Pesticides"),
		Location:    "Bhubaneswar, Odisha",
		Distance:    ptr(2.3),
		Rating:      ptr(4.5),
		Services:    []string{"Seeds", "Fertilizers", "Pesticides"},
		Contact:     ptr("+91 9876543211"),
	},
	{
		Name:        "Village Cooperative",
		Description: ptr("Organic Solutions, Training"),
		Location:    "Cuttack, Odisha",
		Distance:    ptr(1.8),
		Rating:      ptr(5.0),
		Services:    []string{"Organic Solutions", "Training"},
		Contact:     ptr("+91 9876543212"),
	},
	{
		Name:        "AgriTech Solutions",
		Description: ptr("Modern Equipment, Consultation"),
		Location:    "Bhubaneswar, Odisha",
		Distance:    ptr(4.1),
		Rating:      ptr(4.0),
		Services:    []string{"Modern Equipment", "Consultation"},
		Contact:     ptr("+91 9876543213"),
	},
}

// Seeder is implemented by backends that can insert the sample dataset as
// one atomic unit. SeedSampleData reports whether anything was inserted.
type Seeder interface {
	SeedSampleData(ctx context.Context) (bool, error)
}

// SeedIfEmpty inserts the sample dataset unless the store collection already
// has rows, and reports whether anything was inserted.
//
// Backends implementing Seeder do it atomically. For the others each sample
// record is skipped when a record with the same natural key exists, so a run
// that failed halfway can be repeated without duplicating what it already
// wrote.
func SeedIfEmpty(ctx context.Context, storage IStorage) (bool, error) {
	if seeder, ok := storage.(Seeder); ok {
		return seeder.SeedSampleData(ctx)
	}

	count, err := storage.CountAgriStores(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count agri stores: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	return seedMissing(ctx, storage)
}

func seedMissing(ctx context.Context, storage IStorage) (bool, error) {
	inserted := false

	farmers, err := storage.ListFarmers(ctx)
	if err != nil {
		return inserted, fmt.Errorf("failed to list farmers: %w", err)
	}
	for _, farmer := range SampleFarmers {
		if hasFarmer(farmers, farmer) {
			continue
		}
		if _, err := storage.CreateFarmer(ctx, farmer); err != nil {
			return inserted, fmt.Errorf("failed to seed farmer %s: %w", farmer.Name, err)
		}
		inserted = true
	}

	for _, weather := range SampleWeather {
		existing, err := storage.GetWeatherData(ctx, weather.Location)
		if err != nil {
			return inserted, fmt.Errorf("failed to get weather for %s: %w", weather.Location, err)
		}
		if existing != nil {
			continue
		}
		if _, err := storage.CreateOrUpdateWeatherData(ctx, weather); err != nil {
			return inserted, fmt.Errorf("failed to seed weather for %s: %w", weather.Location, err)
		}
		inserted = true
	}

	for _, alert := range SampleDiseaseAlerts {
		existing, err := storage.GetDiseaseAlerts(ctx, alert.Location)
		if err != nil {
			return inserted, fmt.Errorf("failed to get disease alerts for %s: %w", alert.Location, err)
		}
		if hasAlert(existing, alert) {
			continue
		}
		if _, err := storage.CreateDiseaseAlert(ctx, alert); err != nil {
			return inserted, fmt.Errorf("failed to seed disease alert %s: %w", alert.Disease, err)
		}
		inserted = true
	}

	for _, store := range SampleAgriStores {
		existing, err := storage.GetAgriStores(ctx, store.Location)
		if err != nil {
			return inserted, fmt.Errorf("failed to get agri stores for %s: %w", store.Location, err)
		}
		if hasStore(existing, store) {
			continue
		}
		if _, err := storage.CreateAgriStore(ctx, store); err != nil {
			return inserted, fmt.Errorf("failed to seed agri store %s: %w", store.Name, err)
		}
		inserted = true
	}

	return inserted, nil
}

func hasFarmer(farmers []models.Farmer, sample models.CreateFarmerInput) bool {
	for _, farmer := range farmers {
		if farmer.Name == sample.Name && farmer.Location == sample.Location {
			return true
		}
	}
	return false
}

func hasAlert(alerts []models.DiseaseAlert, sample models.CreateDiseaseAlertInput) bool {
	for _, alert := range alerts {
		if alert.Disease == sample.Disease && alert.Location == sample.Location {
			return true
		}
	}
	return false
}

func hasStore(stores []models.AgriStore, sample models.CreateAgriStoreInput) bool {
	for _, store := range stores {
		if store.Name == sample.Name && store.Location == sample.Location {
			return true
		}
	}
	return false
}
