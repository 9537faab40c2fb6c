package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"agrovision/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// newTestMemStorage returns a store whose clock advances one second per call
// so ordering by creation time is deterministic.
func newTestMemStorage() *MemStorage {
	s := NewMemStorage()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

// ============================================================================
// USERS
// ============================================================================

func TestMemStorage_CreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()

	_, err := s.CreateUser(ctx, models.CreateUserInput{Email: ptr("ravi@example.com")})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, models.CreateUserInput{Email: ptr("ravi@example.com")})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemStorage_UpsertUser_MergesByExternalID(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()

	first, err := s.UpsertUser(ctx, models.UpsertUserInput{
		CreateUserInput: models.CreateUserInput{
			ExternalID: ptr("gh-42"),
			FirstName:  ptr("Ravi"),
			Email:      ptr("ravi@example.com"),
		},
	})
	require.NoError(t, err)

	second, err := s.UpsertUser(ctx, models.UpsertUserInput{
		CreateUserInput: models.CreateUserInput{
			ExternalID: ptr("gh-42"),
			LastName:   ptr("Kumar"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ravi", *second.FirstName)
	assert.Equal(t, "Kumar", *second.LastName)
	assert.Equal(t, "ravi@example.com", *second.Email)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	byEmail, err := s.GetUserByEmail(ctx, "ravi@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, first.ID, byEmail.ID)
}

func TestMemStorage_UpsertUser_UsesProvidedID(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()

	user, err := s.UpsertUser(ctx, models.UpsertUserInput{ID: ptr("user-1")})
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	got, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestMemStorage_GetUser_Missing(t *testing.T) {
	s := newTestMemStorage()

	user, err := s.GetUser(context.Background(), "nope")

	assert.NoError(t, err)
	assert.Nil(t, user)
}

// ============================================================================
// FARMERS
// ============================================================================

func TestMemStorage_CreateFarmer_Defaults(t *testing.T) {
	s := newTestMemStorage()

	farmer, err := s.CreateFarmer(context.Background(), models.CreateFarmerInput{
		Name:     "Sita Devi",
		Location: "Puri, Odisha",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, farmer.ID)
	assert.Equal(t, models.LanguageEnglish, farmer.Language)
	assert.Equal(t, 0, farmer.HealthScore)
	assert.NotNil(t, farmer.Achievements)
	assert.Empty(t, farmer.Achievements)
	assert.Nil(t, farmer.Phone)
	assert.False(t, farmer.CreatedAt.IsZero())
}

func TestMemStorage_ListFarmers_OrderedByCreation(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()

	for _, name := range []string{"A", "B", "C"} {
		_, err := s.CreateFarmer(ctx, models.CreateFarmerInput{Name: name, Location: "Odisha"})
		require.NoError(t, err)
	}

	farmers, err := s.ListFarmers(ctx)

	require.NoError(t, err)
	require.Len(t, farmers, 3)
	assert.Equal(t, "A", farmers[0].Name)
	assert.Equal(t, "B", farmers[1].Name)
	assert.Equal(t, "C", farmers[2].Name)
}

func TestMemStorage_UpdateFarmer(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()

	created, err := s.CreateFarmer(ctx, models.CreateFarmerInput{
		Name:         "Ravi",
		Location:     "Cuttack",
		Achievements: []string{"early_adopter"},
	})
	require.NoError(t, err)

	updated, err := s.UpdateFarmer(ctx, created.ID, models.UpdateFarmerInput{
		HealthScore: ptr(90),
		Language:    ptr(models.LanguageOdia),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "Ravi", updated.Name)
	assert.Equal(t, 90, updated.HealthScore)
	assert.Equal(t, models.LanguageOdia, updated.Language)
	assert.Equal(t, []string{"early_adopter"}, []string(updated.Achievements))

	missing, err := s.UpdateFarmer(ctx, "unknown", models.UpdateFarmerInput{Name: ptr("x")})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemStorage_ReturnedSlicesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()

	created, err := s.CreateFarmer(ctx, models.CreateFarmerInput{
		Name:         "Ravi",
		Location:     "Cuttack",
		Achievements: []string{"early_adopter"},
	})
	require.NoError(t, err)

	created.Achievements[0] = "tampered"

	got, err := s.GetFarmer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "early_adopter", got.Achievements[0])
}

// ============================================================================
// CROP DIAGNOSES
// ============================================================================

func TestMemStorage_CropDiagnosesByFarmer(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()
	farmerID := "farmer-1"

	_, err := s.CreateCropDiagnosis(ctx, models.CreateCropDiagnosisInput{
		FarmerID: &farmerID, ImagePath: "a.jpg", Disease: "Leaf Spot", Severity: models.SeverityLow,
	})
	require.NoError(t, err)
	_, err = s.CreateCropDiagnosis(ctx, models.CreateCropDiagnosisInput{
		FarmerID: &farmerID, ImagePath: "b.jpg", Disease: "Early Blight", Severity: models.SeverityMedium,
	})
	require.NoError(t, err)
	_, err = s.CreateCropDiagnosis(ctx, models.CreateCropDiagnosisInput{
		ImagePath: "c.jpg", Disease: "Powdery Mildew", Severity: models.SeverityLow,
	})
	require.NoError(t, err)

	diagnoses, err := s.GetCropDiagnosesByFarmer(ctx, farmerID)

	require.NoError(t, err)
	require.Len(t, diagnoses, 2)
	assert.Equal(t, "a.jpg", diagnoses[0].ImagePath)
	assert.Equal(t, "b.jpg", diagnoses[1].ImagePath)

	none, err := s.GetCropDiagnosesByFarmer(ctx, "farmer-2")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

// ============================================================================
// WEATHER
// ============================================================================

func TestMemStorage_WeatherUpsert_KeepsOneRecordPerLocation(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()

	first, err := s.CreateOrUpdateWeatherData(ctx, models.WeatherInput{
		Location:    "Puri",
		Temperature: ptr(30.0),
		Humidity:    ptr(70.0),
	})
	require.NoError(t, err)
	assert.NotNil(t, first.Alerts)
	assert.Empty(t, first.Alerts)

	second, err := s.CreateOrUpdateWeatherData(ctx, models.WeatherInput{
		Location:    "Puri",
		Temperature: ptr(32.0),
		Alerts:      []string{"Heat wave"},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 32.0, *second.Temperature)
	assert.Equal(t, 70.0, *second.Humidity, "omitted fields keep stored values")
	assert.Nil(t, second.Rainfall)
	assert.Equal(t, []string{"Heat wave"}, []string(second.Alerts))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Len(t, s.state.weatherData, 1)
}

func TestMemStorage_GetWeatherData_Missing(t *testing.T) {
	s := newTestMemStorage()

	weather, err := s.GetWeatherData(context.Background(), "Nowhere")

	assert.NoError(t, err)
	assert.Nil(t, weather)
}

// ============================================================================
// DISEASE ALERTS
// ============================================================================

func TestMemStorage_GetDiseaseAlerts_ActiveOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()

	active, err := s.CreateDiseaseAlert(ctx, models.CreateDiseaseAlertInput{
		Disease: "Tomato Blight", Location: "Odisha", RiskLevel: models.RiskHigh,
	})
	require.NoError(t, err)
	assert.True(t, active.IsActive)
	assert.Equal(t, 0, active.ReportCount)

	inactive, err := s.CreateDiseaseAlert(ctx, models.CreateDiseaseAlertInput{
		Disease: "Rust", Location: "Odisha", RiskLevel: models.RiskLow,
	})
	require.NoError(t, err)

	s.mu.Lock()
	stored := s.state.diseaseAlerts[inactive.ID]
	stored.IsActive = false
	s.state.diseaseAlerts[inactive.ID] = stored
	s.mu.Unlock()

	alerts, err := s.GetDiseaseAlerts(ctx, "")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, active.ID, alerts[0].ID)
}

func TestMemStorage_GetDiseaseAlerts_ExactLocation(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()

	_, err := s.CreateDiseaseAlert(ctx, models.CreateDiseaseAlertInput{Disease: "A", Location: "Odisha"})
	require.NoError(t, err)
	_, err = s.CreateDiseaseAlert(ctx, models.CreateDiseaseAlertInput{Disease: "B", Location: "Cuttack, Odisha"})
	require.NoError(t, err)

	alerts, err := s.GetDiseaseAlerts(ctx, "Odisha")

	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "A", alerts[0].Disease)
}

// ============================================================================
// AGRI STORES
// ============================================================================

func TestMemStorage_GetAgriStores_SortedByDistance(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()
	for _, store := range SampleAgriStores {
		_, err := s.CreateAgriStore(ctx, store)
		require.NoError(t, err)
	}
	_, err := s.CreateAgriStore(ctx, models.CreateAgriStoreInput{Name: "No Distance", Location: "Puri"})
	require.NoError(t, err)

	stores, err := s.GetAgriStores(ctx, "")

	require.NoError(t, err)
	require.Len(t, stores, 4)
	assert.Equal(t, "No Distance", stores[0].Name)
	assert.Equal(t, "Village Cooperative", stores[1].Name)
	assert.Equal(t, "Krishna Agri Store", stores[2].Name)
	assert.Equal(t, "AgriTech Solutions", stores[3].Name)
}

func TestMemStorage_GetAgriStores_SubstringFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStorage()
	for _, store := range SampleAgriStores {
		_, err := s.CreateAgriStore(ctx, store)
		require.NoError(t, err)
	}

	stores, err := s.GetAgriStores(ctx, "Bhubaneswar")
	require.NoError(t, err)
	assert.Len(t, stores, 2)
	for _, store := range stores {
		assert.Contains(t, store.Location, "Bhubaneswar")
	}

	lower, err := s.GetAgriStores(ctx, "bhubaneswar")
	require.NoError(t, err)
	assert.Empty(t, lower, "match is case-sensitive")
}

func TestMemStorage_CreateAgriStore_Defaults(t *testing.T) {
	s := newTestMemStorage()

	store, err := s.CreateAgriStore(context.Background(), models.CreateAgriStoreInput{
		Name: "Kisan Kendra", Location: "Balasore",
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, store.Rating)
	assert.NotNil(t, store.Services)
	assert.Nil(t, store.Distance)
}

func TestMemStorage_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.CreateAgriStore(ctx, models.CreateAgriStoreInput{Name: "Store", Location: "Odisha"})
			_, _ = s.CreateOrUpdateWeatherData(ctx, models.WeatherInput{Location: "Odisha", Temperature: ptr(25.0)})
		}()
	}
	wg.Wait()

	count, err := s.CountAgriStores(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, count)
	assert.Len(t, s.state.weatherData, 1)
}
