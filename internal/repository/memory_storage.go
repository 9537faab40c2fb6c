package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"agrovision/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDuplicate is returned when a write would break a uniqueness rule
// (user email, user external id).
var ErrDuplicate = errors.New("duplicate value violates unique constraint")

// ErrInvalidReference is returned by backends that enforce foreign keys when
// a record points at a row that does not exist. MemStorage never returns it.
var ErrInvalidReference = errors.New("referenced record does not exist")

type memoryState struct {
	users         map[string]models.User
	farmers       map[string]models.Farmer
	cropDiagnoses map[string]models.CropDiagnosis
	weatherData   map[string]models.WeatherData
	diseaseAlerts map[string]models.DiseaseAlert
	agriStores    map[string]models.AgriStore
}

// MemStorage keeps every record in process memory. Contents are lost on
// restart. Concurrent writers race with last-write-wins.
type MemStorage struct {
	mu    sync.RWMutex
	state memoryState
	now   func() time.Time
}

// NewMemStorage returns an empty, process-local IStorage. It is safe for
// concurrent use and loses all data when the process exits, so it backs
// development runs and tests. Call SeedIfEmpty to load the sample dataset.
func NewMemStorage() *MemStorage {
	return &MemStorage{
		state: memoryState{
			users:         map[string]models.User{},
			farmers:       map[string]models.Farmer{},
			cropDiagnoses: map[string]models.CropDiagnosis{},
			weatherData:   map[string]models.WeatherData{},
			diseaseAlerts: map[string]models.DiseaseAlert{},
			agriStores:    map[string]models.AgriStore{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.state.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *MemStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.state.users {
		if user.Email != nil && *user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemStorage) CreateUser(ctx context.Context, input models.CreateUserInput) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertUserLocked(uuid.NewString(), input)
}

func (s *MemStorage) UpsertUser(ctx context.Context, input models.UpsertUserInput) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.ExternalID != nil {
		for id, existing := range s.state.users {
			if existing.ExternalID == nil || *existing.ExternalID != *input.ExternalID {
				continue
			}
			if input.Email != nil && s.emailTakenLocked(*input.Email, id) {
				return nil, ErrDuplicate
			}
			mergeUser(&existing, input.CreateUserInput)
			existing.UpdatedAt = s.now()
			s.state.users[id] = existing
			return &existing, nil
		}
	}

	id := uuid.NewString()
	if input.ID != nil && *input.ID != "" {
		id = *input.ID
	}
	return s.insertUserLocked(id, input.CreateUserInput)
}

func (s *MemStorage) insertUserLocked(id string, input models.CreateUserInput) (*models.User, error) {
	if _, exists := s.state.users[id]; exists {
		return nil, ErrDuplicate
	}
	if input.Email != nil && s.emailTakenLocked(*input.Email, "") {
		return nil, ErrDuplicate
	}
	if input.ExternalID != nil {
		for _, existing := range s.state.users {
			if existing.ExternalID != nil && *existing.ExternalID == *input.ExternalID {
				return nil, ErrDuplicate
			}
		}
	}

	now := s.now()
	user := models.User{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	mergeUser(&user, input)
	s.state.users[id] = user
	return &user, nil
}

func (s *MemStorage) emailTakenLocked(email, exceptID string) bool {
	for id, user := range s.state.users {
		if id != exceptID && user.Email != nil && *user.Email == email {
			return true
		}
	}
	return false
}

func mergeUser(user *models.User, input models.CreateUserInput) {
	if input.Email != nil {
		user.Email = input.Email
	}
	if input.FirstName != nil {
		user.FirstName = input.FirstName
	}
	if input.LastName != nil {
		user.LastName = input.LastName
	}
	if input.ProfileImageURL != nil {
		user.ProfileImageURL = input.ProfileImageURL
	}
	if input.ExternalID != nil {
		user.ExternalID = input.ExternalID
	}
}

func (s *MemStorage) GetFarmer(ctx context.Context, id string) (*models.Farmer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	farmer, ok := s.state.farmers[id]
	if !ok {
		return nil, nil
	}
	farmer.Achievements = cloneArray(farmer.Achievements)
	return &farmer, nil
}

func (s *MemStorage) ListFarmers(ctx context.Context) ([]models.Farmer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	farmers := make([]models.Farmer, 0, len(s.state.farmers))
	for _, farmer := range s.state.farmers {
		farmer.Achievements = cloneArray(farmer.Achievements)
		farmers = append(farmers, farmer)
	}
	sort.Slice(farmers, func(i, j int) bool {
		if farmers[i].CreatedAt.Equal(farmers[j].CreatedAt) {
			return farmers[i].ID < farmers[j].ID
		}
		return farmers[i].CreatedAt.Before(farmers[j].CreatedAt)
	})
	return farmers, nil
}

func (s *MemStorage) CreateFarmer(ctx context.Context, input models.CreateFarmerInput) (*models.Farmer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	farmer := models.Farmer{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Location:     input.Location,
		Phone:        input.Phone,
		Language:     languageOrDefault(input.Language),
		Achievements: stringsOrEmpty(input.Achievements),
		CreatedAt:    s.now(),
	}
	if input.HealthScore != nil {
		farmer.HealthScore = *input.HealthScore
	}

	s.state.farmers[farmer.ID] = farmer
	farmer.Achievements = cloneArray(farmer.Achievements)
	return &farmer, nil
}

func (s *MemStorage) UpdateFarmer(ctx context.Context, id string, input models.UpdateFarmerInput) (*models.Farmer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	farmer, ok := s.state.farmers[id]
	if !ok {
		return nil, nil
	}
	applyFarmerUpdate(&farmer, input)
	s.state.farmers[id] = farmer

	farmer.Achievements = cloneArray(farmer.Achievements)
	return &farmer, nil
}

func applyFarmerUpdate(farmer *models.Farmer, input models.UpdateFarmerInput) {
	if input.Name != nil {
		farmer.Name = *input.Name
	}
	if input.Location != nil {
		farmer.Location = *input.Location
	}
	if input.Phone != nil {
		farmer.Phone = input.Phone
	}
	if input.Language != nil {
		farmer.Language = languageOrDefault(input.Language)
	}
	if input.HealthScore != nil {
		farmer.HealthScore = *input.HealthScore
	}
	if input.Achievements != nil {
		farmer.Achievements = stringsOrEmpty(input.Achievements)
	}
}

func (s *MemStorage) GetCropDiagnosis(ctx context.Context, id string) (*models.CropDiagnosis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnosis, ok := s.state.cropDiagnoses[id]
	if !ok {
		return nil, nil
	}
	diagnosis.Treatments = cloneArray(diagnosis.Treatments)
	return &diagnosis, nil
}

func (s *MemStorage) GetCropDiagnosesByFarmer(ctx context.Context, farmerID string) ([]models.CropDiagnosis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnoses := []models.CropDiagnosis{}
	for _, diagnosis := range s.state.cropDiagnoses {
		if diagnosis.FarmerID == nil || *diagnosis.FarmerID != farmerID {
			continue
		}
		diagnosis.Treatments = cloneArray(diagnosis.Treatments)
		diagnoses = append(diagnoses, diagnosis)
	}
	sort.Slice(diagnoses, func(i, j int) bool {
		return diagnoses[i].CreatedAt.Before(diagnoses[j].CreatedAt)
	})
	return diagnoses, nil
}

func (s *MemStorage) CreateCropDiagnosis(ctx context.Context, input models.CreateCropDiagnosisInput) (*models.CropDiagnosis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	diagnosis := models.CropDiagnosis{
		ID:         uuid.NewString(),
		FarmerID:   input.FarmerID,
		ImagePath:  input.ImagePath,
		Disease:    input.Disease,
		Severity:   input.Severity,
		Confidence: input.Confidence,
		Treatments: stringsOrEmpty(input.Treatments),
		CreatedAt:  s.now(),
	}
	s.state.cropDiagnoses[diagnosis.ID] = diagnosis

	diagnosis.Treatments = cloneArray(diagnosis.Treatments)
	return &diagnosis, nil
}

func (s *MemStorage) GetWeatherData(ctx context.Context, location string) (*models.WeatherData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	weather, ok := s.findWeatherLocked(location)
	if !ok {
		return nil, nil
	}
	return &weather, nil
}

func (s *MemStorage) findWeatherLocked(location string) (models.WeatherData, bool) {
	for _, weather := range s.state.weatherData {
		if weather.Location == location {
			weather.Alerts = cloneArray(weather.Alerts)
			return weather, true
		}
	}
	return models.WeatherData{}, false
}

func (s *MemStorage) CreateOrUpdateWeatherData(ctx context.Context, input models.WeatherInput) (*models.WeatherData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	weather, exists := s.findWeatherLocked(input.Location)
	if !exists {
		weather = models.WeatherData{
			ID:       uuid.NewString(),
			Location: input.Location,
			Alerts:   pq.StringArray{},
		}
	}

	if input.Temperature != nil {
		weather.Temperature = input.Temperature
	}
	if input.Humidity != nil {
		weather.Humidity = input.Humidity
	}
	if input.Rainfall != nil {
		weather.Rainfall = input.Rainfall
	}
	if input.UVIndex != nil {
		weather.UVIndex = input.UVIndex
	}
	if input.Alerts != nil {
		weather.Alerts = stringsOrEmpty(input.Alerts)
	}
	weather.UpdatedAt = s.now()

	s.state.weatherData[weather.ID] = weather
	weather.Alerts = cloneArray(weather.Alerts)
	return &weather, nil
}

func (s *MemStorage) GetDiseaseAlerts(ctx context.Context, location string) ([]models.DiseaseAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alerts := []models.DiseaseAlert{}
	for _, alert := range s.state.diseaseAlerts {
		if !alert.IsActive {
			continue
		}
		if location != "" && alert.Location != location {
			continue
		}
		alerts = append(alerts, alert)
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.Before(alerts[j].CreatedAt)
	})
	return alerts, nil
}

func (s *MemStorage) CreateDiseaseAlert(ctx context.Context, input models.CreateDiseaseAlertInput) (*models.DiseaseAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert := models.DiseaseAlert{
		ID:          uuid.NewString(),
		Disease:     input.Disease,
		Location:    input.Location,
		RiskLevel:   input.RiskLevel,
		Description: input.Description,
		IsActive:    true,
		CreatedAt:   s.now(),
	}
	if input.ReportCount != nil {
		alert.ReportCount = *input.ReportCount
	}

	s.state.diseaseAlerts[alert.ID] = alert
	return &alert, nil
}

func (s *MemStorage) GetAgriStores(ctx context.Context, location string) ([]models.AgriStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stores := []models.AgriStore{}
	for _, store := range s.state.agriStores {
		if location != "" && !strings.Contains(store.Location, location) {
			continue
		}
		store.Services = cloneArray(store.Services)
		stores = append(stores, store)
	}

	if location == "" {
		sort.SliceStable(stores, func(i, j int) bool {
			return stores[i].DistanceOrZero() < stores[j].DistanceOrZero()
		})
	}
	return stores, nil
}

func (s *MemStorage) CreateAgriStore(ctx context.Context, input models.CreateAgriStoreInput) (*models.AgriStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store := models.AgriStore{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		Distance:    input.Distance,
		Services:    stringsOrEmpty(input.Services),
		Contact:     input.Contact,
		ImagePath:   input.ImagePath,
	}
	if input.Rating != nil {
		store.Rating = *input.Rating
	}

	s.state.agriStores[store.ID] = store
	store.Services = cloneArray(store.Services)
	return &store, nil
}

func (s *MemStorage) CountAgriStores(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.state.agriStores), nil
}

func cloneArray(values pq.StringArray) pq.StringArray {
	if values == nil {
		return nil
	}
	out := make(pq.StringArray, len(values))
	copy(out, values)
	return out
}
