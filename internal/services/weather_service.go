package services

import (
	"context"
	"math/rand/v2"

	"agrovision/internal/models"
	"agrovision/internal/repository"
)

const highHumidityAlert = "High humidity detected"

type WeatherService struct {
	storage repository.IStorage
	float   func() float64
	intN    func(n int) int
}

type IWeatherService interface {
	// GetWeather returns the stored reading for location, creating a random
	// one on first request.
	GetWeather(ctx context.Context, location string) (*models.WeatherData, error)
	UpdateWeather(ctx context.Context, input models.WeatherInput) (*models.WeatherData, error)
}

func NewWeatherService(storage repository.IStorage) *WeatherService {
	return &WeatherService{
		storage: storage,
		float:   rand.Float64,
		intN:    rand.IntN,
	}
}

func (s *WeatherService) GetWeather(ctx context.Context, location string) (*models.WeatherData, error) {
	weather, err := s.storage.GetWeatherData(ctx, location)
	if err != nil {
		return nil, err
	}
	if weather != nil {
		return weather, nil
	}

	// Two first requests racing both upsert the same location; the later
	// random reading wins.
	return s.storage.CreateOrUpdateWeatherData(ctx, s.randomReading(location))
}

func (s *WeatherService) randomReading(location string) models.WeatherInput {
	temperature := 25 + s.float()*10
	humidity := 50 + s.float()*30
	rainfall := s.float() * 20
	uvIndex := s.intN(11)

	alerts := []string{}
	if s.float() > 0.7 {
		alerts = append(alerts, highHumidityAlert)
	}

	return models.WeatherInput{
		Location:    location,
		Temperature: &temperature,
		Humidity:    &humidity,
		Rainfall:    &rainfall,
		UVIndex:     &uvIndex,
		Alerts:      alerts,
	}
}

func (s *WeatherService) UpdateWeather(ctx context.Context, input models.WeatherInput) (*models.WeatherData, error) {
	return s.storage.CreateOrUpdateWeatherData(ctx, input)
}
