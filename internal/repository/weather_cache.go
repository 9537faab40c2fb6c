package repository

import (
	"context"
	"errors"
	"time"

	"agrovision/internal/models"
	"agrovision/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const weatherKeyPrefix = "agrovision:weather:"

// WeatherCache stores serialized weather rows in Redis keyed by location.
type WeatherCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewWeatherCache stores weather readings in Redis under
// "agrovision:weather:<location>" keys that expire after ttl. Any
// redis.Cmdable works, including cluster and ring clients.
func NewWeatherCache(client redis.Cmdable, ttl time.Duration) *WeatherCache {
	return &WeatherCache{client: client, ttl: ttl}
}

func weatherKey(location string) string {
	return weatherKeyPrefix + location
}

// Get returns nil, nil on a cache miss.
func (c *WeatherCache) Get(ctx context.Context, location string) (*models.WeatherData, error) {
	data, err := c.client.Get(ctx, weatherKey(location)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var weather models.WeatherData
	if err := utils.DeserializeModel(data, &weather); err != nil {
		return nil, err
	}
	return &weather, nil
}

func (c *WeatherCache) Set(ctx context.Context, weather *models.WeatherData) error {
	data, err := utils.SerializeModel(weather)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, weatherKey(weather.Location), data, c.ttl).Err()
}

func (c *WeatherCache) Invalidate(ctx context.Context, location string) error {
	return c.client.Del(ctx, weatherKey(location)).Err()
}

// CachedStorage puts a WeatherCache in front of another IStorage. Only the
// weather methods are intercepted. Cache failures are logged and the call
// falls through to the wrapped storage.
type CachedStorage struct {
	IStorage
	cache *WeatherCache
	log   *zap.Logger
}

// NewCachedStorage wraps storage with a read-through weather cache. Weather
// reads try the cache first and fill it on a miss, writes refresh it, and
// every other method goes straight to storage. Cache failures are logged and
// never fail the request.
func NewCachedStorage(storage IStorage, cache *WeatherCache, log *zap.Logger) *CachedStorage {
	return &CachedStorage{IStorage: storage, cache: cache, log: log}
}

func (s *CachedStorage) GetWeatherData(ctx context.Context, location string) (*models.WeatherData, error) {
	cached, err := s.cache.Get(ctx, location)
	if err != nil {
		s.log.Warn("weather cache read failed", zap.String("location", location), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	weather, err := s.IStorage.GetWeatherData(ctx, location)
	if err != nil || weather == nil {
		return weather, err
	}
	s.store(ctx, weather)
	return weather, nil
}

func (s *CachedStorage) CreateOrUpdateWeatherData(ctx context.Context, input models.WeatherInput) (*models.WeatherData, error) {
	weather, err := s.IStorage.CreateOrUpdateWeatherData(ctx, input)
	if err != nil {
		if cacheErr := s.cache.Invalidate(ctx, input.Location); cacheErr != nil {
			s.log.Warn("weather cache invalidate failed", zap.String("location", input.Location), zap.Error(cacheErr))
		}
		return nil, err
	}
	s.store(ctx, weather)
	return weather, nil
}

func (s *CachedStorage) store(ctx context.Context, weather *models.WeatherData) {
	if err := s.cache.Set(ctx, weather); err != nil {
		s.log.Warn("weather cache write failed", zap.String("location", weather.Location), zap.Error(err))
	}
}

// SeedSampleData seeds the wrapped storage and drops any cached reading for
// the seeded locations. A failed run may have written some rows, so it
// invalidates too.
func (s *CachedStorage) SeedSampleData(ctx context.Context) (bool, error) {
	seeded, err := SeedIfEmpty(ctx, s.IStorage)
	if seeded || err != nil {
		for _, weather := range SampleWeather {
			if cacheErr := s.cache.Invalidate(ctx, weather.Location); cacheErr != nil {
				s.log.Warn("weather cache invalidate failed", zap.String("location", weather.Location), zap.Error(cacheErr))
			}
		}
	}
	return seeded, err
}
