package main

import (
	"context"
	"fmt"
	"time"

	"agrovision/internal/ai/gemini"
	"agrovision/internal/config"
	"agrovision/internal/database/minio"
	"agrovision/internal/database/postgres"
	"agrovision/internal/database/redis"
	"agrovision/internal/event"
	"agrovision/internal/handlers"
	"agrovision/internal/repository"
	"agrovision/internal/server"
	"agrovision/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	dbConnectAttempts = 5
	dbConnectWait     = 3 * time.Second
)

type app struct {
	storage repository.IStorage
	router  *gin.Engine
	closers []func()
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg *config.AgroVisionConfig, log *zap.Logger) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	storage, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStorage)

	if cfg.RedisCfg.Enabled {
		client, err := redis.NewRedisClient(ctx, cfg.RedisCfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		storage = repository.NewCachedStorage(storage, repository.NewWeatherCache(client.GetClient(), cfg.RedisCfg.WeatherTTL), log)
		log.Info("weather cache enabled", zap.Duration("ttl", cfg.RedisCfg.WeatherTTL))
	}
	a.storage = storage

	images, err := openImageStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var publisher services.DiagnosisPublisher
	var publisherStatus handlers.PublisherStatus
	if cfg.RabbitMQCfg.URL != "" {
		conn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg.URL, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = conn.Close() })
		diagnosisPublisher, err := event.NewDiagnosisPublisher(conn.Channel, log)
		if err != nil {
			return nil, err
		}
		publisher = diagnosisPublisher
		publisherStatus = diagnosisPublisher
	}

	generator, closeGenerator, err := openTextGenerator(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeGenerator)

	a.router = server.NewRouter(server.RouterConfig{
		CORSOrigins:      cfg.CORSOrigins,
		Log:              log,
		FarmerHandler:    handlers.NewFarmerHandler(services.NewFarmerService(storage), log),
		DiagnosisHandler: handlers.NewDiagnosisHandler(services.NewDiagnosisService(storage, images, publisher, log), log),
		WeatherHandler:   handlers.NewWeatherHandler(services.NewWeatherService(storage), log),
		AlertHandler:     handlers.NewAlertHandler(services.NewAlertService(storage), log),
		StoreHandler:     handlers.NewStoreHandler(services.NewAgriStoreService(storage), log),
		VoiceHandler:     handlers.NewVoiceHandler(services.NewVoiceService(generator, cfg.GeminiAPICfg.Timeout, log), log),
		Publisher:        publisherStatus,
	})

	ok = true
	return a, nil
}

func openStorage(ctx context.Context, cfg *config.AgroVisionConfig, log *zap.Logger) (repository.IStorage, func(), error) {
	if cfg.StorageBackend != config.StoragePostgres {
		log.Info("using in-memory storage; data is lost on restart")
		return repository.NewMemStorage(), func() {}, nil
	}

	db, err := postgres.ConnectWithRetry(ctx, cfg.PostgresCfg, dbConnectAttempts, dbConnectWait, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	return repository.NewPostgresStorage(db), func() { _ = db.Close() }, nil
}

func openImageStore(ctx context.Context, cfg *config.AgroVisionConfig, log *zap.Logger) (services.ImageStore, error) {
	if cfg.ImageStore != config.ImageStoreMinio {
		return services.NewLocalImageStore(cfg.UploadDir), nil
	}

	client, err := minio.NewMinioClient(ctx, cfg.MinioCfg, log)
	if err != nil {
		return nil, err
	}
	return services.NewMinioImageStore(client), nil
}

// openTextGenerator returns a nil generator when no Gemini key is configured;
// the voice assistant then always answers with its fallback text.
func openTextGenerator(ctx context.Context, cfg *config.AgroVisionConfig, log *zap.Logger) (services.TextGenerator, func(), error) {
	if !cfg.HasGeminiKey() {
		log.Warn("GEMINI_API_KEY not set; voice assistant will use fallback replies")
		return nil, func() {}, nil
	}

	clients := make([]gemini.TextClient, 0, len(cfg.GeminiAPICfg.APIKeys))
	geminiClients := make([]*gemini.GeminiClient, 0, len(cfg.GeminiAPICfg.APIKeys))
	closeAll := func() {
		for _, client := range geminiClients {
			_ = client.Close()
		}
	}

	for i, key := range cfg.GeminiAPICfg.APIKeys {
		client, err := gemini.NewGenAIClient(ctx, key, cfg.GeminiAPICfg.Model)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to create Gemini client %d: %w", i+1, err)
		}
		geminiClients = append(geminiClients, client)
		clients = append(clients, client)
	}

	log.Info("Gemini clients ready",
		zap.Int("count", len(clients)),
		zap.String("model", cfg.GeminiAPICfg.Model))
	return gemini.NewClientSelector(clients, log), closeAll, nil
}
