package services

import (
	"context"

	"agrovision/internal/models"
	"agrovision/internal/repository"
)

type AgriStoreService struct {
	storage repository.IStorage
}

type IAgriStoreService interface {
	GetStores(ctx context.Context, location string) ([]models.AgriStore, error)
	CreateStore(ctx context.Context, input models.CreateAgriStoreInput) (*models.AgriStore, error)
}

func NewAgriStoreService(storage repository.IStorage) IAgriStoreService {
	return &AgriStoreService{
		storage: storage,
	}
}

func (s *AgriStoreService) GetStores(ctx context.Context, location string) ([]models.AgriStore, error) {
	return s.storage.GetAgriStores(ctx, location)
}

func (s *AgriStoreService) CreateStore(ctx context.Context, input models.CreateAgriStoreInput) (*models.AgriStore, error) {
	return s.storage.CreateAgriStore(ctx, input)
}
