package services

import (
	"context"

	"agrovision/internal/models"
	"agrovision/internal/repository"
)

type FarmerService struct {
	storage repository.IStorage
}

type IFarmerService interface {
	// GetCurrentFarmer returns the earliest registered farmer, or nil when
	// none exist. The dashboard is single-farmer.
	GetCurrentFarmer(ctx context.Context) (*models.Farmer, error)
	GetFarmer(ctx context.Context, id string) (*models.Farmer, error)
	CreateFarmer(ctx context.Context, input models.CreateFarmerInput) (*models.Farmer, error)
	UpdateFarmer(ctx context.Context, id string, input models.UpdateFarmerInput) (*models.Farmer, error)
}

func NewFarmerService(storage repository.IStorage) IFarmerService {
	return &FarmerService{
		storage: storage,
	}
}

func (s *FarmerService) GetCurrentFarmer(ctx context.Context) (*models.Farmer, error) {
	farmers, err := s.storage.ListFarmers(ctx)
	if err != nil {
		return nil, err
	}
	if len(farmers) == 0 {
		return nil, nil
	}
	return &farmers[0], nil
}

func (s *FarmerService) GetFarmer(ctx context.Context, id string) (*models.Farmer, error) {
	return s.storage.GetFarmer(ctx, id)
}

func (s *FarmerService) CreateFarmer(ctx context.Context, input models.CreateFarmerInput) (*models.Farmer, error) {
	return s.storage.CreateFarmer(ctx, input)
}

func (s *FarmerService) UpdateFarmer(ctx context.Context, id string, input models.UpdateFarmerInput) (*models.Farmer, error) {
	return s.storage.UpdateFarmer(ctx, id, input)
}
