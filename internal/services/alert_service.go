package services

import (
	"context"

	"agrovision/internal/models"
	"agrovision/internal/repository"
)

type AlertService struct {
	storage repository.IStorage
}

type IAlertService interface {
	GetActiveAlerts(ctx context.Context, location string) ([]models.DiseaseAlert, error)
	CreateAlert(ctx context.Context, input models.CreateDiseaseAlertInput) (*models.DiseaseAlert, error)
}

func NewAlertService(storage repository.IStorage) IAlertService {
	return &AlertService{
		storage: storage,
	}
}

func (s *AlertService) GetActiveAlerts(ctx context.Context, location string) ([]models.DiseaseAlert, error) {
	return s.storage.GetDiseaseAlerts(ctx, location)
}

func (s *AlertService) CreateAlert(ctx context.Context, input models.CreateDiseaseAlertInput) (*models.DiseaseAlert, error) {
	return s.storage.CreateDiseaseAlert(ctx, input)
}
