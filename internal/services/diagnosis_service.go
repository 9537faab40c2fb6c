package services

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"

	"agrovision/internal/models"
	"agrovision/internal/repository"

	"go.uber.org/zap"
)

// DiagnosisPublisher is notified after a diagnosis is stored. Implemented by
// event.DiagnosisPublisher.
type DiagnosisPublisher interface {
	PublishDiagnosisCreated(ctx context.Context, diagnosis *models.CropDiagnosis) error
}

type DiagnoseInput struct {
	FarmerID    *string
	Filename    string
	ContentType string
	Size        int64
	Image       io.Reader
}

type DiagnosisService struct {
	storage   repository.IStorage
	images    ImageStore
	publisher DiagnosisPublisher
	log       *zap.Logger
	pick      func(n int) int
}

type IDiagnosisService interface {
	Diagnose(ctx context.Context, input DiagnoseInput) (*models.CropDiagnosis, error)
	GetDiagnosis(ctx context.Context, id string) (*models.CropDiagnosis, error)
	GetDiagnosesByFarmer(ctx context.Context, farmerID string) ([]models.CropDiagnosis, error)
}

// NewDiagnosisService accepts a nil publisher; events are then skipped.
func NewDiagnosisService(storage repository.IStorage, images ImageStore, publisher DiagnosisPublisher, log *zap.Logger) *DiagnosisService {
	return &DiagnosisService{
		storage:   storage,
		images:    images,
		publisher: publisher,
		log:       log,
		pick:      rand.IntN,
	}
}

// Diagnose stores the photo, picks a catalog disease at random and records
// the result. There is no inference: the photo content is never read back.
func (s *DiagnosisService) Diagnose(ctx context.Context, input DiagnoseInput) (*models.CropDiagnosis, error) {
	imagePath, err := s.images.Save(ctx, input.Filename, input.ContentType, input.Size, input.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to store crop image: %w", err)
	}

	profile := models.DiseaseCatalog[s.pick(len(models.DiseaseCatalog))]

	diagnosis, err := s.storage.CreateCropDiagnosis(ctx, models.CreateCropDiagnosisInput{
		FarmerID:   input.FarmerID,
		ImagePath:  imagePath,
		Disease:    profile.Name,
		Severity:   profile.Severity,
		Confidence: profile.Confidence,
		Treatments: profile.Treatments,
	})
	if err != nil {
		if delErr := s.images.Delete(ctx, imagePath); delErr != nil {
			s.log.Warn("failed to remove orphaned crop image", zap.String("path", imagePath), zap.Error(delErr))
		}
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishDiagnosisCreated(ctx, diagnosis); err != nil {
			s.log.Warn("failed to publish diagnosis event", zap.String("diagnosis_id", diagnosis.ID), zap.Error(err))
		}
	}
	return diagnosis, nil
}

func (s *DiagnosisService) GetDiagnosis(ctx context.Context, id string) (*models.CropDiagnosis, error) {
	return s.storage.GetCropDiagnosis(ctx, id)
}

func (s *DiagnosisService) GetDiagnosesByFarmer(ctx context.Context, farmerID string) ([]models.CropDiagnosis, error) {
	return s.storage.GetCropDiagnosesByFarmer(ctx, farmerID)
}
