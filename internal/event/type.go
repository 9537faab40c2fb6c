package event

import (
	"time"

	"agrovision/internal/models"
)

const DiagnosisQueue string = "crop_diagnosis_events"

type DiagnosisEventType string

const DiagnosisCreated DiagnosisEventType = "diagnosis_created"

// DiagnosisEvent is published after a crop diagnosis has been stored.
type DiagnosisEvent struct {
	ID          string             `json:"id"`
	EventType   DiagnosisEventType `json:"event_type"`
	DiagnosisID string             `json:"diagnosis_id"`
	FarmerID    *string            `json:"farmer_id"`
	Disease     string             `json:"disease"`
	Severity    models.Severity    `json:"severity"`
	Confidence  float64            `json:"confidence"`
	ImagePath   string             `json:"image_path"`
	OccurredAt  time.Time          `json:"occurred_at"`
}
