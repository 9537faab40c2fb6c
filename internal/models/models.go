package models

import (
	"time"

	"github.com/lib/pq"
)

// User is a signed-in dashboard account. ExternalID holds the identity
// provider's id (github) and is the upsert key.
type User struct {
	ID              string    `db:"id" json:"id"`
	Email           *string   `db:"email" json:"email"`
	FirstName       *string   `db:"first_name" json:"firstName"`
	LastName        *string   `db:"last_name" json:"lastName"`
	ProfileImageURL *string   `db:"profile_image_url" json:"profileImageUrl"`
	ExternalID      *string   `db:"github_id" json:"githubId"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

type Farmer struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Location     string         `db:"location" json:"location"`
	Phone        *string        `db:"phone" json:"phone"`
	Language     string         `db:"language" json:"language"`
	HealthScore  int            `db:"health_score" json:"healthScore"`
	Achievements pq.StringArray `db:"achievements" json:"achievements"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}

type CropDiagnosis struct {
	ID         string         `db:"id" json:"id"`
	FarmerID   *string        `db:"farmer_id" json:"farmerId"`
	ImagePath  string         `db:"image_path" json:"imagePath"`
	Disease    string         `db:"disease" json:"disease"`
	Severity   Severity       `db:"severity" json:"severity"`
	Confidence float64        `db:"confidence" json:"confidence"`
	Treatments pq.StringArray `db:"treatments" json:"treatments"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}

// WeatherData is unique per Location; numeric readings stay nil until a
// write provides them.
type WeatherData struct {
	ID          string         `db:"id" json:"id"`
	Location    string         `db:"location" json:"location"`
	Temperature *float64       `db:"temperature" json:"temperature"`
	Humidity    *float64       `db:"humidity" json:"humidity"`
	Rainfall    *float64       `db:"rainfall" json:"rainfall"`
	UVIndex     *int           `db:"uv_index" json:"uvIndex"`
	Alerts      pq.StringArray `db:"alerts" json:"alerts"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

type DiseaseAlert struct {
	ID          string    `db:"id" json:"id"`
	Disease     string    `db:"disease" json:"disease"`
	Location    string    `db:"location" json:"location"`
	RiskLevel   RiskLevel `db:"risk_level" json:"riskLevel"`
	Description *string   `db:"description" json:"description"`
	ReportCount int       `db:"report_count" json:"reportCount"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type AgriStore struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description *string        `db:"description" json:"description"`
	Location    string         `db:"location" json:"location"`
	Distance    *float64       `db:"distance" json:"distance"` // km
	Rating      float64        `db:"rating" json:"rating"`
	Services    pq.StringArray `db:"services" json:"services"`
	Contact     *string        `db:"contact" json:"contact"`
	ImagePath   *string        `db:"image_path" json:"imagePath"`
}

// DistanceOrZero is the sort key used when listing stores.
func (s AgriStore) DistanceOrZero() float64 {
	if s.Distance == nil {
		return 0
	}
	return *s.Distance
}
