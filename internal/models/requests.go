package models

// Inputs accepted by the storage layer. Handlers bind request bodies straight
// into them, so they carry both json and binding tags. A nil pointer or nil
// slice means "not provided".

type CreateUserInput struct {
	Email           *string `json:"email" binding:"omitempty,email"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
	ExternalID      *string `json:"githubId"`
}

// UpsertUserInput may carry the id the identity provider flow assigned.
type UpsertUserInput struct {
	ID *string `json:"id"`
	CreateUserInput
}

type CreateFarmerInput struct {
	Name         string   `json:"name" binding:"required"`
	Location     string   `json:"location" binding:"required"`
	Phone        *string  `json:"phone"`
	Language     *string  `json:"language"`
	HealthScore  *int     `json:"healthScore" binding:"omitempty,min=0,max=100"`
	Achievements []string `json:"achievements"`
}

type UpdateFarmerInput struct {
	Name         *string  `json:"name" binding:"omitempty,min=1"`
	Location     *string  `json:"location" binding:"omitempty,min=1"`
	Phone        *string  `json:"phone"`
	Language     *string  `json:"language"`
	HealthScore  *int     `json:"healthScore" binding:"omitempty,min=0,max=100"`
	Achievements []string `json:"achievements"`
}

type CreateCropDiagnosisInput struct {
	FarmerID   *string
	ImagePath  string
	Disease    string
	Severity   Severity
	Confidence float64
	Treatments []string
}

// WeatherInput.Location is taken from the URL when it comes over HTTP.
type WeatherInput struct {
	Location    string   `json:"location"`
	Temperature *float64 `json:"temperature" binding:"omitempty,min=-90,max=70"`
	Humidity    *float64 `json:"humidity" binding:"omitempty,min=0,max=100"`
	Rainfall    *float64 `json:"rainfall" binding:"omitempty,min=0"`
	UVIndex     *int     `json:"uvIndex" binding:"omitempty,min=0,max=20"`
	Alerts      []string `json:"alerts"`
}

type CreateDiseaseAlertInput struct {
	Disease     string    `json:"disease" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	RiskLevel   RiskLevel `json:"riskLevel" binding:"required,oneof=low medium high"`
	Description *string   `json:"description"`
	ReportCount *int      `json:"reportCount" binding:"omitempty,min=0"`
}

type CreateAgriStoreInput struct {
	Name        string   `json:"name" binding:"required"`
	Description *string  `json:"description"`
	Location    string   `json:"location" binding:"required"`
	Distance    *float64 `json:"distance" binding:"omitempty,min=0"`
	Rating      *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	Services    []string `json:"services"`
	Contact     *string  `json:"contact"`
	ImagePath   *string  `json:"imagePath"`
}

type VoiceRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type VoiceResponse struct {
	Response      string         `json:"response"`
	Language      string         `json:"language"`
	ProcessedText string         `json:"processedText"`
	Source        ResponseSource `json:"source"`
}

type AdviceRequest struct {
	CropType string `json:"cropType"`
	Issue    string `json:"issue"`
	Language string `json:"language"`
}

type AdviceResponse struct {
	Advice   string         `json:"advice"`
	Language string         `json:"language"`
	Source   ResponseSource `json:"source"`
}
