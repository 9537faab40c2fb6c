package models

// DiseaseProfile is one entry of the fixed mock-diagnosis catalog.
type DiseaseProfile struct {
	Name       string
	Severity   Severity
	Confidence float64
	Treatments []string
}

var DiseaseCatalog = []DiseaseProfile{
	{
		Name:       "Early Blight",
		Severity:   SeverityMedium,
		Confidence: 0.85,
		Treatments: []string{
			"Apply neem oil spray every 7 days",
			"Remove affected leaves immediately",
			"Improve air circulation around plants",
			"Copper-based fungicide application",
		},
	},
	{
		Name:       "Leaf Spot",
		Severity:   SeverityLow,
		Confidence: 0.72,
		Treatments: []string{
			"Remove infected leaves",
			"Apply copper fungicide",
			"Ensure proper drainage",
			"Avoid overhead watering",
		},
	},
	{
		Name:       "Bacterial Wilt",
		Severity:   SeverityHigh,
		Confidence: 0.91,
		Treatments: []string{
			"Remove and destroy infected plants",
			"Disinfect tools after use",
			"Apply bactericide if available",
			"Improve soil drainage",
		},
	},
	{
		Name:       "Powdery Mildew",
		Severity:   SeverityLow,
		Confidence: 0.68,
		Treatments: []string{
			"Apply sulfur-based fungicide",
			"Increase air circulation",
			"Avoid overhead watering",
			"Remove affected plant parts",
		},
	},
}
