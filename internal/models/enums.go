package models

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Language codes understood by the voice assistant.
const (
	LanguageEnglish = "en"
	LanguageOdia    = "or"
)

const DefaultLanguage = LanguageEnglish

// ResponseSource tells a caller whether an assistant reply came from the
// model or from the canned fallback.
type ResponseSource string

const (
	SourceGenerated ResponseSource = "generated"
	SourceFallback  ResponseSource = "fallback"
)
