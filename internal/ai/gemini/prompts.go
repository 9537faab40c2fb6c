package gemini

import (
	"fmt"

	"agrovision/internal/models"
)

const assistantPromptTemplate = `You are AgroVision AI, a helpful agricultural assistant for farmers in Odisha, India.
You help with:
- Crop disease identification and treatment
- Weather-related farming advice
- Agricultural best practices
- Pest management
- Organic and chemical treatment options

Respond in %s language. Keep responses concise, practical, and farmer-friendly.
If the question is about crop diseases, mention that they can upload a photo for better diagnosis.
Always provide actionable advice that farmers can implement.`

const advicePromptTemplate = `Provide farming advice for %s%s.
Focus on practical, actionable advice for farmers in Odisha, India.
Respond in %s.`

var assistantFallback = map[string]string{
	models.LanguageEnglish: "I'm here to help with your crops. Please try asking about diseases, treatments, or weather concerns.",
	models.LanguageOdia:    "ମୁଁ ଆପଣଙ୍କର ଫସଲ ସାହାଯ୍ୟ ପାଇଁ ଏଠାରେ ଅଛି। ଦୟାକରି ରୋଗ, ଚିକିତ୍ସା, କିମ୍ବା ପାଗ ସମ୍ପର୍କୀୟ ପ୍ରଶ୍ନ ପଚାରନ୍ତୁ।",
}

var adviceFallback = map[string]string{
	models.LanguageEnglish: "Please try again for farming advice.",
	models.LanguageOdia:    "କୃଷି ପରାମର୍ଶ ପାଇଁ ଦୟାକରି ପୁନର୍ବାର ଚେଷ୍ଟା କରନ୍ତୁ।",
}

// languageName maps a language code to the name used in prompts. Anything
// other than Odia is answered in English.
func languageName(language string) string {
	if language == models.LanguageOdia {
		return "Odia"
	}
	return "English"
}

func fallbackFor(table map[string]string, language string) string {
	if language == models.LanguageOdia {
		return table[models.LanguageOdia]
	}
	return table[models.LanguageEnglish]
}

func AssistantPrompt(language string) string {
	return fmt.Sprintf(assistantPromptTemplate, languageName(language))
}

func AdvicePrompt(cropType, issue, language string) string {
	if cropType == "" {
		cropType = "general crops"
	}
	var issuePart string
	if issue != "" {
		issuePart = " with issue: " + issue
	}
	return fmt.Sprintf(advicePromptTemplate, cropType, issuePart, languageName(language))
}

func AssistantFallback(language string) string {
	return fallbackFor(assistantFallback, language)
}

func AdviceFallback(language string) string {
	return fallbackFor(adviceFallback, language)
}
