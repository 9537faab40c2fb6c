package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"agrovision/internal/ai/gemini"
	"agrovision/internal/models"

	"go.uber.org/zap"
)

var ErrEmptyText = errors.New("no text provided for processing")

const defaultAITimeout = 20 * time.Second

// TextGenerator produces a model reply for userText. Implemented by
// gemini.ClientSelector.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userText string) (string, error)
}

type VoiceService struct {
	generator TextGenerator
	timeout   time.Duration
	log       *zap.Logger
}

type IVoiceService interface {
	ProcessVoiceQuery(ctx context.Context, text, language string) (*models.VoiceResponse, error)
	GenerateFarmingAdvice(ctx context.Context, cropType, issue, language string) (*models.AdviceResponse, error)
}

// NewVoiceService accepts a nil generator, in which case every reply is the
// canned fallback.
func NewVoiceService(generator TextGenerator, timeout time.Duration, log *zap.Logger) *VoiceService {
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	return &VoiceService{
		generator: generator,
		timeout:   timeout,
		log:       log,
	}
}

// ProcessVoiceQuery answers a transcribed question. Generator failures are
// logged and answered with the fallback for the requested language.
func (s *VoiceService) ProcessVoiceQuery(ctx context.Context, text, language string) (*models.VoiceResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if language == "" {
		language = models.DefaultLanguage
	}

	reply, source := s.generate(ctx, gemini.AssistantPrompt(language), text, gemini.AssistantFallback(language))
	return &models.VoiceResponse{
		Response:      reply,
		Language:      language,
		ProcessedText: text,
		Source:        source,
	}, nil
}

func (s *VoiceService) GenerateFarmingAdvice(ctx context.Context, cropType, issue, language string) (*models.AdviceResponse, error) {
	if language == "" {
		language = models.DefaultLanguage
	}

	advice, source := s.generate(ctx, "", gemini.AdvicePrompt(cropType, issue, language), gemini.AdviceFallback(language))
	return &models.AdviceResponse{
		Advice:   advice,
		Language: language,
		Source:   source,
	}, nil
}

func (s *VoiceService) generate(ctx context.Context, systemPrompt, userText, fallback string) (string, models.ResponseSource) {
	if s.generator == nil {
		return fallback, models.SourceFallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.generator.GenerateText(ctx, systemPrompt, userText)
	if err != nil {
		s.log.Warn("AI generation failed, using fallback", zap.Error(err))
		return fallback, models.SourceFallback
	}
	if strings.TrimSpace(reply) == "" {
		return fallback, models.SourceFallback
	}
	return reply, models.SourceGenerated
}
