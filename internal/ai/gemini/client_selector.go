package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// TextClient is one configured API key's connection.
type TextClient interface {
	GenerateText(ctx context.Context, systemPrompt, userText string) (string, error)
}

// ClientSelector rotates requests across clients and fails over to the next
// one when a request errors.
type ClientSelector struct {
	clients      []TextClient
	currentIndex int
	mutex        sync.Mutex
	log          *zap.Logger
}

func NewClientSelector(clients []TextClient, log *zap.Logger) *ClientSelector {
	return &ClientSelector{clients: clients, log: log}
}

func (s *ClientSelector) nextClient() (TextClient, int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.clients) == 0 {
		return nil, -1
	}

	index := s.currentIndex
	s.currentIndex = (s.currentIndex + 1) % len(s.clients)
	return s.clients[index], index
}

func (s *ClientSelector) ClientCount() int {
	return len(s.clients)
}

// GenerateText tries every client once, starting from the next in rotation.
// It stops early when ctx is done.
func (s *ClientSelector) GenerateText(ctx context.Context, systemPrompt, userText string) (string, error) {
	clientCount := s.ClientCount()
	if clientCount == 0 {
		return "", errors.New("no Gemini clients available")
	}

	var lastErr error
	for attempt := 0; attempt < clientCount; attempt++ {
		client, clientIdx := s.nextClient()

		text, err := client.GenerateText(ctx, systemPrompt, userText)
		if err == nil {
			return text, nil
		}

		lastErr = err
		s.log.Warn("Gemini request failed",
			zap.Int("client_index", clientIdx),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if ctx.Err() != nil {
			return "", fmt.Errorf("gemini request aborted: %w", ctx.Err())
		}
	}

	return "", fmt.Errorf("all %d Gemini clients failed, last error: %w", clientCount, lastErr)
}
