package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"agrovision/internal/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type DiagnosisPublisher struct {
	channel Channel
	log     *zap.Logger

	mu                sync.Mutex
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewDiagnosisPublisher declares the durable diagnosis queue up front.
func NewDiagnosisPublisher(channel Channel, log *zap.Logger) (*DiagnosisPublisher, error) {
	_, err := channel.QueueDeclare(
		DiagnosisQueue, // queue name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return &DiagnosisPublisher{channel: channel, log: log}, nil
}

func (p *DiagnosisPublisher) PublishDiagnosisCreated(ctx context.Context, diagnosis *models.CropDiagnosis) error {
	evt := DiagnosisEvent{
		ID:          uuid.NewString(),
		EventType:   DiagnosisCreated,
		DiagnosisID: diagnosis.ID,
		FarmerID:    diagnosis.FarmerID,
		Disease:     diagnosis.Disease,
		Severity:    diagnosis.Severity,
		Confidence:  diagnosis.Confidence,
		ImagePath:   diagnosis.ImagePath,
		OccurredAt:  diagnosis.CreatedAt,
	}

	body, err := json.Marshal(evt)
	if err != nil {
		p.recordFailure()
		return fmt.Errorf("failed to marshal diagnosis event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		"",             // exchange
		DiagnosisQueue, // routing key (queue name)
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    evt.ID,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish diagnosis event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()
	p.log.Debug("diagnosis event published",
		zap.String("queue", DiagnosisQueue),
		zap.String("diagnosis_id", diagnosis.ID))
	return nil
}

func (p *DiagnosisPublisher) recordFailure() {
	p.mu.Lock()
	p.messagesFailed++
	p.mu.Unlock()
}

type PublisherHealthStatus struct {
	MessagesPublished int64     `json:"messages_published"`
	MessagesFailed    int64     `json:"messages_failed"`
	LastPublishTime   time.Time `json:"last_publish_time"`
	Queue             string    `json:"queue"`
}

func (p *DiagnosisPublisher) HealthCheck() PublisherHealthStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PublisherHealthStatus{
		MessagesPublished: p.messagesPublished,
		MessagesFailed:    p.messagesFailed,
		LastPublishTime:   p.lastPublishTime,
		Queue:             DiagnosisQueue,
	}
}
