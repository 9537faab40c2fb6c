package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"agrovision/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	declareErr error
	publishErr error
}

func (c *recordingChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, c.declareErr
}

func (c *recordingChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func TestDiagnosisPublisher_Publish(t *testing.T) {
	channel := &recordingChannel{}
	publisher, err := NewDiagnosisPublisher(channel, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{DiagnosisQueue}, channel.declared)

	farmerID := "farmer-1"
	diagnosis := &models.CropDiagnosis{
		ID:         "diag-1",
		FarmerID:   &farmerID,
		ImagePath:  "uploads/leaf.jpg",
		Disease:    "Bacterial Wilt",
		Severity:   models.SeverityHigh,
		Confidence: 0.91,
		CreatedAt:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, publisher.PublishDiagnosisCreated(context.Background(), diagnosis))

	require.Len(t, channel.published, 1)
	msg := channel.published[0]
	assert.Equal(t, DiagnosisQueue, channel.keys[0])
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

	var evt DiagnosisEvent
	require.NoError(t, json.Unmarshal(msg.Body, &evt))
	assert.Equal(t, DiagnosisCreated, evt.EventType)
	assert.Equal(t, "diag-1", evt.DiagnosisID)
	assert.Equal(t, "farmer-1", *evt.FarmerID)
	assert.Equal(t, models.SeverityHigh, evt.Severity)
	assert.Equal(t, msg.MessageId, evt.ID)

	status := publisher.HealthCheck()
	assert.Equal(t, int64(1), status.MessagesPublished)
	assert.Equal(t, int64(0), status.MessagesFailed)
}

func TestDiagnosisPublisher_PublishError(t *testing.T) {
	channel := &recordingChannel{publishErr: errors.New("channel closed")}
	publisher, err := NewDiagnosisPublisher(channel, zap.NewNop())
	require.NoError(t, err)

	err = publisher.PublishDiagnosisCreated(context.Background(), &models.CropDiagnosis{ID: "diag-1"})

	assert.ErrorContains(t, err, "channel closed")
	assert.Equal(t, int64(1), publisher.HealthCheck().MessagesFailed)
}

func TestNewDiagnosisPublisher_DeclareError(t *testing.T) {
	_, err := NewDiagnosisPublisher(&recordingChannel{declareErr: errors.New("access refused")}, zap.NewNop())

	assert.ErrorContains(t, err, "failed to declare queue")
}
