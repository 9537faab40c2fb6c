package event

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type RabbitMQConnection struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
	log        *zap.Logger
}

func ConnectRabbitMQ(url string, log *zap.Logger) (*RabbitMQConnection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	log.Info("connected to RabbitMQ")
	return &RabbitMQConnection{Connection: conn, Channel: ch, log: log}, nil
}

func (r *RabbitMQConnection) Close() error {
	if r.Channel != nil {
		if err := r.Channel.Close(); err != nil {
			r.log.Error("failed to close RabbitMQ channel", zap.Error(err))
		}
	}
	if r.Connection != nil {
		if err := r.Connection.Close(); err != nil {
			return fmt.Errorf("failed to close RabbitMQ connection: %w", err)
		}
	}
	r.log.Info("RabbitMQ connection closed")
	return nil
}
