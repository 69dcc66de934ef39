package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/util"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

const (
	ExtractQueue   = "kg_extract_queue"
	EventsExchange = "kg_events"

	retryDelay = 10 * time.Second

	dialAttempts = 5
	dialBackoff  = 2 * time.Second
)

var dial = amqp091.Dial

// Channel is the publishing side of *amqp091.Channel.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Init dials RabbitMQ from RABBITMQ_URL, or from the RABBITMQ_USER,
// RABBITMQ_PASSWORD, RABBITMQ_HOST and RABBITMQ_PORT parts.
func Init() *amqp091.Connection {
	connURL := util.GetEnvString("RABBITMQ_URL", "")
	if connURL == "" {
		connURL = fmt.Sprintf(
			"amqp://%s:%s@%s:%s/",
			util.GetEnv("RABBITMQ_USER"),
			util.GetEnv("RABBITMQ_PASSWORD"),
			util.GetEnv("RABBITMQ_HOST"),
			util.GetEnvString("RABBITMQ_PORT", "5672"),
		)
	}

	conn, err := Dial(context.Background(), connURL, dialAttempts, dialBackoff)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}

	return conn
}

// Dial connects to the broker, waiting backoff between failed attempts. The
// broker often comes up after the worker in container setups.
func Dial(ctx context.Context, connURL string, attempts int, backoff time.Duration) (*amqp091.Connection, error) {
	tried := 0
	return util.RetryWithContext(ctx, attempts, func(ctx context.Context) (*amqp091.Connection, error) {
		if tried > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		tried++

		conn, err := dial(connURL)
		if err != nil {
			logger.Warn("[Queue] RabbitMQ not reachable", "attempt", tried, "err", err)
			return nil, err
		}
		return conn, nil
	})
}

// SetupQueues declares every queue with a dead-letter companion (<name>_dlq)
// and a retry companion (<name>_retry) that hands messages back to the main
// queue after retryDelay.
func SetupQueues(ch *amqp091.Channel, queueNames []string) error {
	err := ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("exchange declare %s: %w", EventsExchange, err)
	}

	for _, name := range queueNames {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}

		dlqName := name + "_dlq"
		if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", dlqName, err)
		}

		retryName := name + "_retry"
		_, err := ch.QueueDeclare(
			retryName,
			true,
			false,
			false,
			false,
			amqp091.Table{
				"x-message-ttl":             int32(retryDelay.Milliseconds()),
				"x-dead-letter-exchange":    "",
				"x-dead-letter-routing-key": name,
			},
		)
		if err != nil {
			return fmt.Errorf("queue declare %s: %w", retryName, err)
		}
	}

	return nil
}

// PublishFIFO sends a persistent message to a queue through the default
// exchange.
func PublishFIFO(ch Channel, queueName string, data []byte) error {
	return ch.Publish(
		"",
		queueName,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         data,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

// PublishTopic sends an event to EventsExchange. Events are not persisted.
func PublishTopic(ch Channel, topic string, data []byte) error {
	return ch.Publish(
		EventsExchange,
		topic,
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        data,
			Timestamp:   time.Now(),
		},
	)
}
