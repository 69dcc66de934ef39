package queue

import (
	"errors"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/util"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

const (
	MaxRetries    = 3
	retriesHeader = "x-retries"

	// maxErrorRunes bounds error texts copied into headers and events.
	maxErrorRunes = 1024
)

// Retries reads the retry counter of a delivery.
func Retries(msg amqp091.Delivery) int {
	switch v := msg.Headers[retriesHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// HandleFailure routes a failed delivery. Invalid messages and messages that
// exhausted MaxRetries go to <queue>_dlq, everything else to <queue>_retry
// with an incremented counter. The original delivery is acked once the copy
// is published and requeued if publishing fails.
func HandleFailure(ch Channel, msg amqp091.Delivery, queueName string, cause error) {
	retries := Retries(msg)

	target := queueName + "_retry"
	headers := amqp091.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}

	if errors.Is(cause, ErrInvalidMessage) || retries >= MaxRetries {
		target = queueName + "_dlq"
		if cause != nil {
			headers["x-error"] = util.TruncateRunes(cause.Error(), maxErrorRunes)
		}
		logger.Warn("[Queue][Retry] Sending message to DLQ", "dlq", target, "retries", retries, "err", cause)
	} else {
		headers[retriesHeader] = int32(retries + 1)
		logger.Info("[Queue][Retry] Scheduling retry", "retry_queue", target, "attempt", retries+1)
	}

	pubErr := ch.Publish(
		"",
		target,
		false,
		false,
		amqp091.Publishing{
			ContentType:  msg.ContentType,
			Body:         msg.Body,
			Headers:      headers,
			DeliveryMode: amqp091.Persistent,
		},
	)
	if pubErr != nil {
		logger.Error("[Queue][Retry] Failed to publish", "queue", target, "err", pubErr)
		if err := msg.Nack(false, true); err != nil {
			logger.Error("[Queue][Retry] Failed to nack message", "err", err)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		logger.Error("[Queue][Retry] Failed to ack message", "err", err)
	}
}
