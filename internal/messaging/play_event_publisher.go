package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.PlayEventPublisher = (*rabbitMQPlayEventPublisher)(nil)

type rabbitMQPlayEventPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQPlayEventPublisher opens a channel on the given connection and
// declares the durable analytics queue. Declaring here keeps the engine
// independent of consumer start order; the queue parameters must match the
// consumer's.
func NewRabbitMQPlayEventPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (interfaces.PlayEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("play event publisher: failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("play event publisher: failed to declare queue %s: %w", queueName, err)
	}

	return &rabbitMQPlayEventPublisher{
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("PlayEventPublisher"),
	}, nil
}

// PublishPlayRecorded sends one PlayRecorded event with persistent delivery.
func (p *rabbitMQPlayEventPublisher) PublishPlayRecorded(ctx context.Context, event models.PlayRecordedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal play event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(publishCtx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish play event",
			zap.String("playID", event.PlayID.String()),
			zap.Int64("storyID", event.StoryID),
			zap.Error(err))
		return fmt.Errorf("failed to publish play event: %w", err)
	}

	p.logger.Debug("Published play event",
		zap.String("playID", event.PlayID.String()),
		zap.Int64("storyID", event.StoryID),
		zap.Int64("endingPageID", event.EndingPageID))
	return nil
}
