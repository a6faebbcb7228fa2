package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"session-service/internal/constants"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// MessageProducer - то, что адаптеру нужно от rabbitmq_producer.Publisher.
type MessageProducer interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// activityMessage - тело сообщения в обменнике активности.
type activityMessage struct {
	EventID    uuid.UUID              `json:"event_id"`
	Type       string                 `json:"type"`
	UserID     string                 `json:"user_id,omitempty"`
	SessionID  string                 `json:"session_id"`
	PropertyID int64                  `json:"property_id,omitempty"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// ActivityPublisher - реализация ActivityPublisherPort для RabbitMQ.
type ActivityPublisher struct {
	producer MessageProducer
}

func NewActivityPublisher(producer MessageProducer) (*ActivityPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &ActivityPublisher{producer: producer}, nil
}

func (a *ActivityPublisher) Publish(ctx context.Context, event domain.ActivityEvent) error {
	routingKey := constants.ActivityRoutingPrefix + string(event.Type)
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ActivityPublisher",
		"routing_key": routingKey,
	})

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	body, err := json.Marshal(activityMessage{
		EventID:    uuid.New(),
		Type:       string(event.Type),
		UserID:     event.UserID,
		SessionID:  event.SessionID,
		PropertyID: event.PropertyID,
		Payload:    event.Payload,
		OccurredAt: occurredAt.UTC(),
	})
	if err != nil {
		adapterLogger.Error("Failed to marshal activity event", err, nil)
		return fmt.Errorf("failed to marshal activity event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Transient,
		Timestamp:    occurredAt,
		Headers:      amqp.Table{constants.HeaderActivityType: string(event.Type)},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	// Публикация не должна пережить запрос пользователя надолго.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to publish %s event: %w", event.Type, err)
	}

	adapterLogger.Debug("Activity event published", nil)
	return nil
}

// NoopActivityPublisher используется, когда RABBITMQ_URL не задан.
type NoopActivityPublisher struct{}

func (NoopActivityPublisher) Publish(ctx context.Context, event domain.ActivityEvent) error {
	return nil
}
