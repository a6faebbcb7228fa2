package usecase

import (
	"context"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
)

// publishActivity отправляет событие активности. Ошибка публикации только логируется:
// основная операция пользователя уже выполнена.
func publishActivity(ctx context.Context, publisher port.ActivityPublisherPort, event domain.ActivityEvent) {
	if publisher == nil {
		return
	}
	if event.SessionID == "" {
		event.SessionID = contextkeys.SessionIDFromContext(ctx)
	}
	if event.UserID == "" {
		event.UserID = contextkeys.UserIDFromContext(ctx)
	}
	if err := publisher.Publish(ctx, event); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to publish activity event", port.Fields{
			"event_type":  string(event.Type),
			"property_id": event.PropertyID,
			"error":       err.Error(),
		})
	}
}
