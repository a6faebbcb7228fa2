package port

import (
	"context"
	"session-service/internal/core/domain"
)

// ActivityPublisherPort публикует события активности пользователя.
type ActivityPublisherPort interface {
	Publish(ctx context.Context, event domain.ActivityEvent) error
}
