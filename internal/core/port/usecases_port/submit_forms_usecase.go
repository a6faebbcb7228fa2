package usecases_port

import (
	"context"
	"session-service/internal/core/domain"
)

type SubmitInquiryUseCasePort interface {
	Execute(ctx context.Context, inquiry domain.Inquiry) (*domain.Confirmation, error)
}

type ScheduleSiteVisitUseCasePort interface {
	Execute(ctx context.Context, visit domain.SiteVisit) (*domain.Confirmation, error)
}

type SubmitPropertyUseCasePort interface {
	Execute(ctx context.Context, submission domain.PropertySubmission) (*domain.Confirmation, error)
}
