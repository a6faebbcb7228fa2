package usecase

import (
	"context"
	"fmt"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"time"
)

// SubmitInquiryUseCase отправляет вопрос владельцу объекта.
type SubmitInquiryUseCase struct {
	api       port.PropertiesAPIPort
	validator port.FormValidatorPort
	publisher port.ActivityPublisherPort
}

func NewSubmitInquiryUseCase(api port.PropertiesAPIPort, validator port.FormValidatorPort, publisher port.ActivityPublisherPort) *SubmitInquiryUseCase {
	return &SubmitInquiryUseCase{api: api, validator: validator, publisher: publisher}
}

func (uc *SubmitInquiryUseCase) Execute(ctx context.Context, inquiry domain.Inquiry) (*domain.Confirmation, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "SubmitInquiry",
		"property_id": inquiry.PropertyID,
	})
	ucLogger.Info("Use case started", nil)

	if err := domain.ValidatePropertyID(inquiry.PropertyID); err != nil {
		return nil, err
	}
	if err := uc.validator.Validate(port.FormInquiry, inquiry); err != nil {
		ucLogger.Warn("Inquiry form rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	confirmation, err := uc.api.CreateInquiry(ctx, inquiry)
	if err != nil {
		ucLogger.Error("Marketplace API returned an error", err, nil)
		return nil, normalizeNetworkError(err)
	}

	publishActivity(ctx, uc.publisher, domain.ActivityEvent{
		Type:       domain.ActivityInquirySubmitted,
		PropertyID: inquiry.PropertyID,
		OccurredAt: time.Now(),
	})

	ucLogger.Info("Use case finished successfully", port.Fields{"inquiry_id": confirmation.ID})
	return confirmation, nil
}

// ScheduleSiteVisitUseCase создает заявку на просмотр объекта.
type ScheduleSiteVisitUseCase struct {
	api       port.PropertiesAPIPort
	validator port.FormValidatorPort
	publisher port.ActivityPublisherPort
	now       func() time.Time
}

func NewScheduleSiteVisitUseCase(api port.PropertiesAPIPort, validator port.FormValidatorPort, publisher port.ActivityPublisherPort) *ScheduleSiteVisitUseCase {
	return &ScheduleSiteVisitUseCase{api: api, validator: validator, publisher: publisher, now: time.Now}
}

func (uc *ScheduleSiteVisitUseCase) Execute(ctx context.Context, visit domain.SiteVisit) (*domain.Confirmation, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "ScheduleSiteVisit",
		"property_id": visit.PropertyID,
	})
	ucLogger.Info("Use case started", nil)

	if err := domain.ValidatePropertyID(visit.PropertyID); err != nil {
		return nil, err
	}
	if err := uc.validator.Validate(port.FormSiteVisit, visit); err != nil {
		ucLogger.Warn("Site visit form rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	// Схема проверяет формат даты, а здесь - что день просмотра не в прошлом.
	visitDate, err := time.Parse("2006-01-02", visit.VisitDate)
	if err != nil {
		return nil, fmt.Errorf("%w: visit_date: %v", domain.ErrValidation, err)
	}
	today := uc.now().UTC().Truncate(24 * time.Hour)
	if visitDate.Before(today) {
		return nil, fmt.Errorf("%w: visit_date %s is in the past", domain.ErrValidation, visit.VisitDate)
	}

	confirmation, err := uc.api.CreateSiteVisit(ctx, visit)
	if err != nil {
		ucLogger.Error("Marketplace API returned an error", err, nil)
		return nil, normalizeNetworkError(err)
	}

	publishActivity(ctx, uc.publisher, domain.ActivityEvent{
		Type:       domain.ActivityVisitScheduled,
		PropertyID: visit.PropertyID,
		Payload: map[string]interface{}{
			"visit_date": visit.VisitDate,
			"time_slot":  string(visit.TimeSlot),
		},
		OccurredAt: uc.now(),
	})

	ucLogger.Info("Use case finished successfully", port.Fields{"site_visit_id": confirmation.ID})
	return confirmation, nil
}

// SubmitPropertyUseCase размещает новое объявление от имени пользователя.
type SubmitPropertyUseCase struct {
	api       port.PropertiesAPIPort
	validator port.FormValidatorPort
	publisher port.ActivityPublisherPort
}

func NewSubmitPropertyUseCase(api port.PropertiesAPIPort, validator port.FormValidatorPort, publisher port.ActivityPublisherPort) *SubmitPropertyUseCase {
	return &SubmitPropertyUseCase{api: api, validator: validator, publisher: publisher}
}

func (uc *SubmitPropertyUseCase) Execute(ctx context.Context, submission domain.PropertySubmission) (*domain.Confirmation, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SubmitProperty",
		"city":     submission.City,
	})
	ucLogger.Info("Use case started", nil)

	if contextkeys.AuthTokenFromContext(ctx) == "" {
		return nil, fmt.Errorf("submit property: %w", domain.ErrUnauthenticated)
	}
	if err := uc.validator.Validate(port.FormPropertySubmission, submission); err != nil {
		ucLogger.Warn("Property submission rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	confirmation, err := uc.api.CreateProperty(ctx, submission)
	if err != nil {
		ucLogger.Error("Marketplace API returned an error", err, nil)
		return nil, normalizeNetworkError(err)
	}

	publishActivity(ctx, uc.publisher, domain.ActivityEvent{
		Type:       domain.ActivityPropertyListed,
		PropertyID: confirmation.ID,
		Payload: map[string]interface{}{
			"property_type": string(submission.PropertyType),
			"listing_type":  string(submission.ListingType),
		},
		OccurredAt: time.Now(),
	})

	ucLogger.Info("Use case finished successfully", port.Fields{"property_id": confirmation.ID})
	return confirmation, nil
}
