package usecase

import (
	"context"
	"errors"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
)

type GetPropertyDetailsUseCase struct {
	api port.PropertiesAPIPort
}

func NewGetPropertyDetailsUseCase(api port.PropertiesAPIPort) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{api: api}
}

func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, propertyID int64) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetPropertyDetails",
		"property_id": propertyID,
	})

	if err := domain.ValidatePropertyID(propertyID); err != nil {
		return nil, err
	}

	ucLogger.Info("Use case started", nil)

	property, err := uc.api.GetProperty(ctx, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ucLogger.Warn("Property not found", nil)
			return nil, err
		}
		ucLogger.Error("Marketplace API returned an error", err, nil)
		return nil, normalizeNetworkError(err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return property, nil
}
