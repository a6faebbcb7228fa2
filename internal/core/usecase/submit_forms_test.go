package usecase

import (
	"context"
	"fmt"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSubmitInquiry_ValidationBeforeNetwork(t *testing.T) {
	api := new(MockPropertiesAPI)
	validator := new(MockFormValidator)
	uc := NewSubmitInquiryUseCase(api, validator, nil)

	inquiry := domain.Inquiry{PropertyID: 42, Name: "Asha", Email: "not-an-email", Message: "Is it available?"}
	validator.On("Validate", port.FormInquiry, inquiry).
		Return(fmt.Errorf("%w: email: invalid format", domain.ErrValidation)).Once()

	_, err := uc.Execute(context.Background(), inquiry)
	assert.ErrorIs(t, err, domain.ErrValidation)
	api.AssertNotCalled(t, "CreateInquiry", mock.Anything, mock.Anything)
}

func TestSubmitInquiry_Success(t *testing.T) {
	api := new(MockPropertiesAPI)
	validator := new(MockFormValidator)
	publisher := new(MockActivityPublisher)
	uc := NewSubmitInquiryUseCase(api, validator, publisher)

	inquiry := domain.Inquiry{PropertyID: 42, Name: "Asha", Email: "asha@example.com", Message: "Is it available?"}
	confirmation := &domain.Confirmation{ID: 9, Status: "new"}
	validator.On("Validate", port.FormInquiry, inquiry).Return(nil).Once()
	api.On("CreateInquiry", mock.Anything, inquiry).Return(confirmation, nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.ActivityEvent) bool {
		return e.Type == domain.ActivityInquirySubmitted && e.PropertyID == 42
	})).Return(nil).Once()

	got, err := uc.Execute(context.Background(), inquiry)
	require.NoError(t, err)
	assert.Equal(t, confirmation, got)
	publisher.AssertExpectations(t)
}

func TestScheduleSiteVisit_RejectsPastDate(t *testing.T) {
	api := new(MockPropertiesAPI)
	validator := new(MockFormValidator)
	uc := NewScheduleSiteVisitUseCase(api, validator, nil)
	uc.now = func() time.Time { return time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC) }

	visit := domain.SiteVisit{PropertyID: 42, Name: "Asha", Phone: "+919800000000", VisitDate: "2026-05-09", TimeSlot: domain.TimeSlotMorning}
	validator.On("Validate", port.FormSiteVisit, visit).Return(nil).Once()

	_, err := uc.Execute(context.Background(), visit)
	assert.ErrorIs(t, err, domain.ErrValidation)
	api.AssertNotCalled(t, "CreateSiteVisit", mock.Anything, mock.Anything)

	today := visit
	today.VisitDate = "2026-05-10"
	validator.On("Validate", port.FormSiteVisit, today).Return(nil).Once()
	api.On("CreateSiteVisit", mock.Anything, today).Return(&domain.Confirmation{ID: 3, Status: "scheduled"}, nil).Once()

	got, err := uc.Execute(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
}

func TestSubmitProperty_RequiresAuthentication(t *testing.T) {
	api := new(MockPropertiesAPI)
	validator := new(MockFormValidator)
	uc := NewSubmitPropertyUseCase(api, validator, nil)

	submission := domain.PropertySubmission{Title: "2BHK", Price: 5_000_000, PropertyType: domain.PropertyTypeApartment, ListingType: domain.ListingTypeSale}

	_, err := uc.Execute(context.Background(), submission)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	ctx := contextkeys.ContextWithAuthToken(context.Background(), "token-1")
	validator.On("Validate", port.FormPropertySubmission, submission).Return(nil).Once()
	api.On("CreateProperty", mock.Anything, submission).Return(&domain.Confirmation{ID: 101, Status: "pending"}, nil).Once()

	got, err := uc.Execute(ctx, submission)
	require.NoError(t, err)
	assert.Equal(t, int64(101), got.ID)
}
