package domain

import "time"

// ActivityType - тип события активности пользователя.
type ActivityType string

const (
	ActivityFavoriteAdded    ActivityType = "favorite_added"
	ActivityFavoriteRemoved  ActivityType = "favorite_removed"
	ActivitySearchPerformed  ActivityType = "search_performed"
	ActivityInquirySubmitted ActivityType = "inquiry_submitted"
	ActivityVisitScheduled   ActivityType = "site_visit_scheduled"
	ActivityPropertyListed   ActivityType = "property_submitted"
)

// ActivityEvent - событие для аналитики и рекомендаций.
type ActivityEvent struct {
	Type       ActivityType
	UserID     string
	SessionID  string
	PropertyID int64
	Payload    map[string]interface{}
	OccurredAt time.Time
}
