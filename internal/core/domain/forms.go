package domain

import "time"

// Inquiry - запрос покупателя владельцу со страницы объекта.
type Inquiry struct {
	PropertyID int64  `json:"property_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Message    string `json:"message"`
}

// TimeSlot - интервал для просмотра объекта.
type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "morning"
	TimeSlotAfternoon TimeSlot = "afternoon"
	TimeSlotEvening   TimeSlot = "evening"
)

// SiteVisit - заявка на просмотр объекта.
type SiteVisit struct {
	PropertyID int64    `json:"property_id"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email,omitempty"`
	VisitDate  string   `json:"visit_date"` // YYYY-MM-DD
	TimeSlot   TimeSlot `json:"time_slot"`
	Notes      string   `json:"notes,omitempty"`
}

// PropertySubmission - форма размещения нового объявления.
type PropertySubmission struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Price        int64        `json:"price"`
	PropertyType PropertyType `json:"property_type"`
	ListingType  ListingType  `json:"listing_type"`
	Bedrooms     int          `json:"bedrooms"`
	Bathrooms    int          `json:"bathrooms"`
	AreaSqft     int64        `json:"area_sqft"`
	Address      string       `json:"address"`
	City         string       `json:"city"`
	State        string       `json:"state"`
	PostalCode   string       `json:"postal_code"`
	Amenities    []string     `json:"amenities,omitempty"`
	Images       []string     `json:"images,omitempty"`
}

// Confirmation - ответ backend на отправку формы.
type Confirmation struct {
	ID        int64
	Status    string
	CreatedAt time.Time
}
