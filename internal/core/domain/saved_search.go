package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedSearch - именованный фильтр, сохраненный пользователем.
type SavedSearch struct {
	ID        uuid.UUID
	UserID    string
	Name      string
	Filters   PropertyFilters
	CreatedAt time.Time
}
