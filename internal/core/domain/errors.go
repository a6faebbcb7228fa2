package domain

import (
	"errors"
	"fmt"
)

// Ошибки, которые возвращают use cases и менеджеры состояния сессии.
// Адаптеры оборачивают их через %w, поэтому проверять нужно errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNetwork         = errors.New("marketplace api request failed")
	ErrUnauthenticated = errors.New("session is not authenticated")
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidRange    = errors.New("invalid numeric range")
	ErrUnknownPreset   = errors.New("unknown filter preset")
)

// ValidatePropertyID проверяет идентификатор объекта до любого сетевого вызова.
func ValidatePropertyID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: property id must be a positive integer, got %d", ErrValidation, id)
	}
	return nil
}
