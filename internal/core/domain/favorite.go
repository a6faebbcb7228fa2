package domain

import "time"

// PropertySnapshot - денормализованная копия объекта внутри записи избранного.
// Ее формирует сервер, клиент не может собрать ее сам.
type PropertySnapshot struct {
	ID        int64
	Title     string
	Images    []string
	Price     int64
	City      string
	State     string
	Bedrooms  int
	Bathrooms int
}

// Favorite - одна запись избранного пользователя.
type Favorite struct {
	ID       int64
	Property PropertySnapshot
}

// FavoritesState - снимок состояния менеджера избранного.
type FavoritesState struct {
	Favorites     []Favorite
	Loading       bool
	Authenticated bool
	Err           error
	LoadedAt      time.Time
}

// Credentials связывают менеджер избранного с сессией аутентификации.
type Credentials struct {
	UserID string
	Email  string
	Role   string
	Token  string
}

// IsZero сообщает, что учетных данных нет.
func (c Credentials) IsZero() bool {
	return c.UserID == "" || c.Token == ""
}
