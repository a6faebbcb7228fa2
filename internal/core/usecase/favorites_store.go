package usecase

import (
	"context"
	"errors"
	"fmt"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"sync"
	"time"
)

// FavoritesStore хранит избранное текущего пользователя сессии и согласует
// локальные изменения с marketplace API.
//
// Добавление пессимистичное: сначала подтверждение сервера, потом полная перезагрузка списка,
// потому что запись избранного содержит снимок объекта, которого у клиента нет.
// Удаление оптимистичное: запись сразу убирается локально и возвращается из снимка при ошибке.
//
// Мьютекс никогда не удерживается во время сетевого вызова. Результат, пришедший последним,
// перезаписывает состояние (best effort, не линеаризуемо).
type FavoritesStore struct {
	api       port.FavoritesAPIPort
	publisher port.ActivityPublisherPort
	sessionID string
	now       func() time.Time

	mu         sync.Mutex
	creds      domain.Credentials
	generation uint64 // меняется при смене пользователя, ответы для старого пользователя отбрасываются
	favorites  []domain.Favorite
	loading    bool
	loaded     bool
	lastErr    error
	loadedAt   time.Time
}

// NewFavoritesStore - конструктор. publisher может быть nil.
func NewFavoritesStore(api port.FavoritesAPIPort, publisher port.ActivityPublisherPort, sessionID string) *FavoritesStore {
	return &FavoritesStore{
		api:       api,
		publisher: publisher,
		sessionID: sessionID,
		now:       time.Now,
		favorites: []domain.Favorite{},
	}
}

// SetCredentials привязывает хранилище к сессии аутентификации.
// Смена пользователя сбрасывает избранное, его нужно загрузить заново.
func (s *FavoritesStore) SetCredentials(creds domain.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.creds.UserID != creds.UserID {
		s.resetLocked()
	}
	s.creds = creds
}

// ClearCredentials - выход пользователя.
func (s *FavoritesStore) ClearCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = domain.Credentials{}
	s.resetLocked()
}

func (s *FavoritesStore) resetLocked() {
	s.generation++
	s.favorites = []domain.Favorite{}
	s.loading = false
	s.loaded = false
	s.lastErr = nil
	s.loadedAt = time.Time{}
}

// Load заменяет локальное состояние списком с сервера.
// Для неаутентифицированной сессии сетевого вызова нет: пустой список и loading=false.
func (s *FavoritesStore) Load(ctx context.Context) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "FavoritesStore",
		"method":     "Load",
		"session_id": s.sessionID,
	})

	s.mu.Lock()
	if s.creds.IsZero() {
		s.favorites = []domain.Favorite{}
		s.loading = false
		s.lastErr = nil
		s.mu.Unlock()
		logger.Debug("Session is not authenticated, favorites reset to empty set", nil)
		return nil
	}
	creds := s.creds
	generation := s.generation
	s.loading = true
	s.mu.Unlock()

	logger.Debug("Fetching favorites from marketplace API", port.Fields{"user_id": creds.UserID})
	favorites, err := s.api.GetFavorites(withCredentials(ctx, creds))

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		// Пока шел запрос, пользователь сменился: этот ответ к текущей сессии не относится.
		logger.Warn("Discarding favorites response for a previous user", port.Fields{"user_id": creds.UserID})
		return nil
	}

	s.loading = false
	if err != nil {
		s.favorites = []domain.Favorite{}
		s.lastErr = normalizeNetworkError(err)
		logger.Error("Failed to load favorites", err, port.Fields{"user_id": creds.UserID})
		return s.lastErr
	}

	s.favorites = cloneFavorites(favorites)
	s.lastErr = nil
	s.loaded = true
	s.loadedAt = s.now()
	logger.Info("Favorites loaded", port.Fields{"user_id": creds.UserID, "count": len(favorites)})
	return nil
}

// Add добавляет объект в избранное и после подтверждения перезагружает весь список.
// При ошибке сервера локальное состояние не меняется.
func (s *FavoritesStore) Add(ctx context.Context, propertyID int64) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "FavoritesStore",
		"method":      "Add",
		"session_id":  s.sessionID,
		"property_id": propertyID,
	})

	if err := domain.ValidatePropertyID(propertyID); err != nil {
		logger.Warn("Rejected add to favorites", port.Fields{"error": err.Error()})
		return err
	}

	creds, ok := s.credentials()
	if !ok {
		return fmt.Errorf("add to favorites: %w", domain.ErrUnauthenticated)
	}

	if err := s.api.AddToFavorites(withCredentials(ctx, creds), propertyID); err != nil {
		logger.Error("Marketplace API rejected add to favorites", err, nil)
		return normalizeNetworkError(err)
	}

	publishActivity(ctx, s.publisher, domain.ActivityEvent{
		Type:       domain.ActivityFavoriteAdded,
		UserID:     creds.UserID,
		SessionID:  s.sessionID,
		PropertyID: propertyID,
		OccurredAt: s.now(),
	})

	logger.Info("Property added to favorites, reloading list", nil)
	return s.Load(ctx)
}

// Remove сразу убирает запись локально, затем подтверждает удаление на сервере.
// При ошибке запись возвращается на прежнее место из снимка, без повторного запроса списка.
func (s *FavoritesStore) Remove(ctx context.Context, propertyID int64) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "FavoritesStore",
		"method":      "Remove",
		"session_id":  s.sessionID,
		"property_id": propertyID,
	})

	if err := domain.ValidatePropertyID(propertyID); err != nil {
		logger.Warn("Rejected remove from favorites", port.Fields{"error": err.Error()})
		return err
	}

	s.mu.Lock()
	if s.creds.IsZero() {
		s.mu.Unlock()
		return fmt.Errorf("remove from favorites: %w", domain.ErrUnauthenticated)
	}
	creds := s.creds
	generation := s.generation
	index := s.indexLocked(propertyID)
	var removed domain.Favorite
	if index >= 0 {
		removed = s.favorites[index]
		next := make([]domain.Favorite, 0, len(s.favorites)-1)
		next = append(next, s.favorites[:index]...)
		next = append(next, s.favorites[index+1:]...)
		s.favorites = next
	}
	s.mu.Unlock()

	err := s.api.RemoveFromFavorites(withCredentials(ctx, creds), propertyID)
	if errors.Is(err, domain.ErrNotFound) {
		// На сервере записи уже нет: локальное удаление совпадает с его состоянием.
		logger.Warn("Favorite was already absent on the server", nil)
		err = nil
	}
	if err != nil {
		s.mu.Lock()
		if index >= 0 && generation == s.generation && s.indexLocked(propertyID) < 0 {
			s.insertLocked(index, removed)
		}
		s.mu.Unlock()
		logger.Error("Marketplace API rejected remove from favorites, optimistic removal reverted", err, nil)
		return normalizeNetworkError(err)
	}

	publishActivity(ctx, s.publisher, domain.ActivityEvent{
		Type:       domain.ActivityFavoriteRemoved,
		UserID:     creds.UserID,
		SessionID:  s.sessionID,
		PropertyID: propertyID,
		OccurredAt: s.now(),
	})

	logger.Info("Property removed from favorites", nil)
	return nil
}

// Toggle - кнопка "сердечко": добавляет, если объекта нет в избранном, иначе удаляет.
// Решение принимается по списку с сервера: незагруженное хранилище сначала загружается.
// Возвращает новое состояние членства.
func (s *FavoritesStore) Toggle(ctx context.Context, propertyID int64) (bool, error) {
	if err := domain.ValidatePropertyID(propertyID); err != nil {
		return false, err
	}
	if _, ok := s.credentials(); ok && !s.Loaded() {
		if err := s.Load(ctx); err != nil {
			return false, err
		}
	}

	if s.IsFavorite(propertyID) {
		if err := s.Remove(ctx, propertyID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Add(ctx, propertyID); err != nil {
		return false, err
	}
	return s.IsFavorite(propertyID), nil
}

// IsFavorite - чистая проверка по локальному состоянию. Никогда не паникует.
func (s *FavoritesStore) IsFavorite(propertyID int64) bool {
	if propertyID <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.creds.IsZero() {
		return false
	}
	return s.indexLocked(propertyID) >= 0
}

// Favorites возвращает копию текущего списка.
func (s *FavoritesStore) Favorites() []domain.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneFavorites(s.favorites)
}

// State возвращает снимок состояния для отображения.
func (s *FavoritesStore) State() domain.FavoritesState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FavoritesState{
		Favorites:     cloneFavorites(s.favorites),
		Loading:       s.loading,
		Authenticated: !s.creds.IsZero(),
		Err:           s.lastErr,
		LoadedAt:      s.loadedAt,
	}
}

// Loaded сообщает, был ли список хотя бы раз успешно загружен для текущего пользователя.
func (s *FavoritesStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *FavoritesStore) credentials() (domain.Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, !s.creds.IsZero()
}

func (s *FavoritesStore) indexLocked(propertyID int64) int {
	for i, f := range s.favorites {
		if f.Property.ID == propertyID {
			return i
		}
	}
	return -1
}

func (s *FavoritesStore) insertLocked(index int, f domain.Favorite) {
	if index > len(s.favorites) {
		index = len(s.favorites)
	}
	next := make([]domain.Favorite, 0, len(s.favorites)+1)
	next = append(next, s.favorites[:index]...)
	next = append(next, f)
	next = append(next, s.favorites[index:]...)
	s.favorites = next
}

func withCredentials(ctx context.Context, creds domain.Credentials) context.Context {
	ctx = contextkeys.ContextWithAuthToken(ctx, creds.Token)
	return contextkeys.ContextWithUserID(ctx, creds.UserID)
}

// normalizeNetworkError гарантирует, что ошибка удаленного вызова распознается как ErrNetwork.
func normalizeNetworkError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNetwork) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
}

func cloneFavorites(in []domain.Favorite) []domain.Favorite {
	out := make([]domain.Favorite, len(in))
	for i, f := range in {
		out[i] = f
		if f.Property.Images != nil {
			out[i].Property.Images = append([]string{}, f.Property.Images...)
		}
	}
	return out
}
