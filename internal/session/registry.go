package session

import (
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"session-service/internal/core/usecase"
	"sync"
	"time"
)

// Session - состояние одной пользовательской сессии: избранное и форма поиска.
// Аналог дерева компонентов одной вкладки браузера.
type Session struct {
	ID        string
	Favorites *usecase.FavoritesStore
	Filters   *usecase.FilterState
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen возвращает время последнего обращения к сессии.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Registry хранит сессии в памяти процесса.
type Registry struct {
	favoritesAPI port.FavoritesAPIPort
	publisher    port.ActivityPublisherPort
	priceBounds  domain.RangeBounds
	areaBounds   domain.RangeBounds
	now          func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(favoritesAPI port.FavoritesAPIPort, publisher port.ActivityPublisherPort, priceBounds, areaBounds domain.RangeBounds) *Registry {
	return &Registry{
		favoritesAPI: favoritesAPI,
		publisher:    publisher,
		priceBounds:  priceBounds,
		areaBounds:   areaBounds,
		now:          time.Now,
		sessions:     make(map[string]*Session),
	}
}

// GetOrCreate возвращает сессию по id, создавая ее при первом обращении.
// Второе значение - true, если сессия была создана.
func (r *Registry) GetOrCreate(sessionID string) (*Session, bool) {
	now := r.now()

	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if ok {
		s.touch(now)
		return s, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// повторная проверка: сессию мог создать параллельный запрос
	if s, ok := r.sessions[sessionID]; ok {
		s.touch(now)
		return s, false
	}
	s = &Session{
		ID:        sessionID,
		Favorites: usecase.NewFavoritesStore(r.favoritesAPI, r.publisher, sessionID),
		Filters:   usecase.NewFilterState(r.priceBounds, r.areaBounds),
		CreatedAt: now,
		lastSeen:  now,
	}
	r.sessions[sessionID] = s
	return s, true
}

// Get возвращает существующую сессию без создания.
func (r *Registry) Get(sessionID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	return s, ok
}

// Authenticate привязывает учетные данные к сессии. Пустые учетные данные - выход.
func (r *Registry) Authenticate(s *Session, creds domain.Credentials) {
	if creds.IsZero() {
		s.Favorites.ClearCredentials()
		return
	}
	s.Favorites.SetCredentials(creds)
}

// EvictIdle удаляет сессии, к которым не обращались дольше maxIdle. Возвращает число удаленных.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	deadline := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(deadline) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len - количество активных сессий.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
