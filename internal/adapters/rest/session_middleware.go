package rest

import (
	"context"
	"net/http"
	"session-service/internal/contextkeys"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"session-service/internal/session"
	"strings"

	"github.com/google/uuid"
)

const (
	headerSessionID = "X-Session-ID"
	maxSessionIDLen = 64
)

// Определяем кастомный тип для ключа контекста, чтобы избежать коллизий.
type contextKey string

const sessionKey = contextKey("session")

// SessionMiddleware находит или создает сессию по X-Session-ID и возвращает id в ответе.
func SessionMiddleware(registry *session.Registry) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(headerSessionID))
			if sessionID == "" {
				sessionID = uuid.New().String()
			} else if len(sessionID) > maxSessionIDLen {
				WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "X-Session-ID header is too long")
				return
			}

			s, created := registry.GetOrCreate(sessionID)
			w.Header().Set(headerSessionID, s.ID)

			ctx := contextkeys.ContextWithSessionID(r.Context(), s.ID)
			logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"session_id": s.ID})
			if created {
				logger.Info("New session created", nil)
			}
			ctx = contextkeys.ContextWithLogger(ctx, logger)
			ctx = context.WithValue(ctx, sessionKey, s)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthMiddleware проверяет необязательный bearer-токен и привязывает пользователя к сессии.
// Запрос без токена считается анонимным: избранное сессии сбрасывается.
func AuthMiddleware(registry *session.Registry, tokens port.TokenValidatorPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := sessionFromContext(r.Context())
			if s == nil {
				WriteJSONError(w, http.StatusInternalServerError, codeInternal, "Session is not initialized")
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				registry.Authenticate(s, domain.Credentials{})
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				WriteJSONError(w, http.StatusUnauthorized, codeUnauthenticated, "Authorization header must be 'Bearer <token>'")
				return
			}

			ctx := r.Context()
			creds, err := tokens.ValidateToken(ctx, token)
			if err != nil {
				contextkeys.LoggerFromContext(ctx).Warn("Rejected bearer token", port.Fields{"error": err.Error()})
				WriteJSONError(w, http.StatusUnauthorized, codeUnauthenticated, "Invalid or expired token")
				return
			}

			registry.Authenticate(s, *creds)

			ctx = contextkeys.ContextWithAuthToken(ctx, creds.Token)
			ctx = contextkeys.ContextWithUserID(ctx, creds.UserID)
			logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"user_id": creds.UserID})
			ctx = contextkeys.ContextWithLogger(ctx, logger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}
