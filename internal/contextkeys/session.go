package contextkeys

import "context"

type authTokenKeyType struct{}
type sessionIDKeyType struct{}
type userIDKeyType struct{}
type traceIDKeyType struct{}

var (
	authTokenKey = authTokenKeyType{}
	sessionIDKey = sessionIDKeyType{}
	userIDKey    = userIDKeyType{}
	traceIDKey   = traceIDKeyType{}
)

// ContextWithAuthToken кладет bearer-токен пользователя, его подставит API-клиент.
func ContextWithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, authTokenKey, token)
}

// AuthTokenFromContext возвращает пустую строку, если токена нет.
func AuthTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(authTokenKey).(string); ok {
		return token
	}
	return ""
}

func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithTraceID - trace_id запроса, уходит в заголовки исходящих запросов и событий.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}
