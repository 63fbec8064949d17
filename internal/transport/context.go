package transport

import (
	"context"
	"net/http"
	"strings"

	"phonedeal-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

const sessionKey ctxKey = "session_id"

// SessionHeader carries the client's map session id.
const SessionHeader = "X-Session-ID"

// WithSession scopes ctx to a map session; loggers from ctx carry the id.
func WithSession(ctx context.Context, id string) context.Context {
	ctx = logger.WithFields(ctx, zap.String("session", id))
	return context.WithValue(ctx, sessionKey, id)
}

func SessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

// SessionMiddleware scopes per-client caches. Without the header the request
// id is used, so such a request shares nothing with any other.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(SessionHeader))
		if id == "" {
			id = logger.RequestIDFrom(r.Context())
		}
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(SessionHeader, id)
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), id)))
	})
}
