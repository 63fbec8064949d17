package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"phonedeal-be/internal/logger"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextHelpers(t *testing.T) {
	t.Run("Success_InjectAndRetrieve", func(t *testing.T) {
		ctx := WithSession(context.Background(), "sess-1")
		assert.Equal(t, "sess-1", SessionFrom(ctx))
	})

	t.Run("Empty_Context_ReturnsEmpty", func(t *testing.T) {
		assert.Empty(t, SessionFrom(context.Background()))
	})

	t.Run("LoggerCarriesSession", func(t *testing.T) {
		core, observed := observer.New(zapcore.InfoLevel)
		defer logger.Replace(zap.New(core))()

		logger.FromCtx(WithSession(context.Background(), "sess-2")).Info("searching")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		assert.Equal(t, "sess-2", logs[0].ContextMap()["session"])
	})
}

func TestSessionMiddleware(t *testing.T) {
	var got string
	handler := SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFrom(r.Context())
	}))

	t.Run("FromHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(SessionHeader, "abc")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "abc", got)
		assert.Equal(t, "abc", w.Header().Get(SessionHeader))
	})

	t.Run("FallsBackToRequestID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(logger.WithRequestID(req.Context(), "req-9"))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "req-9", got)
	})

	t.Run("GeneratesWhenNothingElse", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.NotEmpty(t, got)
		assert.Equal(t, got, w.Header().Get(SessionHeader))
	})
}
