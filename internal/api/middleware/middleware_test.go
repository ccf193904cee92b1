package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestRequestID_Context(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RequestID(context.Background()))
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestRequestLog(t *testing.T) {
	t.Parallel()

	t.Run("generates and propagates an id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var seen string

		e := echo.New()
		e.Use(RequestLog(bufLogger(&buf)))
		e.GET("/api/products", func(c echo.Context) error {
			seen = RequestID(c.Request().Context())
			return c.NoContent(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

		header := rec.Header().Get("X-Request-ID")
		require.NotEmpty(t, header)
		assert.Equal(t, header, seen, "handler context carries the same id as the response header")
		assert.Contains(t, buf.String(), "request_id="+header)
		assert.Contains(t, buf.String(), "path=/api/products")
	})

	t.Run("honors the caller's id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		e := echo.New()
		e.Use(RequestLog(bufLogger(&buf)))
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "caller-supplied")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "caller-supplied", rec.Header().Get("X-Request-ID"))
		assert.Contains(t, buf.String(), "request_id=caller-supplied")
	})
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	// Same ordering as the server: Recovery outermost, so the panic log can
	// pick up the id RequestLog stored in the request context.
	e := echo.New()
	e.Use(Recovery(bufLogger(&buf)))
	e.Use(RequestLog(bufLogger(&buf)))
	e.GET("/boom", func(echo.Context) error { panic("kaput") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "req-boom")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")

	logged := buf.String()
	assert.Contains(t, logged, "panic recovered")
	assert.Contains(t, logged, "kaput")
	assert.Contains(t, logged, "request_id=req-boom")
}
