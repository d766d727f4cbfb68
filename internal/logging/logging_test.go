package logging

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

type recordingPoster struct {
	tags []string
	msgs []map[string]interface{}
}

func (p *recordingPoster) Post(tag string, message interface{}) error {
	p.tags = append(p.tags, tag)
	p.msgs = append(p.msgs, message.(map[string]interface{}))
	return nil
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	l := Discard()
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
}

func TestFanoutToFluent(t *testing.T) {
	var buf bytes.Buffer
	poster := &recordingPoster{}
	l := New(Options{
		Writer: &buf,
		JSON:   true,
		Extra:  []slog.Handler{NewFluentHandler(poster, "propnest", slog.LevelWarn)},
	})

	l.Info("only stdout")
	l.With("component", "app").WithGroup("req").Warn("both", "id", 7)

	assert.Contains(t, buf.String(), "only stdout")
	assert.Contains(t, buf.String(), "both")
	require.Len(t, poster.tags, 1)
	assert.Equal(t, "propnest.warn", poster.tags[0])
	assert.Equal(t, "both", poster.msgs[0]["msg"])
	assert.Equal(t, "app", poster.msgs[0]["component"])
	assert.EqualValues(t, 7, poster.msgs[0]["req.id"])
}

func TestRequestLoggerSetsTraceID(t *testing.T) {
	e := echo.New()
	var seen *slog.Logger
	e.Use(RequestLogger(Discard()))
	e.GET("/ping", func(c echo.Context) error {
		seen = FromContext(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(TraceHeader))
	assert.NotNil(t, seen)
}

func TestRequestLoggerKeepsValidTraceID(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger(Discard()))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	const id = "5f1c7f8e-8b1a-4a36-9f43-0c0a3c6d2b11"
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceHeader, id)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(TraceHeader))
}
