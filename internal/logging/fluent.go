package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Poster is the part of *fluent.Fluent the handler uses.
type Poster interface {
	Post(tag string, message interface{}) error
}

// NewFluentClient connects to a Fluent Bit forward input.
func NewFluentClient(host string, port int) (*fluent.Fluent, error) {
	f, err := fluent.New(fluent.Config{
		FluentHost:    host,
		FluentPort:    port,
		Async:         true,
		MarshalAsJSON: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fluent connect %s:%d: %w", host, port, err)
	}
	return f, nil
}

// FluentHandler posts records to Fluent Bit under "<prefix>.<level>".
type FluentHandler struct {
	poster Poster
	prefix string
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
}

// NewFluentHandler returns a slog.Handler that forwards records to p.
func NewFluentHandler(p Poster, tagPrefix string, level slog.Leveler) *FluentHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &FluentHandler{poster: p, prefix: tagPrefix, level: level}
}

func (h *FluentHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *FluentHandler) Handle(_ context.Context, r slog.Record) error {
	msg := map[string]interface{}{
		"msg":   r.Message,
		"level": r.Level.String(),
		"time":  r.Time.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	// h.attrs keys are qualified when added
	for _, a := range h.attrs {
		msg[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		msg[h.key(a.Key)] = a.Value.Resolve().Any()
		return true
	})
	return h.poster.Post(h.prefix+"."+strings.ToLower(r.Level.String()), msg)
}

func (h *FluentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.key(a.Key), Value: a.Value})
	}
	return &next
}

func (h *FluentHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.group = h.key(name)
	return &next
}

func (h *FluentHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}
