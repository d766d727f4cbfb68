package logging

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TraceHeader carries the caller's trace id, echoed back on the response.
const TraceHeader = "X-Trace-ID"

// RequestLogger attaches a trace-scoped logger to every request context and
// logs request start and finish.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			traceID := req.Header.Get(TraceHeader)
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.New().String()
			}
			c.Response().Header().Set(TraceHeader, traceID)

			// services only see the trace id; http fields stay on the access log
			coreLogger := base.With("trace_id", traceID)
			httpLogger := coreLogger.With(
				"http_method", req.Method,
				"http_path", req.URL.Path,
				"remote_addr", c.RealIP(),
			)
			c.SetRequest(req.WithContext(WithContext(req.Context(), coreLogger)))

			start := time.Now()
			httpLogger.Debug("request started")

			err := next(c)
			if err != nil {
				// let the error handler write the status before we read it
				c.Error(err)
			}

			httpLogger.Info("request finished",
				"status_code", c.Response().Status,
				"bytes_written", c.Response().Size,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}
