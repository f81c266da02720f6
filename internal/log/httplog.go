package log

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

// HTTPAccessLog wraps h so that every request is logged through logger once
// the response has been written.
func HTTPAccessLog(logger *zap.SugaredLogger, h http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, h, func(_ io.Writer, p handlers.LogFormatterParams) {
		LogHTTPRequest(logger, p)
	})
}

// LogHTTPRequest logs a single completed request. Server errors are logged at
// error level, client errors at warn level and everything else at debug level.
func LogHTTPRequest(logger *zap.SugaredLogger, p handlers.LogFormatterParams) {
	fields := []interface{}{
		"method", p.Request.Method,
		"path", p.URL.Path,
		"status", p.StatusCode,
		"size", p.Size,
		"duration_ms", time.Since(p.TimeStamp).Milliseconds(),
		"remote_addr", p.Request.RemoteAddr,
		"user_agent", p.Request.UserAgent(),
	}

	switch {
	case p.StatusCode >= http.StatusInternalServerError:
		logger.Errorw("http request", fields...)
	case p.StatusCode >= http.StatusBadRequest:
		logger.Warnw("http request", fields...)
	default:
		logger.Debugw("http request", fields...)
	}
}
