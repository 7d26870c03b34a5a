package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"ticketinventory/internal/domain"
)

// responseWriter wraps http.ResponseWriter to capture status code and bytes written.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (n int, err error) {
	n, err = w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// principalCarrier lets handlers deeper in the chain report the authenticated caller
// back to the access log.
type principalCarrier struct {
	userID string
}

type carrierKey struct{}

func withPrincipalCarrier(ctx context.Context, c *principalCarrier) context.Context {
	return context.WithValue(ctx, carrierKey{}, c)
}

// LoggingMiddleware logs each request with method, path, status, size and duration.
// 5xx responses are logged at error level and 4xx at warn. Bodies are never logged.
func LoggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		carrier := &principalCarrier{}
		next.ServeHTTP(wrapped, r.WithContext(withPrincipalCarrier(r.Context(), carrier)))

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"bytes", wrapped.written,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if carrier.userID != "" {
			attrs = append(attrs, "user_id", carrier.userID)
		}
		level := slog.LevelInfo
		switch {
		case wrapped.status >= http.StatusInternalServerError:
			level = slog.LevelError
		case wrapped.status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		logger.Log(r.Context(), level, "request", attrs...)
	})
}

func notePrincipal(r *http.Request, p domain.Principal) {
	if c, ok := r.Context().Value(carrierKey{}).(*principalCarrier); ok {
		c.userID = p.UserID
	}
}
