package api

import (
	"context"
	"delivery-tracker/internal/platform/obs"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// statusWriter remembers what the handler sent.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware tags each request with an id (X-Request-ID when the
// caller sent one) and logs it once the handler returned.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := r.Context()
		if id := r.Header.Get("X-Request-ID"); id != "" {
			ctx = context.WithValue(ctx, obs.RequestIDKey, id)
		}
		ctx = obs.WithRequestID(ctx)
		w.Header().Set("X-Request-ID", obs.RequestID(ctx))

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r.WithContext(ctx))

		logrus.WithFields(logrus.Fields{
			"req_id": obs.RequestID(ctx),
			"method": r.Method,
			"path":   r.URL.RequestURI(),
			"status": sw.status,
			"bytes":  sw.bytes,
			"dur_ms": time.Since(start).Milliseconds(),
		}).Debug("status request")
	})
}
