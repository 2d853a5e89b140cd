package httpx

import (
	"delivery-tracker/internal/platform/obs"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// loggingTransport logs end-to-end duration and final status of every
// outgoing request.
type loggingTransport struct {
	next http.RoundTripper
}

// NewLoggingTransport wraps next (http.DefaultTransport when nil).
func NewLoggingTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if id := obs.RequestID(req.Context()); id != "" && req.Header.Get("X-Request-ID") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := t.next.RoundTrip(req)

	fields := logrus.Fields{
		"method": req.Method,
		"path":   req.URL.Path,
		"req_id": obs.RequestID(req.Context()),
		"dur_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		logrus.WithFields(fields).WithError(err).Warn("http request failed")
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logrus.WithFields(fields).Debug("http request")
	return resp, nil
}
