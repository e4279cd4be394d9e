package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bartab-sdk/pkg/idx"
)

// Transport is an http.RoundTripper that logs outbound requests and stamps
// them with a generated X-Request-ID so client logs can be correlated with
// the platform's own request logs.
type Transport struct {
	Base   http.RoundTripper // nil means http.DefaultTransport
	Logger *slog.Logger      // nil means slog.Default()
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reqID := req.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = idx.New().String()
		// Clone before mutating; RoundTrippers must not modify the request.
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-ID", reqID)
	}

	logger = logger.With(
		"req_id", reqID,
		"method", req.Method,
		"path", req.URL.Path,
	)

	start := time.Now()
	resp, err := base.RoundTrip(req)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		logger.Warn("http_request_failed",
			"duration_ms", duration,
			"error", err,
		)
		return nil, err
	}

	logger.Debug("http_request",
		"status", resp.StatusCode,
		"duration_ms", duration,
	)
	return resp, nil
}
