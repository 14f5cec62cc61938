package probe

import (
	"context"
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

func (h *HTTPChecker) Check(ctx context.Context, url string) Outcome {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Outcome{
			Timestamp:         start,
			Err:               err.Error(),
			ResponseTimeMs:    time.Since(start).Milliseconds(),
			ConnectionFailure: true,
		}
	}

	resp, err := h.Client.Do(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		// No response received: timeout, DNS, TLS, connection refused.
		return Outcome{
			Timestamp:         start,
			Err:               err.Error(),
			ResponseTimeMs:    elapsed,
			ConnectionFailure: true,
		}
	}
	defer resp.Body.Close()

	return Outcome{
		Timestamp:      start,
		StatusCode:     resp.StatusCode,
		ResponseTimeMs: elapsed,
	}
}
