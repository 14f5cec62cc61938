package probe

import (
	"context"
	"time"
)

// Outcome is the classified result of a single probe.
//
// StatusCode is 0 when no HTTP response was received. ConnectionFailure is
// set only for transport-level errors (timeout, DNS, TLS, refused); an HTTP
// error response of any status code is not a connection failure.
type Outcome struct {
	Timestamp         time.Time
	StatusCode        int
	Err               string
	ResponseTimeMs    int64
	ConnectionFailure bool
}

// Up classifies the outcome: down on transport failure or any 5xx response,
// up otherwise (4xx responses count as up — the server answered).
func (o Outcome) Up() bool {
	return !o.ConnectionFailure && o.StatusCode < 500
}

// Checker performs a single health check against a target URL.
type Checker interface {
	Check(ctx context.Context, url string) Outcome
}
