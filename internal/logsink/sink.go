package logsink

import "time"

// Record is one audit entry per completed check. Timestamps marshal as
// RFC 3339 via encoding/json.
type Record struct {
	Timestamp      time.Time `json:"timestamp"`
	CheckID        string    `json:"check_id"`
	URL            string    `json:"url"`
	StatusCode     int       `json:"status_code,omitempty"`
	Error          string    `json:"error,omitempty"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	Up             bool      `json:"up"`
}

// Sink appends one record per check to a per-label stream. Implementations
// must tolerate concurrent appends from different targets' check cycles.
type Sink interface {
	Append(label string, rec Record) error
}
