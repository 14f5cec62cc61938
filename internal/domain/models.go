package domain

// Target is one monitored endpoint. Targets are built once from
// configuration and never mutated afterwards.
type Target struct {
	Label      string   `json:"label"`
	URL        string   `json:"url"`
	Recipients []string `json:"recipients"`
	IntervalMs int64    `json:"interval_ms"`
}
