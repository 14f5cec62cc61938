package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/upmonhq/upmon/internal/domain"
)

// Config is the daemon's startup configuration. It is loaded once; any
// problem with it is fatal before scheduling begins.
type Config struct {
	LogDir   string `yaml:"log_dir"`
	AuditDir string `yaml:"audit_dir"`
	APIAddr  string `yaml:"api_addr"`

	SMTP SMTPConfig `yaml:"smtp"`

	ProbeTimeoutMs int64 `yaml:"probe_timeout_ms"`
	WarmupMs       int64 `yaml:"warmup_ms"`

	// Outbound notification throttle: at most one send per notify_every_ms
	// on average, with notify_burst headroom for a flap across targets.
	NotifyEveryMs int64 `yaml:"notify_every_ms"`
	NotifyBurst   int   `yaml:"notify_burst"`

	Targets []TargetConfig `yaml:"targets"`
}

type SMTPConfig struct {
	Addr     string `yaml:"addr"` // host:port
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type TargetConfig struct {
	Label      string   `yaml:"label"`
	URL        string   `yaml:"url"`
	Emails     []string `yaml:"emails"`
	IntervalMs int64    `yaml:"interval_ms"`
}

// Load reads and validates the YAML config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{
		LogDir:         "logs",
		AuditDir:       "audit",
		APIAddr:        "127.0.0.1:8080",
		ProbeTimeoutMs: 30000,
		WarmupMs:       1000,
		NotifyEveryMs:  10000,
		NotifyBurst:    10,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ProbeTimeoutMs <= 0 {
		return fmt.Errorf("config: probe_timeout_ms must be positive, got %d", c.ProbeTimeoutMs)
	}
	if c.WarmupMs < 0 {
		return fmt.Errorf("config: warmup_ms must not be negative, got %d", c.WarmupMs)
	}
	if c.NotifyEveryMs <= 0 {
		return fmt.Errorf("config: notify_every_ms must be positive, got %d", c.NotifyEveryMs)
	}
	if c.NotifyBurst <= 0 {
		return fmt.Errorf("config: notify_burst must be positive, got %d", c.NotifyBurst)
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("config: no targets defined")
	}

	seen := make(map[string]struct{}, len(c.Targets))
	for i, t := range c.Targets {
		if t.Label == "" {
			return fmt.Errorf("config: target %d: label is required", i)
		}
		if strings.ContainsAny(t.Label, "/\\") {
			return fmt.Errorf("config: target %q: label must not contain path separators", t.Label)
		}
		if _, dup := seen[t.Label]; dup {
			return fmt.Errorf("config: duplicate target label %q", t.Label)
		}
		seen[t.Label] = struct{}{}

		u, err := url.Parse(t.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: target %q: invalid url %q", t.Label, t.URL)
		}
		if len(t.Emails) == 0 {
			return fmt.Errorf("config: target %q: at least one email recipient is required", t.Label)
		}
		for _, e := range t.Emails {
			if !strings.Contains(e, "@") {
				return fmt.Errorf("config: target %q: invalid email %q", t.Label, e)
			}
		}
		if t.IntervalMs <= 0 {
			return fmt.Errorf("config: target %q: interval_ms must be positive, got %d", t.Label, t.IntervalMs)
		}
		if t.IntervalMs <= c.ProbeTimeoutMs {
			return fmt.Errorf("config: target %q: interval_ms %d must exceed probe_timeout_ms %d",
				t.Label, t.IntervalMs, c.ProbeTimeoutMs)
		}
	}
	return nil
}

// DomainTargets converts the validated target list into domain targets.
func (c *Config) DomainTargets() []domain.Target {
	out := make([]domain.Target, 0, len(c.Targets))
	for _, t := range c.Targets {
		out = append(out, domain.Target{
			Label:      t.Label,
			URL:        t.URL,
			Recipients: append([]string(nil), t.Emails...),
			IntervalMs: t.IntervalMs,
		})
	}
	return out
}
