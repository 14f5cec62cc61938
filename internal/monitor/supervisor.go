package monitor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upmonhq/upmon/internal/domain"
	"github.com/upmonhq/upmon/internal/logsink"
	"github.com/upmonhq/upmon/internal/notify"
	"github.com/upmonhq/upmon/internal/probe"
	"github.com/upmonhq/upmon/internal/schedule"
)

const (
	DefaultWarmup  = 1000 * time.Millisecond
	subjectTimeFmt = "2006-01-02 15:04:05"
)

// targetState is one target's mutable monitoring state. runMu serializes
// the target's check cycles: a tick that arrives while the previous check
// is still in flight waits for it, so no two checks for the same target
// ever run concurrently. mu guards the snapshot fields only.
type targetState struct {
	target domain.Target

	runMu sync.Mutex

	mu          sync.RWMutex
	status      Status
	lastChecked time.Time
	lastStatus  int
}

// TargetStatus is a read-only view of one target for the status API.
type TargetStatus struct {
	Label          string    `json:"label"`
	URL            string    `json:"url"`
	Status         string    `json:"status"`
	LastCheckedAt  time.Time `json:"last_checked_at"`
	LastStatusCode int       `json:"last_status_code,omitempty"`
}

// Supervisor owns the full target set: one state record and one scheduled
// job per target, keyed by label. Targets share nothing but the notifier
// and the audit sink, both of which tolerate concurrent use.
type Supervisor struct {
	logger   *zap.Logger
	checker  probe.Checker
	notifier notify.Notifier
	sink     logsink.Sink
	sched    *schedule.Scheduler

	timeout time.Duration
	warmup  time.Duration

	mu     sync.RWMutex
	states map[string]*targetState
	timers []*time.Timer
}

type Option func(*Supervisor)

func WithTimeout(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithWarmup(d time.Duration) Option {
	return func(s *Supervisor) {
		if d >= 0 {
			s.warmup = d
		}
	}
}

func NewSupervisor(
	logger *zap.Logger,
	checker probe.Checker,
	notifier notify.Notifier,
	sink logsink.Sink,
	sched *schedule.Scheduler,
	opts ...Option,
) *Supervisor {
	s := &Supervisor{
		logger:   logger,
		checker:  checker,
		notifier: notifier,
		sink:     sink,
		sched:    sched,
		timeout:  probe.DefaultTimeout,
		warmup:   DefaultWarmup,
		states:   make(map[string]*targetState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers every target and begins scheduling. Each target also
// gets exactly one immediate check after the warm-up delay, independent of
// its recurring schedule's first natural fire.
func (s *Supervisor) Start(targets []domain.Target) error {
	for _, t := range targets {
		st, err := s.register(t)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.timers = append(s.timers, time.AfterFunc(s.warmup, func() {
			s.runCheck(st)
		}))
		s.mu.Unlock()
	}
	s.sched.Start()
	s.logger.Info("monitor_started", zap.Int("targets", len(targets)))
	return nil
}

// Stop cancels pending warm-up checks and waits for in-flight scheduled
// jobs to drain.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.mu.Unlock()

	<-s.sched.Stop().Done()
	s.logger.Info("monitor_stopped")
}

func (s *Supervisor) register(t domain.Target) (*targetState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.states[t.Label]; exists {
		return nil, fmt.Errorf("monitor: duplicate target label %q", t.Label)
	}

	st := &targetState{target: t, status: StatusUnknown}
	if _, err := s.sched.Add(t.Label, t.IntervalMs, func() { s.runCheck(st) }); err != nil {
		return nil, fmt.Errorf("monitor: schedule %q: %w", t.Label, err)
	}
	s.states[t.Label] = st
	return st, nil
}

// runCheck is one full check cycle: probe, audit record, transition,
// notification. Every per-check failure is absorbed here; nothing
// propagates out.
func (s *Supervisor) runCheck(st *targetState) {
	st.runMu.Lock()
	defer st.runMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	out := s.checker.Check(ctx, st.target.URL)

	// The audit record goes out before the notification decision so the
	// two are causally ordered.
	rec := logsink.Record{
		Timestamp:      out.Timestamp,
		CheckID:        uuid.NewString(),
		URL:            st.target.URL,
		StatusCode:     out.StatusCode,
		Error:          out.Err,
		ResponseTimeMs: out.ResponseTimeMs,
		Up:             out.Up(),
	}
	if err := s.sink.Append(st.target.Label, rec); err != nil {
		s.logger.Warn("audit_append_error",
			zap.String("label", st.target.Label),
			zap.Error(err),
		)
	}

	st.mu.RLock()
	prev := st.status
	st.mu.RUnlock()

	next, action := Transition(prev, out.Up())
	if action != ActionNone {
		s.dispatch(st.target, action, out)
	}

	st.mu.Lock()
	st.status = next
	st.lastChecked = out.Timestamp
	st.lastStatus = out.StatusCode
	st.mu.Unlock()

	s.logger.Debug("check_done",
		zap.String("label", st.target.Label),
		zap.Bool("up", out.Up()),
		zap.Int("status_code", out.StatusCode),
		zap.Int64("response_time_ms", out.ResponseTimeMs),
		zap.String("state", next.String()),
	)
}

// dispatch delivers the notification for a transition. Only the probe has
// a timeout; delivery gets a fresh context so a slow relay delays this
// target's cycle without being cut off by the probe deadline.
func (s *Supervisor) dispatch(t domain.Target, action Action, out probe.Outcome) {
	ctx := context.Background()
	ts := out.Timestamp.Local().Format(subjectTimeFmt)

	var subject, body string
	switch action {
	case ActionAlert:
		subject = fmt.Sprintf("%s is DOWN (%s)", t.Label, ts)
		if out.Err != "" {
			body = fmt.Sprintf("%s is unreachable: %s", t.URL, out.Err)
		} else {
			body = fmt.Sprintf("%s responded with status %d", t.URL, out.StatusCode)
		}
	case ActionRecover:
		subject = fmt.Sprintf("%s is UP (%s)", t.Label, ts)
		body = fmt.Sprintf("%s recovered with status %d", t.URL, out.StatusCode)
	default:
		return
	}

	// Delivery failure never touches the state transition.
	if err := s.notifier.Send(ctx, t.Recipients, subject, body); err != nil {
		s.logger.Warn("notify_error",
			zap.String("label", t.Label),
			zap.Error(err),
		)
	}
}

// Targets returns the configured target definitions, sorted by label.
func (s *Supervisor) Targets() []domain.Target {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Target, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, st.target)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Snapshot returns the current status of every target, sorted by label.
func (s *Supervisor) Snapshot() []TargetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TargetStatus, 0, len(s.states))
	for _, st := range s.states {
		st.mu.RLock()
		out = append(out, TargetStatus{
			Label:          st.target.Label,
			URL:            st.target.URL,
			Status:         st.status.String(),
			LastCheckedAt:  st.lastChecked,
			LastStatusCode: st.lastStatus,
		})
		st.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
