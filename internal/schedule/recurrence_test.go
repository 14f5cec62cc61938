package schedule

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func parseSpec(t *testing.T, spec string) cron.Schedule {
	t.Helper()
	p := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	s, err := p.Parse(spec)
	require.NoError(t, err, "spec %q must parse", spec)
	return s
}

func TestBuildRecurrence_Specs(t *testing.T) {
	cases := []struct {
		intervalMs int64
		spec       string
	}{
		{5000, "*/5 * * * * *"},
		{30000, "*/30 * * * * *"},
		{60000, "0 */1 * * * *"},
		{120000, "0 */2 * * * *"},
		{3600000, "0 0 */1 * * *"},
		{7200000, "0 0 */2 * * *"},
		// Nothing divides cleanly: legacy fallback to once a day.
		{65000, "0 0 0 * * *"},
		{500, "0 0 0 * * *"},
		{90000, "0 0 0 * * *"},
		{86400000, "0 0 0 * * *"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.spec, BuildRecurrence(tc.intervalMs), "interval %d ms", tc.intervalMs)
	}
}

func TestBuildRecurrence_FiveSecondsFiresOnMinuteGrid(t *testing.T) {
	s := parseSpec(t, BuildRecurrence(5000))

	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	for _, wantSec := range []int{5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55} {
		at = s.Next(at)
		require.Equal(t, wantSec, at.Second())
		require.Equal(t, 0, at.Minute())
	}
	// Wraps to second 0 of the next minute.
	at = s.Next(at)
	require.Equal(t, 0, at.Second())
	require.Equal(t, 1, at.Minute())
}

func TestBuildRecurrence_TwoMinutesAlignedToSecondZero(t *testing.T) {
	s := parseSpec(t, BuildRecurrence(120000))

	at := s.Next(time.Date(2026, 8, 25, 10, 0, 30, 0, time.UTC))
	require.Equal(t, 2, at.Minute())
	require.Equal(t, 0, at.Second())

	at = s.Next(at)
	require.Equal(t, 4, at.Minute())
	require.Equal(t, 0, at.Second())
}

func TestBuildRecurrence_TwoHoursAlignedToMinuteZero(t *testing.T) {
	s := parseSpec(t, BuildRecurrence(7200000))

	at := s.Next(time.Date(2026, 8, 25, 1, 30, 0, 0, time.UTC))
	require.Equal(t, 2, at.Hour())
	require.Equal(t, 0, at.Minute())
	require.Equal(t, 0, at.Second())
}

// 65 s misses every alignment boundary and silently degrades to a daily
// midnight fire. Documented legacy behavior, not an approximation.
func TestBuildRecurrence_MisalignedFallsBackToDaily(t *testing.T) {
	s := parseSpec(t, BuildRecurrence(65000))

	at := s.Next(time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC))
	require.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), at)
}

func TestScheduler_AddAndFire(t *testing.T) {
	logger, _ := testLogger()
	sched := New(logger)

	fired := make(chan struct{}, 4)
	_, err := sched.Add("api", 1000, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("1 s recurrence did not fire")
	}
}

func TestScheduler_RecoversPanickingJob(t *testing.T) {
	logger, _ := testLogger()
	sched := New(logger)

	ran := make(chan struct{}, 4)
	_, err := sched.Add("bad", 1000, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
		panic("job blew up")
	})
	require.NoError(t, err)

	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	// Two fires prove the first panic did not kill scheduling.
	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(3 * time.Second):
			t.Fatalf("fire %d never happened after panic", i+1)
		}
	}
}
