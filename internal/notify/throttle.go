package notify

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Throttled caps outbound notification volume. Over-limit sends are
// dropped with a log line rather than queued: blocking here would stall
// the owning target's check cycle.
type Throttled struct {
	next    Notifier
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewThrottled(next Notifier, limit rate.Limit, burst int, logger *zap.Logger) *Throttled {
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

func (t *Throttled) Send(ctx context.Context, recipients []string, subject, body string) error {
	if !t.limiter.Allow() {
		t.logger.Warn("notify_throttled", zap.String("subject", subject))
		return nil
	}
	return t.next.Send(ctx, recipients, subject, body)
}
