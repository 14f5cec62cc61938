package notify

import (
	"context"

	"go.uber.org/multierr"
)

// Notifier delivers one subject/body message to a list of recipients.
// Implementations must be safe for concurrent use by multiple targets'
// check cycles.
type Notifier interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// Multi fans a message out to every configured channel. Delivery is
// best-effort per channel; errors are collected, not short-circuited.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, recipients []string, subject, body string) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, recipients, subject, body))
	}
	return errs
}
