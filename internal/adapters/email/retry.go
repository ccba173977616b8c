package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
)

// DefaultAttempts is how many times RetryingSender tries a send.
const DefaultAttempts = 3

// RetryingSender retries a wrapped Sender with exponential backoff.
// Used where the caller has already acknowledged the user and cannot surface the failure.
type RetryingSender struct {
	next     Sender
	attempts uint
	delay    time.Duration
}

// NewRetryingSender wraps next. A zero delay defaults to 200ms.
func NewRetryingSender(next Sender, attempts uint, delay time.Duration) *RetryingSender {
	if attempts == 0 {
		attempts = DefaultAttempts
	}
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}
	return &RetryingSender{next: next, attempts: attempts, delay: delay}
}

// Send delegates to the wrapped sender until it succeeds, attempts run out,
// or ctx is cancelled. The last error is returned.
func (s *RetryingSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if err := req.Validate(); err != nil {
		return SendResult{}, err
	}
	return retry.DoWithData(
		func() (SendResult, error) {
			return s.next.Send(ctx, req)
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("email_retry", "attempt", n+1, "to", req.To, "error", err)
		}),
	)
}
