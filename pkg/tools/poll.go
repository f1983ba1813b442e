package tools

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPollTimeout is returned when the condition never held
var ErrPollTimeout = errors.New("poll timed out")

const (
	defaultPollTimeout  = 2 * time.Second
	defaultPollInterval = 100 * time.Millisecond
)

// PollOptions tune Poll. Zero values select the defaults (2s timeout,
// 100ms interval).
type PollOptions struct {
	Timeout  time.Duration
	Interval time.Duration
}

// Poll checks cond right away and then every interval until it returns
// true, the timeout passes or ctx is done
func Poll(ctx context.Context, cond func() bool, opts PollOptions) error {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultPollTimeout
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultPollInterval
	}

	deadline := time.NewTimer(opts.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		if cond() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w after %s", ErrPollTimeout, opts.Timeout)
		case <-ticker.C:
		}
	}
}
