package mailtrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
)

func newWaitConfig(opts []WaitOption) *waitConfig {
	cfg := &waitConfig{
		timeout:      defaultWaitTimeout,
		pollInterval: defaultPollInterval,
		maxInterval:  defaultMaxPollInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Wait polls the inbox until a message matching the given criteria arrives.
// Messages already in the inbox are considered on the first poll.
//
// Example:
//
//	msg, err := inbox.Messages().Wait(ctx,
//	    mailtrap.WithSubject("Welcome"),
//	    mailtrap.WithTo("john@example.com"),
//	    mailtrap.WithWaitTimeout(30*time.Second),
//	)
func (m *MessagesResource) Wait(ctx context.Context, opts ...WaitOption) (*Message, error) {
	msgs, err := m.WaitCount(ctx, 1, opts...)
	if err != nil {
		return nil, err
	}
	return msgs[0], nil
}

// WaitCount polls the inbox until at least count matching messages are
// found and returns the first count of them, newest first.
func (m *MessagesResource) WaitCount(ctx context.Context, count int, opts ...WaitOption) ([]*Message, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must be non-negative, got %d", ErrInvalidArgument, count)
	}
	if count == 0 {
		return []*Message{}, nil
	}
	if m.res.err != nil {
		return nil, m.res.err
	}

	cfg := newWaitConfig(opts)
	deadline := time.Now().Add(cfg.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	b := &backoff.Backoff{
		Min:    cfg.pollInterval,
		Max:    cfg.maxInterval,
		Factor: 1.5,
		Jitter: true,
	}

	for {
		matched, err := m.matching(ctx, cfg, count)
		if err != nil {
			if timedOut(ctx, deadline) {
				return nil, &TimeoutError{Operation: "wait for messages", Timeout: cfg.timeout}
			}
			return nil, err
		}
		if len(matched) >= count {
			return matched[:count], nil
		}

		delay := b.Duration()
		m.logger.Debug("waiting for messages",
			"matched", len(matched),
			"want", count,
			"next_poll", delay,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			if timedOut(ctx, deadline) {
				return nil, &TimeoutError{Operation: "wait for messages", Timeout: cfg.timeout}
			}
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// matching walks the inbox from the newest page towards older ones until
// count messages match or the last page is reached.
func (m *MessagesResource) matching(ctx context.Context, cfg *waitConfig, count int) ([]*Message, error) {
	var matched []*Message
	var filter MessageFilter
	for {
		page, err := m.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		oldest := filter.LastID
		for _, msg := range page {
			if cfg.Matches(msg) {
				matched = append(matched, msg)
			}
			if oldest == 0 || msg.ID < oldest {
				oldest = msg.ID
			}
		}
		// A page that does not move past the cursor ends the walk.
		stalled := filter.LastID != 0 && oldest >= filter.LastID
		if len(matched) >= count || len(page) < messagesPageSize || stalled {
			return matched, nil
		}
		filter.LastID = oldest
	}
}

// timedOut reports whether ctx ended because the wait's own deadline passed
// rather than through the caller's context.
func timedOut(ctx context.Context, deadline time.Time) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded) && !time.Now().Before(deadline)
}
