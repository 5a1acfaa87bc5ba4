package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrBreakerOpen = errors.New("event publishing suspended after repeated failures")

type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

type BreakerConfig struct {
	MaxFailures     int
	ResetTimeout    time.Duration
	HalfOpenMaxSucc int
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:     5,
		ResetTimeout:    30 * time.Second,
		HalfOpenMaxSucc: 3,
	}
}

// BreakerPublisher stops calling a failing broker for ResetTimeout after
// MaxFailures consecutive errors, so report generation does not wait on the
// publish timeout for every request while the broker is down.
type BreakerPublisher struct {
	next   Publisher
	config BreakerConfig
	logger *slog.Logger
	now    func() time.Time

	mu                sync.Mutex
	state             BreakerState
	failures          int
	halfOpenSuccesses int
	lastFailure       time.Time
}

func NewBreakerPublisher(next Publisher, config BreakerConfig, logger *slog.Logger) *BreakerPublisher {
	return &BreakerPublisher{
		next:   next,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

func (b *BreakerPublisher) Publish(ctx context.Context, event Event) error {
	if !b.allow(ctx) {
		return ErrBreakerOpen
	}

	if err := b.next.Publish(ctx, event); err != nil {
		b.recordFailure(ctx)
		return err
	}
	b.recordSuccess(ctx)
	return nil
}

func (b *BreakerPublisher) Close() error {
	return b.next.Close()
}

func (b *BreakerPublisher) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *BreakerPublisher) allow(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.lastFailure) > b.config.ResetTimeout {
		b.transition(ctx, StateHalfOpen)
	}
	return b.state != StateOpen
}

func (b *BreakerPublisher) recordSuccess(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.config.HalfOpenMaxSucc {
			b.transition(ctx, StateClosed)
		}
	case StateClosed:
		b.failures = 0
	}
}

func (b *BreakerPublisher) recordFailure(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailure = b.now()
	switch b.state {
	case StateHalfOpen:
		b.transition(ctx, StateOpen)
	case StateClosed:
		b.failures++
		if b.failures >= b.config.MaxFailures {
			b.transition(ctx, StateOpen)
		}
	}
}

// transition must be called with mu held.
func (b *BreakerPublisher) transition(ctx context.Context, to BreakerState) {
	from := b.state
	b.state = to
	b.failures = 0
	b.halfOpenSuccesses = 0

	b.logger.WarnContext(ctx, "event publisher circuit state changed",
		"old_state", from.String(),
		"new_state", to.String())
}
