// Package durable gives at-least-once event handlers once-per-step
// effects. An Invocation is identified by the event ID, which is stable
// across redeliveries; each named step is checked against a persistent
// ledger before it runs, and a durable sleep always measures its deadline
// from the first delivery of the event.
package durable

import (
	"context"
	"encoding/json"
	"fmt"
	"quickshow/pkg/logger"
	"time"
)

type Invocation struct {
	ID     string
	ledger Ledger
	log    *logger.Logger
	now    func() time.Time
}

func NewInvocation(id string, ledger Ledger, log *logger.Logger) *Invocation {
	return &Invocation{
		ID:     id,
		ledger: ledger,
		log:    log,
		now:    time.Now,
	}
}

// Run executes fn unless a prior delivery already completed the step.
// The step is recorded only after fn succeeds, so a crash mid-step means
// the step runs again on redelivery; fn must be written to tolerate that.
func (inv *Invocation) Run(ctx context.Context, step string, fn func(ctx context.Context) error) error {
	done, _, err := inv.ledger.Completed(ctx, inv.ID, step)
	if err != nil {
		return err
	}
	if done {
		inv.log.Info("Skipping completed step", "invocation", inv.ID, "step", step)
		return nil
	}

	if err := fn(ctx); err != nil {
		return err
	}

	return inv.ledger.MarkCompleted(ctx, inv.ID, step, nil)
}

// RunStep is Run for steps that produce a value later steps consume.
// The value is memoized in the ledger at completion time, so a
// redelivered invocation replays the recorded value instead of
// recomputing it.
func RunStep[T any](ctx context.Context, inv *Invocation, step string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	done, recorded, err := inv.ledger.Completed(ctx, inv.ID, step)
	if err != nil {
		return zero, err
	}
	if done {
		inv.log.Info("Replaying completed step", "invocation", inv.ID, "step", step)
		var out T
		if len(recorded) > 0 {
			if err := json.Unmarshal(recorded, &out); err != nil {
				return zero, fmt.Errorf("failed to replay step %q result: %w", step, err)
			}
		}
		return out, nil
	}

	out, err := fn(ctx)
	if err != nil {
		return zero, err
	}

	result, err := json.Marshal(out)
	if err != nil {
		return zero, fmt.Errorf("failed to record step %q result: %w", step, err)
	}
	if err := inv.ledger.MarkCompleted(ctx, inv.ID, step, result); err != nil {
		return zero, err
	}
	return out, nil
}

// SleepUntil suspends the invocation until the deadline. The deadline is
// persisted on first call; a redelivered event waits only for whatever
// remains, and returns immediately when the recorded deadline has passed.
func (inv *Invocation) SleepUntil(ctx context.Context, step string, deadline time.Time) error {
	wakeAt, err := inv.ledger.RecordWake(ctx, inv.ID, step, deadline)
	if err != nil {
		return err
	}

	remaining := wakeAt.Sub(inv.now())
	if remaining <= 0 {
		return nil
	}

	inv.log.Info("Sleeping until deadline",
		"invocation", inv.ID,
		"step", step,
		"wake_at", wakeAt,
		"remaining", remaining,
	)

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
