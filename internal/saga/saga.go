// Package saga runs a sequence of steps and compensates completed steps when a later one fails.
package saga

import (
	"context"
	"errors"
	"fmt"
)

// Step is a do/undo pair. Undo may be nil for steps that need no compensation.
type Step struct {
	Name string
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
}

// Error reports the step that failed and the outcome of compensation.
type Error struct {
	Step       string
	Cause      error
	Compensate error
}

func (e *Error) Error() string {
	if e.Compensate != nil {
		return fmt.Sprintf("step %q failed: %v (compensation failed: %v)", e.Step, e.Cause, e.Compensate)
	}
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Compensated reports whether every completed step was undone cleanly.
func (e *Error) Compensated() bool { return e.Compensate == nil }

// Run executes steps in order. When a step fails, the Undo of every previously completed
// step runs in reverse order with a context that ignores cancellation of ctx, so a
// started compensation always completes.
func Run(ctx context.Context, steps ...Step) error {
	for i, step := range steps {
		if err := step.Do(ctx); err != nil {
			return &Error{
				Step:       step.Name,
				Cause:      err,
				Compensate: compensate(context.WithoutCancel(ctx), steps[:i]),
			}
		}
	}
	return nil
}

func compensate(ctx context.Context, done []Step) error {
	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		if done[i].Undo == nil {
			continue
		}
		if err := done[i].Undo(ctx); err != nil {
			errs = append(errs, fmt.Errorf("undo %q: %w", done[i].Name, err))
		}
	}
	return errors.Join(errs...)
}
