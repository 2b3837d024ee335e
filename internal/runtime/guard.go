package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds every provider call.
const DefaultTimeout = 30 * time.Second

// TimeoutError reports a provider call that did not finish before its deadline.
type TimeoutError struct {
	After time.Duration
}

// Error implements error.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider call timed out after %s", e.After)
}

// PanicError carries a recovered panic value.
type PanicError struct {
	Value any
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// guard races call against a deadline. The call runs in its own goroutine
// and delivers into a buffered channel, so a result arriving after the
// deadline is dropped without blocking the sender.
func guard[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: &PanicError{Value: r}}
			}
		}()
		value, err := call(callCtx)
		done <- outcome{value: value, err: err}
	}()

	var zero T
	select {
	case res := <-done:
		if res.err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return zero, &TimeoutError{After: timeout}
		}
		return res.value, res.err
	case <-callCtx.Done():
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("call abandoned: %w", err)
		}
		return zero, &TimeoutError{After: timeout}
	}
}
