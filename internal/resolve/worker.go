package resolve

import (
	"context"
	"fmt"
)

// PanicError reports a provider that panicked instead of returning.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("provider panicked: %v", e.Value)
}

type workerResult struct {
	tree *Tree
	err  error
}

// OnWorker runs fn on a fresh goroutine and blocks until it returns.
// A panic inside fn is returned as a *PanicError.
//
// The wait does not observe ctx: fn receives ctx and may honor it, but the
// caller always collects the goroutine before returning.
func OnWorker(ctx context.Context, fn func(context.Context) (*Tree, error)) (*Tree, error) {
	done := make(chan workerResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- workerResult{err: &PanicError{Value: r}}
			}
		}()
		tree, err := fn(ctx)
		done <- workerResult{tree: tree, err: err}
	}()

	res := <-done
	return res.tree, res.err
}
