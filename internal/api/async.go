package api

import (
	"context"
	"fmt"
	"sync"
)

// Executor runs a completion on the caller's chosen execution context, e.g. a
// UI event loop. Inline runs it on the goroutine that finished the call.
type Executor func(func())

// Inline runs completions immediately.
func Inline(f func()) { f() }

// Go runs call on a new goroutine and delivers its result to done exactly
// once through exec. A panic in call is delivered as a KindUnknown error.
// The returned channel is closed after done has run.
func Go[T any](ctx context.Context, exec Executor, call func(context.Context) (T, error), done func(T, error)) <-chan struct{} {
	if exec == nil {
		exec = Inline
	}
	finished := make(chan struct{})
	var once sync.Once
	complete := func(v T, err error) {
		once.Do(func() {
			exec(func() {
				defer close(finished)
				done(v, err)
			})
		})
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				complete(zero, unknownError(fmt.Errorf("panic: %v", r)))
			}
		}()
		v, err := call(ctx)
		complete(v, err)
	}()
	return finished
}

// Loop is a queue-backed executor drained by Run, standing in for a UI event
// loop. Once Run has returned, completions run inline on the goroutine that
// finished the call, so none is lost.
type Loop struct {
	queue   chan func()
	stopped chan struct{}
	stop    sync.Once
}

// NewLoop returns a Loop that queues completions until Run drains them.
func NewLoop() *Loop {
	return &Loop{
		queue:   make(chan func()),
		stopped: make(chan struct{}),
	}
}

// Executor returns an Executor that hands completions to l.
func (l *Loop) Executor() Executor {
	return func(f func()) {
		select {
		case l.queue <- f:
		case <-l.stopped:
			f()
		}
	}
}

// Run executes queued completions until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	defer l.stop.Do(func() { close(l.stopped) })
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-l.queue:
			f()
		}
	}
}
