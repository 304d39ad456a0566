// Package runloop is a single goroutine task loop with an explicit
// microtask queue. It provides the two scheduling boundaries the render
// system expects from its host: Post for tasks and Microtask for work
// deferred to the end of the task currently running.
package runloop

import (
	"context"
	"sync"
)

// Loop owns one task queue and one microtask queue. Tasks may arrive from
// any goroutine; microtasks only from the loop goroutine itself.
type Loop struct {
	tasks chan func()

	// micro is touched by the loop goroutine only.
	micro []func()

	stopOnce sync.Once
	done     chan struct{}
}

// New builds an idle loop. Nothing runs until Run is called.
func New() *Loop {
	return &Loop{
		tasks: make(chan func(), 1024),
		done:  make(chan struct{}),
	}
}

// Run consumes tasks until ctx is done or Stop is called. Each task runs
// to completion, then every microtask it queued drains in order, then the
// next task starts. Run is the loop goroutine; call it from exactly one
// goroutine.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case task := <-l.tasks:
			task()
			l.drainMicrotasks()
		}
	}
}

// Post hands fn to the loop as its own task. It blocks while the queue is
// saturated; after Stop the task is never run.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// PostWait posts fn and blocks until fn and the microtasks it queued have
// run. The barrier is a second task, which cannot start before the first
// task's microtasks drained. Must not be called from the loop goroutine.
func (l *Loop) PostWait(fn func()) {
	l.Post(fn)
	flushed := make(chan struct{})
	l.Post(func() { close(flushed) })
	select {
	case <-flushed:
	case <-l.done:
	}
}

// Microtask queues fn to run when the current task finishes. Loop
// goroutine only; hand it to CreateRenderSystem as the microtask hook.
func (l *Loop) Microtask(fn func()) {
	l.micro = append(l.micro, fn)
}

// Stop terminates Run after the task in flight, if any. Idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

func (l *Loop) drainMicrotasks() {
	for i := 0; i < len(l.micro); i++ {
		l.micro[i]()
	}
	l.micro = l.micro[:0]
}
