package runloop_test

import (
	"context"
	"testing"

	"github.com/delaneyj/fiberparty/fauxdom"
	"github.com/delaneyj/fiberparty/fiber"
	"github.com/delaneyj/fiberparty/runloop"
	"github.com/stretchr/testify/assert"
)

// should drain a task's microtasks before the next task starts
func TestMicrotasksDrainBetweenTasks(t *testing.T) {
	loop := runloop.New()
	defer loop.Stop()
	go loop.Run(context.Background())

	var events []string
	loop.Post(func() {
		events = append(events, "task1")
		loop.Microtask(func() { events = append(events, "micro1") })
		loop.Microtask(func() { events = append(events, "micro2") })
	})
	loop.PostWait(func() {
		events = append(events, "task2")
	})

	assert.Equal(t, []string{"task1", "micro1", "micro2", "task2"}, events)
}

// should run microtasks queued by other microtasks in the same drain
func TestMicrotasksExtendDuringDrain(t *testing.T) {
	loop := runloop.New()
	defer loop.Stop()
	go loop.Run(context.Background())

	var events []string
	loop.PostWait(func() {
		loop.Microtask(func() {
			events = append(events, "outer")
			loop.Microtask(func() { events = append(events, "inner") })
		})
	})

	assert.Equal(t, []string{"outer", "inner"}, events)
}

// should commit sync renders once at the end of the posting task
func TestSyncRendersFlushAtEndOfTask(t *testing.T) {
	loop := runloop.New()
	defer loop.Stop()
	go loop.Run(context.Background())

	counting := &mutationCounter{}
	rec := fauxdom.NewReconciler(counting)
	rs := fiber.CreateRenderSystem(rec, loop.Microtask, nil)
	container := &fauxdom.Container{}
	root := fauxdom.CreateRoot(rs, rec, container)

	var during string
	loop.PostWait(func() {
		root.Render(fauxdom.El("div", nil, fauxdom.Text("one")))
		root.Render(fauxdom.El("div", nil, fauxdom.Text("two")))
		during = container.HTML()
	})

	var after string
	var mutations int
	loop.PostWait(func() {
		after = container.HTML()
		mutations = counting.mutations
	})

	assert.Equal(t, ``, during)
	assert.Equal(t, `<div>two</div>`, after)
	// one text append into the div plus one container append: a single
	// coalesced render, not one commit per Render call
	assert.Equal(t, 2, mutations)
}

// should run deferred lane renders on a later task, not at end of task
func TestDeferredRenderRunsOnLaterTask(t *testing.T) {
	loop := runloop.New()
	defer loop.Stop()
	go loop.Run(context.Background())

	rec := fauxdom.NewReconciler(fauxdom.MemoryHost{})
	rs := fiber.CreateRenderSystem(rec, loop.Microtask, nil)
	rs.SetScheduleTask(loop.Post)
	container := &fauxdom.Container{}
	root := fauxdom.CreateRoot(rs, rec, container)

	var atEndOfTask string
	loop.PostWait(func() {
		root.RenderAt(fauxdom.El("p", nil, fauxdom.Text("later")), fiber.DefaultLane)
		loop.Microtask(func() { atEndOfTask = container.HTML() })
	})

	var after string
	loop.PostWait(func() {
		after = container.HTML()
	})

	assert.Equal(t, ``, atEndOfTask)
	assert.Equal(t, `<p>later</p>`, after)
}

// should stop consuming after Stop
func TestStopTerminatesRun(t *testing.T) {
	loop := runloop.New()
	finished := make(chan struct{})
	go func() {
		loop.Run(context.Background())
		close(finished)
	}()

	loop.PostWait(func() {})
	loop.Stop()
	<-finished

	ran := false
	loop.Post(func() { ran = true })
	assert.False(t, ran)
}

// should stop consuming when the context is cancelled
func TestContextCancelTerminatesRun(t *testing.T) {
	loop := runloop.New()
	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(finished)
	}()

	loop.PostWait(func() {})
	cancel()
	<-finished
}

// mutationCounter counts host mutation calls on top of a MemoryHost.
type mutationCounter struct {
	fauxdom.MemoryHost
	mutations int
}

func (h *mutationCounter) AppendChild(parent, child any) {
	h.mutations++
	h.MemoryHost.AppendChild(parent, child)
}

func (h *mutationCounter) InsertBefore(parent, child, before any) {
	h.mutations++
	h.MemoryHost.InsertBefore(parent, child, before)
}

func (h *mutationCounter) RemoveChild(parent, child any) {
	h.mutations++
	h.MemoryHost.RemoveChild(parent, child)
}

func (h *mutationCounter) CommitUpdate(instance any, attrs map[string]string) {
	h.mutations++
	h.MemoryHost.CommitUpdate(instance, attrs)
}

func (h *mutationCounter) CommitTextUpdate(instance any, text string) {
	h.mutations++
	h.MemoryHost.CommitTextUpdate(instance, text)
}

func (h *mutationCounter) AppendToContainer(container, child any) {
	h.mutations++
	h.MemoryHost.AppendToContainer(container, child)
}

func (h *mutationCounter) InsertInContainerBefore(container, child, before any) {
	h.mutations++
	h.MemoryHost.InsertInContainerBefore(container, child, before)
}

func (h *mutationCounter) RemoveFromContainer(container, child any) {
	h.mutations++
	h.MemoryHost.RemoveFromContainer(container, child)
}
