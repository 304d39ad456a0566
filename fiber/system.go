package fiber

// OnErrorFunc receives diagnostics the engine has no return path for:
// walk failures surfacing inside scheduled callbacks and errors from the
// commit side mutation pass. Informational only, the engine has already
// decided what to do by the time it reports.
type OnErrorFunc func(err error)

// Renderer supplies the semantics the engine deliberately does not have.
// BeginWork builds or reconciles the children of wip and returns the
// first child to descend into, or nil to retreat. CompleteWork finalizes
// a node once its subtree is done. CommitMutationEffects applies the
// recorded effects of a finished tree to the host.
//
// All three run on the scheduling goroutine. An error from either walk
// method abandons the render attempt; an error from commit is reported
// and the buffer swap proceeds anyway.
type Renderer interface {
	BeginWork(wip *Fiber) (next *Fiber, err error)
	CompleteWork(wip *Fiber) error
	CommitMutationEffects(finished *Fiber) error
}

// RenderSystem carries the scheduling state shared by every root that
// renders through one Renderer on one host. Not safe for concurrent use;
// everything runs on the host's task goroutine.
type RenderSystem struct {
	renderer Renderer

	// scheduleMicrotask defers a callback to the end of the current task.
	// nil runs callbacks inline, which collapses scheduling to fully
	// synchronous and suits tests and immediate mode hosts.
	scheduleMicrotask func(func())

	// scheduleTask defers work to a later task. Lanes below SyncLane ride
	// it; nil falls back to the microtask hook.
	scheduleTask func(func())

	onError OnErrorFunc

	syncQueue           []func()
	isFlushingSyncQueue bool
}

// CreateRenderSystem wires a renderer to a host's scheduling hooks.
// scheduleMicrotask may be nil for immediate mode operation, onError may
// be nil to discard diagnostics.
func CreateRenderSystem(renderer Renderer, scheduleMicrotask func(func()), onError OnErrorFunc) *RenderSystem {
	rs := &RenderSystem{
		renderer:          renderer,
		scheduleMicrotask: scheduleMicrotask,
		onError:           onError,
	}
	return rs
}

// SetScheduleTask installs the deferred task hook used by lanes below
// SyncLane. Without one those lanes ride the microtask hook instead.
func (rs *RenderSystem) SetScheduleTask(schedule func(func())) {
	rs.scheduleTask = schedule
}

func (rs *RenderSystem) microtask(cb func()) {
	if rs.scheduleMicrotask != nil {
		rs.scheduleMicrotask(cb)
		return
	}
	cb()
}

func (rs *RenderSystem) task(cb func()) {
	if rs.scheduleTask != nil {
		rs.scheduleTask(cb)
		return
	}
	rs.microtask(cb)
}

func (rs *RenderSystem) reportError(err error) {
	if rs.onError != nil {
		rs.onError(err)
	}
}
