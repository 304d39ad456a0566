package fauxdom_test

import (
	"testing"

	"github.com/delaneyj/fiberparty/fauxdom"
	"github.com/delaneyj/fiberparty/fiber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should coalesce renders issued in one task, last element wins
func TestRendersCoalesceLastWins(t *testing.T) {
	var microtasks []func()
	rec := fauxdom.NewReconciler(fauxdom.MemoryHost{})
	rs := fiber.CreateRenderSystem(rec, func(cb func()) {
		microtasks = append(microtasks, cb)
	}, failNow(t))
	container := &fauxdom.Container{}
	root := fauxdom.CreateRoot(rs, rec, container)

	root.Render(fauxdom.El("div", nil, fauxdom.Text("one")))
	root.Render(fauxdom.El("div", nil, fauxdom.Text("two")))
	root.Render(fauxdom.El("div", nil, fauxdom.Text("three")))

	// nothing committed until the end of task boundary
	assert.Equal(t, ``, container.HTML())

	for i := 0; i < len(microtasks); i++ {
		microtasks[i]()
	}

	assert.Equal(t, `<div>three</div>`, container.HTML())
}

// should flush deferred lane renders when the task hook runs them
func TestDeferredRenderLane(t *testing.T) {
	var tasks []func()
	rec := fauxdom.NewReconciler(fauxdom.MemoryHost{})
	rs := fiber.CreateRenderSystem(rec, nil, failNow(t))
	rs.SetScheduleTask(func(cb func()) {
		tasks = append(tasks, cb)
	})
	container := &fauxdom.Container{}
	root := fauxdom.CreateRoot(rs, rec, container)

	root.RenderAt(fauxdom.El("div", nil, fauxdom.Text("later")), fiber.DefaultLane)
	assert.Equal(t, ``, container.HTML())
	require.Len(t, tasks, 1)

	for i := 0; i < len(tasks); i++ {
		tasks[i]()
	}
	assert.Equal(t, `<div>later</div>`, container.HTML())
}

// should refuse fibers this reconciler never produced
func TestBeginWorkRejectsForeignFibers(t *testing.T) {
	rec := fauxdom.NewReconciler(fauxdom.MemoryHost{})

	_, err := rec.BeginWork(fiber.NewFiber(fiber.WorkTag(42), nil, ""))
	assert.ErrorIs(t, err, fauxdom.ErrUnknownWorkTag)

	// a host root fiber that lost its backing root
	_, err = rec.BeginWork(fiber.NewFiber(fiber.HostRoot, nil, ""))
	assert.ErrorIs(t, err, fauxdom.ErrRootUnbound)

	_, err = rec.BeginWork(fiber.NewFiber(fiber.HostComponent, "not an element", ""))
	assert.ErrorIs(t, err, fauxdom.ErrBadProps)
}

// should treat nil and empty attrs as the same committed output
func TestNilAndEmptyAttrsEqual(t *testing.T) {
	counting := &countingHost{}
	rec := fauxdom.NewReconciler(counting)
	rs := fiber.CreateRenderSystem(rec, nil, failNow(t))
	container := &fauxdom.Container{}
	root := fauxdom.CreateRoot(rs, rec, container)

	root.Render(fauxdom.El("div", nil))
	afterMount := counting.mutations

	root.Render(fauxdom.El("div", fauxdom.A{}))

	assert.Equal(t, afterMount, counting.mutations)
	assert.Equal(t, `<div></div>`, container.HTML())
}
