package fauxdom

import "github.com/delaneyj/fiberparty/fiber"

// Root binds a render system, a reconciler and one host container into the
// mount point applications render into.
type Root struct {
	sys  *fiber.RenderSystem
	rec  *Reconciler
	root *fiber.FiberRoot
}

// CreateRoot prepares an empty mount inside container. The container must
// be whatever the reconciler's Host treats as a container.
func CreateRoot(sys *fiber.RenderSystem, rec *Reconciler, container any) *Root {
	return &Root{
		sys:  sys,
		rec:  rec,
		root: fiber.NewFiberRoot(container),
	}
}

// Render requests that el become the tree, at sync priority. Renders
// issued within one task coalesce into a single flush; the last element
// wins.
func (r *Root) Render(el Element) {
	r.RenderAt(el, fiber.SyncLane)
}

// RenderAt schedules a render of el at the given lane.
func (r *Root) RenderAt(el Element, lane fiber.Lane) {
	r.rec.desired[r.root] = el
	r.sys.ScheduleUpdateOnFiber(r.root.Current, lane)
}
