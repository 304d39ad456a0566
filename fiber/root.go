package fiber

// FiberRoot owns one tree: the stable handle scheduling targets, the
// committed buffer, and the handoff slot between render and commit.
type FiberRoot struct {
	// Container is the host side mount target. Opaque to the engine.
	Container any

	// Current is the root fiber of the committed tree.
	Current *Fiber

	// FinishedWork holds a fully rendered, not yet committed root fiber
	// between the end of a walk and commitRoot consuming it. nil at all
	// other times; an abandoned walk never populates it.
	FinishedWork *Fiber

	// FinishedLane is the lane FinishedWork was rendered under, NoLane
	// whenever FinishedWork is nil.
	FinishedLane Lane

	// PendingLanes accumulates the lanes of every scheduled but not yet
	// committed update on this root.
	PendingLanes Lanes
}

// NewFiberRoot builds a root around an empty committed tree. The HostRoot
// fiber and the FiberRoot point at each other, Current one way and
// StateNode back, which is what lets an update walked up from any fiber
// find its root again.
func NewFiberRoot(container any) *FiberRoot {
	hostRoot := NewFiber(HostRoot, nil, "")
	root := &FiberRoot{
		Container:    container,
		Current:      hostRoot,
		FinishedLane: NoLane,
	}
	hostRoot.StateNode = root
	return root
}
