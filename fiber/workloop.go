package fiber

import "fmt"

// renderPass is the walk state of one render attempt on one root. A pass
// is created fresh by prepareFreshStack and discarded when the walk ends,
// so no cursor survives across attempts and an abandoned walk cannot
// bleed into the next one.
type renderPass struct {
	rs *RenderSystem

	// workInProgress is the next fiber to work on, nil once the walk has
	// retreated past the root or been abandoned.
	workInProgress *Fiber
}

// prepareFreshStack opens a new attempt by cloning the root's current
// fiber into the working buffer.
func (rs *RenderSystem) prepareFreshStack(root *FiberRoot) *renderPass {
	return &renderPass{
		rs:             rs,
		workInProgress: CreateWorkInProgress(root.Current, nil),
	}
}

// ScheduleUpdateOnFiber records that fiber needs re-rendering at the
// given lane and makes sure its root will be worked on. An update whose
// climb does not end at a live root is dropped without a diagnostic;
// detached subtrees race teardown and there is nobody left to tell.
func (rs *RenderSystem) ScheduleUpdateOnFiber(fiber *Fiber, lane Lane) {
	root := markUpdateFromFiberToRoot(fiber)
	if root == nil {
		return
	}
	root.PendingLanes = MergeLanes(root.PendingLanes, lane)
	rs.ensureRootIsScheduled(root)
}

// markUpdateFromFiberToRoot climbs Return links to the top of the tree
// and returns the owning FiberRoot, or nil when the climb ends anywhere
// but a HostRoot fiber holding one.
func markUpdateFromFiberToRoot(fiber *Fiber) *FiberRoot {
	node := fiber
	for node.Return != nil {
		node = node.Return
	}
	if node.Tag != HostRoot {
		return nil
	}
	root, ok := node.StateNode.(*FiberRoot)
	if !ok {
		return nil
	}
	return root
}

// Decides how the root's most urgent pending work reaches the host
// scheduler.
//
// Nothing pending is a no-op. SyncLane queues a sync callback and asks
// the host to flush the queue in a microtask, so every sync update landing
// within one task coalesces into a single flush at its end. Less urgent
// lanes go through the deferred task hook. Either way the callback
// re-checks urgency when it finally runs; scheduling here is a hint, the
// re-check is the contract.
func (rs *RenderSystem) ensureRootIsScheduled(root *FiberRoot) {
	updateLane := HighestPriorityLane(root.PendingLanes)
	if updateLane == NoLane {
		return
	}
	if updateLane == SyncLane {
		rs.scheduleSyncCallback(func() {
			rs.performWorkOnRoot(root, SyncLane)
		})
		rs.microtask(rs.flushSyncCallbacks)
		return
	}
	lane := updateLane
	rs.task(func() {
		rs.performWorkOnRoot(root, lane)
	})
}

// Runs one render attempt on root for the lane it was scheduled under.
//
// The lane is verified again first: by the time a queued callback runs,
// an earlier flush may have already committed this lane's work, or a more
// urgent lane may have arrived. A stale callback degrades to rescheduling
// whatever is actually pending now. This re-check is what makes the
// unconditional queue append on the scheduling side safe.
//
// A completed walk stages current's alternate as the finished tree and
// commits it. An abandoned walk stages nothing, so the root keeps serving
// the previous committed tree untouched.
func (rs *RenderSystem) performWorkOnRoot(root *FiberRoot, lane Lane) {
	if HighestPriorityLane(root.PendingLanes) != lane {
		rs.ensureRootIsScheduled(root)
		return
	}

	pass := rs.prepareFreshStack(root)
	if !pass.renderRoot() {
		return
	}

	root.FinishedWork = root.Current.Alternate
	root.FinishedLane = lane
	rs.commitRoot(root)
}

// Drives the walk until it either exhausts the tree or a unit fails.
//
// The loop shape is deliberate: a failed unit reports its error, clears
// the cursor and goes around again, and the next turn finds no work and
// falls out. A failed attempt therefore terminates without retrying.
// completed reports which way the walk ended.
func (p *renderPass) renderRoot() (completed bool) {
	completed = true
	for {
		err := p.workLoop()
		if err == nil {
			return completed
		}
		p.rs.reportError(fmt.Errorf("render attempt abandoned: %w", err))
		p.workInProgress = nil
		completed = false
	}
}

func (p *renderPass) workLoop() error {
	for p.workInProgress != nil {
		if err := p.performUnitOfWork(p.workInProgress); err != nil {
			return err
		}
	}
	return nil
}

// Runs the begin phase for one fiber and advances the cursor.
//
// Pending input is marked consumed immediately after a successful begin
// call, before the descend or retreat decision, so by commit time every
// visited node's MemoizedProps reflects this render whether or not the
// node produced children. A begin error leaves the node's memoized state
// untouched and surfaces to the attempt.
func (p *renderPass) performUnitOfWork(fiber *Fiber) error {
	next, err := p.rs.renderer.BeginWork(fiber)
	if err != nil {
		return err
	}
	fiber.MemoizedProps = fiber.PendingProps

	if next == nil {
		return p.completeUnitOfWork(fiber)
	}
	p.workInProgress = next
	return nil
}

// Retreats from a node with no remaining descent: complete it, step to
// its sibling if it has one, otherwise keep completing ancestors until
// one does or the root is passed. Ending past the root leaves the cursor
// nil, which is how the work loop knows the tree is exhausted.
func (p *renderPass) completeUnitOfWork(fiber *Fiber) error {
	node := fiber
	for node != nil {
		if err := p.rs.renderer.CompleteWork(node); err != nil {
			return err
		}
		if sibling := node.Sibling; sibling != nil {
			p.workInProgress = sibling
			return nil
		}
		node = node.Return
		p.workInProgress = node
	}
	return nil
}
