package fiber

import (
	"errors"
	"fmt"
)

// Publishes root.FinishedWork: hands the host its mutations, then swaps
// buffers.
//
// Calling with nothing staged is a no-op, and the slot is cleared before
// any collaborator runs, so a reentrant schedule during commit can never
// see or reuse a half committed tree. The mutation collaborator only runs
// when the finished root or its subtree carries mutation relevant flags.
// The buffer swap is unconditional: memoized state must be published even
// by a render that produced no host changes, and a failed mutation pass
// still swaps after reporting, matching the walk side policy that errors
// abandon work but never wedge the system.
func (rs *RenderSystem) commitRoot(root *FiberRoot) {
	finishedWork := root.FinishedWork
	if finishedWork == nil {
		return
	}
	lane := root.FinishedLane
	if lane == NoLane {
		rs.reportError(errors.New("commit with no finished lane recorded"))
	}

	root.FinishedWork = nil
	root.FinishedLane = NoLane
	root.PendingLanes = RemoveLanes(root.PendingLanes, lane)

	subtreeHasEffects := finishedWork.SubtreeFlags&MutationMask != NoFlags
	rootHasEffect := finishedWork.Flags&MutationMask != NoFlags
	if subtreeHasEffects || rootHasEffect {
		if err := rs.renderer.CommitMutationEffects(finishedWork); err != nil {
			rs.reportError(fmt.Errorf("commit mutation effects: %w", err))
		}
	}
	root.Current = finishedWork
}
