package fiber_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/fiberparty/fiber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should swap buffers on commit and recycle the pair on the next render
func TestCommitSwapsBuffersRoundTrip(t *testing.T) {
	log := []string{}
	r := &hookRenderer{
		begin:    shapeBegin(map[string][]string{"R": {"A"}}, &log),
		complete: bubblingComplete(&log),
	}
	rs := fiber.CreateRenderSystem(r, nil, failOnError(t))
	root := fiber.NewFiberRoot(nil)
	first := root.Current

	rs.ScheduleUpdateOnFiber(root.Current, fiber.SyncLane)
	second := root.Current
	require.NotSame(t, first, second)
	assert.Same(t, first, second.Alternate)

	rs.ScheduleUpdateOnFiber(root.Current, fiber.SyncLane)
	assert.Same(t, first, root.Current)
	assert.Same(t, second, root.Current.Alternate)
}

// should swap without calling the host when no mutation flags are set
func TestCommitSkipsHostWithoutMutationFlags(t *testing.T) {
	log := []string{}
	commits := 0
	r := &hookRenderer{
		begin:    shapeBegin(map[string][]string{"R": {"A"}}, &log),
		complete: bubblingComplete(&log),
		commit: func(finished *fiber.Fiber) error {
			commits++
			return nil
		},
	}
	rs := fiber.CreateRenderSystem(r, nil, failOnError(t))
	root := fiber.NewFiberRoot(nil)
	before := root.Current

	rs.ScheduleUpdateOnFiber(root.Current, fiber.SyncLane)

	assert.Equal(t, 0, commits)
	assert.NotSame(t, before, root.Current)
	assert.Nil(t, root.FinishedWork)
	assert.Equal(t, fiber.NoLane, root.FinishedLane)
	assert.Equal(t, fiber.NoLanes, root.PendingLanes)
}

// should hand the host the finished tree when mutation flags bubbled up
func TestCommitInvokesHostWhenFlagged(t *testing.T) {
	log := []string{}
	commits := 0
	var committed *fiber.Fiber

	shaped := shapeBegin(map[string][]string{"R": {"A"}, "A": {"A1"}}, &log)
	r := &hookRenderer{
		begin: func(wip *fiber.Fiber) (*fiber.Fiber, error) {
			next, err := shaped(wip)
			if wip.Key == "A1" {
				wip.Flags |= fiber.Update
			}
			return next, err
		},
		complete: bubblingComplete(&log),
		commit: func(finished *fiber.Fiber) error {
			commits++
			committed = finished
			return nil
		},
	}
	rs := fiber.CreateRenderSystem(r, nil, failOnError(t))
	root := fiber.NewFiberRoot(nil)

	rs.ScheduleUpdateOnFiber(root.Current, fiber.SyncLane)

	require.Equal(t, 1, commits)
	assert.Same(t, root.Current, committed)
	assert.NotEqual(t, fiber.NoFlags, committed.SubtreeFlags&fiber.MutationMask)
}

// should report a commit error and still publish the finished tree
func TestCommitErrorStillSwaps(t *testing.T) {
	errHost := errors.New("host rejected mutation")
	log := []string{}
	var reported error

	shaped := shapeBegin(map[string][]string{"R": {"A"}}, &log)
	r := &hookRenderer{
		begin: func(wip *fiber.Fiber) (*fiber.Fiber, error) {
			next, err := shaped(wip)
			if wip.Key == "A" {
				wip.Flags |= fiber.Placement
			}
			return next, err
		},
		complete: bubblingComplete(&log),
		commit: func(finished *fiber.Fiber) error {
			return errHost
		},
	}
	rs := fiber.CreateRenderSystem(r, nil, func(err error) { reported = err })
	root := fiber.NewFiberRoot(nil)
	before := root.Current

	rs.ScheduleUpdateOnFiber(root.Current, fiber.SyncLane)

	assert.ErrorIs(t, reported, errHost)
	assert.NotSame(t, before, root.Current)
	assert.Nil(t, root.FinishedWork)
	assert.Equal(t, fiber.NoLanes, root.PendingLanes)
}
