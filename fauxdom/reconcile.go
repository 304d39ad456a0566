package fauxdom

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/fiberparty/fiber"
)

// Reconciler turns desired Element trees into fiber work. One Reconciler
// serves every root of the RenderSystem it is installed in.
type Reconciler struct {
	host Host

	// desired holds the latest element rendered into each root. Entries
	// are replaced, never consumed, so a re-render without a new element
	// reconciles against the same tree.
	desired map[*fiber.FiberRoot]Element
}

func NewReconciler(host Host) *Reconciler {
	return &Reconciler{
		host:    host,
		desired: map[*fiber.FiberRoot]Element{},
	}
}

// BeginWork grows the working tree below wip and returns the first child
// to descend into, nil when wip is a leaf.
func (r *Reconciler) BeginWork(wip *fiber.Fiber) (*fiber.Fiber, error) {
	switch wip.Tag {
	case fiber.HostRoot:
		return r.updateHostRoot(wip)
	case fiber.HostComponent:
		el, ok := wip.PendingProps.(Element)
		if !ok {
			return nil, fmt.Errorf("%w: host component carries %T", ErrBadProps, wip.PendingProps)
		}
		r.reconcileChildren(wip, el.Kids)
		return wip.Child, nil
	case fiber.HostText:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownWorkTag, wip.Tag)
	}
}

func (r *Reconciler) updateHostRoot(wip *fiber.Fiber) (*fiber.Fiber, error) {
	root, ok := wip.StateNode.(*fiber.FiberRoot)
	if !ok {
		return nil, ErrRootUnbound
	}
	el, ok := r.desired[root]
	if !ok {
		r.reconcileChildren(wip, nil)
		return wip.Child, nil
	}
	r.reconcileChildren(wip, []Element{el})
	return wip.Child, nil
}

func (r *Reconciler) reconcileChildren(wip *fiber.Fiber, kids []Element) {
	if wip.Alternate == nil {
		// brand new subtree: nothing to diff against and no effects to
		// track, the subtree rides its topmost placed ancestor into the
		// host during complete
		wip.Child = mountChildren(wip, kids)
		return
	}
	wip.Child = r.diffChildren(wip, wip.Alternate.Child, kids)
}

// slotID names the position a child occupies for matching across renders:
// the key when one is set, otherwise the element's index. The two spaces
// are prefixed before hashing so a literal key never collides with an
// index.
func slotID(key string, index int) uint64 {
	if key != "" {
		return xxhash.Sum64String("k\x00" + key)
	}
	return xxhash.Sum64String("i\x00" + strconv.Itoa(index))
}

// Diffs the current children of wip against the desired kids and builds
// the new child list.
//
// Old children are indexed by slot. A desired child landing on a slot
// whose occupant has the same type reuses that occupant's buffered pair;
// anything else is created fresh and flagged for placement. Reused nodes
// that moved left of the last stable position are flagged as moves. Old
// children nobody reused are staged on wip.Deletions. All of it is render
// phase bookkeeping; the host hears about none of it until commit.
func (r *Reconciler) diffChildren(wip *fiber.Fiber, currentFirst *fiber.Fiber, kids []Element) *fiber.Fiber {
	existing := map[uint64]*fiber.Fiber{}
	for old := currentFirst; old != nil; old = old.Sibling {
		existing[slotID(old.Key, old.Index)] = old
	}
	reused := mapset.NewThreadUnsafeSet[*fiber.Fiber]()

	var first, prev *fiber.Fiber
	lastPlacedIndex := 0
	for i, el := range kids {
		old := existing[slotID(el.Key, i)]
		if old != nil && reused.Contains(old) {
			// duplicate key among kids, only the first occurrence reuses
			old = nil
		}

		var child *fiber.Fiber
		if old != nil && sameType(old, el) {
			child = fiber.CreateWorkInProgress(old, el)
			reused.Add(old)
			if old.Index < lastPlacedIndex {
				child.Flags |= fiber.Placement
			} else {
				lastPlacedIndex = old.Index
			}
		} else {
			child = newFiberFromElement(el)
			child.Flags |= fiber.Placement
		}
		child.Index = i
		child.Sibling = nil
		child.Return = wip

		if prev == nil {
			first = child
		} else {
			prev.Sibling = child
		}
		prev = child
	}

	for old := currentFirst; old != nil; old = old.Sibling {
		if !reused.Contains(old) {
			wip.Deletions = append(wip.Deletions, old)
			wip.Flags |= fiber.ChildDeletion
		}
	}
	return first
}

func mountChildren(wip *fiber.Fiber, kids []Element) *fiber.Fiber {
	var first, prev *fiber.Fiber
	for i, el := range kids {
		child := newFiberFromElement(el)
		child.Index = i
		child.Return = wip
		if prev == nil {
			first = child
		} else {
			prev.Sibling = child
		}
		prev = child
	}
	return first
}

func newFiberFromElement(el Element) *fiber.Fiber {
	tag := fiber.HostComponent
	if el.isText() {
		tag = fiber.HostText
	}
	f := fiber.NewFiber(tag, el, el.Key)
	f.ElemType = el.Kind
	return f
}

func sameType(old *fiber.Fiber, el Element) bool {
	if el.isText() {
		return old.Tag == fiber.HostText
	}
	return old.Tag == fiber.HostComponent && old.ElemType == el.Kind
}
