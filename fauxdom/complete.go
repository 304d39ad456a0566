package fauxdom

import (
	"fmt"
	"maps"

	"github.com/delaneyj/fiberparty/fiber"
)

// CompleteWork finalizes a node once its subtree is built: fresh nodes get
// a host instance with their finished children attached, reused nodes get
// an Update flag when their committed output would change. Either way the
// children's effect flags bubble into SubtreeFlags on the way out.
func (r *Reconciler) CompleteWork(wip *fiber.Fiber) error {
	switch wip.Tag {
	case fiber.HostRoot:
		// the container exists before any render
	case fiber.HostComponent:
		el, ok := wip.PendingProps.(Element)
		if !ok {
			return fmt.Errorf("%w: host component carries %T", ErrBadProps, wip.PendingProps)
		}
		if wip.Alternate != nil && wip.StateNode != nil {
			prev, _ := wip.Alternate.MemoizedProps.(Element)
			if !maps.Equal(prev.Attrs, el.Attrs) {
				wip.Flags |= fiber.Update
			}
		} else {
			instance := r.host.CreateInstance(el.Kind, el.Attrs)
			r.appendAllChildren(instance, wip)
			wip.StateNode = instance
		}
	case fiber.HostText:
		el, ok := wip.PendingProps.(Element)
		if !ok {
			return fmt.Errorf("%w: text carries %T", ErrBadProps, wip.PendingProps)
		}
		if wip.Alternate != nil && wip.StateNode != nil {
			prev, _ := wip.Alternate.MemoizedProps.(Element)
			if prev.Text != el.Text {
				wip.Flags |= fiber.Update
			}
		} else {
			wip.StateNode = r.host.CreateTextInstance(el.Text)
		}
	default:
		return fmt.Errorf("%w: tag %d", ErrUnknownWorkTag, wip.Tag)
	}
	bubbleProperties(wip)
	return nil
}

// appendAllChildren attaches the already completed child instances under a
// fresh parent instance. Every fiber below the root is host backed here,
// so only direct children need attaching.
func (r *Reconciler) appendAllChildren(parent any, wip *fiber.Fiber) {
	for c := wip.Child; c != nil; c = c.Sibling {
		r.host.AppendChild(parent, c.StateNode)
	}
}

// bubbleProperties folds child effect flags into SubtreeFlags so commit
// can prune untouched subtrees from the top.
func bubbleProperties(wip *fiber.Fiber) {
	var subtree fiber.Flags
	for c := wip.Child; c != nil; c = c.Sibling {
		subtree |= c.SubtreeFlags | c.Flags
	}
	wip.SubtreeFlags |= subtree
}
