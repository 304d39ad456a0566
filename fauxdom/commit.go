package fauxdom

import (
	"fmt"

	"github.com/delaneyj/fiberparty/fiber"
)

// CommitMutationEffects applies the recorded effects of a finished tree to
// the host. Children commit before their parent: the walk descends while
// subtree flags say there is work below, then applies effects on the way
// back up through siblings and ancestors.
func (r *Reconciler) CommitMutationEffects(finished *fiber.Fiber) error {
	node := finished
	for node != nil {
		if node.SubtreeFlags&fiber.MutationMask != fiber.NoFlags && node.Child != nil {
			node = node.Child
			continue
		}
		for node != nil {
			if err := r.commitEffectsOnFiber(node); err != nil {
				return err
			}
			if node.Sibling != nil {
				node = node.Sibling
				break
			}
			node = node.Return
		}
	}
	return nil
}

func (r *Reconciler) commitEffectsOnFiber(f *fiber.Fiber) error {
	if f.Flags&fiber.Placement != fiber.NoFlags {
		if err := r.commitPlacement(f); err != nil {
			return err
		}
		f.Flags &^= fiber.Placement
	}
	if f.Flags&fiber.Update != fiber.NoFlags {
		if err := r.commitUpdate(f); err != nil {
			return err
		}
		f.Flags &^= fiber.Update
	}
	if f.Flags&fiber.ChildDeletion != fiber.NoFlags {
		for _, d := range f.Deletions {
			if err := r.commitDeletion(d); err != nil {
				return err
			}
		}
		f.Deletions = nil
		f.Flags &^= fiber.ChildDeletion
	}
	return nil
}

// commitPlacement attaches or moves f's instance under its host parent,
// anchored before the nearest stable sibling so moves land in finished
// tree order even while later siblings are still unplaced.
func (r *Reconciler) commitPlacement(f *fiber.Fiber) error {
	p := f.Return
	if p == nil {
		return fmt.Errorf("%w: placement with no parent", ErrOrphanedNode)
	}
	before := stableHostSibling(f)
	switch p.Tag {
	case fiber.HostComponent:
		if before != nil {
			r.host.InsertBefore(p.StateNode, f.StateNode, before)
		} else {
			r.host.AppendChild(p.StateNode, f.StateNode)
		}
	case fiber.HostRoot:
		root, ok := p.StateNode.(*fiber.FiberRoot)
		if !ok {
			return ErrRootUnbound
		}
		if before != nil {
			r.host.InsertInContainerBefore(root.Container, f.StateNode, before)
		} else {
			r.host.AppendToContainer(root.Container, f.StateNode)
		}
	default:
		return fmt.Errorf("%w: placement under tag %d", ErrOrphanedNode, p.Tag)
	}
	return nil
}

// stableHostSibling finds the first following sibling that is not itself
// moving in this commit; its instance anchors an insert. nil means append.
func stableHostSibling(f *fiber.Fiber) any {
	for s := f.Sibling; s != nil; s = s.Sibling {
		if s.Flags&fiber.Placement == fiber.NoFlags {
			return s.StateNode
		}
	}
	return nil
}

func (r *Reconciler) commitUpdate(f *fiber.Fiber) error {
	el, ok := f.MemoizedProps.(Element)
	if !ok {
		return fmt.Errorf("%w: update carries %T", ErrBadProps, f.MemoizedProps)
	}
	switch f.Tag {
	case fiber.HostText:
		r.host.CommitTextUpdate(f.StateNode, el.Text)
	case fiber.HostComponent:
		r.host.CommitUpdate(f.StateNode, el.Attrs)
	}
	return nil
}

// commitDeletion detaches a deleted child's instance from its host parent.
// The fiber pair's Return links are severed so a late update scheduled on
// a removed node climbs to nothing and drops.
func (r *Reconciler) commitDeletion(d *fiber.Fiber) error {
	p := d.Return
	if p == nil {
		return fmt.Errorf("%w: deletion with no parent", ErrOrphanedNode)
	}
	switch p.Tag {
	case fiber.HostComponent:
		r.host.RemoveChild(p.StateNode, d.StateNode)
	case fiber.HostRoot:
		root, ok := p.StateNode.(*fiber.FiberRoot)
		if !ok {
			return ErrRootUnbound
		}
		r.host.RemoveFromContainer(root.Container, d.StateNode)
	default:
		return fmt.Errorf("%w: deletion under tag %d", ErrOrphanedNode, p.Tag)
	}
	d.Return = nil
	if d.Alternate != nil {
		d.Alternate.Return = nil
	}
	return nil
}
