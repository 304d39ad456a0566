// Package fiber is a lane scheduled, double buffered tree work engine.
// It decides when and in what order tree positions are reprocessed and
// when a finished tree is published; the meaning of nodes, the diffing of
// children and the host side of commit live behind the Renderer interface
// supplied by the embedding layer.
package fiber

// WorkTag classifies what kind of node a Fiber is, which decides how the
// begin and complete collaborators treat it.
type WorkTag uint8

const (
	// HostRoot anchors a tree; its StateNode points back at the FiberRoot.
	HostRoot WorkTag = iota
	// HostComponent is a concrete host element.
	HostComponent
	// HostText is a leaf text run.
	HostText
)

// Flags records the side effects a render decided a node needs at commit.
type Flags uint16

const (
	// Placement attaches the node's host instance, first attach or move.
	Placement Flags = 1 << iota
	// Update rewrites an existing host instance's committed output.
	Update
	// ChildDeletion marks that the entries in Deletions must be detached.
	ChildDeletion
)

// NoFlags is the cleared state.
const NoFlags Flags = 0

// MutationMask selects the flags that require host mutation work. Commit
// skips the mutation collaborator entirely when nothing in the finished
// tree carries a flag in this mask.
const MutationMask = Placement | Update | ChildDeletion

// Fiber is one position in the work tree. Each position is backed by at
// most two Fiber values, one per buffer; Alternate links the pair and
// CreateWorkInProgress is the only way the second member comes to exist.
type Fiber struct {
	// Tag never changes after construction.
	Tag WorkTag

	// ElemType and Key identify what occupies this position. The engine
	// stores them for the reconciliation collaborator and never interprets
	// them itself.
	ElemType any
	Key      string

	// Index is the slot among siblings as of the render that last placed
	// this node. Maintained by the reconciliation collaborator.
	Index int

	// StateNode is whatever external artifact this position owns: the
	// FiberRoot on a HostRoot fiber, a host instance on host nodes.
	StateNode any

	// PendingProps is the input for the next or in-flight render.
	// MemoizedProps is the input the last begin step consumed; the work
	// loop copies pending over memoized right after each node's begin
	// call, before deciding whether to descend.
	PendingProps  any
	MemoizedProps any

	// Return, Child and Sibling wire the tree. Child points at the first
	// child only, the rest hang off that child's Sibling chain.
	Return  *Fiber
	Child   *Fiber
	Sibling *Fiber

	// Alternate is this position's node in the other buffer, nil until
	// the position has been worked on at least once.
	Alternate *Fiber

	// Flags are this node's own pending effects. SubtreeFlags is the
	// union of descendant Flags and SubtreeFlags, bubbled by the complete
	// phase so commit can prune untouched subtrees.
	Flags        Flags
	SubtreeFlags Flags

	// Deletions lists children removed this render. ChildDeletion is set
	// whenever it is non-empty.
	Deletions []*Fiber
}

// NewFiber builds a fresh fiber with no effects and no alternate.
func NewFiber(tag WorkTag, pendingProps any, key string) *Fiber {
	return &Fiber{
		Tag:          tag,
		Key:          key,
		PendingProps: pendingProps,
	}
}

// Returns the working copy of current for a new render attempt, creating
// the alternate on first use and recycling it on every use after that.
//
// The pairing invariant lives here and only here: whichever branch runs,
// wip.Alternate == current and current.Alternate == wip on return, so a
// position can never fan out into more than two nodes. A recycled copy
// keeps its identity and drops all effect state from its previous life.
func CreateWorkInProgress(current *Fiber, pendingProps any) *Fiber {
	wip := current.Alternate
	if wip == nil {
		wip = NewFiber(current.Tag, pendingProps, current.Key)
		wip.StateNode = current.StateNode

		wip.Alternate = current
		current.Alternate = wip
	} else {
		wip.PendingProps = pendingProps
		wip.Flags = NoFlags
		wip.SubtreeFlags = NoFlags
		wip.Deletions = nil
	}
	wip.ElemType = current.ElemType
	wip.Child = current.Child
	wip.MemoizedProps = current.MemoizedProps
	return wip
}
