package fauxdom

import "errors"

var (
	// ErrBadProps means a fiber carried props this reconciler never produced.
	ErrBadProps = errors.New("fauxdom: props are not an element")
	// ErrUnknownWorkTag means a fiber has a tag this reconciler never makes.
	ErrUnknownWorkTag = errors.New("fauxdom: unknown work tag")
	// ErrRootUnbound means a host root fiber lost its backing fiber root.
	ErrRootUnbound = errors.New("fauxdom: host root fiber has no fiber root")
	// ErrOrphanedNode means commit met a node with no host parent to act on.
	ErrOrphanedNode = errors.New("fauxdom: node has no host parent")
)
