package fauxdom

// Host is the set of primitives a concrete render target supplies. The
// reconciler touches a Host during commit only; render phase work never
// reaches it. Instance values are opaque to the reconciler, it only
// carries them between the calls below.
type Host interface {
	CreateInstance(kind string, attrs map[string]string) any
	CreateTextInstance(text string) any

	// AppendChild and InsertBefore adopt child, detaching it from wherever
	// it currently sits, so a placement doubles as a move.
	AppendChild(parent, child any)
	InsertBefore(parent, child, before any)
	RemoveChild(parent, child any)

	CommitUpdate(instance any, attrs map[string]string)
	CommitTextUpdate(instance any, text string)

	AppendToContainer(container, child any)
	InsertInContainerBefore(container, child, before any)
	RemoveFromContainer(container, child any)
}
