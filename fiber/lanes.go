package fiber

// Lanes is a fixed width bitset of scheduling priorities. Lane aliases it
// so a single selected bit flows through the same arithmetic as a whole
// set; the two names track intent, not representation.
type Lanes uint32

type Lane = Lanes

const (
	// NoLane is the empty sentinel. It never wins a priority selection
	// and never outranks anything.
	NoLane Lane = 0
	// NoLanes is the empty pending set.
	NoLanes Lanes = 0

	// SyncLane is the most urgent tier. Its work is flushed at the end of
	// the current task rather than handed to the deferred scheduler.
	SyncLane Lane = 0b00001
	// InputContinuousLane covers continuous input such as drags.
	InputContinuousLane Lane = 0b00010
	// DefaultLane is for ordinary updates with no urgency hint.
	DefaultLane Lane = 0b00100
	// TransitionLane is for updates explicitly marked deferrable.
	TransitionLane Lane = 0b01000
	// IdleLane runs only when nothing else is pending.
	IdleLane Lane = 0b10000
)

// MergeLanes unions two sets. Merging with NoLanes is the identity.
func MergeLanes(a, b Lanes) Lanes {
	return a | b
}

// HighestPriorityLane returns the most urgent lane in the set. Lower bit
// positions are more urgent, so this is the lowest set bit, and NoLane
// for an empty set.
func HighestPriorityLane(lanes Lanes) Lane {
	return lanes & -lanes
}

// LanesInclude reports whether set and subset overlap.
func LanesInclude(set, subset Lanes) bool {
	return set&subset != NoLanes
}

// RemoveLanes clears every lane of subset from set.
func RemoveLanes(set, subset Lanes) Lanes {
	return set &^ subset
}
