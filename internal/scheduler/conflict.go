package scheduler

// Priority orders reservations when two of them contend for the room.
type Priority string

const (
	// PriorityNormal is the default priority assigned to reservations.
	PriorityNormal Priority = "normal"
	// PriorityHigh marks reservations that may displace normal ones.
	PriorityHigh Priority = "high"
)

// ParsePriority maps a caller supplied string onto a Priority. An empty value
// parses as PriorityNormal.
func ParsePriority(value string) (Priority, bool) {
	switch Priority(value) {
	case "":
		return PriorityNormal, true
	case PriorityNormal:
		return PriorityNormal, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return "", false
}

// CanDisplace reports whether a candidate reservation may relocate an existing
// one it overlaps. Displacement happens exactly when the candidate is high
// priority and the existing booking is normal priority; equal or reversed
// pairs never displace.
func CanDisplace(candidate, existing Priority) bool {
	return candidate == PriorityHigh && existing == PriorityNormal
}
