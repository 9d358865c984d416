package locomotion

// State is the per-provider locomotion phase.
type State uint8

const (
	// Idle: the provider is not requesting locomotion.
	Idle State = iota
	// Preparing: the provider asked to move and waits for its start gate.
	Preparing
	// Moving: the provider may queue transformations.
	Moving
	// Ended: the provider finished this tick; it collapses to Idle at flush.
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Preparing:
		return "preparing"
	case Moving:
		return "moving"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// IsActive reports whether the provider is preparing or moving.
func (s State) IsActive() bool {
	return s == Preparing || s == Moving
}
