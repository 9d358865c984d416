package gravity

// Override is a gravity lock requested by a controller.
type Override uint8

const (
	ForcedOff Override = iota
	ForcedOn
)

func (o Override) String() string {
	switch o {
	case ForcedOff:
		return "forced_off"
	case ForcedOn:
		return "forced_on"
	default:
		return "unknown"
	}
}

// Controller is a feature that can lock or pause gravity, such as climbing or
// grab-move.
type Controller interface {
	ControllerID() string
	// CanProcess reports whether the controller currently participates in
	// arbitration. A disabled controller's pause request is ignored.
	CanProcess() bool
	// GravityPaused asks the arbiter to suspend falling while no lock decides.
	GravityPaused() bool
	OnGravityLockChanged(override Override)
	OnGroundedChanged(grounded bool)
}

const (
	EventGroundedChanged    = "gravity.grounded_changed"
	EventGravityLockChanged = "gravity.lock_changed"
)

// GroundedEvent is published whenever the grounded flag flips.
type GroundedEvent struct {
	Grounded bool
}

// LockEvent is published when a controller acquires an override.
type LockEvent struct {
	Controller string
	Override   Override
}
