package locomotion

const (
	EventLocomotionBegin = "locomotion.begin"
	EventLocomotionEnd   = "locomotion.end"
)

// StateEvent is the payload of begin/end notifications.
type StateEvent struct {
	Provider string
	State    State
	Tick     uint64
}
