package locomotion

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState              = errors.New("invalid locomotion state")
	ErrProviderNotRegistered     = errors.New("locomotion provider not registered")
	ErrProviderAlreadyRegistered = errors.New("locomotion provider already registered")
	ErrInvalidProvider           = errors.New("invalid locomotion provider")
	ErrNilTransformation         = errors.New("nil transformation")
)

// InvalidStateError reports a request made in a state that does not allow it,
// such as queuing a transformation while not moving.
type InvalidStateError struct {
	Provider  string
	Operation string
	State     State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: provider %q cannot %s while %s", ErrInvalidState, e.Provider, e.Operation, e.State)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }
