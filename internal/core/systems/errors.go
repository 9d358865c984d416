package systems

import "errors"

var (
	ErrInvalidSystem           = errors.New("invalid system")
	ErrSystemAlreadyRegistered = errors.New("system already registered")
	ErrSystemNotFound          = errors.New("system not found")
)
