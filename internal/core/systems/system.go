package systems

import (
	"context"
	"time"
)

// System is one per-tick processor driven by a Manager.
type System interface {
	Name() string
	Priority() Priority

	Initialize(ctx context.Context) error
	Update(deltaTime float64) error
	Shutdown(ctx context.Context) error
}

// Priority orders execution within a tick; lower values run first.
type Priority uint16

const (
	PriorityInput      Priority = 100
	PriorityLocomotion Priority = 500
	PriorityGravity    Priority = 900
	PriorityLate       Priority = 1300
)

// StateIdentity represents the lifecycle state of a system.
type StateIdentity uint8

const (
	StateUninitialized StateIdentity = iota
	StateRunning
	StateDisabled
	StateShutdown
	StateFailed
)

func (s StateIdentity) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateDisabled:
		return "disabled"
	case StateShutdown:
		return "shutdown"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
}

// Func adapts plain functions into a System. Nil hooks are no-ops.
type Func struct {
	SystemName     string
	SystemPriority Priority
	OnInitialize   func(ctx context.Context) error
	OnUpdate       func(deltaTime float64) error
	OnShutdown     func(ctx context.Context) error
}

func (f *Func) Name() string       { return f.SystemName }
func (f *Func) Priority() Priority { return f.SystemPriority }

func (f *Func) Initialize(ctx context.Context) error {
	if f.OnInitialize == nil {
		return nil
	}
	return f.OnInitialize(ctx)
}

func (f *Func) Update(deltaTime float64) error {
	if f.OnUpdate == nil {
		return nil
	}
	return f.OnUpdate(deltaTime)
}

func (f *Func) Shutdown(ctx context.Context) error {
	if f.OnShutdown == nil {
		return nil
	}
	return f.OnShutdown(ctx)
}

// Updater wraps a provider-style Update(dt) without an error result.
func Updater(name string, priority Priority, update func(deltaTime float64)) System {
	return &Func{
		SystemName:     name,
		SystemPriority: priority,
		OnUpdate: func(deltaTime float64) error {
			update(deltaTime)
			return nil
		},
	}
}
