package systems

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zeusync/locomotion/internal/core/observability/log"
)

type entry struct {
	system  System
	seq     int
	state   StateIdentity
	enabled bool
	metrics Metrics
}

// Manager runs registered systems in ascending priority; systems with equal
// priority keep registration order. It is driven from a single goroutine.
type Manager struct {
	log     log.Log
	entries []*entry
	byName  map[string]*entry
	seq     int
}

func NewManager(logger log.Log) *Manager {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Manager{
		log:    logger.With(log.String("component", "systems")),
		byName: make(map[string]*entry),
	}
}

func (m *Manager) RegisterSystem(s System) error {
	if s == nil || s.Name() == "" {
		return ErrInvalidSystem
	}
	if _, exists := m.byName[s.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrSystemAlreadyRegistered, s.Name())
	}
	e := &entry{system: s, seq: m.seq, enabled: true}
	m.seq++
	m.byName[s.Name()] = e
	m.entries = append(m.entries, e)
	slices.SortStableFunc(m.entries, func(a, b *entry) int {
		if a.system.Priority() != b.system.Priority() {
			return int(a.system.Priority()) - int(b.system.Priority())
		}
		return a.seq - b.seq
	})
	return nil
}

// GetExecutionOrder lists system names in the order Update runs them.
func (m *Manager) GetExecutionOrder() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.system.Name()
	}
	return out
}

func (m *Manager) EnableSystem(name string) error  { return m.setEnabled(name, true) }
func (m *Manager) DisableSystem(name string) error { return m.setEnabled(name, false) }

func (m *Manager) State(name string) StateIdentity {
	e, ok := m.byName[name]
	if !ok {
		return StateUninitialized
	}
	if !e.enabled && e.state == StateRunning {
		return StateDisabled
	}
	return e.state
}

func (m *Manager) GetSystemMetrics(name string) (Metrics, bool) {
	e, ok := m.byName[name]
	if !ok {
		return Metrics{}, false
	}
	return e.metrics, true
}

// InitializeAll initializes systems in execution order and stops at the first failure.
func (m *Manager) InitializeAll(ctx context.Context) error {
	for _, e := range m.entries {
		if e.state == StateRunning {
			continue
		}
		if err := e.system.Initialize(ctx); err != nil {
			e.state = StateFailed
			return fmt.Errorf("initialize %s: %w", e.system.Name(), err)
		}
		e.state = StateRunning
	}
	return nil
}

// Update runs one tick of every running, enabled system. A failing system does
// not stop the others; their errors are joined.
func (m *Manager) Update(deltaTime float64) error {
	var errs []error
	for _, e := range m.entries {
		if e.state != StateRunning || !e.enabled {
			continue
		}
		start := time.Now()
		err := e.system.Update(deltaTime)
		m.record(e, time.Since(start), err)
		if err != nil {
			m.log.Warn("system update failed", log.String("system", e.system.Name()), log.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", e.system.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// ShutdownAll shuts systems down in reverse execution order.
func (m *Manager) ShutdownAll(ctx context.Context) error {
	var errs []error
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.state != StateRunning {
			continue
		}
		if err := e.system.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s: %w", e.system.Name(), err))
		}
		e.state = StateShutdown
	}
	return errors.Join(errs...)
}

func (m *Manager) setEnabled(name string, enabled bool) error {
	e, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	e.enabled = enabled
	return nil
}

func (m *Manager) record(e *entry, elapsed time.Duration, err error) {
	e.metrics.ExecutionCount++
	e.metrics.TotalExecutionTime += elapsed
	e.metrics.AverageExecutionTime = e.metrics.TotalExecutionTime / time.Duration(e.metrics.ExecutionCount)
	if elapsed > e.metrics.MaxExecutionTime {
		e.metrics.MaxExecutionTime = elapsed
	}
	if err != nil {
		e.metrics.ErrorCount++
		e.metrics.LastError = err
	}
}
