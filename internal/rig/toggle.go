package rig

import (
	"errors"
	"fmt"

	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/core/systems"
)

var ErrUnknownProvider = errors.New("unknown locomotion provider")

type toggle struct {
	id      string
	enabled bool
}

// togglers is built once in New and only read afterwards.
func (r *Rig) buildTogglers() {
	r.togglers = make(map[string]func(bool))
	if r.climb != nil {
		r.togglers[ClimbID] = r.climb.SetEnabled
	}
	if r.continuous != nil {
		r.togglers[ContinuousTurnID] = func(on bool) {
			if !on {
				r.continuous.TryEndLocomotion()
			}
		}
	}
	if r.snap != nil {
		r.togglers[SnapTurnID] = func(on bool) {
			if !on {
				r.snap.TryEndLocomotion()
			}
		}
	}
	for _, p := range r.grabMoves {
		p := p
		r.togglers[p.ID()] = func(on bool) {
			p.SetEnabled(on)
			if !on {
				r.groups.Release(p.ID())
			}
		}
	}
}

// SetEnabled asks for a locomotion provider to be switched on or off. It may be
// called from any goroutine; the change is applied at the start of the next Tick.
func (r *Rig) SetEnabled(id string, enabled bool) error {
	if _, ok := r.togglers[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}
	r.pendingMu.Lock()
	r.pending = append(r.pending, toggle{id: id, enabled: enabled})
	r.pendingMu.Unlock()
	return nil
}

// Enabled reports whether the provider's system currently runs.
func (r *Rig) Enabled(id string) bool {
	return r.systems.State(id) == systems.StateRunning
}

func (r *Rig) applyToggles() {
	r.pendingMu.Lock()
	pending := r.pending
	r.pending = nil
	r.pendingMu.Unlock()

	for _, t := range pending {
		var err error
		if t.enabled {
			err = r.systems.EnableSystem(t.id)
		} else {
			err = r.systems.DisableSystem(t.id)
		}
		if err != nil {
			r.log.Warn("provider toggle failed", log.String("provider", t.id), log.Error(err))
			continue
		}
		r.togglers[t.id](t.enabled)
		r.log.Info("provider toggled", log.String("provider", t.id), log.Bool("enabled", t.enabled))
	}
}

func (r *Rig) logSystemMetrics() {
	for _, name := range r.systems.GetExecutionOrder() {
		m, ok := r.systems.GetSystemMetrics(name)
		if !ok {
			continue
		}
		r.log.Debug("system stats",
			log.String("system", name),
			log.String("state", r.systems.State(name).String()),
			log.Uint64("executions", m.ExecutionCount),
			log.Duration("average", m.AverageExecutionTime),
			log.Duration("max", m.MaxExecutionTime),
			log.Uint64("errors", m.ErrorCount),
		)
	}
}
