package climb

import (
	"github.com/zeusync/locomotion/internal/core/events/bus"
	"github.com/zeusync/locomotion/internal/core/locomotion"
	"github.com/zeusync/locomotion/internal/core/locomotion/gravity"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

var _ gravity.Controller = (*Provider)(nil)

type Options struct {
	Settings Settings
	// ResumeFallingOnEnd lets gravity act as soon as the last grab is released.
	// Otherwise gravity stays paused until the grounded state changes.
	ResumeFallingOnEnd bool
}

// Provider moves the origin so the most recent grab stays fixed on its target.
// Older grabs are kept as fallbacks in grab order.
type Provider struct {
	locomotion.Base

	opts    Options
	arbiter *gravity.Arbiter
	bus     bus.EventBus
	log     log.Log

	sources []Source
	targets []Target

	anchorWorld physics.Vec3
	anchorLocal physics.Vec3

	enabled bool
	paused  bool
}

// New builds a climb provider and registers it as a gravity controller when an
// arbiter is given. Without an arbiter climbing works but never locks gravity.
func New(id string, priority int, opts Options, arbiter *gravity.Arbiter, eventBus bus.EventBus, logger log.Log) *Provider {
	if logger == nil {
		logger = log.NewNop()
	}
	p := &Provider{
		Base:    locomotion.NewBase(id, priority),
		opts:    opts,
		arbiter: arbiter,
		bus:     eventBus,
		log:     logger.With(log.String("provider", id)),
		enabled: true,
	}
	if arbiter != nil {
		arbiter.RegisterController(p)
	}
	return p
}

func (p *Provider) ControllerID() string { return p.ID() }
func (p *Provider) CanProcess() bool     { return p.enabled }
func (p *Provider) GravityPaused() bool  { return p.paused }

func (p *Provider) OnGravityLockChanged(override gravity.Override) {
	if override == gravity.ForcedOn {
		p.paused = false
	}
}

func (p *Provider) OnGroundedChanged(bool) { p.paused = false }

func (p *Provider) Enabled() bool { return p.enabled }

// SetEnabled toggles the provider; disabling drops every grab.
func (p *Provider) SetEnabled(enabled bool) {
	if !enabled && len(p.sources) > 0 {
		p.dropAll()
	}
	p.enabled = enabled
}

func (p *Provider) IsClimbing() bool { return len(p.sources) > 0 }

func (p *Provider) Grabs() int { return len(p.sources) }

// Holding reports whether source is anywhere in the grab stack.
func (p *Provider) Holding(source Source) bool {
	return source != nil && p.indexOf(source) >= 0
}

// DrivingSource is the most recent grab, the one that moves the origin.
func (p *Provider) DrivingSource() (Source, bool) {
	if len(p.sources) == 0 {
		return nil, false
	}
	return p.sources[len(p.sources)-1], true
}

// Anchor returns the driving grab's anchor in world space and in the target's frame.
func (p *Provider) Anchor() (world, local physics.Vec3) {
	return p.anchorWorld, p.anchorLocal
}

// StartGrab pushes a grab on top of the stack and makes it the driving one.
func (p *Provider) StartGrab(target Target, source Source) bool {
	if !p.enabled || target == nil || source == nil {
		return false
	}
	regrab := false
	if idx := p.indexOf(source); idx >= 0 {
		p.removeAt(idx)
		regrab = true
	}
	if !p.updateAnchor(target, source) {
		p.log.Warn("climb grab ignored, source or target unavailable",
			log.String("source", source.ID()), log.String("target", target.ID()))
		if regrab {
			p.restoreTop()
		}
		return false
	}

	first := len(p.sources) == 0
	p.sources = append(p.sources, source)
	p.targets = append(p.targets, target)

	if !p.IsLocomotionActive() {
		p.TryPrepareLocomotion()
	}
	if first && p.arbiter != nil {
		p.paused = false
		if !p.arbiter.TryLockGravity(p, gravity.ForcedOff) {
			p.log.Warn("climb could not force gravity off")
		}
	}
	return true
}

// FinishGrab releases source wherever it sits in the stack. Releasing the
// driving grab hands movement to the next most recent one.
func (p *Provider) FinishGrab(source Source) bool {
	if source == nil {
		return false
	}
	idx := p.indexOf(source)
	if idx < 0 {
		return false
	}
	wasDriving := idx == len(p.sources)-1
	p.removeAt(idx)
	switch {
	case len(p.sources) == 0:
		p.finish()
	case wasDriving:
		p.restoreTop()
	}
	return true
}

// Update queues the climb translation for the driving grab.
func (p *Provider) Update(float64) {
	if len(p.sources) == 0 || p.State() != locomotion.Moving {
		return
	}
	source := p.sources[len(p.sources)-1]
	target := p.targets[len(p.targets)-1]

	current, sourceOK := source.WorldPosition()
	frame, targetOK := target.Frame()
	if !sourceOK || !targetOK {
		p.log.Warn("climb grab went stale, ending climb",
			log.String("source", source.ID()), log.String("target", target.ID()),
			log.Bool("source_ok", sourceOK), log.Bool("target_ok", targetOK))
		p.dropAll()
		return
	}

	settings := p.opts.Settings
	if override, ok := target.SettingsOverride(); ok {
		settings = override
	}

	var movement physics.Vec3
	if settings.unconstrained() {
		movement = p.anchorWorld.Sub(current)
	} else {
		local := p.anchorLocal.Sub(frame.InverseTransformPoint(current))
		if !settings.AllowFreeX {
			local.X = 0
		}
		if !settings.AllowFreeY {
			local.Y = 0
		}
		if !settings.AllowFreeZ {
			local.Z = 0
		}
		movement = frame.TransformVector(local)
	}

	if err := p.TryQueueTransformation(locomotion.Translation{Motion: movement, Space: locomotion.SpaceWorld}); err != nil {
		p.log.Warn("climb translation rejected", log.Error(err))
	}
}

func (p *Provider) updateAnchor(target Target, source Source) bool {
	world, ok := source.WorldPosition()
	if !ok {
		return false
	}
	frame, ok := target.Frame()
	if !ok {
		return false
	}
	p.anchorWorld = world
	p.anchorLocal = frame.InverseTransformPoint(world)

	if p.bus != nil {
		event := AnchorEvent{Source: source.ID(), Target: target.ID(), World: p.anchorWorld, Local: p.anchorLocal}
		if err := p.bus.Publish(bus.NewEvent(EventAnchorUpdated, p.ID(), event)); err != nil {
			p.log.Warn("anchor listener failed", log.Error(err))
		}
	}
	return true
}

func (p *Provider) indexOf(source Source) int {
	for i, s := range p.sources {
		if s.ID() == source.ID() {
			return i
		}
	}
	return -1
}

func (p *Provider) removeAt(idx int) {
	p.sources = append(p.sources[:idx], p.sources[idx+1:]...)
	p.targets = append(p.targets[:idx], p.targets[idx+1:]...)
}

// restoreTop re-anchors on the current top grab after the stack changed
// underneath it, or ends the climb when nothing usable is left.
func (p *Provider) restoreTop() {
	if n := len(p.sources); n > 0 && p.updateAnchor(p.targets[n-1], p.sources[n-1]) {
		return
	}
	p.dropAll()
}

func (p *Provider) dropAll() {
	p.sources = p.sources[:0]
	p.targets = p.targets[:0]
	p.finish()
}

func (p *Provider) finish() {
	p.TryEndLocomotion()
	if p.arbiter != nil {
		p.arbiter.UnlockGravity(p)
		p.paused = !p.opts.ResumeFallingOnEnd
	}
}
