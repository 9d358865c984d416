package gravity

import (
	"github.com/zeusync/locomotion/internal/core/events/bus"
	"github.com/zeusync/locomotion/internal/core/locomotion"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/core/observability/metrics"
	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

// Settings tune falling and the ground check.
type Settings struct {
	UseGravity bool
	// UseLocalSpaceGravity falls along the origin's down axis instead of world down.
	UseLocalSpaceGravity bool
	TerminalVelocity     float64
	AccelerationModifier float64
	// Gravity is the base acceleration magnitude in units/s^2.
	Gravity                  float64
	SphereCastRadius         float64
	SphereCastDistanceBuffer float64
	LayerMask                physics.LayerMask
}

func DefaultSettings() Settings {
	return Settings{
		UseGravity:               true,
		UseLocalSpaceGravity:     true,
		TerminalVelocity:         90,
		AccelerationModifier:     1,
		Gravity:                  9.81,
		SphereCastRadius:         0.09,
		SphereCastDistanceBuffer: 0.01,
		LayerMask:                physics.Everything,
	}
}

// Arbiter is the gravity provider: it detects ground, arbitrates gravity locks
// and pause requests from controllers, and queues the fall translation.
type Arbiter struct {
	locomotion.Base

	settings Settings
	caster   physics.Caster
	bus      bus.EventBus
	log      log.Log

	controllers []Controller
	forcedOff   map[string]struct{}
	forcedOn    map[string]struct{}

	grounded     bool
	fallVelocity physics.Vec3
	warned       bool
}

// NewArbiter builds an arbiter. A nil caster disables the ground check; the rig
// is then treated as grounded and never falls.
func NewArbiter(id string, priority int, settings Settings, caster physics.Caster, eventBus bus.EventBus, logger log.Log) *Arbiter {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Arbiter{
		Base:      locomotion.NewBase(id, priority),
		settings:  settings,
		caster:    caster,
		bus:       eventBus,
		log:       logger.With(log.String("provider", id)),
		forcedOff: make(map[string]struct{}),
		forcedOn:  make(map[string]struct{}),
	}
}

func (a *Arbiter) Settings() Settings { return a.settings }

func (a *Arbiter) SetUseGravity(use bool) { a.settings.UseGravity = use }

func (a *Arbiter) IsGrounded() bool { return a.grounded }

func (a *Arbiter) FallVelocity() physics.Vec3 { return a.fallVelocity }

func (a *Arbiter) ResetFallVelocity() {
	a.fallVelocity = physics.Vec3{}
	metrics.FallSpeed.Set(0)
}

// RegisterController adds c to arbitration; registering twice is a no-op.
func (a *Arbiter) RegisterController(c Controller) {
	if c == nil {
		return
	}
	for _, existing := range a.controllers {
		if existing.ControllerID() == c.ControllerID() {
			return
		}
	}
	a.controllers = append(a.controllers, c)
}

// UnregisterController removes c and releases any lock it holds.
func (a *Arbiter) UnregisterController(c Controller) {
	if c == nil {
		return
	}
	a.UnlockGravity(c)
	for i, existing := range a.controllers {
		if existing.ControllerID() == c.ControllerID() {
			a.controllers = append(a.controllers[:i], a.controllers[i+1:]...)
			return
		}
	}
}

// Update runs one tick: ground check, fall integration, and the fall
// translation request.
func (a *Arbiter) Update(dt float64) {
	a.CheckGrounded()
	if a.TryProcessGravity(dt) {
		if a.State() != locomotion.Moving {
			a.TryStartLocomotionImmediately()
		}
		if a.State() == locomotion.Moving {
			motion := locomotion.Translation{Motion: a.fallVelocity.Scale(dt), Space: locomotion.SpaceWorld}
			if err := a.TryQueueTransformation(motion); err != nil {
				a.log.Warn("fall translation rejected", log.Error(err))
			}
		}
		return
	}
	if a.State().IsActive() {
		a.TryEndLocomotion()
	}
}

// CheckGrounded casts a sphere down from the head by head height plus the
// distance buffer and updates the grounded flag.
func (a *Arbiter) CheckGrounded() bool {
	body := a.body()
	if a.caster == nil || body == nil || !body.HeadTracked {
		if !a.warned {
			a.log.Warn("ground check unavailable, treating rig as grounded",
				log.Bool("caster", a.caster != nil),
				log.Bool("body", body != nil),
			)
			a.warned = true
		}
		a.setGrounded(true)
		return a.grounded
	}
	a.warned = false

	distance := body.HeadHeight() + a.settings.SphereCastDistanceBuffer
	_, hit := a.caster.SphereCast(body.HeadWorldPosition(), a.settings.SphereCastRadius, a.up().Neg(), distance, a.settings.LayerMask)
	a.setGrounded(hit)
	return a.grounded
}

// TryProcessGravity accelerates the fall velocity toward terminal velocity. It
// resets the velocity and returns false when gravity is blocked.
func (a *Arbiter) TryProcessGravity(dt float64) bool {
	if a.IsGravityBlocked() {
		a.ResetFallVelocity()
		return false
	}
	if dt > 0 {
		accel := a.settings.Gravity * a.settings.AccelerationModifier * dt
		a.fallVelocity = a.fallVelocity.Add(a.up().Neg().Scale(accel)).ClampMagnitude(a.settings.TerminalVelocity)
	}
	metrics.FallSpeed.Set(a.fallVelocity.Length())
	return true
}

func (a *Arbiter) IsGravityBlocked() bool {
	return !a.settings.UseGravity || a.grounded || !a.CanProcessGravity()
}

// CanProcessGravity resolves locks and pauses: any forced-off lock blocks, else
// any forced-on lock allows, else any active controller's pause blocks.
func (a *Arbiter) CanProcessGravity() bool {
	if len(a.forcedOff) > 0 {
		return false
	}
	if len(a.forcedOn) > 0 {
		return true
	}
	for _, c := range a.controllers {
		if c.CanProcess() && c.GravityPaused() {
			return false
		}
	}
	return true
}

// TryLockGravity grants c the override unless c already holds the other one;
// c must UnlockGravity before switching. Every registered controller is told
// about a granted lock.
func (a *Arbiter) TryLockGravity(c Controller, override Override) bool {
	if c == nil {
		return false
	}
	id := c.ControllerID()
	switch override {
	case ForcedOn:
		if _, locked := a.forcedOff[id]; locked {
			a.log.Warn("gravity already forced off by controller, unlock before forcing on", log.String("controller", id))
			return false
		}
		a.forcedOn[id] = struct{}{}
	case ForcedOff:
		if _, locked := a.forcedOn[id]; locked {
			a.log.Warn("gravity already forced on by controller, unlock before forcing off", log.String("controller", id))
			return false
		}
		a.forcedOff[id] = struct{}{}
	default:
		return false
	}
	a.reportLocks()

	for _, other := range a.controllers {
		other.OnGravityLockChanged(override)
	}
	a.publish(EventGravityLockChanged, LockEvent{Controller: id, Override: override})
	return true
}

// UnlockGravity removes every lock held by c. It is idempotent.
func (a *Arbiter) UnlockGravity(c Controller) {
	if c == nil {
		return
	}
	delete(a.forcedOff, c.ControllerID())
	delete(a.forcedOn, c.ControllerID())
	a.reportLocks()
}

// Locked reports the override c holds, if any.
func (a *Arbiter) Locked(c Controller) (Override, bool) {
	if _, ok := a.forcedOff[c.ControllerID()]; ok {
		return ForcedOff, true
	}
	if _, ok := a.forcedOn[c.ControllerID()]; ok {
		return ForcedOn, true
	}
	return 0, false
}

func (a *Arbiter) setGrounded(grounded bool) {
	if grounded == a.grounded {
		return
	}
	a.grounded = grounded
	if grounded {
		a.ResetFallVelocity()
	}
	metrics.Grounded.Set(metrics.BoolGauge(grounded))
	for _, c := range a.controllers {
		c.OnGroundedChanged(grounded)
	}
	a.publish(EventGroundedChanged, GroundedEvent{Grounded: grounded})
}

func (a *Arbiter) up() physics.Vec3 {
	if body := a.body(); body != nil && a.settings.UseLocalSpaceGravity {
		return body.Up()
	}
	return physics.Up
}

func (a *Arbiter) body() *locomotion.Body {
	if m := a.Mediator(); m != nil {
		return m.Body()
	}
	return nil
}

func (a *Arbiter) reportLocks() {
	metrics.GravityLocks.WithLabelValues(ForcedOff.String()).Set(float64(len(a.forcedOff)))
	metrics.GravityLocks.WithLabelValues(ForcedOn.String()).Set(float64(len(a.forcedOn)))
}

func (a *Arbiter) publish(eventType string, data any) {
	if a.bus == nil {
		return
	}
	if err := a.bus.Publish(bus.NewEvent(eventType, a.ID(), data)); err != nil {
		a.log.Warn("gravity listener failed", log.String("event", eventType), log.Error(err))
	}
}
