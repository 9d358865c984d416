package grabmove

import (
	"github.com/zeusync/locomotion/internal/core/input"
	"github.com/zeusync/locomotion/internal/core/locomotion"
	"github.com/zeusync/locomotion/internal/core/locomotion/gravity"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

var _ gravity.Controller = (*Provider)(nil)

type Options struct {
	// MoveFactor scales the controller motion applied to the origin.
	MoveFactor float64
	// EnableFree* allow motion along each world axis.
	EnableFreeX bool
	EnableFreeY bool
	EnableFreeZ bool
	// UseGravity keeps gravity running while the grip is held.
	UseGravity bool
}

func DefaultOptions() Options {
	return Options{MoveFactor: 1, EnableFreeX: true, EnableFreeY: true, EnableFreeZ: true}
}

// Provider drags the origin opposite to a gripping controller, as if pulling
// the world with the hand.
type Provider struct {
	locomotion.Base

	opts     Options
	position input.PositionReader
	grip     input.ButtonReader
	log      log.Log

	enabled bool
	moving  bool
	prev    physics.Vec3
}

func New(id string, priority int, opts Options, position input.PositionReader, grip input.ButtonReader, arbiter *gravity.Arbiter, logger log.Log) *Provider {
	if logger == nil {
		logger = log.NewNop()
	}
	p := &Provider{
		Base:     locomotion.NewBase(id, priority),
		opts:     opts,
		position: position,
		grip:     grip,
		log:      logger.With(log.String("provider", id)),
		enabled:  true,
	}
	if arbiter != nil {
		arbiter.RegisterController(p)
	}
	return p
}

func (p *Provider) ControllerID() string                  { return p.ID() }
func (p *Provider) CanProcess() bool                      { return p.enabled }
func (p *Provider) GravityPaused() bool                   { return p.moving && !p.opts.UseGravity }
func (p *Provider) OnGravityLockChanged(gravity.Override) {}
func (p *Provider) OnGroundedChanged(bool)                {}

func (p *Provider) IsMoving() bool { return p.moving }

func (p *Provider) SetEnabled(enabled bool) {
	if !enabled {
		p.stop()
	}
	p.enabled = enabled
}

func (p *Provider) Update(float64) {
	if !p.enabled {
		return
	}
	pos, tracked := physics.Vec3{}, false
	if p.position != nil {
		pos, tracked = p.position.LocalPosition()
	}
	// The grip is read every tick, tracked or not, so stateful readers see releases.
	if p.grip == nil || !p.grip.IsPressed() || !tracked {
		p.stop()
		return
	}
	if !p.moving {
		p.moving = true
		p.prev = pos
		return
	}

	move := p.DesiredMove(p.prev.Sub(pos))
	p.prev = pos
	if p.State() != locomotion.Moving && !p.TryStartLocomotionImmediately() {
		return
	}
	if move.IsZero() {
		return
	}
	if err := p.TryQueueTransformation(locomotion.Translation{Motion: move, Space: locomotion.SpaceWorld}); err != nil {
		p.log.Warn("grab move rejected", log.Error(err))
	}
}

// DesiredMove converts an origin-space controller delta into a world-space move.
func (p *Provider) DesiredMove(delta physics.Vec3) physics.Vec3 {
	origin := physics.IdentityPose()
	if m := p.Mediator(); m != nil {
		origin = m.Body().Origin
	}
	move := origin.TransformVector(delta).Scale(p.opts.MoveFactor)
	if !p.opts.EnableFreeX {
		move.X = 0
	}
	if !p.opts.EnableFreeY {
		move.Y = 0
	}
	if !p.opts.EnableFreeZ {
		move.Z = 0
	}
	return move
}

func (p *Provider) stop() {
	if !p.moving {
		return
	}
	p.moving = false
	p.TryEndLocomotion()
}
