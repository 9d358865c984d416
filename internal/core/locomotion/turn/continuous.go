package turn

import (
	"github.com/zeusync/locomotion/internal/core/input"
	"github.com/zeusync/locomotion/internal/core/locomotion"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

const DefaultTurnSpeed = 60.0

// Continuous rotates the rig smoothly while a horizontal turn input is held.
type Continuous struct {
	locomotion.Base

	// TurnSpeed is in degrees per second.
	TurnSpeed float64

	left, right input.Vector2Reader
	log         log.Log
}

func NewContinuous(id string, priority int, turnSpeed float64, left, right input.Vector2Reader, logger log.Log) *Continuous {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Continuous{
		Base:      locomotion.NewBase(id, priority),
		TurnSpeed: turnSpeed,
		left:      left,
		right:     right,
		log:       logger.With(log.String("provider", id)),
	}
}

func (c *Continuous) ReadInput() physics.Vec2 {
	return input.SumVector2(c.left, c.right)
}

// TurnAmount is the yaw delta in degrees for one tick of the given input.
func (c *Continuous) TurnAmount(in physics.Vec2, dt float64) float64 {
	if in.IsZero() {
		return 0
	}
	switch NearestCardinal(in) {
	case East, West:
		return in.Length() * sign(in.X) * c.TurnSpeed * dt
	default:
		return 0
	}
}

func (c *Continuous) Update(dt float64) {
	amount := c.TurnAmount(c.ReadInput(), dt)
	if amount == 0 {
		c.TryEndLocomotion()
		return
	}

	if c.State() != locomotion.Moving {
		c.TryStartLocomotionImmediately()
	}
	if c.State() != locomotion.Moving {
		return
	}
	if err := c.TryQueueTransformation(locomotion.YawRotation{AngleDelta: amount}); err != nil {
		c.log.Warn("turn rejected", log.Error(err))
	}
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}
