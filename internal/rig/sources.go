package rig

import (
	"github.com/zeusync/locomotion/internal/config"
	"github.com/zeusync/locomotion/internal/core/input"
	"github.com/zeusync/locomotion/internal/core/locomotion"
	"github.com/zeusync/locomotion/internal/core/locomotion/climb"
	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

// handSource is a tracked controller acting as a climb source.
type handSource struct {
	hand  input.Hand
	state *input.State
	body  *locomotion.Body
}

func (h *handSource) ID() string { return h.hand.String() + "-hand" }

func (h *handSource) WorldPosition() (physics.Vec3, bool) {
	pos, ok := h.state.HandPosition(h.hand).LocalPosition()
	if !ok {
		return physics.Vec3{}, false
	}
	return h.body.ToWorld(pos), true
}

// Climbable is a static climbable surface placed by the world config.
type Climbable struct {
	id       string
	frame    physics.Pose
	override *climb.Settings
	removed  bool
}

func newClimbable(c config.ClimbableConfig) *Climbable {
	cl := &Climbable{
		id:    c.ID,
		frame: physics.NewPose(vec(c.Position), physics.YawRotation(c.Yaw)),
	}
	if c.Axes != nil {
		s := axes(*c.Axes)
		cl.override = &s
	}
	return cl
}

func (c *Climbable) ID() string { return c.id }

func (c *Climbable) Frame() (physics.Pose, bool) {
	if c.removed {
		return physics.Pose{}, false
	}
	return c.frame, true
}

func (c *Climbable) SettingsOverride() (climb.Settings, bool) {
	if c.override == nil {
		return climb.Settings{}, false
	}
	return *c.override, true
}

// MoveTo repositions the climbable, e.g. a moving platform.
func (c *Climbable) MoveTo(frame physics.Pose) { c.frame = frame }

func axes(a config.AxisConfig) climb.Settings {
	return climb.Settings{AllowFreeX: a.AllowFreeX, AllowFreeY: a.AllowFreeY, AllowFreeZ: a.AllowFreeZ}
}

func vec(v [3]float64) physics.Vec3 { return physics.Vec3{X: v[0], Y: v[1], Z: v[2]} }
