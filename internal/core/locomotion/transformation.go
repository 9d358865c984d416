package locomotion

import "github.com/zeusync/locomotion/internal/core/systems/physics"

// Space selects the frame a translation is expressed in.
type Space uint8

const (
	SpaceWorld Space = iota
	// SpaceLocal motion is rotated by the origin rotation before it is applied.
	SpaceLocal
)

// Transformation is one queued change to the Body. Implementations live in
// this package: Translation and YawRotation.
type Transformation interface {
	Kind() string
	apply(b *Body)
}

// Translation moves the origin by Motion.
type Translation struct {
	Motion physics.Vec3
	Space  Space
}

func (Translation) Kind() string { return "translation" }

func (t Translation) apply(b *Body) {
	motion := t.Motion
	if t.Space == SpaceLocal {
		motion = b.Origin.TransformVector(motion)
	}
	b.Origin.Position = b.Origin.Position.Add(motion)
}

// YawRotation turns the origin by AngleDelta degrees around its up axis
// through the head position, so the user's viewpoint stays in place.
type YawRotation struct {
	AngleDelta float64
}

func (YawRotation) Kind() string { return "yaw_rotation" }

func (r YawRotation) apply(b *Body) {
	if r.AngleDelta == 0 {
		return
	}
	pivot := b.HeadWorldPosition()
	b.Origin = b.Origin.RotateAround(pivot, physics.AngleAxis(r.AngleDelta, b.Up()))
}

// Apply runs t against b immediately, bypassing any queue.
func Apply(b *Body, t Transformation) {
	if t == nil || b == nil {
		return
	}
	t.apply(b)
}
