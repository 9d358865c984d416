package locomotion

import "github.com/zeusync/locomotion/internal/core/systems/physics"

// Body is the shared origin every provider moves. The host owns the tracked
// head offset; providers only ever change Origin through queued transformations.
type Body struct {
	Origin      physics.Pose
	HeadLocal   physics.Vec3
	HeadTracked bool
}

func NewBody(origin physics.Pose) *Body {
	return &Body{Origin: origin}
}

// Up is the origin's up axis in world space.
func (b *Body) Up() physics.Vec3 {
	return b.Origin.TransformVector(physics.Up)
}

// HeadWorldPosition falls back to the origin position when the head is untracked.
func (b *Body) HeadWorldPosition() physics.Vec3 {
	if !b.HeadTracked {
		return b.Origin.Position
	}
	return b.Origin.TransformPoint(b.HeadLocal)
}

// HeadHeight is the head's height above the origin floor.
func (b *Body) HeadHeight() float64 {
	if !b.HeadTracked {
		return 0
	}
	return b.HeadLocal.Y
}

// ToWorld converts a tracked local position into world space.
func (b *Body) ToWorld(local physics.Vec3) physics.Vec3 {
	return b.Origin.TransformPoint(local)
}
