package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector, rotation and pose types shared by the locomotion core. They keep
// named fields for the wire and delegate the math to mgl64.
// Y is up, angles are degrees, rotations are unit quaternions.

const epsilon = 1e-9

var (
	Zero3 = Vec3{}
	Up    = Vec3{Y: 1}
	Down  = Vec3{Y: -1}
)

type Vec2 struct{ X, Y float64 }

func (v Vec2) mgl() mgl64.Vec2 { return mgl64.Vec2{v.X, v.Y} }

func vec2(m mgl64.Vec2) Vec2 { return Vec2{X: m[0], Y: m[1]} }

func (v Vec2) Add(o Vec2) Vec2      { return vec2(v.mgl().Add(o.mgl())) }
func (v Vec2) Length() float64      { return v.mgl().Len() }
func (v Vec2) IsZero() bool         { return v.X == 0 && v.Y == 0 }
func (v Vec2) Scale(s float64) Vec2 { return vec2(v.mgl().Mul(s)) }
func (v Vec2) Equal(o Vec2) bool    { return v == o }
func (v Vec2) Approx(o Vec2) bool   { return nearly(v.X, o.X) && nearly(v.Y, o.Y) }

type Vec3 struct{ X, Y, Z float64 }

// Vec3From converts an mgl64 vector.
func Vec3From(m mgl64.Vec3) Vec3 { return Vec3{X: m[0], Y: m[1], Z: m[2]} }

// Mgl returns v as an mgl64 vector.
func (v Vec3) Mgl() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3From(v.Mgl().Add(o.Mgl())) }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3From(v.Mgl().Sub(o.Mgl())) }
func (v Vec3) Scale(s float64) Vec3 { return Vec3From(v.Mgl().Mul(s)) }
func (v Vec3) Neg() Vec3            { return v.Scale(-1) }
func (v Vec3) Dot(o Vec3) float64   { return v.Mgl().Dot(o.Mgl()) }
func (v Vec3) Cross(o Vec3) Vec3    { return Vec3From(v.Mgl().Cross(o.Mgl())) }
func (v Vec3) Length() float64      { return v.Mgl().Len() }
func (v Vec3) IsZero() bool         { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Normalize returns the unit vector, or zero for a (near) zero vector.
func (v Vec3) Normalize() Vec3 {
	if v.Length() < epsilon {
		return Vec3{}
	}
	return Vec3From(v.Mgl().Normalize())
}

// ClampMagnitude shortens v to at most maxLength, keeping its direction.
func (v Vec3) ClampMagnitude(maxLength float64) Vec3 {
	if maxLength <= 0 {
		return Vec3{}
	}
	l := v.Length()
	if l <= maxLength {
		return v
	}
	return v.Scale(maxLength / l)
}

// Approx compares component-wise with a small absolute tolerance.
func (v Vec3) Approx(o Vec3) bool {
	return nearly(v.X, o.X) && nearly(v.Y, o.Y) && nearly(v.Z, o.Z)
}

// Quat is a rotation quaternion (x, y, z, w).
type Quat struct{ X, Y, Z, W float64 }

// QuatFrom converts an mgl64 quaternion.
func QuatFrom(q mgl64.Quat) Quat { return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W} }

// Mgl returns q as an mgl64 quaternion.
func (q Quat) Mgl() mgl64.Quat { return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}} }

func Identity() Quat { return QuatFrom(mgl64.QuatIdent()) }

// AngleAxis builds a rotation of degrees around axis.
func AngleAxis(degrees float64, axis Vec3) Quat {
	axis = axis.Normalize()
	if axis.IsZero() {
		return Identity()
	}
	return QuatFrom(mgl64.QuatRotate(mgl64.DegToRad(degrees), axis.Mgl()))
}

// YawRotation is a rotation of degrees around Up.
func YawRotation(degrees float64) Quat { return AngleAxis(degrees, Up) }

// Mul composes rotations: the result applies o first, then q.
func (q Quat) Mul(o Quat) Quat { return QuatFrom(q.Mgl().Mul(o.Mgl())) }

func (q Quat) Inverse() Quat { return QuatFrom(q.Mgl().Conjugate()) }

func (q Quat) Normalize() Quat {
	if q.Mgl().Len() < epsilon {
		return Identity()
	}
	return QuatFrom(q.Mgl().Normalize())
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 { return Vec3From(q.Mgl().Rotate(v.Mgl())) }

// Yaw returns the heading in degrees of the rotated forward (+Z) axis, in (-180, 180].
func (q Quat) Yaw() float64 {
	f := q.Rotate(Vec3{Z: 1})
	return mgl64.RadToDeg(math.Atan2(f.X, f.Z))
}

// Pose is a rigid transform: rotation followed by translation.
type Pose struct {
	Position Vec3
	Rotation Quat
}

func NewPose(position Vec3, rotation Quat) Pose {
	return Pose{Position: position, Rotation: rotation.Normalize()}
}

func IdentityPose() Pose { return Pose{Rotation: Identity()} }

func (p Pose) rotation() Quat {
	if p.Rotation == (Quat{}) {
		return Identity()
	}
	return p.Rotation
}

func (p Pose) TransformPoint(local Vec3) Vec3 {
	return p.rotation().Rotate(local).Add(p.Position)
}

func (p Pose) InverseTransformPoint(world Vec3) Vec3 {
	return p.rotation().Inverse().Rotate(world.Sub(p.Position))
}

func (p Pose) TransformVector(local Vec3) Vec3 {
	return p.rotation().Rotate(local)
}

func (p Pose) InverseTransformVector(world Vec3) Vec3 {
	return p.rotation().Inverse().Rotate(world)
}

// RotateAround rotates the pose by q around a world-space pivot.
func (p Pose) RotateAround(pivot Vec3, q Quat) Pose {
	return Pose{
		Position: pivot.Add(q.Rotate(p.Position.Sub(pivot))),
		Rotation: q.Mul(p.rotation()).Normalize(),
	}
}

func nearly(a, b float64) bool { return math.Abs(a-b) <= 1e-6 }
