package input

import "github.com/zeusync/locomotion/internal/core/systems/physics"

// Readers the locomotion providers poll once per tick. Binding resolution
// belongs to the host; providers only see current values.

type Vector2Reader interface {
	ReadVector2() physics.Vec2
}

type ButtonReader interface {
	IsPressed() bool
}

// PositionReader reports a tracked device's position in origin space.
type PositionReader interface {
	LocalPosition() (physics.Vec3, bool)
}

type Vector2Func func() physics.Vec2

func (f Vector2Func) ReadVector2() physics.Vec2 { return f() }

type ButtonFunc func() bool

func (f ButtonFunc) IsPressed() bool { return f() }

type PositionFunc func() (physics.Vec3, bool)

func (f PositionFunc) LocalPosition() (physics.Vec3, bool) { return f() }

// SumVector2 adds every non-nil reader's value.
func SumVector2(readers ...Vector2Reader) physics.Vec2 {
	var sum physics.Vec2
	for _, r := range readers {
		if r != nil {
			sum = sum.Add(r.ReadVector2())
		}
	}
	return sum
}
