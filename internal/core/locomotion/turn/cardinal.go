package turn

import (
	"math"

	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

type Cardinal uint8

const (
	North Cardinal = iota
	South
	East
	West
)

func (c Cardinal) String() string {
	switch c {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// NearestCardinal maps a thumbstick vector onto its dominant axis. Ties and the
// zero vector fall on the vertical axis.
func NearestCardinal(v physics.Vec2) Cardinal {
	if math.Abs(v.X) > math.Abs(v.Y) {
		if v.X > 0 {
			return East
		}
		return West
	}
	if v.Y < 0 {
		return South
	}
	return North
}
