package physics

// Physics queries the locomotion core consumes from the host. The core never
// performs collision detection itself.

// LayerMask selects collider layers, one bit per layer.
type LayerMask uint32

const Everything LayerMask = 0xFFFFFFFF

// Contains reports whether layer (0-31) is selected by the mask.
func (m LayerMask) Contains(layer uint8) bool {
	if layer > 31 {
		return false
	}
	return m&(1<<layer) != 0
}

// Hit describes the nearest contact of a cast.
type Hit struct {
	Point    Vec3
	Distance float64
	Collider string
}

// Caster answers shape casts against the host's collision world.
type Caster interface {
	// SphereCast sweeps a sphere of radius from origin along direction for up to
	// maxDistance and returns the nearest hit on a layer selected by mask.
	SphereCast(origin Vec3, radius float64, direction Vec3, maxDistance float64, mask LayerMask) (Hit, bool)
}

// CasterFunc adapts a function to Caster.
type CasterFunc func(origin Vec3, radius float64, direction Vec3, maxDistance float64, mask LayerMask) (Hit, bool)

func (f CasterFunc) SphereCast(origin Vec3, radius float64, direction Vec3, maxDistance float64, mask LayerMask) (Hit, bool) {
	return f(origin, radius, direction, maxDistance, mask)
}
