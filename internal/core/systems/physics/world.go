package physics

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned box collider on a single layer.
type Box struct {
	Name  string
	Min   Vec3
	Max   Vec3
	Layer uint8
}

// ClosestPoint clamps p onto the box.
func (b Box) ClosestPoint(p Vec3) Vec3 {
	return Vec3{
		X: mgl64.Clamp(p.X, b.Min.X, b.Max.X),
		Y: mgl64.Clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: mgl64.Clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

func (b Box) expand(r float64) Box {
	d := Vec3{r, r, r}
	return Box{Name: b.Name, Min: b.Min.Sub(d), Max: b.Max.Add(d), Layer: b.Layer}
}

// StaticWorld is an immutable set of box colliders. Sphere casts treat the
// sphere as the box grown by the radius, which over-reports hits near box edges.
type StaticWorld struct {
	boxes []Box
}

var _ Caster = (*StaticWorld)(nil)

func NewStaticWorld(boxes ...Box) *StaticWorld {
	sorted := make([]Box, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &StaticWorld{boxes: sorted}
}

func (w *StaticWorld) Boxes() []Box {
	out := make([]Box, len(w.boxes))
	copy(out, w.boxes)
	return out
}

func (w *StaticWorld) SphereCast(origin Vec3, radius float64, direction Vec3, maxDistance float64, mask LayerMask) (Hit, bool) {
	dir := direction.Normalize()
	if dir.IsZero() || maxDistance < 0 {
		return Hit{}, false
	}

	var (
		best  Hit
		found bool
	)
	for _, b := range w.boxes {
		if !mask.Contains(b.Layer) {
			continue
		}
		t, ok := rayBox(origin, dir, b.expand(radius))
		if !ok || t > maxDistance {
			continue
		}
		if !found || t < best.Distance {
			center := origin.Add(dir.Scale(t))
			best = Hit{Point: b.ClosestPoint(center), Distance: t, Collider: b.Name}
			found = true
		}
	}
	return best, found
}

// ClosestPoint returns the nearest point on any collider selected by mask.
func (w *StaticWorld) ClosestPoint(p Vec3, mask LayerMask) (Vec3, bool) {
	var (
		best     Vec3
		bestDist = math.Inf(1)
		found    bool
	)
	for _, b := range w.boxes {
		if !mask.Contains(b.Layer) {
			continue
		}
		c := b.ClosestPoint(p)
		if d := c.Sub(p).Length(); d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}

// rayBox is the slab test; an origin inside the box hits at distance 0.
func rayBox(origin, dir Vec3, b Box) (float64, bool) {
	tMin, tMax := 0.0, math.Inf(1)
	o, d := origin.Mgl(), dir.Mgl()
	lo, hi := b.Min.Mgl(), b.Max.Mgl()
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < epsilon {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
