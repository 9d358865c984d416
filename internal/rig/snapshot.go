package rig

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/locomotion/internal/core/systems/physics"
	"github.com/zeusync/locomotion/pkg/generic"
)

var digests = generic.NewPool(xxhash.New, (*xxhash.Digest).Reset)

// Snapshot is the externally visible rig state after a tick.
type Snapshot struct {
	Tick         uint64            `json:"tick"`
	Time         float64           `json:"time"`
	Position     physics.Vec3      `json:"position"`
	Rotation     physics.Quat      `json:"rotation"`
	Yaw          float64           `json:"yaw"`
	Head         physics.Vec3      `json:"head"`
	Grounded     bool              `json:"grounded"`
	FallVelocity physics.Vec3      `json:"fall_velocity"`
	Grabs        int               `json:"grabs"`
	States       map[string]string `json:"states"`
	Checksum     uint64            `json:"checksum"`
}

func (r *Rig) Snapshot() Snapshot {
	states := make(map[string]string)
	for id, state := range r.mediator.States() {
		states[id] = state.String()
	}
	s := Snapshot{
		Tick:         r.mediator.Tick(),
		Time:         r.mediator.Time().Seconds(),
		Position:     r.body.Origin.Position,
		Rotation:     r.body.Origin.Rotation,
		Yaw:          r.body.Origin.Rotation.Yaw(),
		Head:         r.body.HeadWorldPosition(),
		Grounded:     r.arbiter.IsGrounded(),
		FallVelocity: r.arbiter.FallVelocity(),
		States:       states,
		Checksum:     r.Checksum(),
	}
	if r.climb != nil {
		s.Grabs = r.climb.Grabs()
	}
	return s
}

// Checksum hashes the simulated state. Two rigs fed the same config and input
// frames produce the same checksum at the same tick.
func (r *Rig) Checksum() uint64 {
	return generic.With(digests, r.checksum)
}

func (r *Rig) checksum(d *xxhash.Digest) uint64 {
	var buf [8]byte
	u64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	f64 := func(vs ...float64) {
		for _, v := range vs {
			u64(math.Float64bits(v))
		}
	}

	origin := r.body.Origin
	fall := r.arbiter.FallVelocity()
	u64(r.mediator.Tick())
	f64(origin.Position.X, origin.Position.Y, origin.Position.Z)
	f64(origin.Rotation.X, origin.Rotation.Y, origin.Rotation.Z, origin.Rotation.W)
	f64(fall.X, fall.Y, fall.Z)
	if r.arbiter.IsGrounded() {
		u64(1)
	} else {
		u64(0)
	}

	states := r.mediator.States()
	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		_, _ = d.WriteString(id)
		u64(uint64(states[id]))
	}
	return d.Sum64()
}
