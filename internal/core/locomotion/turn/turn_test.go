package turn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/locomotion/internal/core/input"
	"github.com/zeusync/locomotion/internal/core/locomotion"
	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

type updater interface {
	locomotion.Provider
	Update(dt float64)
}

type stick struct{ v physics.Vec2 }

func (s *stick) ReadVector2() physics.Vec2 { return s.v }

func newRig(t *testing.T, p updater) *locomotion.Mediator {
	t.Helper()
	m := locomotion.NewMediator(locomotion.NewBody(physics.IdentityPose()), nil, nil)
	require.NoError(t, m.Register(p))
	return m
}

func step(m *locomotion.Mediator, p updater, dt float64) {
	m.BeginTick(dt)
	p.Update(dt)
	m.Flush()
}

func yaw(m *locomotion.Mediator) float64 { return m.Body().Origin.Rotation.Yaw() }

func TestNearestCardinal(t *testing.T) {
	cases := []struct {
		in   physics.Vec2
		want Cardinal
	}{
		{physics.Vec2{X: 1}, East},
		{physics.Vec2{X: -0.8, Y: 0.3}, West},
		{physics.Vec2{X: 0.2, Y: 0.9}, North},
		{physics.Vec2{Y: -0.5}, South},
		{physics.Vec2{X: 0.5, Y: 0.5}, North},
		{physics.Vec2{}, North},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NearestCardinal(tc.in), "input %+v", tc.in)
	}
}

func TestContinuousTurnAmount(t *testing.T) {
	c := NewContinuous("turn", 0, DefaultTurnSpeed, nil, nil, nil)

	assert.InDelta(t, 30.0, c.TurnAmount(physics.Vec2{X: 1}, 0.5), 1e-9)
	assert.InDelta(t, -0.8*60*0.1, c.TurnAmount(physics.Vec2{X: -0.8}, 0.1), 1e-9)
	assert.Zero(t, c.TurnAmount(physics.Vec2{X: 0.5, Y: 0.6}, 1))
	assert.Zero(t, c.TurnAmount(physics.Vec2{Y: -1}, 1))
	assert.Zero(t, c.TurnAmount(physics.Vec2{}, 1))
}

func TestContinuousSumsBothHands(t *testing.T) {
	left := &stick{v: physics.Vec2{X: 0.25}}
	right := input.Vector2Func(func() physics.Vec2 { return physics.Vec2{X: 0.25} })
	c := NewContinuous("turn", 0, 60, left, right, nil)
	assert.Equal(t, physics.Vec2{X: 0.5}, c.ReadInput())

	m := newRig(t, c)
	step(m, c, 1)
	assert.InDelta(t, 30.0, yaw(m), 1e-6)
	assert.Equal(t, locomotion.Moving, c.State())
}

func TestContinuousEndsWithoutInput(t *testing.T) {
	s := &stick{v: physics.Vec2{X: -1}}
	c := NewContinuous("turn", 0, 90, s, nil, nil)
	m := newRig(t, c)

	step(m, c, 0.5)
	assert.InDelta(t, -45.0, yaw(m), 1e-6)

	s.v = physics.Vec2{}
	m.BeginTick(0.5)
	c.Update(0.5)
	assert.Equal(t, locomotion.Ended, c.State())
	m.Flush()
	assert.Equal(t, locomotion.Idle, c.State())
	assert.InDelta(t, -45.0, yaw(m), 1e-6)
}

func TestContinuousTurnKeepsHeadInPlace(t *testing.T) {
	s := &stick{v: physics.Vec2{X: 1}}
	c := NewContinuous("turn", 0, 90, s, nil, nil)
	m := newRig(t, c)
	body := m.Body()
	body.HeadLocal = physics.Vec3{X: 0.3, Y: 1.6, Z: 0.2}
	body.HeadTracked = true
	head := body.HeadWorldPosition()

	step(m, c, 1)
	assert.InDelta(t, 90.0, yaw(m), 1e-6)
	assert.True(t, body.HeadWorldPosition().Approx(head))
}

func TestSnapTurnAmount(t *testing.T) {
	s := NewSnap("snap", 0, DefaultSnapOptions(), nil, nil, nil)
	assert.Equal(t, 45.0, s.TurnAmount(physics.Vec2{X: 1}))
	assert.Equal(t, -45.0, s.TurnAmount(physics.Vec2{X: -1}))
	assert.Equal(t, 180.0, s.TurnAmount(physics.Vec2{Y: -1}))
	assert.Zero(t, s.TurnAmount(physics.Vec2{Y: 1}))

	opts := DefaultSnapOptions()
	opts.EnableTurnAround = false
	opts.EnableTurnLeftRight = false
	s = NewSnap("snap", 0, opts, nil, nil, nil)
	assert.Zero(t, s.TurnAmount(physics.Vec2{X: 1}))
	assert.Zero(t, s.TurnAmount(physics.Vec2{Y: -1}))
}

// snaps returns the ticks (in ms) at which the yaw changed.
func snaps(m *locomotion.Mediator, p updater, ticks int) []time.Duration {
	var out []time.Duration
	last := yaw(m)
	for i := 0; i < ticks; i++ {
		step(m, p, 0.1)
		if y := yaw(m); absDiff(y, last) > 1e-6 {
			out = append(out, m.Time())
			last = y
		}
	}
	return out
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestSnapHeldInputOncePerDebounceWindow(t *testing.T) {
	held := &stick{v: physics.Vec2{X: -1}}
	s := NewSnap("snap", 0, DefaultSnapOptions(), held, nil, nil)
	m := newRig(t, s)

	at := snaps(m, s, 20)
	require.Len(t, at, 3)
	for i := 1; i < len(at); i++ {
		assert.GreaterOrEqual(t, at[i]-at[i-1], 500*time.Millisecond)
	}
	assert.InDelta(t, -135.0, yaw(m), 1e-6)
}

func TestSnapEndsWhenReleased(t *testing.T) {
	in := &stick{v: physics.Vec2{X: 1}}
	s := NewSnap("snap", 0, DefaultSnapOptions(), in, nil, nil)
	m := newRig(t, s)

	step(m, s, 0.1)
	assert.Equal(t, locomotion.Preparing, s.State())
	step(m, s, 0.1)
	assert.InDelta(t, 45.0, yaw(m), 1e-6)
	assert.Equal(t, locomotion.Moving, s.State())
	assert.True(t, s.Debouncing())

	in.v = physics.Vec2{}
	step(m, s, 0.1)
	assert.Equal(t, locomotion.Idle, s.State())
}

func TestSnapDelayOnlyGatesFirstTurn(t *testing.T) {
	opts := DefaultSnapOptions()
	opts.DelayTime = 300 * time.Millisecond
	held := &stick{v: physics.Vec2{X: 1}}
	s := NewSnap("snap", 0, opts, held, nil, nil)
	m := newRig(t, s)

	at := snaps(m, s, 12)
	require.Len(t, at, 2)
	assert.Equal(t, 400*time.Millisecond, at[0])
	assert.Equal(t, 700*time.Millisecond, at[1]-at[0])
}

func TestSnapTurnAround(t *testing.T) {
	in := &stick{v: physics.Vec2{Y: -1}}
	s := NewSnap("snap", 0, DefaultSnapOptions(), in, nil, nil)
	m := newRig(t, s)

	step(m, s, 0.1)
	step(m, s, 0.1)
	assert.InDelta(t, 180.0, absDiff(yaw(m), 0), 1e-6)
}
