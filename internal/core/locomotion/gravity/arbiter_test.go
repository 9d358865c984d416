package gravity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/locomotion/internal/core/events/bus"
	"github.com/zeusync/locomotion/internal/core/locomotion"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

type fakeController struct {
	id         string
	canProcess bool
	paused     bool
	locks      []Override
	grounded   []bool
}

func newFakeController(id string) *fakeController {
	return &fakeController{id: id, canProcess: true}
}

func (c *fakeController) ControllerID() string            { return c.id }
func (c *fakeController) CanProcess() bool                { return c.canProcess }
func (c *fakeController) GravityPaused() bool             { return c.paused }
func (c *fakeController) OnGravityLockChanged(o Override) { c.locks = append(c.locks, o) }
func (c *fakeController) OnGroundedChanged(grounded bool) { c.grounded = append(c.grounded, grounded) }

// floorCaster reports a hit when the cast reaches world height floorY.
func floorCaster(floorY float64) physics.Caster {
	return physics.CasterFunc(func(origin physics.Vec3, radius float64, dir physics.Vec3, maxDistance float64, _ physics.LayerMask) (physics.Hit, bool) {
		travel := origin.Y - radius - floorY
		if dir.Y >= 0 || travel > maxDistance {
			return physics.Hit{}, false
		}
		return physics.Hit{Point: physics.Vec3{X: origin.X, Y: floorY, Z: origin.Z}, Distance: travel}, true
	})
}

func newRig(t *testing.T, caster physics.Caster, originY float64) (*locomotion.Mediator, *Arbiter, bus.EventBus) {
	t.Helper()
	b := bus.New()
	body := locomotion.NewBody(physics.NewPose(physics.Vec3{Y: originY}, physics.Identity()))
	body.HeadLocal = physics.Vec3{Y: 1.7}
	body.HeadTracked = true
	m := locomotion.NewMediator(body, b, log.NewNop())
	a := NewArbiter("gravity", 0, DefaultSettings(), caster, b, log.NewNop())
	require.NoError(t, m.Register(a))
	return m, a, b
}

func TestMismatchedLockIsRejected(t *testing.T) {
	a := NewArbiter("gravity", 0, DefaultSettings(), nil, nil, nil)
	c := newFakeController("climb")
	a.RegisterController(c)

	require.True(t, a.TryLockGravity(c, ForcedOff))
	assert.False(t, a.TryLockGravity(c, ForcedOn))
	o, ok := a.Locked(c)
	assert.True(t, ok)
	assert.Equal(t, ForcedOff, o)
	assert.Equal(t, []Override{ForcedOff}, c.locks, "rejected lock must not notify")

	a.UnlockGravity(c)
	a.UnlockGravity(c)
	_, ok = a.Locked(c)
	assert.False(t, ok)
	assert.True(t, a.TryLockGravity(c, ForcedOn))
	assert.False(t, a.TryLockGravity(c, ForcedOff))
	assert.True(t, a.TryLockGravity(c, ForcedOn), "relocking the same override is allowed")
}

func TestLockNotifiesEveryController(t *testing.T) {
	b := bus.New()
	var events []LockEvent
	_, _ = b.Subscribe(EventGravityLockChanged, func(e bus.Event) error {
		events = append(events, e.Data().(LockEvent))
		return nil
	})
	a := NewArbiter("gravity", 0, DefaultSettings(), nil, b, nil)
	c1, c2 := newFakeController("c1"), newFakeController("c2")
	a.RegisterController(c1)
	a.RegisterController(c2)
	a.RegisterController(c2)

	require.True(t, a.TryLockGravity(c1, ForcedOn))
	assert.Equal(t, []Override{ForcedOn}, c1.locks)
	assert.Equal(t, []Override{ForcedOn}, c2.locks)
	assert.Equal(t, []LockEvent{{Controller: "c1", Override: ForcedOn}}, events)
}

func TestForcedOffDominates(t *testing.T) {
	for _, onCount := range []int{0, 1, 3} {
		a := NewArbiter("gravity", 0, DefaultSettings(), nil, nil, nil)
		for i := 0; i < onCount; i++ {
			require.True(t, a.TryLockGravity(newFakeController(string(rune('a'+i))), ForcedOn))
		}
		assert.True(t, a.CanProcessGravity())
		require.True(t, a.TryLockGravity(newFakeController("off"), ForcedOff))
		assert.False(t, a.CanProcessGravity(), "forced-off with %d forced-on", onCount)
	}
}

func TestPauseResolution(t *testing.T) {
	a := NewArbiter("gravity", 0, DefaultSettings(), nil, nil, nil)
	c := newFakeController("grab")
	a.RegisterController(c)
	assert.True(t, a.CanProcessGravity())

	c.paused = true
	assert.False(t, a.CanProcessGravity())

	c.canProcess = false
	assert.True(t, a.CanProcessGravity(), "inactive controllers cannot pause")

	c.canProcess = true
	locker := newFakeController("locker")
	require.True(t, a.TryLockGravity(locker, ForcedOn))
	assert.True(t, a.CanProcessGravity(), "forced-on beats pause")

	a.UnregisterController(locker)
	assert.False(t, a.CanProcessGravity())
	a.UnregisterController(c)
	assert.True(t, a.CanProcessGravity())
}

func TestFallVelocitySaturatesAtTerminal(t *testing.T) {
	settings := DefaultSettings()
	settings.TerminalVelocity = 90
	settings.AccelerationModifier = 1
	a := NewArbiter("gravity", 0, settings, nil, nil, nil)

	for i := 0; i < 200; i++ {
		require.True(t, a.TryProcessGravity(1))
		assert.LessOrEqual(t, a.FallVelocity().Length(), 90+1e-9)
	}
	assert.InDelta(t, 90, a.FallVelocity().Length(), 1e-9)
	assert.True(t, a.FallVelocity().Normalize().Approx(physics.Down))
}

func TestFallVelocityNeverExceedsTerminal(t *testing.T) {
	settings := DefaultSettings()
	settings.TerminalVelocity = 12
	a := NewArbiter("gravity", 0, settings, nil, nil, nil)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a.TryProcessGravity(rng.Float64() * 0.5)
		require.LessOrEqual(t, a.FallVelocity().Length(), 12+1e-9)
	}
}

func TestBlockedGravityResetsVelocity(t *testing.T) {
	a := NewArbiter("gravity", 0, DefaultSettings(), nil, nil, nil)
	require.True(t, a.TryProcessGravity(0.5))
	assert.False(t, a.FallVelocity().IsZero())

	a.SetUseGravity(false)
	assert.True(t, a.IsGravityBlocked())
	assert.False(t, a.TryProcessGravity(0.5))
	assert.True(t, a.FallVelocity().IsZero())
}

func TestCheckGroundedNotifies(t *testing.T) {
	_, a, b := newRig(t, floorCaster(0), 0)
	c := newFakeController("climb")
	a.RegisterController(c)
	var events []bool
	_, _ = b.Subscribe(EventGroundedChanged, func(e bus.Event) error {
		events = append(events, e.Data().(GroundedEvent).Grounded)
		return nil
	})

	assert.True(t, a.CheckGrounded())
	assert.True(t, a.CheckGrounded())
	assert.Equal(t, []bool{true}, c.grounded)
	assert.Equal(t, []bool{true}, events)

	a.Mediator().Body().Origin.Position.Y = 3
	assert.False(t, a.CheckGrounded())
	assert.Equal(t, []bool{true, false}, c.grounded)
}

func TestUpdateFallsUntilGrounded(t *testing.T) {
	m, a, _ := newRig(t, floorCaster(0), 2)

	const dt = 0.05
	ticks := 0
	for ; ticks < 200 && !a.IsGrounded(); ticks++ {
		m.BeginTick(dt)
		a.Update(dt)
		m.Flush()
	}
	require.True(t, a.IsGrounded(), "never landed")
	assert.Less(t, m.Body().Origin.Position.Y, 2.0)
	assert.True(t, a.FallVelocity().IsZero(), "velocity resets on landing")

	m.BeginTick(dt)
	a.Update(dt)
	m.Flush()
	assert.Equal(t, locomotion.Idle, a.State())
}

func TestForcedOffStopsFalling(t *testing.T) {
	m, a, _ := newRig(t, floorCaster(-100), 0)
	climb := newFakeController("climb")
	a.RegisterController(climb)
	require.True(t, a.TryLockGravity(climb, ForcedOff))

	m.BeginTick(0.1)
	a.Update(0.1)
	m.Flush()
	assert.Equal(t, 0.0, m.Body().Origin.Position.Y)
	assert.Equal(t, locomotion.Idle, a.State())

	a.UnlockGravity(climb)
	m.BeginTick(0.1)
	a.Update(0.1)
	assert.Equal(t, locomotion.Moving, a.State())
	m.Flush()
	assert.Less(t, m.Body().Origin.Position.Y, 0.0)
}

func TestMissingCasterTreatsRigAsGrounded(t *testing.T) {
	m, a, _ := newRig(t, nil, 5)
	m.BeginTick(0.1)
	a.Update(0.1)
	m.Flush()
	assert.True(t, a.IsGrounded())
	assert.Equal(t, 5.0, m.Body().Origin.Position.Y)
}
