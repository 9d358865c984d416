package input

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

func TestStateReaders(t *testing.T) {
	s := NewState()
	s.Set(Frame{
		Left:  HandFrame{Turn: physics.Vec2{X: -1}, Grip: true},
		Right: HandFrame{DeviceFrame: DeviceFrame{Position: physics.Vec3{X: 0.2, Y: 1.1}, Tracked: true}},
	})

	assert.Equal(t, physics.Vec2{X: -1}, s.TurnReader(Left).ReadVector2())
	assert.True(t, s.GripReader(Left).IsPressed())
	assert.False(t, s.GripReader(Right).IsPressed())

	pos, ok := s.HandPosition(Right).LocalPosition()
	assert.True(t, ok)
	assert.Equal(t, physics.Vec3{X: 0.2, Y: 1.1}, pos)
	_, ok = s.HandPosition(Left).LocalPosition()
	assert.False(t, ok)

	_, seq := s.Snapshot()
	assert.Equal(t, uint64(1), seq)
}

func TestSumVector2SkipsNil(t *testing.T) {
	a := Vector2Func(func() physics.Vec2 { return physics.Vec2{X: 0.5} })
	b := Vector2Func(func() physics.Vec2 { return physics.Vec2{X: 0.25, Y: 1} })
	assert.Equal(t, physics.Vec2{X: 0.75, Y: 1}, SumVector2(a, nil, b))
}

func TestStateConcurrentAccess(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Set(Frame{Left: HandFrame{Turn: physics.Vec2{X: float64(i)}}})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.TurnReader(Left).ReadVector2()
		}()
	}
	wg.Wait()
	_, seq := s.Snapshot()
	assert.Equal(t, uint64(8), seq)
}
