package input

import (
	"sync"

	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

type Hand uint8

const (
	Left Hand = iota
	Right
)

func (h Hand) String() string {
	if h == Left {
		return "left"
	}
	return "right"
}

// DeviceFrame is one tracked device reading in origin space.
type DeviceFrame struct {
	Position physics.Vec3 `json:"position"`
	Tracked  bool         `json:"tracked"`
}

// HandFrame is one controller reading.
type HandFrame struct {
	DeviceFrame
	Turn physics.Vec2 `json:"turn"`
	Grip bool         `json:"grip"`
	// Climb names the climbable the hand is holding, empty when none.
	Climb string `json:"climb,omitempty"`
}

// Frame is a full input sample sent by a client.
type Frame struct {
	Head  DeviceFrame `json:"head"`
	Left  HandFrame   `json:"left"`
	Right HandFrame   `json:"right"`
}

func (f Frame) Hand(h Hand) HandFrame {
	if h == Left {
		return f.Left
	}
	return f.Right
}

// State holds the latest frame. Writers (network handlers) and the tick reader
// may run on different goroutines.
type State struct {
	mu    sync.RWMutex
	frame Frame
	seq   uint64
}

func NewState() *State { return &State{} }

func (s *State) Set(f Frame) {
	s.mu.Lock()
	s.frame = f
	s.seq++
	s.mu.Unlock()
}

// Snapshot returns the latest frame and how many frames have been written.
func (s *State) Snapshot() (Frame, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame, s.seq
}

func (s *State) Frame() Frame {
	f, _ := s.Snapshot()
	return f
}

// TurnReader reads a hand's turn axis.
func (s *State) TurnReader(h Hand) Vector2Reader {
	return Vector2Func(func() physics.Vec2 { return s.Frame().Hand(h).Turn })
}

// GripReader reads a hand's grip button.
func (s *State) GripReader(h Hand) ButtonReader {
	return ButtonFunc(func() bool { return s.Frame().Hand(h).Grip })
}

// HandPosition reads a hand's tracked origin-space position.
func (s *State) HandPosition(h Hand) PositionReader {
	return PositionFunc(func() (physics.Vec3, bool) {
		hf := s.Frame().Hand(h)
		return hf.Position, hf.Tracked
	})
}
