package turn

import (
	"time"

	"github.com/zeusync/locomotion/internal/core/input"
	"github.com/zeusync/locomotion/internal/core/locomotion"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

var _ locomotion.StateListener = (*Snap)(nil)

type SnapOptions struct {
	// TurnAmount is the snap size in degrees.
	TurnAmount float64
	// DebounceTime is the cooldown after a snap before the next may trigger.
	DebounceTime time.Duration
	// DelayTime holds a prepared turn before it starts moving, e.g. to fade in
	// a vignette. Turns repeated while still moving skip it.
	DelayTime           time.Duration
	EnableTurnLeftRight bool
	EnableTurnAround    bool
}

func DefaultSnapOptions() SnapOptions {
	return SnapOptions{
		TurnAmount:          45,
		DebounceTime:        500 * time.Millisecond,
		EnableTurnLeftRight: true,
		EnableTurnAround:    true,
	}
}

// Snap rotates the rig in fixed steps.
type Snap struct {
	locomotion.Base

	opts        SnapOptions
	left, right input.Vector2Reader
	log         log.Log

	pending        float64
	debouncing     bool
	debounceStart  time.Duration
	preparingSince time.Duration
}

func NewSnap(id string, priority int, opts SnapOptions, left, right input.Vector2Reader, logger log.Log) *Snap {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Snap{
		Base:  locomotion.NewBase(id, priority),
		opts:  opts,
		left:  left,
		right: right,
		log:   logger.With(log.String("provider", id)),
	}
}

func (s *Snap) Options() SnapOptions { return s.opts }

func (s *Snap) ReadInput() physics.Vec2 {
	return input.SumVector2(s.left, s.right)
}

// TurnAmount maps input onto a snap in degrees, zero when none applies.
func (s *Snap) TurnAmount(in physics.Vec2) float64 {
	if in.IsZero() {
		return 0
	}
	switch NearestCardinal(in) {
	case East:
		if s.opts.EnableTurnLeftRight {
			return s.opts.TurnAmount
		}
	case West:
		if s.opts.EnableTurnLeftRight {
			return -s.opts.TurnAmount
		}
	case South:
		if s.opts.EnableTurnAround {
			return 180
		}
	}
	return 0
}

// CanStartMoving holds a prepared turn until the delay has elapsed.
func (s *Snap) CanStartMoving() bool {
	if s.opts.DelayTime <= 0 {
		return true
	}
	return s.now()-s.preparingSince >= s.opts.DelayTime
}

func (s *Snap) OnLocomotionStateChanging(next locomotion.State) {
	if next == locomotion.Preparing {
		s.preparingSince = s.now()
	}
}

// Debouncing reports whether the cooldown after the last snap is running.
func (s *Snap) Debouncing() bool { return s.debouncing }

func (s *Snap) Update(float64) {
	now := s.now()
	if s.debouncing && s.debounceStart+s.opts.DebounceTime < now {
		s.debouncing = false
		return
	}

	amount := s.TurnAmount(s.ReadInput())
	if amount != 0 {
		s.startTurn(amount)
	} else if s.pending == 0 && s.State() == locomotion.Moving {
		s.TryEndLocomotion()
	}

	if s.State() != locomotion.Moving || s.pending == 0 {
		return
	}
	s.debouncing = true
	s.debounceStart = now
	if err := s.TryQueueTransformation(locomotion.YawRotation{AngleDelta: s.pending}); err != nil {
		s.log.Warn("snap turn rejected", log.Error(err))
	}
	s.pending = 0
	if amount == 0 {
		s.TryEndLocomotion()
	}
}

func (s *Snap) startTurn(amount float64) {
	if s.debouncing {
		return
	}
	if !s.IsLocomotionActive() {
		s.TryPrepareLocomotion()
	}
	s.pending = amount
}

func (s *Snap) now() time.Duration {
	if m := s.Mediator(); m != nil {
		return m.Time()
	}
	return 0
}
