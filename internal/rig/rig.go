package rig

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zeusync/locomotion/internal/config"
	"github.com/zeusync/locomotion/internal/core/events/bus"
	"github.com/zeusync/locomotion/internal/core/input"
	"github.com/zeusync/locomotion/internal/core/interaction"
	"github.com/zeusync/locomotion/internal/core/locomotion"
	"github.com/zeusync/locomotion/internal/core/locomotion/climb"
	"github.com/zeusync/locomotion/internal/core/locomotion/grabmove"
	"github.com/zeusync/locomotion/internal/core/locomotion/gravity"
	"github.com/zeusync/locomotion/internal/core/locomotion/turn"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/core/observability/metrics"
	"github.com/zeusync/locomotion/internal/core/systems"
	"github.com/zeusync/locomotion/internal/core/systems/physics"
)

// Provider IDs. Transformation priorities follow the declaration order: turns
// apply first and the fall last.
const (
	SnapTurnID       = "snap-turn"
	ContinuousTurnID = "continuous-turn"
	ClimbID          = "climb"
	GravityID        = "gravity"
)

const (
	turnPriority = iota * 10
	grabMovePriority
	climbPriority
	gravityPriority
)

var hands = [...]input.Hand{input.Left, input.Right}

// Rig wires the locomotion providers around one shared body and runs them once
// per Tick. Tick, Snapshot and the accessors must be called from one goroutine;
// only the input state and SetEnabled may be used concurrently.
type Rig struct {
	cfg *config.Config
	log log.Log

	bus      bus.EventBus
	input    *input.State
	body     *locomotion.Body
	mediator *locomotion.Mediator
	world    *physics.StaticWorld
	groups   *interaction.Groups
	systems  *systems.Manager

	arbiter    *gravity.Arbiter
	climb      *climb.Provider
	continuous *turn.Continuous
	snap       *turn.Snap
	grabMoves  []*grabmove.Provider

	climbables map[string]*Climbable
	sources    [len(hands)]*handSource
	grabbing   [len(hands)]string
	rejected   [len(hands)]string

	togglers  map[string]func(bool)
	pendingMu sync.Mutex
	pending   []toggle

	subscriptions []bus.Subscription
}

func New(cfg *config.Config, logger log.Log) (*Rig, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}

	spawn := physics.NewPose(vec(cfg.World.Spawn), physics.YawRotation(cfg.World.SpawnYaw))
	r := &Rig{
		cfg:        cfg,
		log:        logger.With(log.String("component", "rig")),
		bus:        bus.New(),
		input:      input.NewState(),
		body:       locomotion.NewBody(spawn),
		groups:     interaction.NewGroups(),
		systems:    systems.NewManager(logger),
		climbables: make(map[string]*Climbable, len(cfg.World.Climbables)),
	}
	r.mediator = locomotion.NewMediator(r.body, r.bus, logger)

	boxes := make([]physics.Box, 0, len(cfg.World.Boxes))
	for _, b := range cfg.World.Boxes {
		boxes = append(boxes, physics.Box{Name: b.Name, Min: vec(b.Min), Max: vec(b.Max), Layer: b.Layer})
	}
	r.world = physics.NewStaticWorld(boxes...)
	for _, c := range cfg.World.Climbables {
		r.climbables[c.ID] = newClimbable(c)
	}
	for i, h := range hands {
		r.sources[i] = &handSource{hand: h, state: r.input, body: r.body}
		r.groups.Add(h.String()+"-hand", climbMember(h))
		r.groups.Add(h.String()+"-hand", grabMoveMember(h))
		r.groups.Add("grab-move", grabMoveMember(h))
	}

	if err := r.buildProviders(logger); err != nil {
		return nil, err
	}
	if err := r.buildSystems(); err != nil {
		return nil, err
	}
	r.buildTogglers()
	if err := r.subscribe(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rig) buildProviders(logger log.Log) error {
	r.arbiter = gravity.NewArbiter(GravityID, gravityPriority, gravitySettings(r.cfg.Gravity), r.world, r.bus, logger)
	providers := []locomotion.Provider{r.arbiter}

	if r.cfg.Climb.Enabled {
		opts := climb.Options{Settings: axes(r.cfg.Climb.Axes), ResumeFallingOnEnd: r.cfg.Climb.ResumeFallingOnEnd}
		r.climb = climb.New(ClimbID, climbPriority, opts, r.arbiter, r.bus, logger)
		providers = append(providers, r.climb)
	}

	left, right := r.input.TurnReader(input.Left), r.input.TurnReader(input.Right)
	if r.cfg.ContinuousTurn.Enabled {
		r.continuous = turn.NewContinuous(ContinuousTurnID, turnPriority, r.cfg.ContinuousTurn.TurnSpeed, left, right, logger)
		providers = append(providers, r.continuous)
	}
	if r.cfg.SnapTurn.Enabled {
		opts := turn.SnapOptions{
			TurnAmount:          r.cfg.SnapTurn.TurnAmount,
			DebounceTime:        r.cfg.SnapTurn.DebounceTime,
			DelayTime:           r.cfg.SnapTurn.DelayTime,
			EnableTurnLeftRight: r.cfg.SnapTurn.EnableTurnLeftRight,
			EnableTurnAround:    r.cfg.SnapTurn.EnableTurnAround,
		}
		r.snap = turn.NewSnap(SnapTurnID, turnPriority, opts, left, right, logger)
		providers = append(providers, r.snap)
	}

	if r.cfg.GrabMove.Enabled {
		opts := grabmove.Options{
			MoveFactor:  r.cfg.GrabMove.MoveFactor,
			EnableFreeX: r.cfg.GrabMove.EnableFreeX,
			EnableFreeY: r.cfg.GrabMove.EnableFreeY,
			EnableFreeZ: r.cfg.GrabMove.EnableFreeZ,
			UseGravity:  r.cfg.GrabMove.UseGravity,
		}
		for _, h := range hands {
			p := grabmove.New(grabMoveMember(h), grabMovePriority, opts, r.input.HandPosition(h), r.gripReader(h), r.arbiter, logger)
			r.grabMoves = append(r.grabMoves, p)
			providers = append(providers, p)
		}
	}

	for _, p := range providers {
		if err := r.mediator.Register(p); err != nil {
			return fmt.Errorf("register %s: %w", p.ID(), err)
		}
	}
	return nil
}

func (r *Rig) buildSystems() error {
	list := []systems.System{
		systems.Updater("climb-input", systems.PriorityInput, func(float64) { r.updateClimbGrabs() }),
		systems.Updater(GravityID, systems.PriorityGravity, r.arbiter.Update),
	}
	if r.climb != nil {
		list = append(list, systems.Updater(ClimbID, systems.PriorityLocomotion, r.climb.Update))
	}
	if r.continuous != nil {
		list = append(list, systems.Updater(ContinuousTurnID, systems.PriorityLocomotion, r.continuous.Update))
	}
	if r.snap != nil {
		list = append(list, systems.Updater(SnapTurnID, systems.PriorityLocomotion, r.snap.Update))
	}
	for _, p := range r.grabMoves {
		list = append(list, systems.Updater(p.ID(), systems.PriorityLocomotion, p.Update))
	}
	for _, s := range list {
		if err := r.systems.RegisterSystem(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Rig) subscribe() error {
	grounded, err := r.bus.Subscribe(gravity.EventGroundedChanged, func(e bus.Event) error {
		if ev, ok := e.Data().(gravity.GroundedEvent); ok {
			r.log.Debug("grounded changed", log.Bool("grounded", ev.Grounded), log.Uint64("tick", r.mediator.Tick()))
		}
		return nil
	})
	if err != nil {
		return err
	}
	locks, err := r.bus.Subscribe(gravity.EventGravityLockChanged, func(e bus.Event) error {
		if ev, ok := e.Data().(gravity.LockEvent); ok {
			r.log.Debug("gravity lock changed", log.String("controller", ev.Controller), log.String("override", ev.Override.String()))
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.subscriptions = append(r.subscriptions, grounded, locks)
	return nil
}

// Initialize starts every system. Ticks before Initialize only advance time.
func (r *Rig) Initialize(ctx context.Context) error {
	return r.systems.InitializeAll(ctx)
}

func (r *Rig) Shutdown(ctx context.Context) error {
	r.logSystemMetrics()
	errs := []error{r.systems.ShutdownAll(ctx)}
	for _, s := range r.subscriptions {
		errs = append(errs, s.Cancel())
	}
	r.subscriptions = nil
	return errors.Join(errs...)
}

// Tick runs one simulation step of dt seconds.
func (r *Rig) Tick(dt float64) error {
	start := time.Now()
	defer func() { metrics.TickDuration.Observe(time.Since(start).Seconds()) }()

	r.applyToggles()
	head := r.input.Frame().Head
	r.body.HeadLocal = head.Position
	r.body.HeadTracked = head.Tracked

	r.mediator.BeginTick(dt)
	err := r.systems.Update(dt)
	r.mediator.Flush()
	return err
}

func (r *Rig) Config() *config.Config         { return r.cfg }
func (r *Rig) Input() *input.State            { return r.input }
func (r *Rig) Bus() bus.EventBus              { return r.bus }
func (r *Rig) Body() *locomotion.Body         { return r.body }
func (r *Rig) Mediator() *locomotion.Mediator { return r.mediator }
func (r *Rig) Gravity() *gravity.Arbiter      { return r.arbiter }
func (r *Rig) Climb() *climb.Provider         { return r.climb }
func (r *Rig) Groups() *interaction.Groups    { return r.groups }
func (r *Rig) Systems() *systems.Manager      { return r.systems }
func (r *Rig) World() *physics.StaticWorld    { return r.world }

func (r *Rig) Climbable(id string) (*Climbable, bool) {
	c, ok := r.climbables[id]
	return c, ok
}

// RemoveClimbable makes the surface unavailable. Grabs on it end on the next tick.
func (r *Rig) RemoveClimbable(id string) bool {
	c, ok := r.climbables[id]
	if !ok {
		return false
	}
	c.removed = true
	delete(r.climbables, id)
	return true
}

// updateClimbGrabs turns the per-hand climb target in the input frame into
// grab and release calls.
func (r *Rig) updateClimbGrabs() {
	if r.climb == nil {
		return
	}
	frame := r.input.Frame()
	for i, h := range hands {
		hf := frame.Hand(h)
		want := hf.Climb
		if !hf.Tracked {
			want = ""
		}
		source := r.sources[i]
		member := climbMember(h)

		if r.grabbing[i] != "" && !r.climb.Holding(source) {
			r.rejected[i] = r.grabbing[i]
			r.grabbing[i] = ""
			r.groups.Release(member)
		}
		if want != r.rejected[i] {
			r.rejected[i] = ""
		}
		if want == r.grabbing[i] || (want != "" && want == r.rejected[i]) {
			continue
		}

		if r.grabbing[i] != "" {
			r.climb.FinishGrab(source)
			r.groups.Release(member)
			r.grabbing[i] = ""
		}
		if want == "" {
			continue
		}

		target, ok := r.climbables[want]
		if !ok {
			r.log.Warn("grab on unknown climbable", log.String("hand", h.String()), log.String("climbable", want))
			r.rejected[i] = want
			continue
		}
		if !r.groups.TrySelect(member) {
			continue
		}
		if !r.climb.StartGrab(target, source) {
			r.groups.Release(member)
			r.rejected[i] = want
			continue
		}
		r.grabbing[i] = want
	}
}

// gripReader gates a hand's grip through its interaction groups so a hand that
// is climbing cannot grab-move, and only one hand grab-moves at a time.
func (r *Rig) gripReader(h input.Hand) input.ButtonReader {
	member := grabMoveMember(h)
	return input.ButtonFunc(func() bool {
		if hand := r.input.Frame().Hand(h); !hand.Grip || !hand.Tracked {
			r.groups.Release(member)
			return false
		}
		return r.groups.TrySelect(member)
	})
}

func gravitySettings(c config.GravityConfig) gravity.Settings {
	return gravity.Settings{
		UseGravity:               c.UseGravity,
		UseLocalSpaceGravity:     c.UseLocalSpaceGravity,
		TerminalVelocity:         c.TerminalVelocity,
		AccelerationModifier:     c.AccelerationModifier,
		Gravity:                  c.Gravity,
		SphereCastRadius:         c.SphereCastRadius,
		SphereCastDistanceBuffer: c.SphereCastDistanceBuffer,
		LayerMask:                physics.LayerMask(c.LayerMask),
	}
}

func climbMember(h input.Hand) string    { return h.String() + "-climb" }
func grabMoveMember(h input.Hand) string { return h.String() + "-grab-move" }
