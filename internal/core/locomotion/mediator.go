package locomotion

import (
	"time"

	"github.com/zeusync/locomotion/internal/core/events/bus"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/core/observability/metrics"
	"github.com/zeusync/locomotion/pkg/sequence"
)

type providerData struct {
	provider Provider
	state    State
	// rank is the registration index; it orders equal transformation priorities.
	rank int
}

type queued struct {
	provider string
	t        Transformation
}

// Mediator owns provider states and the per-tick transformation queue. It is
// driven from a single goroutine: BeginTick, provider updates, then Flush.
type Mediator struct {
	log  log.Log
	bus  bus.EventBus
	body *Body

	providers map[string]*providerData
	order     []string
	ranks     int
	queue     *sequence.PriorityQueue[queued]

	elapsed time.Duration
	tick    uint64
}

func NewMediator(body *Body, eventBus bus.EventBus, logger log.Log) *Mediator {
	if body == nil {
		body = &Body{}
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Mediator{
		log:       logger.With(log.String("component", "locomotion_mediator")),
		bus:       eventBus,
		body:      body,
		providers: make(map[string]*providerData),
		queue:     sequence.NewPriorityQueue[queued](),
	}
}

// Register adds a provider in Idle. Registration order breaks ties between
// equal transformation priorities, whatever order they were queued in.
func (m *Mediator) Register(p Provider) error {
	if p == nil || p.ID() == "" {
		return ErrInvalidProvider
	}
	if _, exists := m.providers[p.ID()]; exists {
		return ErrProviderAlreadyRegistered
	}
	m.providers[p.ID()] = &providerData{provider: p, state: Idle, rank: m.ranks}
	m.ranks++
	m.order = append(m.order, p.ID())
	if a, ok := p.(attachable); ok {
		a.attach(m)
	}
	return nil
}

// Unregister ends any active locomotion of the provider, drops the
// transformations it queued this tick and forgets it.
func (m *Mediator) Unregister(id string) error {
	data, ok := m.providers[id]
	if !ok {
		return ErrProviderNotRegistered
	}
	if data.state.IsActive() {
		m.transition(id, data, Ended)
	}
	if dropped := m.queue.RemoveFunc(func(q queued) bool { return q.provider == id }); dropped > 0 {
		m.log.Debug("dropped pending transformations", log.String("provider", id), log.Int("count", dropped))
	}
	delete(m.providers, id)
	for i, candidate := range m.order {
		if candidate == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if a, ok := data.provider.(attachable); ok {
		a.detach()
	}
	return nil
}

func (m *Mediator) Body() *Body { return m.body }

// Time is the simulated time accumulated from BeginTick deltas.
func (m *Mediator) Time() time.Duration { return m.elapsed }

func (m *Mediator) Tick() uint64 { return m.tick }

func (m *Mediator) State(id string) State {
	if data, ok := m.providers[id]; ok {
		return data.state
	}
	return Idle
}

// Providers lists provider IDs in registration order.
func (m *Mediator) Providers() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// States snapshots every provider's state.
func (m *Mediator) States() map[string]State {
	out := make(map[string]State, len(m.providers))
	for id, data := range m.providers {
		out[id] = data.state
	}
	return out
}

// Pending reports the number of transformations queued this tick.
func (m *Mediator) Pending() int { return m.queue.Len() }

func (m *Mediator) TryPrepareLocomotion(id string) bool {
	data, ok := m.lookup(id, "prepare")
	if !ok || data.state.IsActive() {
		return false
	}
	m.transition(id, data, Preparing)
	return true
}

func (m *Mediator) TryStartLocomotionImmediately(id string) bool {
	data, ok := m.lookup(id, "start")
	if !ok || data.state == Moving {
		return false
	}
	if !data.provider.CanStartMoving() {
		return false
	}
	m.transition(id, data, Moving)
	return true
}

func (m *Mediator) TryQueueTransformation(id string, t Transformation) error {
	data, ok := m.lookup(id, "queue")
	if !ok {
		return ErrProviderNotRegistered
	}
	if t == nil {
		return ErrNilTransformation
	}
	if data.state != Moving {
		err := &InvalidStateError{Provider: id, Operation: "queue transformation", State: data.state}
		m.log.Warn("transformation rejected", log.String("provider", id), log.String("state", data.state.String()))
		metrics.InvalidRequests.WithLabelValues(id, "queue").Inc()
		return err
	}
	m.queue.Enqueue(queued{provider: id, t: t}, data.provider.TransformationPriority(), data.rank)
	return nil
}

// TryEndLocomotion moves an active provider to Ended. Ended collapses to Idle
// when the tick is flushed.
func (m *Mediator) TryEndLocomotion(id string) bool {
	data, ok := m.lookup(id, "end")
	if !ok || !data.state.IsActive() {
		return false
	}
	m.transition(id, data, Ended)
	return true
}

// BeginTick advances simulated time and promotes prepared providers whose
// start gate is open.
func (m *Mediator) BeginTick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	m.tick++
	m.elapsed += time.Duration(dt * float64(time.Second))
	for _, id := range m.order {
		data := m.providers[id]
		if data.state == Preparing && data.provider.CanStartMoving() {
			m.transition(id, data, Moving)
		}
	}
}

// Flush applies this tick's transformations in ascending priority, then
// registration order, and settles Ended providers back to Idle. It returns the
// number applied.
func (m *Mediator) Flush() int {
	applied := 0
	for q, ok := m.queue.Dequeue(); ok; q, ok = m.queue.Dequeue() {
		t := q.t
		t.apply(m.body)
		metrics.TransformationsApplied.WithLabelValues(t.Kind()).Inc()
		applied++
	}
	for _, id := range m.order {
		data := m.providers[id]
		if data.state == Ended {
			m.transition(id, data, Idle)
		}
	}
	return applied
}

func (m *Mediator) lookup(id, op string) (*providerData, bool) {
	data, ok := m.providers[id]
	if !ok {
		m.log.Warn("request from unregistered provider", log.String("provider", id), log.String("operation", op))
		metrics.InvalidRequests.WithLabelValues(id, op).Inc()
	}
	return data, ok
}

func (m *Mediator) transition(id string, data *providerData, next State) {
	if listener, ok := data.provider.(StateListener); ok {
		listener.OnLocomotionStateChanging(next)
	}
	data.state = next
	metrics.StateTransitions.WithLabelValues(id, next.String()).Inc()

	switch next {
	case Moving:
		m.publish(EventLocomotionBegin, id, next)
	case Ended:
		m.publish(EventLocomotionEnd, id, next)
	}
}

func (m *Mediator) publish(eventType, id string, state State) {
	if m.bus == nil {
		return
	}
	err := m.bus.Publish(bus.NewEvent(eventType, id, StateEvent{Provider: id, State: state, Tick: m.tick}))
	if err != nil {
		m.log.Warn("locomotion listener failed", log.String("event", eventType), log.Error(err))
	}
}
