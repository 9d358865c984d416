package locomotion

// Provider is a locomotion source registered with a Mediator.
type Provider interface {
	ID() string
	// TransformationPriority orders this provider's transformations within a
	// tick; lower values are applied first.
	TransformationPriority() int
	// CanStartMoving gates the Preparing -> Moving transition.
	CanStartMoving() bool
}

// StateListener is implemented by providers that react to their own state changes.
type StateListener interface {
	OnLocomotionStateChanging(next State)
}

type attachable interface {
	attach(m *Mediator)
	detach()
}

// Base carries the mediator link and request helpers for a provider. Embed it
// and register the outer value with Mediator.Register.
type Base struct {
	id       string
	priority int
	mediator *Mediator
}

func NewBase(id string, priority int) Base {
	return Base{id: id, priority: priority}
}

func (b *Base) ID() string                      { return b.id }
func (b *Base) TransformationPriority() int     { return b.priority }
func (b *Base) SetTransformationPriority(p int) { b.priority = p }

// CanStartMoving lets providers start as soon as they are prepared.
func (b *Base) CanStartMoving() bool { return true }

func (b *Base) attach(m *Mediator) { b.mediator = m }
func (b *Base) detach()            { b.mediator = nil }

// Mediator returns the mediator this provider is registered with, if any.
func (b *Base) Mediator() *Mediator { return b.mediator }

func (b *Base) State() State {
	if b.mediator == nil {
		return Idle
	}
	return b.mediator.State(b.id)
}

func (b *Base) IsLocomotionActive() bool { return b.State().IsActive() }

func (b *Base) TryPrepareLocomotion() bool {
	return b.mediator != nil && b.mediator.TryPrepareLocomotion(b.id)
}

func (b *Base) TryStartLocomotionImmediately() bool {
	return b.mediator != nil && b.mediator.TryStartLocomotionImmediately(b.id)
}

func (b *Base) TryQueueTransformation(t Transformation) error {
	if b.mediator == nil {
		return ErrProviderNotRegistered
	}
	return b.mediator.TryQueueTransformation(b.id, t)
}

func (b *Base) TryEndLocomotion() bool {
	return b.mediator != nil && b.mediator.TryEndLocomotion(b.id)
}
