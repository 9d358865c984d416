package climb

import "github.com/zeusync/locomotion/internal/core/systems/physics"

// Settings constrain climb movement per axis of the climbed target's frame.
type Settings struct {
	AllowFreeX bool
	AllowFreeY bool
	AllowFreeZ bool
}

func DefaultSettings() Settings {
	return Settings{AllowFreeX: true, AllowFreeY: true, AllowFreeZ: true}
}

func (s Settings) unconstrained() bool {
	return s.AllowFreeX && s.AllowFreeY && s.AllowFreeZ
}

// Source is whatever grabs a climbable, usually a hand interactor.
type Source interface {
	ID() string
	// WorldPosition returns false once the source is gone.
	WorldPosition() (physics.Vec3, bool)
}

// Target is a climbable surface.
type Target interface {
	ID() string
	// Frame returns false once the target is gone.
	Frame() (physics.Pose, bool)
	// SettingsOverride replaces the provider's default settings when ok.
	SettingsOverride() (Settings, bool)
}

const EventAnchorUpdated = "climb.anchor_updated"

// AnchorEvent is published whenever the driving grab changes.
type AnchorEvent struct {
	Source string
	Target string
	World  physics.Vec3
	Local  physics.Vec3
}
