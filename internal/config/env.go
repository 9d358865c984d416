package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "LOCOMOTION_"

// envOverrides holds the settings that can be tuned without a config file.
// It is pre-filled from the config so unset variables keep their value.
type envOverrides struct {
	LogLevel         string        `env:"LOG_LEVEL"`
	ServerAddr       string        `env:"SERVER_ADDR"`
	TickRate         int           `env:"TICK_RATE"`
	UseGravity       bool          `env:"USE_GRAVITY"`
	Gravity          float64       `env:"GRAVITY"`
	TerminalVelocity float64       `env:"TERMINAL_VELOCITY"`
	ContinuousTurn   bool          `env:"CONTINUOUS_TURN"`
	TurnSpeed        float64       `env:"TURN_SPEED"`
	SnapTurn         bool          `env:"SNAP_TURN"`
	SnapTurnAmount   float64       `env:"SNAP_TURN_AMOUNT"`
	SnapDebounce     time.Duration `env:"SNAP_DEBOUNCE"`
	SnapDelay        time.Duration `env:"SNAP_DELAY"`
	GrabMove         bool          `env:"GRAB_MOVE"`
	GrabMoveFactor   float64       `env:"GRAB_MOVE_FACTOR"`
}

// ApplyEnv overlays LOCOMOTION_* environment variables on cfg.
func ApplyEnv(cfg *Config) error {
	return ApplyEnvFrom(cfg, nil)
}

// ApplyEnvFrom reads overrides from environ instead of the process
// environment when environ is non-nil.
func ApplyEnvFrom(cfg *Config, environ map[string]string) error {
	raw := envOverrides{
		LogLevel:         cfg.Log.Level,
		ServerAddr:       cfg.Server.Addr,
		TickRate:         cfg.Server.TickRate,
		UseGravity:       cfg.Gravity.UseGravity,
		Gravity:          cfg.Gravity.Gravity,
		TerminalVelocity: cfg.Gravity.TerminalVelocity,
		ContinuousTurn:   cfg.ContinuousTurn.Enabled,
		TurnSpeed:        cfg.ContinuousTurn.TurnSpeed,
		SnapTurn:         cfg.SnapTurn.Enabled,
		SnapTurnAmount:   cfg.SnapTurn.TurnAmount,
		SnapDebounce:     cfg.SnapTurn.DebounceTime,
		SnapDelay:        cfg.SnapTurn.DelayTime,
		GrabMove:         cfg.GrabMove.Enabled,
		GrabMoveFactor:   cfg.GrabMove.MoveFactor,
	}
	if err := env.ParseWithOptions(&raw, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	cfg.Log.Level = raw.LogLevel
	cfg.Server.Addr = raw.ServerAddr
	cfg.Server.TickRate = raw.TickRate
	cfg.Gravity.UseGravity = raw.UseGravity
	cfg.Gravity.Gravity = raw.Gravity
	cfg.Gravity.TerminalVelocity = raw.TerminalVelocity
	cfg.ContinuousTurn.Enabled = raw.ContinuousTurn
	cfg.ContinuousTurn.TurnSpeed = raw.TurnSpeed
	cfg.SnapTurn.Enabled = raw.SnapTurn
	cfg.SnapTurn.TurnAmount = raw.SnapTurnAmount
	cfg.SnapTurn.DebounceTime = raw.SnapDebounce
	cfg.SnapTurn.DelayTime = raw.SnapDelay
	cfg.GrabMove.Enabled = raw.GrabMove
	cfg.GrabMove.MoveFactor = raw.GrabMoveFactor
	return nil
}
