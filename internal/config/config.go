package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log            LogConfig            `yaml:"log"`
	Server         ServerConfig         `yaml:"server"`
	Gravity        GravityConfig        `yaml:"gravity"`
	Climb          ClimbConfig          `yaml:"climb"`
	ContinuousTurn ContinuousTurnConfig `yaml:"continuous_turn"`
	SnapTurn       SnapTurnConfig       `yaml:"snap_turn"`
	GrabMove       GrabMoveConfig       `yaml:"grab_move"`
	World          WorldConfig          `yaml:"world"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// TickRate is the number of simulation ticks per second.
	TickRate        int           `yaml:"tick_rate"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type GravityConfig struct {
	UseGravity               bool    `yaml:"use_gravity"`
	UseLocalSpaceGravity     bool    `yaml:"use_local_space_gravity"`
	TerminalVelocity         float64 `yaml:"terminal_velocity"`
	AccelerationModifier     float64 `yaml:"acceleration_modifier"`
	Gravity                  float64 `yaml:"gravity"`
	SphereCastRadius         float64 `yaml:"sphere_cast_radius"`
	SphereCastDistanceBuffer float64 `yaml:"sphere_cast_distance_buffer"`
	LayerMask                uint32  `yaml:"layer_mask"`
}

type AxisConfig struct {
	AllowFreeX bool `yaml:"allow_free_x"`
	AllowFreeY bool `yaml:"allow_free_y"`
	AllowFreeZ bool `yaml:"allow_free_z"`
}

type ClimbConfig struct {
	Enabled            bool       `yaml:"enabled"`
	Axes               AxisConfig `yaml:"axes"`
	ResumeFallingOnEnd bool       `yaml:"resume_falling_on_end"`
}

type ContinuousTurnConfig struct {
	Enabled   bool    `yaml:"enabled"`
	TurnSpeed float64 `yaml:"turn_speed"`
}

type SnapTurnConfig struct {
	Enabled             bool          `yaml:"enabled"`
	TurnAmount          float64       `yaml:"turn_amount"`
	DebounceTime        time.Duration `yaml:"debounce_time"`
	DelayTime           time.Duration `yaml:"delay_time"`
	EnableTurnLeftRight bool          `yaml:"enable_turn_left_right"`
	EnableTurnAround    bool          `yaml:"enable_turn_around"`
}

type GrabMoveConfig struct {
	Enabled     bool    `yaml:"enabled"`
	MoveFactor  float64 `yaml:"move_factor"`
	EnableFreeX bool    `yaml:"enable_free_x"`
	EnableFreeY bool    `yaml:"enable_free_y"`
	EnableFreeZ bool    `yaml:"enable_free_z"`
	UseGravity  bool    `yaml:"use_gravity"`
}

type WorldConfig struct {
	Spawn      [3]float64        `yaml:"spawn"`
	SpawnYaw   float64           `yaml:"spawn_yaw"`
	Boxes      []BoxConfig       `yaml:"boxes"`
	Climbables []ClimbableConfig `yaml:"climbables"`
}

type BoxConfig struct {
	Name  string     `yaml:"name"`
	Min   [3]float64 `yaml:"min"`
	Max   [3]float64 `yaml:"max"`
	Layer uint8      `yaml:"layer"`
}

// ClimbableConfig places a climbable surface. Axes overrides the climb
// provider's axes for grabs on this surface.
type ClimbableConfig struct {
	ID       string      `yaml:"id"`
	Position [3]float64  `yaml:"position"`
	Yaw      float64     `yaml:"yaw"`
	Axes     *AxisConfig `yaml:"axes,omitempty"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:            ":8080",
			TickRate:        60,
			ShutdownTimeout: 5 * time.Second,
		},
		Gravity: GravityConfig{
			UseGravity:               true,
			UseLocalSpaceGravity:     true,
			TerminalVelocity:         90,
			AccelerationModifier:     1,
			Gravity:                  9.81,
			SphereCastRadius:         0.09,
			SphereCastDistanceBuffer: 0.01,
			LayerMask:                ^uint32(0),
		},
		Climb: ClimbConfig{
			Enabled: true,
			Axes:    AxisConfig{AllowFreeX: true, AllowFreeY: true, AllowFreeZ: true},
		},
		ContinuousTurn: ContinuousTurnConfig{TurnSpeed: 60},
		SnapTurn: SnapTurnConfig{
			Enabled:             true,
			TurnAmount:          45,
			DebounceTime:        500 * time.Millisecond,
			EnableTurnLeftRight: true,
			EnableTurnAround:    true,
		},
		GrabMove: GrabMoveConfig{
			MoveFactor:  1,
			EnableFreeX: true,
			EnableFreeY: true,
			EnableFreeZ: true,
		},
	}
}

// Load overlays the YAML file at path on the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// TickInterval is the wall-clock period between ticks.
func (c *Config) TickInterval() time.Duration {
	if c.Server.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.Server.TickRate)
}

func (c *Config) Validate() error {
	switch {
	case c.Server.TickRate <= 0:
		return invalid("server.tick_rate must be positive, got %d", c.Server.TickRate)
	case c.Gravity.TerminalVelocity <= 0:
		return invalid("gravity.terminal_velocity must be positive, got %g", c.Gravity.TerminalVelocity)
	case c.Gravity.Gravity < 0:
		return invalid("gravity.gravity must not be negative, got %g", c.Gravity.Gravity)
	case c.Gravity.AccelerationModifier < 0:
		return invalid("gravity.acceleration_modifier must not be negative, got %g", c.Gravity.AccelerationModifier)
	case c.Gravity.SphereCastRadius < 0 || c.Gravity.SphereCastDistanceBuffer < 0:
		return invalid("gravity sphere cast sizes must not be negative")
	case c.ContinuousTurn.TurnSpeed < 0:
		return invalid("continuous_turn.turn_speed must not be negative, got %g", c.ContinuousTurn.TurnSpeed)
	case c.SnapTurn.TurnAmount < 0:
		return invalid("snap_turn.turn_amount must not be negative, got %g", c.SnapTurn.TurnAmount)
	case c.SnapTurn.DebounceTime < 0 || c.SnapTurn.DelayTime < 0:
		return invalid("snap_turn durations must not be negative")
	case c.ContinuousTurn.Enabled && c.SnapTurn.Enabled:
		return invalid("continuous_turn and snap_turn cannot both be enabled")
	case c.GrabMove.MoveFactor < 0:
		return invalid("grab_move.move_factor must not be negative, got %g", c.GrabMove.MoveFactor)
	}

	seen := make(map[string]struct{}, len(c.World.Climbables))
	for _, climbable := range c.World.Climbables {
		if climbable.ID == "" {
			return invalid("world climbable without id")
		}
		if _, dup := seen[climbable.ID]; dup {
			return invalid("duplicate climbable id %q", climbable.ID)
		}
		seen[climbable.ID] = struct{}{}
	}
	for _, box := range c.World.Boxes {
		for i := 0; i < 3; i++ {
			if box.Min[i] > box.Max[i] {
				return invalid("box %q has min above max", box.Name)
			}
		}
		if box.Layer > 31 {
			return invalid("box %q layer %d out of range", box.Name, box.Layer)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
