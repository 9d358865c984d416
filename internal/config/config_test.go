package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
log:
  level: debug
server:
  addr: ":9090"
  tick_rate: 90
gravity:
  terminal_velocity: 50
snap_turn:
  debounce_time: 250ms
  delay_time: 100ms
climb:
  axes:
    allow_free_x: false
    allow_free_y: true
    allow_free_z: false
world:
  spawn: [0, 1, 0]
  boxes:
    - name: floor
      min: [-10, -1, -10]
      max: [10, 0, 10]
  climbables:
    - id: ladder
      position: [0, 0, 2]
      yaw: 180
      axes:
        allow_free_y: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locomotion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second/60, cfg.TickInterval())
	assert.Equal(t, 9.81, cfg.Gravity.Gravity)
	assert.Equal(t, 500*time.Millisecond, cfg.SnapTurn.DebounceTime)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 90, cfg.Server.TickRate)
	assert.Equal(t, 50.0, cfg.Gravity.TerminalVelocity)
	assert.Equal(t, 9.81, cfg.Gravity.Gravity)
	assert.Equal(t, 250*time.Millisecond, cfg.SnapTurn.DebounceTime)
	assert.Equal(t, 100*time.Millisecond, cfg.SnapTurn.DelayTime)
	assert.Equal(t, AxisConfig{AllowFreeY: true}, cfg.Climb.Axes)
	assert.True(t, cfg.Climb.Enabled)

	require.Len(t, cfg.World.Boxes, 1)
	assert.Equal(t, [3]float64{10, 0, 10}, cfg.World.Boxes[0].Max)
	require.Len(t, cfg.World.Climbables, 1)
	require.NotNil(t, cfg.World.Climbables[0].Axes)
	assert.True(t, cfg.World.Climbables[0].Axes.AllowFreeY)
	assert.NoError(t, cfg.Validate())
}

func TestShippedConfigIsValid(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "locomotion.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 500*time.Millisecond, cfg.SnapTurn.DebounceTime)
	assert.Equal(t, ^uint32(0), cfg.Gravity.LayerMask)
	assert.True(t, cfg.GrabMove.Enabled)
	require.Len(t, cfg.World.Climbables, 2)
	require.NotNil(t, cfg.World.Climbables[0].Axes)
	assert.False(t, cfg.World.Climbables[0].Axes.AllowFreeX)
	assert.Nil(t, cfg.World.Climbables[1].Axes)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not, a, map]"))
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	err := ApplyEnvFrom(cfg, map[string]string{
		"LOCOMOTION_LOG_LEVEL":       "warn",
		"LOCOMOTION_TICK_RATE":       "30",
		"LOCOMOTION_USE_GRAVITY":     "false",
		"LOCOMOTION_CONTINUOUS_TURN": "true",
		"LOCOMOTION_SNAP_DEBOUNCE":   "1s",
		"UNRELATED":                  "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 30, cfg.Server.TickRate)
	assert.False(t, cfg.Gravity.UseGravity)
	assert.True(t, cfg.ContinuousTurn.Enabled)
	assert.Equal(t, time.Second, cfg.SnapTurn.DebounceTime)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 45.0, cfg.SnapTurn.TurnAmount)
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	err := ApplyEnvFrom(Default(), map[string]string{"LOCOMOTION_TICK_RATE": "fast"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"tick rate":         func(c *Config) { c.Server.TickRate = 0 },
		"terminal velocity": func(c *Config) { c.Gravity.TerminalVelocity = 0 },
		"gravity":           func(c *Config) { c.Gravity.Gravity = -1 },
		"turn speed":        func(c *Config) { c.ContinuousTurn.TurnSpeed = -5 },
		"debounce":          func(c *Config) { c.SnapTurn.DebounceTime = -time.Second },
		"move factor":       func(c *Config) { c.GrabMove.MoveFactor = -1 },
		"both turns":        func(c *Config) { c.ContinuousTurn.Enabled = true },
		"climbable id": func(c *Config) {
			c.World.Climbables = []ClimbableConfig{{ID: ""}}
		},
		"duplicate climbable": func(c *Config) {
			c.World.Climbables = []ClimbableConfig{{ID: "a"}, {ID: "a"}}
		},
		"inverted box": func(c *Config) {
			c.World.Boxes = []BoxConfig{{Name: "b", Min: [3]float64{1, 0, 0}}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
