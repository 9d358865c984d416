package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/locomotion/internal/config"
)

func TestInitializeApp(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"
	app, err := InitializeApp(cfg)
	require.NoError(t, err)
	assert.NotNil(t, app.Rig)
	assert.NotNil(t, app.Server)
	assert.Equal(t, 1.0/60, app.Server.Dt())
}

func TestInitializeAppRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Gravity.TerminalVelocity = -1
	_, err := InitializeApp(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
