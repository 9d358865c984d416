package injector

import (
	"github.com/zeusync/locomotion/internal/config"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/rig"
	"github.com/zeusync/locomotion/internal/server"
)

// App is everything the server binary runs.
type App struct {
	Logger *log.Logger
	Rig    *rig.Rig
	Server *server.Server
}

func ProvideLogger(cfg *config.Config) *log.Logger {
	return log.New(log.ParseLevel(cfg.Log.Level))
}

func ProvideServerConfig(cfg *config.Config) config.ServerConfig {
	return cfg.Server
}
