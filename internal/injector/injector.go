//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/locomotion/internal/config"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/rig"
	"github.com/zeusync/locomotion/internal/server"
)

func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(
		ProvideLogger,
		ProvideServerConfig,
		rig.New,
		server.New,
		wire.Bind(new(log.Log), new(*log.Logger)),
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
