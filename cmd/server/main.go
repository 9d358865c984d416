package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/locomotion/internal/config"
	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; defaults are used when empty")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "locomotion server:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = app.Rig.Initialize(ctx); err != nil {
		return err
	}
	app.Logger.Info("starting locomotion server",
		log.String("addr", cfg.Server.Addr),
		log.Int("tick_rate", cfg.Server.TickRate),
		log.String("config", configPath),
	)

	runErr := app.Server.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err = app.Rig.Shutdown(shutdownCtx); err != nil {
		app.Logger.Warn("rig shutdown failed", log.Error(err))
	}
	app.Logger.Info("locomotion server stopped")
	return runErr
}

func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
