package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pribylovaa/bookly/internal/config"
	logpkg "github.com/pribylovaa/bookly/internal/pkg/log"
	"github.com/pribylovaa/bookly/migrations"
)

func main() {
	var (
		configPath string
		direction  string
	)
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.StringVar(&direction, "direction", migrations.DirectionUp, "migration direction: up or down")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := logpkg.Setup(cfg.Env, cfg.Log)
	slog.SetDefault(log)

	if err := migrations.Run(cfg.DB.DatabaseURL, direction); err != nil {
		log.Error("migrate_failed", slog.String("direction", direction), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("migrate_done", slog.String("direction", direction))
}
