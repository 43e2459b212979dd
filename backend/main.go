package main

import (
	"flag"
	"os"

	"star-songs/backend/global"
	"star-songs/backend/initialize"
	"star-songs/backend/server"
)

func defaultConfigPath() string {
	if p := os.Getenv("STAR_SONGS_CONFIG"); p != "" {
		return p
	}
	return "config/config.yaml"
}

func main() {
	configPath := flag.String("config", defaultConfigPath(), "Path to YAML config file")
	flag.Parse()

	app, err := initialize.Build(*configPath)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("startup failed")
	}

	stopWatch, err := initialize.WatchConfig(*configPath)
	if err != nil {
		global.Logger.Warn().Err(err).Msg("config watcher unavailable")
	} else {
		defer func() { _ = stopWatch() }()
	}

	global.Logger.Info().
		Str("host", app.Cfg.Server.Host).
		Int("port", app.Cfg.Server.Port).
		Str("driver", app.Cfg.DB.Driver).
		Msg("listening")
	if err := server.Run(app.Cfg.Server.Host, app.Cfg.Server.Port, app.Router); err != nil {
		global.Logger.Fatal().Err(err).Msg("server failed")
	}
}
