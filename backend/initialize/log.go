package initialize

import (
	"os"
	"star-songs/backend/global"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	// basic zerolog setup: console writer to stderr
	cw := zerolog.ConsoleWriter{Out: os.Stderr}
	logger := log.Output(cw)
	global.Logger = logger
}

// SetLogLevel applies a config level name to the shared logger.
// Unknown names fall back to info.
func SetLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	global.Logger = global.Logger.Level(lvl)
}
