package initialize

import (
	"path/filepath"

	"star-songs/backend/config"
	"star-songs/backend/global"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig applies log-level changes from the config file without a
// restart. Other settings still need one. The returned func stops the
// watcher.
func WatchConfig(path string) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// watch the directory; most editors replace the file rather than
	// writing in place, which drops a file-level watch
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := config.Load(path)
				if err != nil {
					global.Logger.Warn().Err(err).Msg("config reload failed")
					continue
				}
				SetLogLevel(cfg.Log.Level)
				global.Logger.Info().Str("level", cfg.Log.Level).Msg("log level reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				global.Logger.Warn().Err(err).Msg("config watcher error")
			}
		}
	}()

	return watcher.Close, nil
}
