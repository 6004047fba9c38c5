package config

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"go.viam.com/utils"

	"go.viam.com/planarik/logging"
)

// A Watcher is responsible for watching for changes
// to a config file and delivering those changes.
type Watcher interface {
	Config() <-chan *Config
	Close() error
}

// NewWatcher returns a Watcher for the file the config was read from. The
// initial config is not delivered; only changed configs that read and
// validate cleanly are.
func NewWatcher(ctx context.Context, initial *Config, logger logging.Logger) (Watcher, error) {
	if initial.ConfigFilePath == "" {
		return noopWatcher{}, nil
	}
	return newFSWatcher(ctx, initial, logger)
}

// A fsConfigWatcher re-reads a config file whenever it is written.
type fsConfigWatcher struct {
	fsWatcher               *fsnotify.Watcher
	configCh                chan *Config
	watcherDoneCh           chan struct{}
	cancel                  func()
	activeBackgroundWorkers sync.WaitGroup
}

func newFSWatcher(ctx context.Context, initial *Config, logger logging.Logger) (*fsConfigWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	configPath := initial.ConfigFilePath
	if err := fsWatcher.Add(configPath); err != nil {
		utils.UncheckedError(fsWatcher.Close())
		return nil, err
	}
	cancelCtx, cancel := context.WithCancel(ctx)
	w := &fsConfigWatcher{
		fsWatcher:     fsWatcher,
		configCh:      make(chan *Config),
		watcherDoneCh: make(chan struct{}),
		cancel:        cancel,
	}
	last := initial
	w.activeBackgroundWorkers.Add(1)
	utils.ManagedGo(func() {
		for {
			if cancelCtx.Err() != nil {
				return
			}
			select {
			case <-cancelCtx.Done():
				return
			case err, ok := <-fsWatcher.Errors:
				if !ok {
					return
				}
				logger.Errorw("error watching config", "path", configPath, "error", err)
			case event, ok := <-fsWatcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				newConfig, err := Read(configPath, logger)
				if err != nil {
					logger.Errorw("error reading config after write", "path", configPath, "error", err)
					continue
				}
				if cmp.Equal(last, newConfig) {
					continue
				}
				last = newConfig
				select {
				case <-cancelCtx.Done():
					return
				case w.configCh <- newConfig:
				}
			}
		}
	}, func() {
		w.activeBackgroundWorkers.Done()
		close(w.watcherDoneCh)
	})
	return w, nil
}

func (w *fsConfigWatcher) Config() <-chan *Config {
	return w.configCh
}

func (w *fsConfigWatcher) Close() error {
	w.cancel()
	<-w.watcherDoneCh
	w.activeBackgroundWorkers.Wait()
	return w.fsWatcher.Close()
}

// A noopWatcher never delivers a config.
type noopWatcher struct{}

func (noopWatcher) Config() <-chan *Config {
	return nil
}

func (noopWatcher) Close() error {
	return nil
}
