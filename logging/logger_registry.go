package logging

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Registry tracks named loggers so that level patterns can be applied to all
// of them at once, including loggers registered after the patterns were set.
type Registry struct {
	mu        sync.RWMutex
	loggers   map[string]Logger
	logConfig []LoggerPatternConfig
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		loggers: make(map[string]Logger),
	}
}

// Register adds logger under its name and applies the current patterns to it.
// If a logger with that name already exists, the existing one is returned.
func (lr *Registry) Register(logger Logger) Logger {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if existing, ok := lr.loggers[logger.Name()]; ok {
		return existing
	}
	lr.loggers[logger.Name()] = logger
	ApplyPatterns(logger, lr.logConfig)
	return logger
}

// Deregister removes the logger with the given name and reports whether it existed.
func (lr *Registry) Deregister(name string) bool {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	_, ok := lr.loggers[name]
	if ok {
		delete(lr.loggers, name)
	}
	return ok
}

// LoggerNamed returns the registered logger with the given name.
func (lr *Registry) LoggerNamed(name string) (logger Logger, ok bool) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok = lr.loggers[name]
	return
}

// UpdateLoggerLevel sets the level of one registered logger.
func (lr *Registry) UpdateLoggerLevel(name string, level Level) error {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok := lr.loggers[name]
	if !ok {
		return errors.Errorf("logger named %s not recognized", name)
	}
	logger.SetLevel(level)
	return nil
}

// UpdateConfig replaces the patterns and re-levels every registered logger.
// Loggers that no pattern matches are reset to GlobalLogLevel. Invalid patterns are
// reported to errorLogger and skipped.
func (lr *Registry) UpdateConfig(logConfig []LoggerPatternConfig, errorLogger Logger) {
	valid := make([]LoggerPatternConfig, 0, len(logConfig))
	for i, lpc := range logConfig {
		if err := lpc.Validate(fmt.Sprintf("log.%d", i)); err != nil {
			errorLogger.Warnw("ignoring log pattern", "error", err)
			continue
		}
		valid = append(valid, lpc)
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.logConfig = valid
	for name, logger := range lr.loggers {
		level, ok := LevelForName(name, valid)
		if !ok {
			level = GlobalLogLevel.Get()
		}
		logger.SetLevel(level)
	}
}

// Names returns the sorted names of all registered loggers.
func (lr *Registry) Names() []string {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	names := make([]string, 0, len(lr.loggers))
	for name := range lr.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CurrentConfig returns the patterns last accepted by UpdateConfig.
func (lr *Registry) CurrentConfig() []LoggerPatternConfig {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	return append([]LoggerPatternConfig(nil), lr.logConfig...)
}
