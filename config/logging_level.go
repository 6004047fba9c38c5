package config

import (
	"sync"

	"go.viam.com/planarik/logging"
)

var globalLogger struct {
	// Set once at startup.
	logger           logging.Logger
	cmdLineDebugFlag bool

	// Changes whenever a watched config is reloaded.
	mu                  sync.Mutex
	fileConfigDebugFlag bool
}

// InitLoggingSettings sets the level of logger from the command line debug flag
// and remembers logger for later config driven changes.
func InitLoggingSettings(logger logging.Logger, cmdLineDebugFlag bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()

	globalLogger.logger = logger
	globalLogger.cmdLineDebugFlag = cmdLineDebugFlag
	globalLogger.fileConfigDebugFlag = false
	if cmdLineDebugFlag {
		logging.GlobalLogLevel.Set(logging.DEBUG)
	} else {
		logging.GlobalLogLevel.Set(logging.INFO)
	}
	logger.SetLevel(logging.GlobalLogLevel.Get())
	logger.Info("Log level initialized: ", logging.GlobalLogLevel.Get())
}

// UpdateFileConfigDebug is used to update the debug flag whenever a config file is read.
func UpdateFileConfigDebug(fileDebug bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()

	globalLogger.fileConfigDebugFlag = fileDebug
	refreshLogLevelInLock()
}

func refreshLogLevelInLock() {
	if globalLogger.logger == nil {
		return
	}
	newLevel := logging.INFO
	if globalLogger.cmdLineDebugFlag || globalLogger.fileConfigDebugFlag {
		newLevel = logging.DEBUG
	}

	if logging.GlobalLogLevel.Get() == newLevel {
		return
	}
	globalLogger.logger.Info("New log level: ", newLevel)
	logging.GlobalLogLevel.Set(newLevel)
	globalLogger.logger.SetLevel(newLevel)
}
