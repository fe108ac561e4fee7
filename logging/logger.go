// Package logging sets up the process wide zap logger.
package logging

import "go.uber.org/zap"

// New creates a new zap logger, installs it as the global logger and
// returns its sugared form
func New() *zap.SugaredLogger {
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)
	return logger.Sugar()
}
