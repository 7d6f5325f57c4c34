// Package logging builds the process logger. Normal runs stay silent;
// --verbose turns on a console debug logger so API-call outcomes from
// the drivers and the orchestrator become visible on stderr.
package logging

import (
	"go.uber.org/zap"
)

// New returns the process logger. With verbose unset all logging is
// dropped.
func New(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	return zap.Must(cfg.Build())
}
