// Package dblog provides the logging facade shared by every package in
// this module. It wraps logr so callers never import a concrete backend;
// cmd/pagedbctl wires stdr in as the default sink.
package dblog

import (
	"github.com/go-logr/logr"
)

// Verbosity levels used across the engine. Keep these low: the hot lookup
// and scan paths must never log.
const (
	// LevelOp logs one line per page allocation, flush, node split or root
	// growth.
	LevelOp = 1
	// LevelTrace logs per-cell detail; only useful while debugging a split.
	LevelTrace = 2
)

// Discard is a logger that drops everything. Packages default to it so
// they work standalone in tests without a configured sink.
var Discard = logr.Discard()

// Named returns a child logger scoped to the given component name.
func Named(log logr.Logger, name string) logr.Logger {
	return log.WithName(name)
}
