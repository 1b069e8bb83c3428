// Package debug provides conditional debug logging for lineview.
//
// Debug logging is enabled by setting the LINEVIEW_DEBUG environment
// variable:
//
//	LINEVIEW_DEBUG=1 lineview graph.json
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops with zero
// overhead.
package debug

import (
	"log"
	"os"
	"time"
)

var (
	// enabled is true when LINEVIEW_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [LINEVIEW] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("LINEVIEW_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[LINEVIEW] ", log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, "[LINEVIEW] ", log.Ltime|log.Lmicroseconds)
	}
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// Warn writes a recovered-fault message. Kept behind the same gate:
// the engine stays quiet under imperfect input in production.
func Warn(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf("warning: "+format, args...)
}
