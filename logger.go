package glstore

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for glstore and its sub-packages.
// By default, glstore produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used by glstore:
//   - [slog.LevelDebug]: handle misses, framebuffer cache hits, upload sizes
//   - [slog.LevelInfo]: atlas rebuilds, backbuffer and SDF allocation
//   - [slog.LevelWarn]: incomplete framebuffers, degraded MSAA, forced
//     decompression for power-of-two textures
//
// Example:
//
//	glstore.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by glstore.
// Sub-packages (xr/) call this to share the same logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// slogger returns the current package logger.
func slogger() *slog.Logger { return loggerPtr.Load() }
