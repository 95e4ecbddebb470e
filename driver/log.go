// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger used by this package, by every
// backend and by the graphics package.
// By default nothing is logged. Passing nil restores the
// default.
//
// Levels used:
//   - slog.LevelDebug: object creation and state diagnostics
//   - slog.LevelInfo: lifecycle events (driver registered,
//     device selected, swapchain created)
//   - slog.LevelWarn: non-fatal anomalies
//   - slog.LevelError: creation failures
//
// It is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger.Store(l)
}

// Logger returns the current logger.
// It is safe for concurrent use.
func Logger() *slog.Logger { return logger.Load() }
