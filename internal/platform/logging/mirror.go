package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives a copy of every emitted log line. The observability
// layer installs one to forward logs to the OTLP pipeline; nil disables
// mirroring.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

var mirror atomic.Pointer[MirrorFunc]

func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirror.Store(nil)
		return
	}
	mirror.Store(&fn)
}

// emitMirror runs after the zap write. Mirror failures must never block or
// panic the caller, so the func is invoked as-is with no error surface.
func emitMirror(ctx context.Context, level Level, msg string, args []any) {
	fn := mirror.Load()
	if fn == nil {
		return
	}
	(*fn)(ctx, level, msg, args...)
}
