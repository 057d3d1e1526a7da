package logger

import (
	"context"

	"github.com/rs/zerolog"
)

type requestIDKey struct{}

// WithRequestID stores id on ctx for RequestIDHook.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// RequestIDHook adds request_id to every event logged with .Ctx(ctx).
type RequestIDHook struct{}

func (RequestIDHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}
	if id, ok := RequestID(ctx); ok {
		e.Str("request_id", id)
	}
}
