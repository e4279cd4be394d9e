package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithShard attaches a shard-scoped logger so event handlers can tell which
// connection an event arrived on.
func WithShard(ctx context.Context, shardID int) context.Context {
	l := FromContext(ctx)
	return WithContext(ctx, l.With("shard_id", shardID))
}
