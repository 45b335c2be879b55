package typewriter

import (
	"context"
	"log/slog"

	"github.com/petrijr/typewriter/internal/engine"
)

type sessionConfig = engine.Config

// SessionOption configures New.
type SessionOption func(*sessionConfig)

// WithScheduler sets the scheduler every session transition and callback
// runs on.
func WithScheduler(s Scheduler) SessionOption {
	return func(c *sessionConfig) { c.Scheduler = s }
}

// WithObserver sets the session observer. Combine several with
// NewCompositeObserver.
func WithObserver(obs Observer) SessionOption {
	return func(c *sessionConfig) { c.Observer = obs }
}

// WithLogger sets the logger for engine warnings such as duplicate
// completion signals. The default is slog.Default().
func WithLogger(l *slog.Logger) SessionOption {
	return func(c *sessionConfig) { c.Logger = l }
}

// WithContext sets the context passed to observer calls.
func WithContext(ctx context.Context) SessionOption {
	return func(c *sessionConfig) { c.Context = ctx }
}

// WithID names the session in logs and journals.
func WithID(id string) SessionOption {
	return func(c *sessionConfig) { c.ID = id }
}
