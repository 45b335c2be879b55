package api

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Observer receives callbacks from the sequencing engine for logging,
// metrics and journaling.
//
// All methods are invoked on the scheduler goroutine. Implementations
// should be fast and non-blocking; every call sits between two glyphs.
type Observer interface {
	// OnOperationStart is called when a start, erase or backspace
	// operation begins executing (after any start delay).
	OnOperationStart(ctx context.Context, snap Snapshot, op Operation)

	// OnOperationCompleted is called when the last glyph of an operation
	// has settled, before its completion callback is scheduled.
	OnOperationCompleted(ctx context.Context, snap Snapshot, op Operation)

	// OnOperationFailed is called when the scheduler refused work and the
	// operation could not continue.
	OnOperationFailed(ctx context.Context, snap Snapshot, op Operation, err error)

	// OnPhaseStart is called at the start of every type, backspace or
	// erase phase.
	OnPhaseStart(ctx context.Context, snap Snapshot, phase Phase)

	// OnGlyphRendered is called when the renderer confirms a glyph.
	OnGlyphRendered(ctx context.Context, snap Snapshot, glyph string)

	// OnGlyphRemoved is called when the renderer confirms a removal.
	OnGlyphRemoved(ctx context.Context, snap Snapshot)

	// OnCallbackFired is called right after a completion callback ran.
	// armed is true when the callback came from the session's armed slot.
	OnCallbackFired(ctx context.Context, snap Snapshot, armed bool)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnOperationStart(ctx context.Context, snap Snapshot, op Operation)     {}
func (NoopObserver) OnOperationCompleted(ctx context.Context, snap Snapshot, op Operation) {}
func (NoopObserver) OnOperationFailed(ctx context.Context, snap Snapshot, op Operation, err error) {
}
func (NoopObserver) OnPhaseStart(ctx context.Context, snap Snapshot, phase Phase)     {}
func (NoopObserver) OnGlyphRendered(ctx context.Context, snap Snapshot, glyph string) {}
func (NoopObserver) OnGlyphRemoved(ctx context.Context, snap Snapshot)                {}
func (NoopObserver) OnCallbackFired(ctx context.Context, snap Snapshot, armed bool)   {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnOperationStart(ctx context.Context, snap Snapshot, op Operation) {
	for _, o := range c.observers {
		o.OnOperationStart(ctx, snap, op)
	}
}

func (c *CompositeObserver) OnOperationCompleted(ctx context.Context, snap Snapshot, op Operation) {
	for _, o := range c.observers {
		o.OnOperationCompleted(ctx, snap, op)
	}
}

func (c *CompositeObserver) OnOperationFailed(ctx context.Context, snap Snapshot, op Operation, err error) {
	for _, o := range c.observers {
		o.OnOperationFailed(ctx, snap, op, err)
	}
}

func (c *CompositeObserver) OnPhaseStart(ctx context.Context, snap Snapshot, phase Phase) {
	for _, o := range c.observers {
		o.OnPhaseStart(ctx, snap, phase)
	}
}

func (c *CompositeObserver) OnGlyphRendered(ctx context.Context, snap Snapshot, glyph string) {
	for _, o := range c.observers {
		o.OnGlyphRendered(ctx, snap, glyph)
	}
}

func (c *CompositeObserver) OnGlyphRemoved(ctx context.Context, snap Snapshot) {
	for _, o := range c.observers {
		o.OnGlyphRemoved(ctx, snap)
	}
}

func (c *CompositeObserver) OnCallbackFired(ctx context.Context, snap Snapshot, armed bool) {
	for _, o := range c.observers {
		o.OnCallbackFired(ctx, snap, armed)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs operation, phase and
// glyph events using the provided slog.Logger. If logger is nil,
// slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func snapAttrs(snap Snapshot) []any {
	return []any{
		slog.String("session_id", snap.SessionID),
		slog.String("mode", snap.Mode.String()),
		slog.String("state", string(snap.State)),
		slog.Int("displayed", snap.Displayed),
	}
}

func (o *LoggingObserver) OnOperationStart(ctx context.Context, snap Snapshot, op Operation) {
	o.Logger.InfoContext(ctx, "operation_start",
		append(snapAttrs(snap), slog.String("operation", string(op)))...,
	)
}

func (o *LoggingObserver) OnOperationCompleted(ctx context.Context, snap Snapshot, op Operation) {
	o.Logger.InfoContext(ctx, "operation_completed",
		append(snapAttrs(snap), slog.String("operation", string(op)))...,
	)
}

func (o *LoggingObserver) OnOperationFailed(ctx context.Context, snap Snapshot, op Operation, err error) {
	o.Logger.ErrorContext(ctx, "operation_failed",
		append(snapAttrs(snap), slog.String("operation", string(op)), slog.Any("error", err))...,
	)
}

func (o *LoggingObserver) OnPhaseStart(ctx context.Context, snap Snapshot, phase Phase) {
	o.Logger.DebugContext(ctx, "phase_start",
		append(snapAttrs(snap), slog.String("phase", string(phase)))...,
	)
}

func (o *LoggingObserver) OnGlyphRendered(ctx context.Context, snap Snapshot, glyph string) {
	o.Logger.DebugContext(ctx, "glyph_rendered",
		append(snapAttrs(snap), slog.String("glyph", glyph))...,
	)
}

func (o *LoggingObserver) OnGlyphRemoved(ctx context.Context, snap Snapshot) {
	o.Logger.DebugContext(ctx, "glyph_removed", snapAttrs(snap)...)
}

func (o *LoggingObserver) OnCallbackFired(ctx context.Context, snap Snapshot, armed bool) {
	o.Logger.InfoContext(ctx, "callback_fired",
		append(snapAttrs(snap), slog.Bool("armed", armed))...,
	)
}

// BasicMetrics collects simple counters. It implements Observer, and can
// be combined with LoggingObserver via NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	operationsStarted   atomic.Int64
	operationsCompleted atomic.Int64
	operationsFailed    atomic.Int64
	typePhases          atomic.Int64
	backspacePhases     atomic.Int64
	erasures            atomic.Int64
	glyphsRendered      atomic.Int64
	glyphsRemoved       atomic.Int64
	callbacksFired      atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	OperationsStarted   int64
	OperationsCompleted int64
	OperationsFailed    int64
	PendingOperations   int64

	TypePhases      int64
	BackspacePhases int64
	Erasures        int64

	GlyphsRendered int64
	GlyphsRemoved  int64
	CallbacksFired int64
}

func (m *BasicMetrics) OnOperationStart(ctx context.Context, snap Snapshot, op Operation) {
	m.operationsStarted.Add(1)
}

func (m *BasicMetrics) OnOperationCompleted(ctx context.Context, snap Snapshot, op Operation) {
	m.operationsCompleted.Add(1)
}

func (m *BasicMetrics) OnOperationFailed(ctx context.Context, snap Snapshot, op Operation, err error) {
	m.operationsFailed.Add(1)
}

func (m *BasicMetrics) OnPhaseStart(ctx context.Context, snap Snapshot, phase Phase) {
	switch phase {
	case PhaseType:
		m.typePhases.Add(1)
	case PhaseBackspace:
		m.backspacePhases.Add(1)
	case PhaseErase:
		m.erasures.Add(1)
	}
}

func (m *BasicMetrics) OnGlyphRendered(ctx context.Context, snap Snapshot, glyph string) {
	m.glyphsRendered.Add(1)
}

func (m *BasicMetrics) OnGlyphRemoved(ctx context.Context, snap Snapshot) {
	m.glyphsRemoved.Add(1)
}

func (m *BasicMetrics) OnCallbackFired(ctx context.Context, snap Snapshot, armed bool) {
	m.callbacksFired.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.operationsStarted.Load()
	completed := m.operationsCompleted.Load()
	failed := m.operationsFailed.Load()

	return BasicMetricsSnapshot{
		OperationsStarted:   started,
		OperationsCompleted: completed,
		OperationsFailed:    failed,
		PendingOperations:   started - completed - failed,
		TypePhases:          m.typePhases.Load(),
		BackspacePhases:     m.backspacePhases.Load(),
		Erasures:            m.erasures.Load(),
		GlyphsRendered:      m.glyphsRendered.Load(),
		GlyphsRemoved:       m.glyphsRemoved.Load(),
		CallbacksFired:      m.callbacksFired.Load(),
	}
}
