package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
)

//
// Helpers
//

// countingObserver is a simple Observer implementation used to verify fan-out behavior.
type countingObserver struct {
	mu sync.Mutex

	starts    int
	completes int
	fails     int
	phases    []Phase
	rendered  []string
	removed   int
	fired     []bool

	lastSnap Snapshot
	lastErr  error
}

func (o *countingObserver) OnOperationStart(ctx context.Context, snap Snapshot, op Operation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.starts++
	o.lastSnap = snap
}

func (o *countingObserver) OnOperationCompleted(ctx context.Context, snap Snapshot, op Operation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completes++
	o.lastSnap = snap
}

func (o *countingObserver) OnOperationFailed(ctx context.Context, snap Snapshot, op Operation, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fails++
	o.lastErr = err
}

func (o *countingObserver) OnPhaseStart(ctx context.Context, snap Snapshot, phase Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phases = append(o.phases, phase)
}

func (o *countingObserver) OnGlyphRendered(ctx context.Context, snap Snapshot, glyph string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rendered = append(o.rendered, glyph)
}

func (o *countingObserver) OnGlyphRemoved(ctx context.Context, snap Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.removed++
}

func (o *countingObserver) OnCallbackFired(ctx context.Context, snap Snapshot, armed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fired = append(o.fired, armed)
}

// recordingHandler is a minimal slog.Handler that just records log records.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(name string) slog.Handler { return h }

func attrsToMap(r slog.Record) map[string]any {
	m := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.Any()
		return true
	})
	return m
}

func testSnapshot() Snapshot {
	return Snapshot{
		SessionID: "tw-7",
		Mode:      ModeCorrection,
		State:     StateTyping,
		Displayed: 3,
	}
}

// emitAll drives every Observer method once.
func emitAll(ctx context.Context, o Observer, snap Snapshot) {
	o.OnOperationStart(ctx, snap, OperationStart)
	o.OnPhaseStart(ctx, snap, PhaseType)
	o.OnGlyphRendered(ctx, snap, "a")
	o.OnPhaseStart(ctx, snap, PhaseBackspace)
	o.OnGlyphRemoved(ctx, snap)
	o.OnOperationCompleted(ctx, snap, OperationStart)
	o.OnCallbackFired(ctx, snap, true)
	o.OnOperationFailed(ctx, snap, OperationErase, errors.New("boom"))
}

//
// NoopObserver
//

func TestNoopObserver_DoesNotPanic(t *testing.T) {
	emitAll(context.Background(), NoopObserver{}, testSnapshot())
}

//
// CompositeObserver
//

func TestNewCompositeObserver_EmptyReturnsNoop(t *testing.T) {
	o := NewCompositeObserver()
	if _, ok := o.(NoopObserver); !ok {
		t.Fatalf("expected NewCompositeObserver() to return NoopObserver, got %T", o)
	}
}

func TestNewCompositeObserver_SingleReturnsThatObserver(t *testing.T) {
	single := &countingObserver{}
	o := NewCompositeObserver(single, nil)

	if got, ok := o.(*countingObserver); !ok || got != single {
		t.Fatalf("expected the single non-nil observer to be returned, got %T (%p)", o, o)
	}
}

func TestCompositeObserver_ForwardsAllEvents(t *testing.T) {
	o1 := &countingObserver{}
	o2 := &countingObserver{}
	co, ok := NewCompositeObserver(o1, o2).(*CompositeObserver)
	if !ok {
		t.Fatalf("expected *CompositeObserver")
	}

	emitAll(context.Background(), co, testSnapshot())

	for i, o := range []*countingObserver{o1, o2} {
		if o.starts != 1 || o.completes != 1 || o.fails != 1 {
			t.Fatalf("observer %d: starts=%d completes=%d fails=%d", i, o.starts, o.completes, o.fails)
		}
		if len(o.phases) != 2 || o.phases[0] != PhaseType || o.phases[1] != PhaseBackspace {
			t.Fatalf("observer %d: phases=%v", i, o.phases)
		}
		if len(o.rendered) != 1 || o.rendered[0] != "a" || o.removed != 1 {
			t.Fatalf("observer %d: rendered=%v removed=%d", i, o.rendered, o.removed)
		}
		if len(o.fired) != 1 || !o.fired[0] {
			t.Fatalf("observer %d: fired=%v", i, o.fired)
		}
		if o.lastSnap.SessionID != "tw-7" || o.lastErr == nil {
			t.Fatalf("observer %d: snapshot or error not forwarded", i)
		}
	}
}

//
// LoggingObserver
//

func TestNewLoggingObserver_NilUsesDefault(t *testing.T) {
	o := NewLoggingObserver(nil)
	lo, ok := o.(*LoggingObserver)
	if !ok || lo.Logger == nil {
		t.Fatalf("expected *LoggingObserver with a logger, got %T", o)
	}
}

func TestLoggingObserver_LogsWithSessionAttrs(t *testing.T) {
	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	emitAll(context.Background(), o, testSnapshot())

	h.mu.Lock()
	defer h.mu.Unlock()

	want := []string{
		"operation_start", "phase_start", "glyph_rendered", "phase_start",
		"glyph_removed", "operation_completed", "callback_fired", "operation_failed",
	}
	if len(h.records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(h.records))
	}
	for i, msg := range want {
		if h.records[i].Message != msg {
			t.Fatalf("record %d: expected %q, got %q", i, msg, h.records[i].Message)
		}
		attrs := attrsToMap(h.records[i])
		if attrs["session_id"] != "tw-7" || attrs["mode"] != "correction" || attrs["state"] != "TYPING" {
			t.Fatalf("record %d: missing session attrs: %v", i, attrs)
		}
	}

	if got := attrsToMap(h.records[2])["glyph"]; got != "a" {
		t.Fatalf("expected glyph attr, got %v", got)
	}
	if h.records[7].Level != slog.LevelError {
		t.Fatalf("expected operation_failed at error level, got %v", h.records[7].Level)
	}
}

//
// BasicMetrics
//

func TestBasicMetrics_CountsEvents(t *testing.T) {
	m := &BasicMetrics{}
	ctx := context.Background()
	snap := testSnapshot()

	m.OnOperationStart(ctx, snap, OperationStart)
	m.OnOperationStart(ctx, snap, OperationErase)
	m.OnPhaseStart(ctx, snap, PhaseType)
	m.OnPhaseStart(ctx, snap, PhaseBackspace)
	m.OnPhaseStart(ctx, snap, PhaseErase)
	m.OnPhaseStart(ctx, snap, PhaseType)
	m.OnGlyphRendered(ctx, snap, "a")
	m.OnGlyphRendered(ctx, snap, "b")
	m.OnGlyphRemoved(ctx, snap)
	m.OnOperationCompleted(ctx, snap, OperationStart)
	m.OnCallbackFired(ctx, snap, false)

	s := m.Snapshot()
	if s.OperationsStarted != 2 || s.OperationsCompleted != 1 || s.PendingOperations != 1 {
		t.Fatalf("unexpected operation counts: %+v", s)
	}
	if s.TypePhases != 2 || s.BackspacePhases != 1 || s.Erasures != 1 {
		t.Fatalf("unexpected phase counts: %+v", s)
	}
	if s.GlyphsRendered != 2 || s.GlyphsRemoved != 1 || s.CallbacksFired != 1 {
		t.Fatalf("unexpected glyph counts: %+v", s)
	}

	m.OnOperationFailed(ctx, snap, OperationErase, errors.New("refused"))
	s = m.Snapshot()
	if s.OperationsFailed != 1 || s.PendingOperations != 0 {
		t.Fatalf("expected failed op to leave nothing pending: %+v", s)
	}
}
