package api

import (
	"context"
	"time"

	"github.com/tidwall/sjson"
)

// EventType identifies a journal event.
type EventType string

const (
	EventOperationStarted   EventType = "operation.started"
	EventOperationCompleted EventType = "operation.completed"
	EventOperationFailed    EventType = "operation.failed"

	EventPhaseStarted EventType = "phase.started"

	EventGlyphRendered EventType = "glyph.rendered"
	EventGlyphRemoved  EventType = "glyph.removed"

	EventCallbackFired EventType = "callback.fired"
)

// Event is a minimal append-only journal record for audit/debugging.
type Event struct {
	SessionID string
	At        time.Time
	Type      EventType
	State     State
	Displayed int

	// Small JSON document with event specifics (operation, phase, glyph,
	// error). Keep this low-volume.
	Detail string
}

// EventStore is an append-only journal of session events.
type EventStore interface {
	AppendEvent(ctx context.Context, ev Event) error
	ListEvents(ctx context.Context, sessionID string) ([]Event, error)
}

// JournalObserver records every observer callback as an Event in Store.
// Append errors are reported to OnError, if set, and otherwise dropped:
// journaling never interrupts typing.
type JournalObserver struct {
	Store   EventStore
	OnError func(err error)
	Now     func() time.Time
}

// NewJournalObserver creates a JournalObserver writing to store.
func NewJournalObserver(store EventStore) *JournalObserver {
	return &JournalObserver{Store: store, Now: time.Now}
}

func (j *JournalObserver) append(ctx context.Context, snap Snapshot, typ EventType, detail ...any) {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	doc := ""
	for i := 0; i+1 < len(detail); i += 2 {
		key, _ := detail[i].(string)
		if next, err := sjson.Set(doc, key, detail[i+1]); err == nil {
			doc = next
		}
	}
	err := j.Store.AppendEvent(ctx, Event{
		SessionID: snap.SessionID,
		At:        now(),
		Type:      typ,
		State:     snap.State,
		Displayed: snap.Displayed,
		Detail:    doc,
	})
	if err != nil && j.OnError != nil {
		j.OnError(err)
	}
}

func (j *JournalObserver) OnOperationStart(ctx context.Context, snap Snapshot, op Operation) {
	j.append(ctx, snap, EventOperationStarted, "operation", string(op), "mode", snap.Mode.String())
}

func (j *JournalObserver) OnOperationCompleted(ctx context.Context, snap Snapshot, op Operation) {
	j.append(ctx, snap, EventOperationCompleted, "operation", string(op))
}

func (j *JournalObserver) OnOperationFailed(ctx context.Context, snap Snapshot, op Operation, err error) {
	j.append(ctx, snap, EventOperationFailed, "operation", string(op), "error", err.Error())
}

func (j *JournalObserver) OnPhaseStart(ctx context.Context, snap Snapshot, phase Phase) {
	j.append(ctx, snap, EventPhaseStarted, "phase", string(phase))
}

func (j *JournalObserver) OnGlyphRendered(ctx context.Context, snap Snapshot, glyph string) {
	j.append(ctx, snap, EventGlyphRendered, "glyph", glyph)
}

func (j *JournalObserver) OnGlyphRemoved(ctx context.Context, snap Snapshot) {
	j.append(ctx, snap, EventGlyphRemoved)
}

func (j *JournalObserver) OnCallbackFired(ctx context.Context, snap Snapshot, armed bool) {
	j.append(ctx, snap, EventCallbackFired, "armed", armed)
}
