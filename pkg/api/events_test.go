package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type sliceStore struct {
	events []Event
	err    error
}

func (s *sliceStore) AppendEvent(ctx context.Context, ev Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *sliceStore) ListEvents(ctx context.Context, sessionID string) ([]Event, error) {
	return s.events, nil
}

func TestJournalObserver_RecordsEvents(t *testing.T) {
	store := &sliceStore{}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	j := NewJournalObserver(store)
	j.Now = func() time.Time { return at }

	emitAll(context.Background(), j, testSnapshot())

	require.Len(t, store.events, 8)
	types := make([]EventType, 0, len(store.events))
	for _, ev := range store.events {
		require.Equal(t, "tw-7", ev.SessionID)
		require.Equal(t, at, ev.At)
		require.Equal(t, StateTyping, ev.State)
		require.Equal(t, 3, ev.Displayed)
		types = append(types, ev.Type)
	}
	require.Equal(t, []EventType{
		EventOperationStarted, EventPhaseStarted, EventGlyphRendered, EventPhaseStarted,
		EventGlyphRemoved, EventOperationCompleted, EventCallbackFired, EventOperationFailed,
	}, types)

	start := store.events[0].Detail
	require.Equal(t, "start", gjson.Get(start, "operation").String())
	require.Equal(t, "correction", gjson.Get(start, "mode").String())
	require.Equal(t, "a", gjson.Get(store.events[2].Detail, "glyph").String())
	require.Empty(t, store.events[4].Detail)
	require.True(t, gjson.Get(store.events[6].Detail, "armed").Bool())
	require.Equal(t, "boom", gjson.Get(store.events[7].Detail, "error").String())
}

func TestJournalObserver_ReportsAppendErrors(t *testing.T) {
	store := &sliceStore{err: errors.New("disk full")}
	j := NewJournalObserver(store)

	var got []error
	j.OnError = func(err error) { got = append(got, err) }

	j.OnGlyphRemoved(context.Background(), testSnapshot())
	require.Len(t, got, 1)
	require.EqualError(t, got[0], "disk full")

	// without OnError the failure is dropped
	j.OnError = nil
	j.OnGlyphRemoved(context.Background(), testSnapshot())
}
