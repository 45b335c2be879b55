package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventLoop_SubmitAndAfterFunc(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, wait, err := Start(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		_ = wait()
	})

	got := make(chan string, 3)
	require.NoError(t, s.Submit(func() { got <- "submit" }))
	require.NoError(t, s.AfterFunc(10*time.Millisecond, func() { got <- "timer" }))
	require.NoError(t, s.AfterFunc(0, func() { got <- "zero" }))

	var order []string
	for i := 0; i < 3; i++ {
		select {
		case v := <-got:
			order = append(order, v)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out after %v", order)
		}
	}
	require.Equal(t, []string{"submit", "zero", "timer"}, order)
}

func TestEventLoop_TimersDoNotOutliveTheLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, wait, err := Start(ctx, nil)
	require.NoError(t, err)

	fired := make(chan struct{}, 1)
	require.NoError(t, s.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} }))

	cancel()
	_ = wait()

	select {
	case <-fired:
		t.Fatal("timer fired after the loop stopped")
	case <-time.After(150 * time.Millisecond):
	}

	require.Error(t, s.AfterFunc(time.Millisecond, func() {}), "a stopped loop rejects timers")
	require.Error(t, s.Submit(func() {}))
}
