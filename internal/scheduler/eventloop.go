package scheduler

import (
	"context"
	"log/slog"
	"time"

	eventloop "github.com/joeycumines/go-eventloop"
)

// EventLoop is an api.Scheduler backed by a go-eventloop Loop. All work
// runs on the loop goroutine.
type EventLoop struct {
	loop   *eventloop.Loop
	logger *slog.Logger
}

// NewEventLoop wraps a loop that the caller runs (loop.Run) elsewhere.
func NewEventLoop(loop *eventloop.Loop, logger *slog.Logger) *EventLoop {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLoop{loop: loop, logger: logger}
}

// Start creates a loop and runs it on a new goroutine until ctx is done.
// wait blocks until the loop has exited and returns its Run error.
func Start(ctx context.Context, logger *slog.Logger) (s *EventLoop, wait func() error, err error) {
	loop, err := eventloop.New()
	if err != nil {
		return nil, nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()
	return NewEventLoop(loop, logger), func() error { return <-done }, nil
}

// Loop returns the underlying loop.
func (s *EventLoop) Loop() *eventloop.Loop {
	return s.loop
}

func (s *EventLoop) Submit(fn func()) error {
	return s.loop.Submit(fn)
}

// AfterFunc arms a loop timer for fn. Timers belong to the loop, so they
// are discarded when it stops. A non-positive d submits immediately.
func (s *EventLoop) AfterFunc(d time.Duration, fn func()) error {
	if d <= 0 {
		return s.loop.Submit(fn)
	}
	if _, err := s.loop.ScheduleTimer(d, fn); err != nil {
		s.logger.Warn("scheduler_timer_rejected",
			slog.Duration("delay", d),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
