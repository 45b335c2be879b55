package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/petrijr/typewriter/pkg/api"
)

// arming is one occupation of the armed-callback slot. Callbacks are
// compared by arming rather than by function value, so re-arming the same
// function inside its own invocation still counts as a new arming.
type arming struct {
	fn api.Callback
}

// arm places fn in the armed slot. A nil fn leaves the slot unchanged.
func (s *session) arm(fn api.Callback) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.armed = &arming{fn: fn}
	s.mu.Unlock()
}

// complete schedules the terminal callback of an operation after delay and
// then calls after on the scheduler goroutine.
//
// An explicit callback wins and leaves the armed slot untouched. Otherwise
// the armed callback fires and the slot is cleared, unless it was re-armed
// while the callback ran. With neither, the timer still runs so that the
// completion is observable and queued operations are released in order.
func (s *session) complete(explicit api.Callback, delay time.Duration, after func()) error {
	fn := explicit
	var slot *arming

	s.mu.Lock()
	if fn == nil && s.armed != nil {
		slot = s.armed
		fn = slot.fn
	}
	s.mu.Unlock()

	return s.sched.AfterFunc(delay, func() {
		if fn != nil {
			s.invoke(fn)
			if slot != nil {
				s.mu.Lock()
				if s.armed == slot {
					s.armed = nil
				}
				s.mu.Unlock()
			}
			s.observer.OnCallbackFired(s.ctx, s.snapshot(), slot != nil)
		}
		after()
	})
}

// invoke runs a user callback. A panic counts as the callback having fired.
func (s *session) invoke(fn api.Callback) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("callback_panic",
				slog.String("session_id", s.id),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	fn(s)
}
