package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/typewriter/internal/testutil"
	"github.com/petrijr/typewriter/pkg/api"
)

func TestCallback_ArmedFiresExactlyOnce(t *testing.T) {
	f := newFixture(t, api.String("Hi"), api.Options{})
	rec := &recorder{}

	f.sess.StartNoDelay(rec.cb("a"))
	f.sched.RunUntilIdle()
	require.Equal(t, []string{"a"}, rec.Calls())

	// the slot was cleared; a second run fires nothing
	f.sess.Erase(nil)
	f.sess.StartNoDelay(nil)
	f.sched.RunUntilIdle()
	require.Equal(t, []string{"a"}, rec.Calls())
	require.Equal(t, []bool{true}, f.events.fired)
}

func TestCallback_SetCallbackNilKeepsArmed(t *testing.T) {
	f := newFixture(t, api.String("Hi"), api.Options{})
	rec := &recorder{}

	f.sess.SetCallback(rec.cb("a"))
	f.sess.SetCallback(nil)
	f.sess.StartNoDelay(nil)
	f.sched.RunUntilIdle()

	require.Equal(t, []string{"a"}, rec.Calls())
}

func TestCallback_SetCallbackReplacesArmed(t *testing.T) {
	f := newFixture(t, api.String("Hi"), api.Options{})
	rec := &recorder{}

	f.sess.SetCallback(rec.cb("a"))
	f.sess.SetCallback(rec.cb("b"))
	f.sess.StartNoDelay(nil)
	f.sched.RunUntilIdle()

	require.Equal(t, []string{"b"}, rec.Calls())
}

func TestCallback_OneOffLeavesArmedUntouched(t *testing.T) {
	f := newFixture(t, api.String("Hi"), api.Options{})
	rec := &recorder{}

	f.sess.SetCallback(rec.cb("armed"))
	f.sess.Backspace(rec.cb("one-off"))
	f.sched.RunUntilIdle()
	require.Equal(t, []string{"one-off"}, rec.Calls())

	f.sess.StartNoDelay(nil)
	f.sched.RunUntilIdle()
	require.Equal(t, []string{"one-off", "armed"}, rec.Calls())
	require.Equal(t, []bool{false, true}, f.events.fired)
}

func TestCallback_EraseFallsBackToArmed(t *testing.T) {
	f := newFixture(t, api.String("Hi"), api.Options{})
	rec := &recorder{}

	f.sess.SetCallback(rec.cb("armed"))
	f.sess.Erase(nil)
	f.sched.RunUntilIdle()

	require.Equal(t, []string{"armed"}, rec.Calls())
}

func TestCallback_RearmingInsideCallbackSurvives(t *testing.T) {
	f := newFixture(t, api.String("Hi"), api.Options{})
	rec := &recorder{}

	var rearm api.Callback
	rearm = func(s api.Session) {
		rec.cb("first")(s)
		s.SetCallback(rec.cb("second"))
	}
	f.sess.StartNoDelay(rearm)
	f.sched.RunUntilIdle()
	require.Equal(t, []string{"first"}, rec.Calls())

	f.sess.Erase(nil)
	f.sched.RunUntilIdle()
	require.Equal(t, []string{"first", "second"}, rec.Calls())
}

func TestCallback_SameFunctionRearmedIsNotCleared(t *testing.T) {
	f := newFixture(t, api.String("ab"), api.Options{})

	count := 0
	var self api.Callback
	self = func(s api.Session) {
		count++
		if count < 3 {
			s.SetCallback(self)
			s.Backspace(nil)
		}
	}
	f.sess.StartNoDelay(self)
	f.sched.RunUntilIdle()

	require.Equal(t, 3, count)
	require.Zero(t, f.host.Len())
}

func TestCallback_ChainsOperations(t *testing.T) {
	f := newFixture(t, api.String("Hi"), api.Options{})
	rec := &recorder{host: f.host}

	f.sess.StartNoDelay(func(s api.Session) {
		rec.cb("typed")(s)
		s.Erase(func(s api.Session) {
			rec.cb("erased")(s)
			s.SetContent(api.String("Yo")).StartNoDelay(rec.cb("retyped"))
		})
	})
	f.sched.RunUntilIdle()

	require.Equal(t, []string{"typed", "erased", "retyped"}, rec.Calls())
	require.Equal(t, []string{"Hi", "", "Yo"}, rec.texts)
}

func TestCallback_PanicIsRecoveredAndCounted(t *testing.T) {
	f := newFixture(t, api.String("Hi"), api.Options{})
	rec := &recorder{}

	f.sess.StartNoDelay(func(api.Session) { panic("boom") })
	f.sess.Erase(rec.cb("after"))
	f.sched.RunUntilIdle()

	require.Equal(t, []string{"after"}, rec.Calls())
	require.Zero(t, f.host.Len())
	assert.Equal(t, int64(2), f.metrics.Snapshot().CallbacksFired)
	assert.True(t, strings.Contains(f.logs.String(), "callback_panic"))
}

func TestCallback_NothingArmedStillCompletes(t *testing.T) {
	f := newFixture(t, api.String("Hi"), api.Options{})

	f.sess.StartNoDelay(nil)
	f.sched.RunUntilIdle()

	m := f.metrics.Snapshot()
	assert.Equal(t, int64(1), m.OperationsCompleted)
	assert.Zero(t, m.CallbacksFired)
	assert.Equal(t, 2, f.host.Count(testutil.OpRender))
}
