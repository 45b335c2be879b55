package engine

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/petrijr/typewriter/internal/scheduler"
	"github.com/petrijr/typewriter/internal/testutil"
	"github.com/petrijr/typewriter/pkg/api"
)

type fixture struct {
	sched   *scheduler.Manual
	host    *testutil.Host
	metrics *api.BasicMetrics
	events  *recordingObserver
	logs    *bytes.Buffer
	sess    api.Session
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	host     *testutil.Host
	renderer api.Renderer
}

func withHost(h *testutil.Host) fixtureOption {
	return func(c *fixtureConfig) { c.host = h }
}

func withRenderer(r api.Renderer) fixtureOption {
	return func(c *fixtureConfig) { c.renderer = r }
}

func newFixture(t *testing.T, content api.Content, opts api.Options, fopts ...fixtureOption) *fixture {
	t.Helper()

	fc := fixtureConfig{}
	for _, o := range fopts {
		o(&fc)
	}
	if fc.host == nil {
		fc.host = testutil.NewHost()
	}
	if fc.renderer == nil {
		fc.renderer = fc.host
	}

	f := &fixture{
		sched:   scheduler.NewManual(),
		host:    fc.host,
		metrics: &api.BasicMetrics{},
		logs:    &bytes.Buffer{},
	}
	f.events = &recordingObserver{host: f.host}

	logger := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sess, err := NewSession(f.host, fc.renderer, content, opts, Config{
		ID:        "test",
		Scheduler: f.sched,
		Observer:  api.NewCompositeObserver(f.metrics, f.events),
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	f.sess = sess
	return f
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder collects callback invocations in order.
type recorder struct {
	mu    sync.Mutex
	calls []string
	texts []string
	host  *testutil.Host
}

func (r *recorder) cb(name string) api.Callback {
	return func(api.Session) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, name)
		if r.host != nil {
			r.texts = append(r.texts, r.host.Text())
		}
	}
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// recordingObserver captures the displayed text whenever a phase starts.
type recordingObserver struct {
	api.NoopObserver

	mu     sync.Mutex
	host   *testutil.Host
	phases []phaseEvent
	fired  []bool
}

type phaseEvent struct {
	Phase api.Phase
	State api.State
	Text  string
}

func (o *recordingObserver) OnPhaseStart(_ context.Context, snap api.Snapshot, phase api.Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phases = append(o.phases, phaseEvent{Phase: phase, State: snap.State, Text: o.host.Text()})
}

func (o *recordingObserver) OnCallbackFired(_ context.Context, _ api.Snapshot, armed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fired = append(o.fired, armed)
}

func (o *recordingObserver) Phases(p api.Phase) []phaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []phaseEvent
	for _, e := range o.phases {
		if e.Phase == p {
			out = append(out, e)
		}
	}
	return out
}
