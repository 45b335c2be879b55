package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/petrijr/typewriter/pkg/api"
)

// Config describes how to construct a session.
// Only used inside this package and by the root package helpers.
type Config struct {
	// ID names the session in logs and journals. Generated when empty.
	ID        string
	Scheduler api.Scheduler
	Observer  api.Observer
	Logger    *slog.Logger
	// Context is passed to observer calls.
	Context context.Context
}

var sessionCounter atomic.Int64

func nextSessionID() string {
	return fmt.Sprintf("tw-%d", sessionCounter.Add(1))
}

// session implements api.Session.
//
// Fields under mu may be read from any goroutine. The sequencer, the
// cursor and everything they own are only touched on the scheduler
// goroutine. User callbacks and renderer calls never run with mu held.
type session struct {
	id       string
	host     api.Host
	renderer api.Renderer
	sched    api.Scheduler
	observer api.Observer
	logger   *slog.Logger
	ctx      context.Context

	mu        sync.Mutex
	requested api.Options
	supplied  api.Content
	cfg       api.Config
	content   api.Content
	armed     *arming
	state     api.State

	cursorOnce sync.Once
	cur        *cursor

	seq *sequencer
}

var _ api.Session = (*session)(nil)

// NewSession binds a session to host. The configuration is resolved and
// the cursor created immediately; nothing is typed until Start.
func NewSession(host api.Host, r api.Renderer, content api.Content, opts api.Options, cfg Config) (api.Session, error) {
	if host == nil {
		return nil, api.ErrNilHost
	}
	if r == nil {
		return nil, api.ErrNilRenderer
	}
	if cfg.Scheduler == nil {
		return nil, api.ErrNilScheduler
	}

	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	id := cfg.ID
	if id == "" {
		id = nextSessionID()
	}

	s := &session{
		id:        id,
		host:      host,
		renderer:  r,
		sched:     cfg.Scheduler,
		observer:  obs,
		logger:    logger,
		ctx:       ctx,
		requested: opts,
		supplied:  content,
		state:     api.StateIdle,
	}
	s.seq = &sequencer{s: s}
	s.resolve()
	return s, nil
}

func (s *session) ID() string { return s.id }

func (s *session) SetOptions(opts api.Options) api.Session {
	s.mu.Lock()
	s.requested = opts
	s.mu.Unlock()
	s.resolve()
	return s
}

func (s *session) SetContent(c api.Content) api.Session {
	s.mu.Lock()
	s.supplied = c
	s.mu.Unlock()
	s.resolve()
	return s
}

func (s *session) SetCallback(fn api.Callback) api.Session {
	s.arm(fn)
	return s
}

func (s *session) Start(fn api.Callback) api.Session {
	s.submit(request{op: api.OperationStart, fn: fn, arm: true, delayed: true})
	return s
}

func (s *session) StartNoDelay(fn api.Callback) api.Session {
	s.submit(request{op: api.OperationStart, fn: fn, arm: true})
	return s
}

func (s *session) Erase(fn api.Callback) api.Session {
	s.submit(request{op: api.OperationErase, fn: fn})
	return s
}

func (s *session) Backspace(fn api.Callback) api.Session {
	s.submit(request{op: api.OperationBackspace, fn: fn, instant: true})
	return s
}

func (s *session) Config() api.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *session) Content() api.Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

func (s *session) State() api.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) Displayed() int {
	return s.host.Len()
}

// resolve recomputes the effective configuration from the last options
// and content supplied. The first resolution creates the cursor.
func (s *session) resolve() {
	s.mu.Lock()
	s.cfg, s.content = api.Resolve(s.requested, s.supplied)
	markers := s.cfg.Cursor
	s.mu.Unlock()

	s.cursorOnce.Do(func() {
		s.cur = &cursor{
			renderer: s.renderer,
			handle:   s.renderer.CreateCursor(s.host, markers),
		}
	})
}

func (s *session) resolved() (api.Config, api.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.content
}

func (s *session) setState(st api.State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *session) snapshot() api.Snapshot {
	s.mu.Lock()
	snap := api.Snapshot{
		SessionID: s.id,
		Mode:      s.cfg.Mode,
		State:     s.state,
	}
	s.mu.Unlock()
	snap.Displayed = s.host.Len()
	return snap
}

func (s *session) submit(r request) {
	if err := s.sched.Submit(func() { s.seq.enqueue(r) }); err != nil {
		s.logger.Error("operation_rejected",
			slog.String("session_id", s.id),
			slog.String("operation", string(r.op)),
			slog.Any("error", err),
		)
	}
}
