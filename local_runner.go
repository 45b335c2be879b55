package typewriter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrRunnerNotStarted is returned by LocalRunner methods that need a
// running event loop.
var ErrRunnerNotStarted = errors.New("typewriter: LocalRunner not started")

// LocalRunner bundles a go-eventloop scheduler, an in-memory journal and
// basic metrics to provide a simple way to run sessions in one process.
//
// Typical usage:
//
//	runner := typewriter.NewLocalRunner()
//	_ = runner.Start(ctx)
//	defer runner.Stop()
//
//	sess, _ := runner.NewSession(host, renderer, typewriter.String("Hello"), typewriter.Options{})
//	_ = runner.Play(ctx, sess)
type LocalRunner struct {
	// Journal records every session created through this runner.
	Journal EventStore

	// Metrics counts operations across all sessions of this runner.
	Metrics *BasicMetrics

	// Logger is used by the loop scheduler, the sessions and the logging
	// observer.
	Logger *slog.Logger

	mu      sync.Mutex
	sched   *EventLoopScheduler
	cancel  context.CancelFunc
	wait    func() error
	running bool
}

// NewLocalRunner constructs a LocalRunner with an in-memory journal.
// Replace Journal before Start to persist elsewhere, e.g. NewSQLiteJournal.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{
		Journal: NewInMemoryJournal(),
		Metrics: &BasicMetrics{},
		Logger:  slog.Default(),
	}
}

// Start runs the event loop on a background goroutine until Stop is
// called or ctx is done.
//
// If Start is called more than once without Stop, it returns an error.
func (r *LocalRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return errors.New("typewriter: LocalRunner already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	sched, wait, err := StartEventLoop(ctx, r.Logger)
	if err != nil {
		cancel()
		return err
	}
	r.sched = sched
	r.cancel = cancel
	r.wait = wait
	r.running = true
	return nil
}

// Stop shuts the event loop down and waits for it to exit. Pending timers
// and callbacks are dropped.
func (r *LocalRunner) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	cancel, wait := r.cancel, r.wait
	r.running = false
	r.cancel = nil
	r.wait = nil
	r.sched = nil
	r.mu.Unlock()

	cancel()
	err := wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Scheduler returns the loop scheduler, or nil when not started.
func (r *LocalRunner) Scheduler() Scheduler {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sched == nil {
		return nil
	}
	return r.sched
}

// NewSession creates a session on the runner's loop, observed by the
// runner's metrics, journal and logger. Later sopts override the runner's
// defaults.
func (r *LocalRunner) NewSession(host Host, rd Renderer, content Content, opts Options, sopts ...SessionOption) (Session, error) {
	sched := r.Scheduler()
	if sched == nil {
		return nil, ErrRunnerNotStarted
	}

	obs := NewCompositeObserver(
		NewLoggingObserver(r.Logger),
		r.Metrics,
		r.journalObserver(),
	)
	base := []SessionOption{
		WithScheduler(sched),
		WithObserver(obs),
		WithLogger(r.Logger),
	}
	return New(host, rd, content, opts, append(base, sopts...)...)
}

func (r *LocalRunner) journalObserver() Observer {
	if r.Journal == nil {
		return nil
	}
	j := NewJournalObserver(r.Journal)
	j.OnError = func(err error) {
		r.Logger.Warn("journal_append_failed", slog.Any("error", err))
	}
	return j
}

// Play starts sess and blocks until its completion callback has fired or
// ctx is done. It arms its own callback, replacing any armed one.
func (r *LocalRunner) Play(ctx context.Context, sess Session) error {
	if r.Scheduler() == nil {
		return ErrRunnerNotStarted
	}

	done := make(chan struct{})
	var once sync.Once
	sess.Start(func(Session) {
		once.Do(func() { close(done) })
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
