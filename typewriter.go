package typewriter

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/petrijr/typewriter/internal/engine"
	"github.com/petrijr/typewriter/internal/persistence"
	"github.com/petrijr/typewriter/internal/scheduler"
	"github.com/petrijr/typewriter/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Session              = api.Session
	Callback             = api.Callback
	Host                 = api.Host
	Renderer             = api.Renderer
	Handle               = api.Handle
	Scheduler            = api.Scheduler
	Content              = api.Content
	Item                 = api.Item
	Options              = api.Options
	Config               = api.Config
	Mode                 = api.Mode
	State                = api.State
	GlyphMarkers         = api.GlyphMarkers
	CursorMarkers        = api.CursorMarkers
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
	JournalObserver      = api.JournalObserver
	Event                = api.Event
	EventStore           = api.EventStore

	// ManualScheduler runs session work on the caller's goroutine
	// against a virtual clock.
	ManualScheduler = scheduler.Manual

	// EventLoopScheduler runs session work on a go-eventloop Loop.
	EventLoopScheduler = scheduler.EventLoop
)

// Re-export content, option and observer helpers.

var (
	String   = api.String
	List     = api.List
	Strings  = api.Strings
	Text     = api.Text
	Pair     = api.Pair
	Tuple    = api.Tuple
	Resolve  = api.Resolve
	Defaults = api.DefaultConfig

	ParseOptions = api.ParseOptions
	ParseContent = api.ParseContent

	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	NewJournalObserver   = api.NewJournalObserver

	ErrNilHost      = api.ErrNilHost
	ErrNilRenderer  = api.ErrNilRenderer
	ErrNilScheduler = api.ErrNilScheduler
)

// Re-export mode and state values for convenience.

const (
	ModeSingle     = api.ModeSingle
	ModeCorrection = api.ModeCorrection
	ModeArray      = api.ModeArray

	StateIdle          = api.StateIdle
	StateTyping        = api.StateTyping
	StateBackspacing   = api.StateBackspacing
	StateErasing       = api.StateErasing
	StateAdvancingItem = api.StateAdvancingItem
)

// Ptr returns a pointer to v, for optional Options fields.
func Ptr[T any](v T) *T { return api.Ptr(v) }

// Session constructors
// These wrap the internal/engine package so external callers
// never need to import internal packages.

// New binds a session to host, drawing through r. Configuration is
// resolved immediately and the cursor is created; nothing is typed until
// Start. A scheduler is required, see WithScheduler and LocalRunner.
func New(host Host, r Renderer, content Content, opts Options, sopts ...SessionOption) (Session, error) {
	var cfg engine.Config
	for _, o := range sopts {
		o(&cfg)
	}
	return engine.NewSession(host, r, content, opts, cfg)
}

// NewManualScheduler returns a deterministic scheduler whose clock only
// moves when its owner calls Advance or RunUntilIdle.
func NewManualScheduler() *ManualScheduler {
	return scheduler.NewManual()
}

// StartEventLoop starts a go-eventloop Loop on its own goroutine and returns
// a scheduler for it. The loop stops when ctx is done; wait blocks until it
// has exited.
func StartEventLoop(ctx context.Context, logger *slog.Logger) (*EventLoopScheduler, func() error, error) {
	return scheduler.Start(ctx, logger)
}

// Journal constructors

// NewInMemoryJournal returns a non-durable event journal.
func NewInMemoryJournal() EventStore {
	return persistence.NewInMemoryEventStore()
}

// NewSQLiteJournal returns an event journal stored in db. The
// session_events table is created if needed.
func NewSQLiteJournal(db *sql.DB) (EventStore, error) {
	return persistence.NewSQLiteEventStore(db)
}
