package api

import "errors"

var (
	// ErrNilHost is returned when a session is constructed without a host.
	ErrNilHost = errors.New("typewriter: host is nil")

	// ErrNilRenderer is returned when a session is constructed without a renderer.
	ErrNilRenderer = errors.New("typewriter: renderer is nil")

	// ErrNilScheduler is returned when a session is constructed without a scheduler.
	ErrNilScheduler = errors.New("typewriter: scheduler is nil")
)

// Callback is a user completion callback. It receives the session that
// completed and runs on the scheduler goroutine, so it may chain further
// operations on the session.
type Callback func(s Session)

// Session is the externally facing handle for one host container.
//
// All mutating methods return the session for chaining. None of them fail
// on malformed input; a nil Callback argument means "not supplied".
//
// Operations requested while another operation is in flight are queued and
// begin once the current operation's completion has fired.
type Session interface {
	// ID returns the session identifier used in logs and journals.
	ID() string

	// SetOptions replaces the configuration and re-resolves it against
	// the current content. The mode may change.
	SetOptions(opts Options) Session

	// SetContent replaces the content and re-resolves the configuration
	// against the last options supplied.
	SetContent(c Content) Session

	// SetCallback arms a one-shot callback. A nil fn leaves the currently
	// armed callback unchanged.
	SetCallback(fn Callback) Session

	// Start arms fn (when non-nil) as the operation begins, waits the start
	// delay and then types the content according to the mode. A Start
	// queued behind another operation does not disturb that operation's
	// armed callback.
	Start(fn Callback) Session

	// StartNoDelay is Start without the start delay.
	StartNoDelay(fn Callback) Session

	// Erase backspaces until nothing is displayed, then fires fn, or the
	// armed callback when fn is nil.
	Erase(fn Callback) Session

	// Backspace removes the trailing glyph, then fires fn, or the armed
	// callback when fn is nil, without delay.
	Backspace(fn Callback) Session

	// Config returns the resolved configuration.
	Config() Config

	// Content returns the effective (possibly narrowed) content.
	Content() Content

	// State returns the current engine state.
	State() State

	// Displayed returns the displayed glyph count, read from the host.
	Displayed() int
}

// Snapshot is a point-in-time view of a session passed to observers.
type Snapshot struct {
	SessionID string
	Mode      Mode
	State     State
	Displayed int
}
