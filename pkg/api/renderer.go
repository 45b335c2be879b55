package api

import "time"

// Handle is an opaque reference to a visual unit (a glyph or the cursor)
// issued by a Renderer.
type Handle any

// Host is the externally owned container glyphs are rendered into.
type Host interface {
	// Len reports how many glyphs are currently displayed, excluding the
	// cursor. It is the authoritative displayed length.
	Len() int
}

// Renderer is the presentation layer. The engine issues at most one
// RenderGlyph/RemoveGlyph request per session at a time and waits for its
// done signal before issuing the next.
//
// done must be called exactly once per request and may be called from any
// goroutine, or synchronously from within the request. For RenderGlyph it
// is called once the glyph is attached and any enter transition has
// finished; for RemoveGlyph once the exit transition has finished and the
// glyph has been detached, so that Host.Len already reflects the removal.
type Renderer interface {
	// RenderGlyph inserts a glyph immediately before the cursor.
	RenderGlyph(host Host, glyph string, m GlyphMarkers, done func()) Handle

	// RemoveGlyph marks the trailing-most glyph for removal. h is the
	// handle the engine believes is trailing-most; it is nil when the
	// engine did not issue the glyph itself.
	RemoveGlyph(host Host, h Handle, m GlyphMarkers, done func())

	// CreateCursor creates the trailing cursor. It is called once per
	// session.
	CreateCursor(host Host, m CursorMarkers) Handle

	// ToggleMarker adds or removes a marker token on a unit. It must be
	// idempotent.
	ToggleMarker(h Handle, marker string, present bool)
}

// Scheduler runs engine work on a single goroutine. Every engine state
// transition, completion signal and user callback runs through it.
type Scheduler interface {
	// Submit queues fn to run on the scheduler goroutine.
	Submit(fn func()) error

	// AfterFunc queues fn to run on the scheduler goroutine once d has
	// elapsed.
	AfterFunc(d time.Duration, fn func()) error
}
