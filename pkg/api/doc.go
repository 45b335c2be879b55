// Package api contains the core building blocks used by the typewriter
// sequencing engine: content and configuration types, the presentation
// layer boundary, and observability hooks.
//
// Most users interact with the higher-level typewriter package, which
// re-exports selected types and helpers from this package. The api package
// is intended for custom renderers, schedulers and observers.
//
// # Content
//
// Content is a single string or an ordered list of items. An item is a
// plain string or a tuple; a tuple of exactly two strings is a correction
// pair ("type the first, then edit it into the second").
//
// # Configuration
//
// Options is a partial, user-supplied configuration. Resolve turns it into
// a complete Config against a given Content and never fails: invalid
// values fall back to documented defaults, and modes that cannot represent
// the content are downgraded to ModeSingle. ParseOptions and ParseContent
// accept the same values as loosely-typed JSON.
//
// # Presentation Boundary
//
// The engine never paints anything itself. A Renderer renders and removes
// one glyph at a time and reports completion through a done callback; a
// Host reports how many glyphs are displayed. A Scheduler runs all engine
// work on a single goroutine.
//
// # Observability
//
// Observer receives operation, phase, glyph and callback events.
// LoggingObserver (log/slog), BasicMetrics and JournalObserver (an
// EventStore-backed journal) can be combined with NewCompositeObserver.
package api
