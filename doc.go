// Package typewriter animates text into a host container one glyph at a
// time, the way a person types.
//
// A session types a single string, corrects a typo in place, or cycles
// through a list of strings. The engine never draws anything itself: a
// Renderer attaches and detaches glyphs and toggles marker tokens, and the
// Host reports how many glyphs it currently shows.
//
// # Modes
//
//	ModeSingle      type one string
//	ModeCorrection  type "Helo", backspace to the first difference, type "lo"
//	ModeArray       type each item in turn, erasing between items
//
// In array mode an item can itself be a correction pair.
//
// # Scheduling
//
// Every state transition, completion signal and user callback runs on a
// single goroutine behind a Scheduler. StartEventLoop runs sessions on a
// go-eventloop Loop in real time; NewManualScheduler drives them against a
// virtual clock, which is what tests and frame-driven hosts use.
// LocalRunner wires an event loop, metrics and a journal together.
//
// # Callbacks
//
// A session has one armed callback slot (SetCallback, Start). It fires once
// at the end of an operation and is then cleared, unless the callback
// re-armed the slot while it ran. Erase and Backspace accept a one-off
// callback that bypasses the slot. Operations requested while another is in
// flight are queued and run in order.
//
// # Observability
//
// Observer receives operation, phase, glyph and callback events.
// NewLoggingObserver logs them with log/slog, BasicMetrics counts them, and
// NewJournalObserver appends them to an EventStore such as
// NewSQLiteJournal.
package typewriter
