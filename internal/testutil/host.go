// Package testutil provides an in-memory host container and renderer for
// exercising sessions without a real presentation layer.
package testutil

import (
	"strings"
	"sync"

	"github.com/petrijr/typewriter/pkg/api"
)

// Op kinds recorded by Host.
const (
	OpRender = "render"
	OpRemove = "remove"
	OpCursor = "cursor"
	OpToggle = "toggle"
)

// Op is one renderer call, in the order it was made.
type Op struct {
	Kind    string
	Glyph   string
	Marker  string
	Present bool
}

// Unit is a rendered glyph or the cursor.
type Unit struct {
	Glyph   string
	Markers map[string]bool
	cursor  bool
}

// Host is both the api.Host and the api.Renderer. Its child list mirrors
// a DOM container: glyph units followed by one trailing cursor.
//
// In auto mode every done callback is invoked synchronously. In manual mode
// completions are held until Complete is called, which is how tests
// interleave completion signals with other work.
type Host struct {
	mu sync.Mutex

	manual     bool
	units      []*Unit
	cursor     *Unit
	cursors    int
	ops        []Op
	held       []func()
	mismatches int
}

var (
	_ api.Host     = (*Host)(nil)
	_ api.Renderer = (*Host)(nil)
)

// NewHost returns a Host that completes every transition immediately.
func NewHost() *Host {
	return &Host{}
}

// NewManualHost returns a Host that holds completions until Complete.
func NewManualHost() *Host {
	return &Host{manual: true}
}

// Len returns the number of glyph units, excluding the cursor.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.units)
}

// Text returns the displayed glyph values joined together.
func (h *Host) Text() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var sb strings.Builder
	for _, u := range h.units {
		sb.WriteString(u.Glyph)
	}
	return sb.String()
}

// Seed places glyphs in the host that no session rendered.
func (h *Host) Seed(glyphs ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, g := range glyphs {
		h.units = append(h.units, &Unit{Glyph: g, Markers: map[string]bool{}})
	}
}

func (h *Host) RenderGlyph(_ api.Host, glyph string, m api.GlyphMarkers, done func()) api.Handle {
	h.mu.Lock()
	u := &Unit{Glyph: glyph, Markers: map[string]bool{m.Marker: true}}
	h.units = append(h.units, u)
	h.ops = append(h.ops, Op{Kind: OpRender, Glyph: glyph, Marker: m.Marker})
	h.mu.Unlock()

	h.finish(done)
	return u
}

func (h *Host) RemoveGlyph(_ api.Host, hd api.Handle, m api.GlyphMarkers, done func()) {
	h.mu.Lock()
	if len(h.units) == 0 {
		h.ops = append(h.ops, Op{Kind: OpRemove, Marker: m.RemovalMarker})
		h.mu.Unlock()
		h.finish(done)
		return
	}
	last := h.units[len(h.units)-1]
	if hd != nil && hd != api.Handle(last) {
		h.mismatches++
	}
	last.Markers[m.RemovalMarker] = true
	h.ops = append(h.ops, Op{Kind: OpRemove, Glyph: last.Glyph, Marker: m.RemovalMarker})
	h.mu.Unlock()

	h.finish(func() {
		h.mu.Lock()
		for i := len(h.units) - 1; i >= 0; i-- {
			if h.units[i] == last {
				h.units = append(h.units[:i], h.units[i+1:]...)
				break
			}
		}
		h.mu.Unlock()
		done()
	})
}

func (h *Host) CreateCursor(_ api.Host, m api.CursorMarkers) api.Handle {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cursors++
	h.cursor = &Unit{Markers: map[string]bool{m.Marker: true}, cursor: true}
	h.ops = append(h.ops, Op{Kind: OpCursor, Marker: m.Marker})
	return h.cursor
}

func (h *Host) ToggleMarker(hd api.Handle, marker string, present bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	u, ok := hd.(*Unit)
	if !ok || u == nil {
		return
	}
	if present {
		u.Markers[marker] = true
	} else {
		delete(u.Markers, marker)
	}
	h.ops = append(h.ops, Op{Kind: OpToggle, Marker: marker, Present: present})
}

func (h *Host) finish(fn func()) {
	if !h.manual {
		fn()
		return
	}
	h.mu.Lock()
	h.held = append(h.held, fn)
	h.mu.Unlock()
}

// Complete delivers the oldest held completion. It reports false when
// nothing is held.
func (h *Host) Complete() bool {
	h.mu.Lock()
	if len(h.held) == 0 {
		h.mu.Unlock()
		return false
	}
	fn := h.held[0]
	h.held = h.held[1:]
	h.mu.Unlock()

	fn()
	return true
}

// Held returns the number of completions waiting for Complete.
func (h *Host) Held() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.held)
}

// Ops returns a copy of every renderer call made so far.
func (h *Host) Ops() []Op {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Op, len(h.ops))
	copy(out, h.ops)
	return out
}

// Count returns how many ops of the given kind were recorded.
func (h *Host) Count(kind string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, op := range h.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Cursors returns how many times CreateCursor was called.
func (h *Host) Cursors() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursors
}

// CursorHas reports whether the cursor currently carries marker.
func (h *Host) CursorHas(marker string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor != nil && h.cursor.Markers[marker]
}

// Mismatches counts removals whose handle was not the trailing glyph.
func (h *Host) Mismatches() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mismatches
}
