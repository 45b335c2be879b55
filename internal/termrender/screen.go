// Package termrender draws sessions on a terminal through tcell.
package termrender

import (
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/petrijr/typewriter/pkg/api"
)

// Config controls placement, colors and transition timing.
type Config struct {
	// Origin is where the first glyph is drawn.
	Origin Point

	// Enter and Exit are the glyph fade-in and fade-out durations. Zero
	// completes transitions immediately.
	Enter time.Duration
	Exit  time.Duration

	// Frames is the number of redraws per transition. Defaults to 4.
	Frames int

	// Foreground and Background are hex colors such as "#e0e0e0".
	Foreground string
	Background string
}

const (
	defaultForeground = "#e0e0e0"
	defaultBackground = "#000000"
	defaultFrames     = 4
)

type unit struct {
	glyph   string
	width   int
	markers map[string]bool
	level   float64
}

type cursorUnit struct {
	markers map[string]bool
	noBlink string
}

// Screen is an api.Host and api.Renderer drawing one line of glyphs on a
// tcell.Screen, followed by the terminal cursor.
type Screen struct {
	mu     sync.Mutex
	screen tcell.Screen
	cfg    Config
	fg, bg colorful.Color

	units  []*unit
	cursor *cursorUnit
	// cells covered by the previous draw, cleared on the next one
	drawn []Point

	afterFunc func(d time.Duration, fn func())
}

var (
	_ api.Host     = (*Screen)(nil)
	_ api.Renderer = (*Screen)(nil)
)

// New wraps an initialized tcell screen.
func New(screen tcell.Screen, cfg Config) *Screen {
	if cfg.Frames <= 0 {
		cfg.Frames = defaultFrames
	}
	fg, err := colorful.Hex(cfg.Foreground)
	if err != nil {
		fg, _ = colorful.Hex(defaultForeground)
	}
	bg, err := colorful.Hex(cfg.Background)
	if err != nil {
		bg, _ = colorful.Hex(defaultBackground)
	}
	return &Screen{
		screen: screen,
		cfg:    cfg,
		fg:     fg,
		bg:     bg,
		afterFunc: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

// Tcell returns the underlying screen, e.g. for PollEvent.
func (s *Screen) Tcell() tcell.Screen {
	return s.screen
}

// Len counts attached glyphs, including ones still fading out.
func (s *Screen) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.units)
}

// Text returns the attached glyphs joined together.
func (s *Screen) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	for _, u := range s.units {
		sb.WriteString(u.glyph)
	}
	return sb.String()
}

func (s *Screen) RenderGlyph(_ api.Host, glyph string, m api.GlyphMarkers, done func()) api.Handle {
	u := &unit{
		glyph:   glyph,
		width:   Width(glyph),
		markers: map[string]bool{m.Marker: true},
	}
	s.mu.Lock()
	s.units = append(s.units, u)
	s.mu.Unlock()

	s.transition(u, s.cfg.Enter, 0, 1, nil, done)
	return u
}

func (s *Screen) RemoveGlyph(_ api.Host, h api.Handle, m api.GlyphMarkers, done func()) {
	s.mu.Lock()
	if len(s.units) == 0 {
		s.mu.Unlock()
		done()
		return
	}
	// always the trailing-most glyph, whatever h says
	u := s.units[len(s.units)-1]
	u.markers[m.RemovalMarker] = true
	s.mu.Unlock()

	s.transition(u, s.cfg.Exit, 1, 0, func() { s.detach(u) }, done)
}

func (s *Screen) CreateCursor(_ api.Host, m api.CursorMarkers) api.Handle {
	s.mu.Lock()
	s.cursor = &cursorUnit{
		markers: map[string]bool{m.Marker: true},
		noBlink: m.NoBlinkMarker,
	}
	c := s.cursor
	s.mu.Unlock()

	s.draw()
	return c
}

func (s *Screen) ToggleMarker(h api.Handle, marker string, present bool) {
	s.mu.Lock()
	switch u := h.(type) {
	case *cursorUnit:
		setMarker(u.markers, marker, present)
	case *unit:
		setMarker(u.markers, marker, present)
	}
	s.mu.Unlock()

	s.draw()
}

func setMarker(markers map[string]bool, marker string, present bool) {
	if present {
		markers[marker] = true
	} else {
		delete(markers, marker)
	}
}

// transition moves u's visibility from one level to another over d,
// redrawing each frame, then runs settle and done.
func (s *Screen) transition(u *unit, d time.Duration, from, to float64, settle func(), done func()) {
	finish := func() {
		s.mu.Lock()
		u.level = to
		s.mu.Unlock()
		if settle != nil {
			settle()
		}
		s.draw()
		done()
	}

	s.mu.Lock()
	u.level = from
	s.mu.Unlock()

	if d <= 0 {
		finish()
		return
	}

	frames := s.cfg.Frames
	step := d / time.Duration(frames)
	var frame func(i int)
	frame = func(i int) {
		if i >= frames {
			finish()
			return
		}
		s.mu.Lock()
		u.level = from + (to-from)*float64(i)/float64(frames)
		s.mu.Unlock()
		s.draw()
		s.afterFunc(step, func() { frame(i + 1) })
	}
	frame(0)
}

func (s *Screen) detach(u *unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.units) - 1; i >= 0; i-- {
		if s.units[i] == u {
			s.units = append(s.units[:i], s.units[i+1:]...)
			return
		}
	}
}

// draw repaints the glyph line and positions the cursor.
func (s *Screen) draw() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cols, _ := s.screen.Size()
	widths := make([]int, len(s.units))
	for i, u := range s.units {
		widths[i] = u.width
	}
	pos, end := Layout(widths, s.cfg.Origin, cols)

	blank := tcell.StyleDefault.Background(toTcell(s.bg))
	for _, p := range s.drawn {
		s.screen.SetContent(p.X, p.Y, ' ', nil, blank)
	}
	s.drawn = s.drawn[:0]

	for i, u := range s.units {
		style := tcell.StyleDefault.
			Foreground(toTcell(Fade(s.fg, s.bg, u.level))).
			Background(toTcell(s.bg))
		runes := []rune(u.glyph)
		if len(runes) == 0 {
			continue
		}
		var comb []rune
		if len(runes) > 1 {
			comb = runes[1:]
		}
		s.screen.SetContent(pos[i].X, pos[i].Y, runes[0], comb, style)
		for x := 0; x < u.width; x++ {
			s.drawn = append(s.drawn, Point{X: pos[i].X + x, Y: pos[i].Y})
		}
	}

	if s.cursor != nil {
		if s.cursor.markers[s.cursor.noBlink] {
			s.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
		} else {
			s.screen.SetCursorStyle(tcell.CursorStyleBlinkingBlock)
		}
		s.screen.ShowCursor(end.X, end.Y)
	}
	s.screen.Show()
}

// Blinking reports whether the cursor is drawn blinking.
func (s *Screen) Blinking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor != nil && !s.cursor.markers[s.cursor.noBlink]
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
