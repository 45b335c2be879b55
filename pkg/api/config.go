package api

import (
	"math"
	"time"

	"github.com/tidwall/sjson"
)

// Defaults applied by Resolve.
const (
	DefaultStartDelaySeconds    = 2.0
	DefaultCallbackDelaySeconds = 1.0

	DefaultGlyphTag            = "span"
	DefaultGlyphMarker         = "typewriter-letter"
	DefaultGlyphRemovalMarker  = "typewriter-letter-remove"
	DefaultCursorTag           = "span"
	DefaultCursorMarker        = "typewriter-cursor"
	DefaultCursorNoBlinkMarker = "typewriter-cursor-noblink"

	// DefaultSpaceGlyph is a non-breaking space, so hosts that collapse
	// whitespace still show a gap.
	DefaultSpaceGlyph = "\u00a0"
)

// Options is a partial, user-supplied configuration. Unset (nil or empty)
// and invalid fields resolve to defaults; see Resolve.
type Options struct {
	// Mode is an int rather than a Mode so out-of-range values can be
	// expressed and clamped.
	Mode *int

	StartDelaySeconds    *float64
	CallbackDelaySeconds *float64

	GlyphTag           string
	GlyphMarker        string
	GlyphRemovalMarker string

	CursorTag           string
	CursorMarker        string
	CursorNoBlinkMarker string

	SpaceGlyph string
}

// Ptr returns a pointer to v. It is handy for filling Options:
//
//	api.Options{Mode: api.Ptr(int(api.ModeArray))}
func Ptr[T any](v T) *T {
	return &v
}

// GlyphMarkers are the opaque tokens passed to the renderer for glyphs.
type GlyphMarkers struct {
	Tag           string
	Marker        string
	RemovalMarker string
}

// CursorMarkers are the opaque tokens passed to the renderer for the cursor.
type CursorMarkers struct {
	Tag           string
	Marker        string
	NoBlinkMarker string
}

// Config is a fully resolved configuration. It is immutable once resolved
// and replaced wholesale by SetOptions.
type Config struct {
	Mode          Mode
	StartDelay    time.Duration
	CallbackDelay time.Duration
	Glyph         GlyphMarkers
	Cursor        CursorMarkers
	SpaceGlyph    string
}

// DefaultConfig returns the configuration that empty Options resolve to.
func DefaultConfig() Config {
	cfg, _ := Resolve(Options{}, String(""))
	return cfg
}

// Resolve validates opts against content and returns the resolved
// configuration along with the content the session should actually use.
//
// Resolve never fails:
//   - an unset or out-of-range mode becomes ModeSingle;
//   - correction and array modes need non-empty list content, otherwise
//     the mode is downgraded to ModeSingle;
//   - in ModeSingle, list content is narrowed to its first element (or
//     FallbackContent for an empty list);
//   - unset, negative or non-finite delays take their defaults;
//   - empty marker tokens take their defaults.
func Resolve(opts Options, content Content) (Config, Content) {
	mode := ModeSingle
	if opts.Mode != nil && Mode(*opts.Mode).Valid() {
		mode = Mode(*opts.Mode)
	}

	if mode != ModeSingle && (!content.IsList() || content.Len() == 0) {
		mode = ModeSingle
	}
	if mode == ModeSingle {
		content = content.Narrow()
	}

	cfg := Config{
		Mode:          mode,
		StartDelay:    seconds(opts.StartDelaySeconds, DefaultStartDelaySeconds),
		CallbackDelay: seconds(opts.CallbackDelaySeconds, DefaultCallbackDelaySeconds),
		Glyph: GlyphMarkers{
			Tag:           orDefault(opts.GlyphTag, DefaultGlyphTag),
			Marker:        orDefault(opts.GlyphMarker, DefaultGlyphMarker),
			RemovalMarker: orDefault(opts.GlyphRemovalMarker, DefaultGlyphRemovalMarker),
		},
		Cursor: CursorMarkers{
			Tag:           orDefault(opts.CursorTag, DefaultCursorTag),
			Marker:        orDefault(opts.CursorMarker, DefaultCursorMarker),
			NoBlinkMarker: orDefault(opts.CursorNoBlinkMarker, DefaultCursorNoBlinkMarker),
		},
		SpaceGlyph: orDefault(opts.SpaceGlyph, DefaultSpaceGlyph),
	}
	return cfg, content
}

func seconds(v *float64, def float64) time.Duration {
	s := def
	if v != nil && *v >= 0 && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
		s = *v
	}
	return time.Duration(s * float64(time.Second))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// MarshalJSON renders the configuration using the same keys ParseOptions
// accepts, so a resolved config can be fed back in as options.
func (c Config) MarshalJSON() ([]byte, error) {
	out := []byte(`{}`)
	fields := []struct {
		path  string
		value any
	}{
		{"mode", int(c.Mode)},
		{"start_delay", c.StartDelay.Seconds()},
		{"callback_delay", c.CallbackDelay.Seconds()},
		{"letters.tag", c.Glyph.Tag},
		{"letters.class", c.Glyph.Marker},
		{"letters.remove_class", c.Glyph.RemovalMarker},
		{"cursor.tag", c.Cursor.Tag},
		{"cursor.class", c.Cursor.Marker},
		{"cursor.no_blink_class", c.Cursor.NoBlinkMarker},
		{"space", c.SpaceGlyph},
	}
	var err error
	for _, f := range fields {
		out, err = sjson.SetBytes(out, f.path, f.value)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
