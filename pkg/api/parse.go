package api

import (
	"math"

	"github.com/tidwall/gjson"
)

// ParseOptions reads loosely-typed JSON options. Recognised keys are
//
//	mode, start_delay, callback_delay, space,
//	letters.tag, letters.class, letters.remove_class,
//	cursor.tag, cursor.class, cursor.no_blink_class
//
// Values of the wrong JSON type are dropped so they resolve to defaults.
// Invalid JSON yields empty Options. ParseOptions never fails.
func ParseOptions(data []byte) Options {
	var opts Options
	if !gjson.ValidBytes(data) {
		return opts
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return opts
	}

	if r := root.Get("mode"); r.Type == gjson.Number {
		// Non-integral modes are out of range.
		if f := r.Float(); f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
			opts.Mode = Ptr(int(f))
		} else {
			opts.Mode = Ptr(-1)
		}
	}
	if r := root.Get("start_delay"); r.Type == gjson.Number {
		opts.StartDelaySeconds = Ptr(r.Float())
	}
	if r := root.Get("callback_delay"); r.Type == gjson.Number {
		opts.CallbackDelaySeconds = Ptr(r.Float())
	}

	opts.GlyphTag = str(root, "letters.tag")
	opts.GlyphMarker = str(root, "letters.class")
	opts.GlyphRemovalMarker = str(root, "letters.remove_class")
	opts.CursorTag = str(root, "cursor.tag")
	opts.CursorMarker = str(root, "cursor.class")
	opts.CursorNoBlinkMarker = str(root, "cursor.no_blink_class")
	opts.SpaceGlyph = str(root, "space")

	return opts
}

func str(root gjson.Result, path string) string {
	if r := root.Get(path); r.Type == gjson.String {
		return r.Str
	}
	return ""
}

// ParseContent reads JSON content: a string, or an array whose elements
// are strings or arrays of strings. Anything else, including invalid
// JSON, becomes FallbackContent. Non-string values nested in an array
// become InvalidString.
func ParseContent(data []byte) Content {
	if !gjson.ValidBytes(data) {
		return String(FallbackContent)
	}
	root := gjson.ParseBytes(data)
	switch {
	case root.Type == gjson.String:
		return String(root.Str)
	case root.IsArray():
		elems := root.Array()
		items := make([]Item, 0, len(elems))
		for _, e := range elems {
			items = append(items, parseItem(e))
		}
		return List(items...)
	default:
		return String(FallbackContent)
	}
}

func parseItem(e gjson.Result) Item {
	switch {
	case e.Type == gjson.String:
		return Text(e.Str)
	case e.IsArray():
		inner := e.Array()
		parts := make([]string, 0, len(inner))
		for _, p := range inner {
			if p.Type == gjson.String {
				parts = append(parts, p.Str)
			} else {
				parts = append(parts, InvalidString)
			}
		}
		return Tuple(parts...)
	default:
		return Text(InvalidString)
	}
}
