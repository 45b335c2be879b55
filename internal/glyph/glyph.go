// Package glyph splits text into the units the engine types one at a time.
// A glyph is a user-perceived character (an extended grapheme cluster), so
// combining marks and emoji sequences are typed and erased as one unit.
package glyph

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Split returns the glyphs of text in order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of glyphs in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// From returns text with its first n glyphs removed.
func From(text string, n int) string {
	if n <= 0 {
		return text
	}
	g := uniseg.NewGraphemes(text)
	idx := 0
	for g.Next() {
		if idx == n {
			from, _ := g.Positions()
			return text[from:]
		}
		idx++
	}
	return ""
}

// IsSpace reports whether the glyph is a single ASCII space, which hosts
// tend to collapse.
func IsSpace(g string) bool {
	return g == " "
}

// Join concatenates glyphs into a single string.
func Join(glyphs []string) string {
	return strings.Join(glyphs, "")
}
