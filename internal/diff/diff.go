// Package diff computes in-place corrections: type one string, backspace
// to where it diverges from a second, then type the rest of the second.
package diff

import (
	"github.com/petrijr/typewriter/internal/glyph"
	"github.com/petrijr/typewriter/pkg/api"
)

// Divergence returns the smallest index i < min(len(a), len(b)) at which
// a[i] != b[i], or min(len(a), len(b)) when one is a prefix of the other.
func Divergence[T comparable](a, b []T) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// FirstDivergence is Divergence over the glyphs of a and b.
func FirstDivergence(a, b string) int {
	return Divergence(glyph.Split(a), glyph.Split(b))
}

// Correction is the three-phase plan that turns typed text First into
// Second.
type Correction struct {
	// TypeFirst is typed in full first.
	TypeFirst string
	// BackspaceTo is the displayed length to backspace down to.
	BackspaceTo int
	// TypeSuffix is what remains of the second string after the shared
	// prefix.
	TypeSuffix string
}

// Correct plans the correction of a into b.
func Correct(a, b string) Correction {
	d := FirstDivergence(a, b)
	return Correction{
		TypeFirst:   a,
		BackspaceTo: d,
		TypeSuffix:  glyph.From(b, d),
	}
}

// Plan plans a correction from a tuple. It returns false when parts is not
// exactly a pair; the caller should then type only Degrade(parts).
func Plan(parts []string) (Correction, bool) {
	if len(parts) != 2 {
		return Correction{}, false
	}
	return Correct(parts[0], parts[1]), true
}

// Degrade returns what to type for a malformed tuple: its first element, or
// api.FallbackPair when there is none.
func Degrade(parts []string) string {
	if len(parts) == 0 {
		return api.FallbackPair
	}
	return parts[0]
}
