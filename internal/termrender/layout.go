package termrender

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Point is a screen cell position.
type Point struct {
	X, Y int
}

// Width returns the number of terminal cells glyph occupies. Zero-width
// glyphs still take one cell so they stay removable.
func Width(glyph string) int {
	if w := runewidth.StringWidth(glyph); w > 0 {
		return w
	}
	return 1
}

// Layout places cells of the given widths left to right from origin,
// wrapping to origin.X on the next row when a cell would cross cols. It
// returns each cell's position and the position after the last cell, where
// the cursor goes.
func Layout(widths []int, origin Point, cols int) ([]Point, Point) {
	out := make([]Point, len(widths))
	at := origin
	for i, w := range widths {
		if cols > 0 && at.X+w > cols && at.X > origin.X {
			at = Point{X: origin.X, Y: at.Y + 1}
		}
		out[i] = at
		at.X += w
	}
	if cols > 0 && at.X >= cols {
		at = Point{X: origin.X, Y: at.Y + 1}
	}
	return out, at
}

// Fade blends from bg toward fg. level is clamped to [0, 1]; 1 is fully
// visible.
func Fade(fg, bg colorful.Color, level float64) colorful.Color {
	level = min(max(level, 0), 1)
	return bg.BlendLab(fg, level).Clamped()
}
