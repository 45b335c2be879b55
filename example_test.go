package typewriter_test

import (
	"fmt"

	"github.com/petrijr/typewriter"
)

// sliceRenderer keeps glyphs in a slice and completes every transition
// immediately.
type sliceRenderer struct{ glyphs []string }

func (r *sliceRenderer) Len() int { return len(r.glyphs) }

func (r *sliceRenderer) RenderGlyph(_ typewriter.Host, g string, _ typewriter.GlyphMarkers, done func()) typewriter.Handle {
	r.glyphs = append(r.glyphs, g)
	done()
	return len(r.glyphs) - 1
}

func (r *sliceRenderer) RemoveGlyph(_ typewriter.Host, _ typewriter.Handle, _ typewriter.GlyphMarkers, done func()) {
	if n := len(r.glyphs); n > 0 {
		r.glyphs = r.glyphs[:n-1]
	}
	done()
}

func (r *sliceRenderer) CreateCursor(typewriter.Host, typewriter.CursorMarkers) typewriter.Handle {
	return "cursor"
}

func (r *sliceRenderer) ToggleMarker(typewriter.Handle, string, bool) {}

// ExampleNew types a correction on a manual scheduler, whose clock only
// moves when asked.
func ExampleNew() {
	sched := typewriter.NewManualScheduler()
	r := &sliceRenderer{}

	sess, err := typewriter.New(r, r,
		typewriter.Strings("Helo", "Hello"),
		typewriter.Options{Mode: typewriter.Ptr(int(typewriter.ModeCorrection))},
		typewriter.WithScheduler(sched),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	sess.Start(func(s typewriter.Session) {
		fmt.Println("done:", s.Displayed(), "glyphs")
	})
	sched.RunUntilIdle()

	fmt.Println(r.glyphs)
	// Output:
	// done: 5 glyphs
	// [H e l l o]
}
