package engine

import "github.com/petrijr/typewriter/pkg/api"

// cursor tracks the blink state of the session cursor so that the renderer
// only sees real transitions.
type cursor struct {
	renderer api.Renderer
	handle   api.Handle

	// applied is the no-blink marker currently on the cursor, or "" while
	// it blinks.
	applied string
}

func (c *cursor) blinking() bool { return c.applied == "" }

// suppress stops the blink for the duration of a phase.
func (c *cursor) suppress(marker string) {
	if c.handle == nil || !c.blinking() || marker == "" {
		return
	}
	c.renderer.ToggleMarker(c.handle, marker, true)
	c.applied = marker
}

// resume restarts the blink by removing exactly the marker suppress added.
func (c *cursor) resume() {
	if c.handle == nil || c.blinking() {
		return
	}
	c.renderer.ToggleMarker(c.handle, c.applied, false)
	c.applied = ""
}
