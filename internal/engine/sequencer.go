package engine

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/petrijr/typewriter/internal/diff"
	"github.com/petrijr/typewriter/internal/glyph"
	"github.com/petrijr/typewriter/pkg/api"
)

type stepKind int

const (
	stepType stepKind = iota
	stepBackspace
	stepBackspaceOne
	stepErase
	stepPause
	stepAdvance
	stepComplete
)

// step is one entry of the explicit phase queue.
type step struct {
	kind stepKind

	// stepType
	text string
	mark bool // record the displayed length as the correction base

	// stepBackspace: glyphs to keep past the correction base
	target int

	// stepPause
	delay time.Duration

	// stepAdvance
	index int
}

// request is a public operation waiting to run.
type request struct {
	op      api.Operation
	fn      api.Callback
	arm     bool // fn goes into the armed slot when the operation begins
	delayed bool // wait the start delay first
	instant bool // fire the completion without delay
}

// sequencer drives one operation at a time through its phases. Every
// method runs on the scheduler goroutine, so none of its fields need
// locking.
type sequencer struct {
	s *session

	busy    bool
	pending []request
	current request

	// Snapshot of the resolved configuration and content taken when the
	// current operation began.
	cfg     api.Config
	content api.Content

	steps []step

	glyphs        []string
	pos           int
	target        int
	base          int
	progressIndex int

	// issued mirrors the glyphs this session rendered, trailing-most last.
	issued []api.Handle

	signals  uint64
	awaiting uint64
}

func (q *sequencer) enqueue(r request) {
	if q.busy {
		q.pending = append(q.pending, r)
		return
	}
	q.begin(r)
}

func (q *sequencer) begin(r request) {
	q.busy = true
	if r.arm {
		q.s.arm(r.fn)
		r.fn = nil
	}
	q.current = r
	q.cfg, q.content = q.s.resolved()

	if !r.delayed {
		q.dispatch()
		return
	}
	if err := q.s.sched.AfterFunc(q.cfg.StartDelay, q.dispatch); err != nil {
		q.drop(fmt.Errorf("schedule start delay: %w", err))
	}
}

func (q *sequencer) dispatch() {
	q.s.observer.OnOperationStart(q.s.ctx, q.s.snapshot(), q.current.op)

	q.steps = q.steps[:0]
	switch q.current.op {
	case api.OperationStart:
		q.steps = append(q.steps, q.plan()...)
	case api.OperationErase:
		q.steps = append(q.steps, step{kind: stepErase})
	case api.OperationBackspace:
		q.steps = append(q.steps, step{kind: stepBackspaceOne})
	}
	q.steps = append(q.steps, step{kind: stepComplete})
	q.run()
}

func (q *sequencer) plan() []step {
	switch q.cfg.Mode {
	case api.ModeCorrection:
		return q.correction(q.content.Tuple())
	case api.ModeArray:
		return []step{{kind: stepAdvance, index: 0}}
	default:
		return []step{{kind: stepType, text: q.content.Text()}}
	}
}

func (q *sequencer) correction(parts []string) []step {
	c, ok := diff.Plan(parts)
	if !ok {
		return []step{{kind: stepType, text: diff.Degrade(parts)}}
	}
	pause := q.cfg.CallbackDelay
	return []step{
		{kind: stepType, text: c.TypeFirst, mark: true},
		{kind: stepPause, delay: pause},
		{kind: stepBackspace, target: c.BackspaceTo},
		{kind: stepPause, delay: pause},
		{kind: stepType, text: c.TypeSuffix},
	}
}

// expand returns the steps for list item i. Items are expanded only when
// reached; every item but the last is followed by an erase.
func (q *sequencer) expand(i int) []step {
	item := q.content.Item(i)

	var out []step
	if item.IsTuple() {
		out = q.correction(item.Parts())
	} else {
		out = []step{{kind: stepType, text: item.First()}}
	}

	if i+1 < q.content.Len() {
		pause := q.cfg.CallbackDelay
		out = append(out,
			step{kind: stepPause, delay: pause},
			step{kind: stepErase},
			step{kind: stepPause, delay: pause},
			step{kind: stepAdvance, index: i + 1},
		)
	}
	return out
}

// run executes queued steps until one has to wait for the renderer or a
// timer.
func (q *sequencer) run() {
	for len(q.steps) > 0 {
		st := q.steps[0]
		q.steps = q.steps[1:]
		if !q.exec(st) {
			return
		}
	}
}

// exec starts st. It reports whether st already finished.
func (q *sequencer) exec(st step) bool {
	switch st.kind {
	case stepType:
		if st.mark {
			q.base = q.s.host.Len()
		}
		q.enter(api.StateTyping, api.PhaseType)
		q.glyphs = glyph.Split(st.text)
		q.pos = 0
		if len(q.glyphs) == 0 {
			q.s.cur.resume()
			return true
		}
		q.s.cur.suppress(q.cfg.Cursor.NoBlinkMarker)
		q.renderNext()
		return false

	case stepBackspace:
		return q.remove(api.StateBackspacing, api.PhaseBackspace, q.base+st.target)

	case stepBackspaceOne:
		return q.remove(api.StateBackspacing, api.PhaseBackspace, max(q.s.host.Len()-1, 0))

	case stepErase:
		return q.remove(api.StateErasing, api.PhaseErase, 0)

	case stepPause:
		if err := q.s.sched.AfterFunc(st.delay, q.run); err != nil {
			q.fail(fmt.Errorf("schedule pause: %w", err))
		}
		return false

	case stepAdvance:
		q.s.setState(api.StateAdvancingItem)
		if st.index < q.content.Len() {
			q.progressIndex = st.index
			q.s.logger.Debug("item_advanced",
				slog.String("session_id", q.s.id),
				slog.Int("index", q.progressIndex),
				slog.Int("items", q.content.Len()),
			)
			q.steps = append(q.expand(st.index), q.steps...)
		}
		return true

	case stepComplete:
		q.s.setState(api.StateIdle)
		q.s.observer.OnOperationCompleted(q.s.ctx, q.s.snapshot(), q.current.op)

		delay := q.cfg.CallbackDelay
		if q.current.instant {
			delay = 0
		}
		if err := q.s.complete(q.current.fn, delay, q.finish); err != nil {
			q.drop(fmt.Errorf("schedule completion: %w", err))
		}
		return false
	}
	return true
}

func (q *sequencer) enter(state api.State, phase api.Phase) {
	q.s.setState(state)
	q.s.observer.OnPhaseStart(q.s.ctx, q.s.snapshot(), phase)
}

func (q *sequencer) renderNext() {
	shown := q.glyphs[q.pos]
	if glyph.IsSpace(shown) {
		shown = q.cfg.SpaceGlyph
	}

	var h api.Handle
	done := q.signal(func() {
		q.issued = append(q.issued, h)
		q.s.observer.OnGlyphRendered(q.s.ctx, q.s.snapshot(), shown)

		q.pos++
		if q.pos < len(q.glyphs) {
			q.renderNext()
			return
		}
		q.s.cur.resume()
		q.run()
	})
	h = q.s.renderer.RenderGlyph(q.s.host, shown, q.cfg.Glyph, done)
}

// remove starts a removal phase that ends once the host displays target
// glyphs or fewer.
func (q *sequencer) remove(state api.State, phase api.Phase, target int) bool {
	q.enter(state, phase)
	q.target = target
	if q.s.host.Len() <= target {
		q.s.cur.resume()
		return true
	}
	q.s.cur.suppress(q.cfg.Cursor.NoBlinkMarker)
	q.removeNext()
	return false
}

func (q *sequencer) removeNext() {
	n := q.s.host.Len()
	if len(q.issued) > n {
		q.issued = q.issued[:n]
	}
	if n <= q.target {
		q.s.cur.resume()
		q.run()
		return
	}

	var h api.Handle
	if k := len(q.issued); k > 0 {
		h = q.issued[k-1]
	}
	q.s.renderer.RemoveGlyph(q.s.host, h, q.cfg.Glyph, q.signal(func() {
		if k := len(q.issued); k > 0 {
			q.issued = q.issued[:k-1]
		}
		q.s.observer.OnGlyphRemoved(q.s.ctx, q.s.snapshot())
		q.removeNext()
	}))
}

// signal wraps fn as a renderer done func. Only the first call counts, and
// only while it is the signal the sequencer is waiting for; fn itself
// always runs on the scheduler goroutine.
func (q *sequencer) signal(fn func()) func() {
	q.signals++
	token := q.signals
	q.awaiting = token

	var called atomic.Bool
	return func() {
		if !called.CompareAndSwap(false, true) {
			q.s.logger.Warn("duplicate_completion_signal",
				slog.String("session_id", q.s.id),
				slog.Uint64("signal", token),
			)
			return
		}
		err := q.s.sched.Submit(func() {
			if q.awaiting != token {
				q.s.logger.Warn("stale_completion_signal",
					slog.String("session_id", q.s.id),
					slog.Uint64("signal", token),
					slog.Uint64("awaiting", q.awaiting),
				)
				return
			}
			q.awaiting = 0
			fn()
		})
		if err != nil {
			q.s.logger.Error("completion_signal_dropped",
				slog.String("session_id", q.s.id),
				slog.Uint64("signal", token),
				slog.Any("error", err),
			)
		}
	}
}

// finish releases the next queued operation, if any.
func (q *sequencer) finish() {
	q.busy = false
	q.current = request{}
	if len(q.pending) == 0 {
		return
	}
	next := q.pending[0]
	q.pending = q.pending[1:]
	q.begin(next)
}

// fail abandons an operation that has already been reported as started.
func (q *sequencer) fail(err error) {
	q.steps = nil
	q.awaiting = 0
	q.s.cur.resume()
	q.s.setState(api.StateIdle)
	q.s.observer.OnOperationFailed(q.s.ctx, q.s.snapshot(), q.current.op, err)
	q.finish()
}

// drop abandons an operation outside its started/completed window.
func (q *sequencer) drop(err error) {
	q.s.logger.Error("operation_dropped",
		slog.String("session_id", q.s.id),
		slog.String("operation", string(q.current.op)),
		slog.Any("error", err),
	)
	q.steps = nil
	q.s.setState(api.StateIdle)
	q.finish()
}
