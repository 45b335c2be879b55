// Package scheduler provides api.Scheduler implementations: EventLoop runs
// work on a go-eventloop Loop in real time; Manual runs it on the caller's
// goroutine against a virtual clock.
package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

// maxSteps bounds RunUntilIdle so a self-rescheduling task cannot hang a
// test forever.
const maxSteps = 1_000_000

// Manual is a deterministic api.Scheduler. Nothing runs until the owner
// calls RunPending, Advance or RunUntilIdle, and time only moves when the
// owner moves it. Submit and AfterFunc are safe for concurrent use.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	queue  []func()
	timers timerHeap
	seq    uint64
}

type timer struct {
	when time.Time
	seq  uint64
	fn   func()
}

type timerHeap []timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) {
	*h = append(*h, x.(timer))
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// NewManual returns a Manual scheduler whose clock starts at the Unix epoch.
func NewManual() *Manual {
	return &Manual{now: time.Unix(0, 0)}
}

func (m *Manual) Submit(fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue = append(m.queue, fn)
	return nil
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}
	m.seq++
	heap.Push(&m.timers, timer{when: m.now.Add(d), seq: m.seq, fn: fn})
	return nil
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of queued tasks and armed timers.
func (m *Manual) Pending() (tasks, timers int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue), len(m.timers)
}

func (m *Manual) popTask() (func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) == 0 {
		return nil, false
	}
	fn := m.queue[0]
	m.queue[0] = nil
	m.queue = m.queue[1:]
	return fn, true
}

// popTimer pops the earliest timer due at or before limit and moves the
// clock to it.
func (m *Manual) popTimer(limit time.Time, unbounded bool) (func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.timers) == 0 {
		return nil, false
	}
	if !unbounded && m.timers[0].when.After(limit) {
		return nil, false
	}
	t := heap.Pop(&m.timers).(timer)
	if t.when.After(m.now) {
		m.now = t.when
	}
	return t.fn, true
}

// RunPending runs queued tasks, including tasks they queue, until the
// queue is empty. Timers are not fired. It returns the number of tasks run.
func (m *Manual) RunPending() int {
	n := 0
	for n < maxSteps {
		fn, ok := m.popTask()
		if !ok {
			break
		}
		fn()
		n++
	}
	return n
}

// Advance moves the clock forward by d, firing due timers in order and
// draining the task queue after each one.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	limit := m.now.Add(d)
	m.mu.Unlock()

	n := m.RunPending()
	for n < maxSteps {
		fn, ok := m.popTimer(limit, false)
		if !ok {
			break
		}
		fn()
		n++
		n += m.RunPending()
	}

	m.mu.Lock()
	if limit.After(m.now) {
		m.now = limit
	}
	m.mu.Unlock()
	return n
}

// RunUntilIdle runs tasks and fires timers, jumping the clock to each
// timer in turn, until nothing is left. It returns the number of tasks and
// timers run.
func (m *Manual) RunUntilIdle() int {
	n := m.RunPending()
	for n < maxSteps {
		fn, ok := m.popTimer(time.Time{}, true)
		if !ok {
			break
		}
		fn()
		n++
		n += m.RunPending()
	}
	return n
}
