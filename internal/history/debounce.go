package history

import "time"

// DefaultDebounce is how long typing has to pause before a search is issued
const DefaultDebounce = 500 * time.Millisecond

// Debouncer decides which scheduled search may run. Every keystroke takes a
// new tag; a timer carrying an older tag is ignored when it fires, which
// cancels it. It holds no timers itself so the UI loop can own scheduling.
type Debouncer struct {
	delay   time.Duration
	tag     uint64
	pending bool
}

// NewDebouncer creates a debouncer; a non-positive delay falls back to DefaultDebounce
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Delay is the quiet period the caller should wait before calling Fire
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules a new action and supersedes any pending one
func (d *Debouncer) Trigger() uint64 {
	d.tag++
	d.pending = true
	return d.tag
}

// Cancel drops the pending action, if any
func (d *Debouncer) Cancel() {
	d.tag++
	d.pending = false
}

// Fire reports whether the action scheduled with tag should run now.
// At most one call per Trigger returns true.
func (d *Debouncer) Fire(tag uint64) bool {
	if !d.pending || tag != d.tag {
		return false
	}
	d.pending = false
	return true
}

// Pending reports whether an action is waiting to fire
func (d *Debouncer) Pending() bool {
	return d.pending
}
