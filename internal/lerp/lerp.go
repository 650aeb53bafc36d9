// Package lerp animates numeric values toward targets over wall-clock time.
// Progress is sampled whenever Lerp is called; nothing runs in the background.
package lerp

import "time"

// DefaultDuration is how long a transition takes to reach its target.
const DefaultDuration = time.Second

type entry struct {
	start   float64
	target  float64
	started time.Time
}

// Interpolator holds the in-flight transitions, keyed by a caller-chosen name.
// It is not safe for concurrent use.
type Interpolator struct {
	baseline float64
	duration time.Duration
	now      func() time.Time
	entries  map[string]*entry
	resting  map[string]float64
}

// Option configures an Interpolator.
type Option func(*Interpolator)

// WithDuration sets the transition length. Non-positive values are ignored.
func WithDuration(d time.Duration) Option {
	return func(i *Interpolator) {
		if d > 0 {
			i.duration = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(i *Interpolator) {
		if now != nil {
			i.now = now
		}
	}
}

// New returns an Interpolator whose unseen keys start at baseline.
func New(baseline float64, opts ...Option) *Interpolator {
	i := &Interpolator{
		baseline: baseline,
		duration: DefaultDuration,
		now:      time.Now,
		entries:  make(map[string]*entry),
		resting:  make(map[string]float64),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Lerp returns the current value for key while it moves toward target.
func (i *Interpolator) Lerp(key string, target float64) float64 {
	now := i.now()
	e, ok := i.entries[key]
	if !ok {
		from, seen := i.resting[key]
		if !seen {
			from = i.baseline
		}
		if from == target {
			i.resting[key] = target
			return target
		}
		i.entries[key] = &entry{start: from, target: target, started: now}
		return from
	}

	if e.target != target {
		current := e.valueAt(now, i.duration)
		e.start, e.target, e.started = current, target, now
		return current
	}

	if progress(now.Sub(e.started), i.duration) >= 1 {
		delete(i.entries, key)
		i.resting[key] = target
		return target
	}
	return e.valueAt(now, i.duration)
}

// HasActive reports whether any transition has not yet reached its target.
func (i *Interpolator) HasActive() bool {
	return len(i.entries) > 0
}

// Clear drops every transition and remembered value.
func (i *Interpolator) Clear() {
	clear(i.entries)
	clear(i.resting)
}

func (e *entry) valueAt(now time.Time, d time.Duration) float64 {
	t := progress(now.Sub(e.started), d)
	if t >= 1 {
		return e.target
	}
	return e.start + (e.target-e.start)*ease(t)
}

func progress(elapsed, d time.Duration) float64 {
	t := float64(elapsed) / float64(d)
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// ease is a quadratic ease-out: fast start, gentle landing.
func ease(t float64) float64 {
	return 1 - (1-t)*(1-t)
}
