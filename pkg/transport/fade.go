package transport

import (
	"context"
	"time"
)

// Clock is the time source for debouncing and fade stepping.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

// Fade is a linear volume ramp from From to To over Duration, applied in
// steps Step apart.
type Fade struct {
	From     float64
	To       float64
	Duration time.Duration
	Step     time.Duration
}

// Steps returns the number of volume updates after the initial one.
func (f Fade) Steps() int {
	if f.Duration <= 0 || f.Step <= 0 {
		return 1
	}
	n := int(f.Duration / f.Step)
	if f.Duration%f.Step != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// VolumeAt returns the volume after step i (0 is the start, Steps() the end).
func (f Fade) VolumeAt(i int) float64 {
	n := f.Steps()
	switch {
	case i <= 0:
		return clamp01(f.From)
	case i >= n:
		return clamp01(f.To)
	}
	return clamp01(f.From + (f.To-f.From)*float64(i)/float64(n))
}

// Run applies the ramp, waiting Step on clock between updates. When ctx is
// cancelled the end volume is applied at once and ctx.Err() returned.
func (f Fade) Run(ctx context.Context, clock Clock, apply func(float64)) error {
	n := f.Steps()
	apply(f.VolumeAt(0))
	for i := 1; i <= n; i++ {
		select {
		case <-ctx.Done():
			apply(f.VolumeAt(n))
			return ctx.Err()
		case <-clock.After(f.stepDelay()):
		}
		apply(f.VolumeAt(i))
	}
	return nil
}

func (f Fade) stepDelay() time.Duration {
	if f.Duration <= 0 || f.Step <= 0 {
		return 0
	}
	if f.Step > f.Duration {
		return f.Duration
	}
	return f.Step
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
