package transport

import "time"

// Options are the transport timings.
type Options struct {
	FadeDuration       time.Duration
	FadeStep           time.Duration
	DebounceWindow     time.Duration
	BusyWait           time.Duration
	LoadTimeout        time.Duration
	OneShotMaxLifetime time.Duration
}

// DefaultOptions returns the standard timings.
func DefaultOptions() Options {
	return Options{
		FadeDuration:       500 * time.Millisecond,
		FadeStep:           50 * time.Millisecond,
		DebounceWindow:     200 * time.Millisecond,
		BusyWait:           50 * time.Millisecond,
		LoadTimeout:        5 * time.Second,
		OneShotMaxLifetime: 10 * time.Second,
	}
}

// withDefaults fills zero fields from DefaultOptions. A negative
// DebounceWindow or BusyWait disables that wait.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FadeDuration == 0 {
		o.FadeDuration = d.FadeDuration
	}
	if o.FadeStep == 0 {
		o.FadeStep = d.FadeStep
	}
	if o.DebounceWindow == 0 {
		o.DebounceWindow = d.DebounceWindow
	}
	if o.BusyWait == 0 {
		o.BusyWait = d.BusyWait
	}
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = d.LoadTimeout
	}
	if o.OneShotMaxLifetime <= 0 {
		o.OneShotMaxLifetime = d.OneShotMaxLifetime
	}
	return o
}
