// Package transport owns background-music playback: it crossfades between
// scene tracks, serializes transitions, recovers from blocked autoplay and
// plays best-effort UI one-shots.
package transport

import (
	"context"
	"errors"
)

var (
	// ErrPlaybackBlocked is returned by PlaybackResource.Play when the host
	// refuses to start audio before a user gesture.
	ErrPlaybackBlocked = errors.New("transport: playback blocked until user gesture")
	// ErrLoadTimeout is returned when a resource does not become ready in time.
	ErrLoadTimeout = errors.New("transport: load timed out")
	// ErrUnknownSound is returned by PlayOneShot for sounds missing from the bank.
	ErrUnknownSound = errors.New("transport: unknown sound")
	// ErrClosed is returned once the transport has been closed.
	ErrClosed = errors.New("transport: closed")
)

// PlaybackResource is one loadable, playable audio handle.
type PlaybackResource interface {
	// Load fetches and decodes track; it returns once the resource is ready.
	Load(ctx context.Context, track string) error
	// Play starts playback. It returns ErrPlaybackBlocked (possibly wrapped)
	// when the host requires a user gesture first.
	Play(ctx context.Context) error
	Pause()
	SetVolume(v float64)
	SetLooping(loop bool)
	SetMuted(muted bool)
	// Dispose stops playback and releases the resource. Further calls are no-ops.
	Dispose()
}

// Finisher is implemented by resources that can report the end of a
// non-looping playback.
type Finisher interface {
	Finished() <-chan struct{}
}

// Backend creates playback resources.
type Backend interface {
	NewResource() PlaybackResource
}

// GestureSignal notifies once on the next user input.
type GestureSignal interface {
	OnNextGesture(fn func()) (cancel func())
}

type noGestures struct{}

func (noGestures) OnNextGesture(func()) func() { return func() {} }
