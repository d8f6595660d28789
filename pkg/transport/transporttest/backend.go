package transporttest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kittclouds/scenekitt/pkg/transport"
)

var errDisposed = errors.New("transporttest: resource disposed")

// Backend records every resource it hands out and lets tests script load
// and play behavior per track.
type Backend struct {
	mu           sync.Mutex
	resources    []*Resource
	loadErr      map[string]error
	playErr      map[string]error
	gates        map[string]chan struct{}
	hang         map[string]bool
	blockedPlays int
	loads        int
	musicPlaying int
	maxMusic     int
	stop         chan struct{}
	stopOnce     sync.Once
}

func NewBackend() *Backend {
	return &Backend{
		loadErr: make(map[string]error),
		playErr: make(map[string]error),
		gates:   make(map[string]chan struct{}),
		hang:    make(map[string]bool),
		stop:    make(chan struct{}),
	}
}

func (b *Backend) NewResource() transport.PlaybackResource {
	r := &Resource{b: b, finished: make(chan struct{})}
	b.mu.Lock()
	b.resources = append(b.resources, r)
	b.mu.Unlock()
	return r
}

// FailLoad makes every load of track fail with err.
func (b *Backend) FailLoad(track string, err error) {
	b.mu.Lock()
	b.loadErr[track] = err
	b.mu.Unlock()
}

// FailPlay makes every Play of a resource holding track fail with err.
func (b *Backend) FailPlay(track string, err error) {
	b.mu.Lock()
	b.playErr[track] = err
	b.mu.Unlock()
}

// GateLoad makes loads of track wait until the returned func is called or
// the load context ends.
func (b *Backend) GateLoad(track string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.gates[track] = ch
	b.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// HangLoad makes loads of track ignore their context and block until Close.
func (b *Backend) HangLoad(track string) {
	b.mu.Lock()
	b.hang[track] = true
	b.mu.Unlock()
}

// BlockPlays makes the next n Play calls return transport.ErrPlaybackBlocked.
func (b *Backend) BlockPlays(n int) {
	b.mu.Lock()
	b.blockedPlays = n
	b.mu.Unlock()
}

// Close releases hung loads.
func (b *Backend) Close() {
	b.stopOnce.Do(func() { close(b.stop) })
}

func (b *Backend) Resources() []*Resource {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Resource(nil), b.resources...)
}

// Live returns the resources not yet disposed.
func (b *Backend) Live() []*Resource {
	var out []*Resource
	for _, r := range b.Resources() {
		if !r.Disposed() {
			out = append(out, r)
		}
	}
	return out
}

// Loads returns the number of Load calls.
func (b *Backend) Loads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loads
}

// MaxConcurrentMusic returns the highest number of looping resources that
// were playing at the same time.
func (b *Backend) MaxConcurrentMusic() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.maxMusic
}

func (b *Backend) musicStarted() {
	b.mu.Lock()
	b.musicPlaying++
	if b.musicPlaying > b.maxMusic {
		b.maxMusic = b.musicPlaying
	}
	b.mu.Unlock()
}

func (b *Backend) musicStopped() {
	b.mu.Lock()
	b.musicPlaying--
	b.mu.Unlock()
}

// Resource is a scripted PlaybackResource.
type Resource struct {
	b *Backend

	mu       sync.Mutex
	track    string
	loaded   bool
	playing  bool
	looping  bool
	muted    bool
	disposed bool
	volume   float64
	volumes  []float64
	plays    int

	finished   chan struct{}
	finishOnce sync.Once
}

func (r *Resource) Load(ctx context.Context, track string) error {
	b := r.b
	b.mu.Lock()
	b.loads++
	err := b.loadErr[track]
	gate := b.gates[track]
	hang := b.hang[track]
	b.mu.Unlock()

	r.mu.Lock()
	r.track = track
	r.mu.Unlock()

	if hang {
		<-b.stop
		return context.Canceled
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return errDisposed
	}
	r.loaded = true
	return nil
}

func (r *Resource) Play(context.Context) error {
	b := r.b
	r.mu.Lock()
	track, disposed, loaded := r.track, r.disposed, r.loaded
	r.mu.Unlock()
	if disposed {
		return errDisposed
	}
	if !loaded {
		return fmt.Errorf("transporttest: play before load of %q", track)
	}

	b.mu.Lock()
	if b.blockedPlays > 0 {
		b.blockedPlays--
		b.mu.Unlock()
		return fmt.Errorf("play %q: %w", track, transport.ErrPlaybackBlocked)
	}
	err := b.playErr[track]
	b.mu.Unlock()
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.plays++
	started := !r.playing && r.looping
	r.playing = true
	looping := r.looping
	r.mu.Unlock()

	if started {
		b.musicStarted()
	}
	if !looping {
		r.Finish()
	}
	return nil
}

func (r *Resource) Pause() {
	r.mu.Lock()
	stopped := r.playing && r.looping
	r.playing = false
	r.mu.Unlock()
	if stopped {
		r.b.musicStopped()
	}
}

func (r *Resource) SetVolume(v float64) {
	r.mu.Lock()
	r.volume = v
	r.volumes = append(r.volumes, v)
	r.mu.Unlock()
}

func (r *Resource) SetLooping(loop bool) {
	r.mu.Lock()
	r.looping = loop
	r.mu.Unlock()
}

func (r *Resource) SetMuted(muted bool) {
	r.mu.Lock()
	r.muted = muted
	r.mu.Unlock()
}

func (r *Resource) Dispose() {
	r.Pause()
	r.mu.Lock()
	r.disposed = true
	r.mu.Unlock()
	r.Finish()
}

// Finish ends a one-shot playback.
func (r *Resource) Finish() {
	r.finishOnce.Do(func() { close(r.finished) })
}

func (r *Resource) Finished() <-chan struct{} { return r.finished }

func (r *Resource) Track() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.track
}

func (r *Resource) Playing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing
}

func (r *Resource) Looping() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.looping
}

func (r *Resource) Muted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.muted
}

func (r *Resource) Disposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

func (r *Resource) Volume() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volume
}

// Volumes returns every volume set on the resource, in order.
func (r *Resource) Volumes() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.volumes...)
}

// Plays returns the number of successful Play calls.
func (r *Resource) Plays() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.plays
}
