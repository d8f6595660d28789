// Package ebitenaudio plays scene music and one-shots through Ebitengine's
// audio package, reading tracks from an fs.FS.
package ebitenaudio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"go.uber.org/zap"

	"github.com/kittclouds/scenekitt/pkg/transport"
)

// ErrUnsupportedFormat is returned for tracks that are not wav, mp3 or ogg.
var ErrUnsupportedFormat = errors.New("ebitenaudio: unsupported audio format")

const finishPoll = 50 * time.Millisecond

// Backend creates ebiten audio players for tracks in FS.
type Backend struct {
	FS  fs.FS
	ctx *audio.Context
	log *zap.Logger
}

// New returns a backend reading tracks from fsys. The process-wide audio
// context is reused when one exists; otherwise it is created at sampleRate.
func New(fsys fs.FS, sampleRate int, log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	return &Backend{FS: fsys, ctx: ctx, log: log}
}

func (b *Backend) NewResource() transport.PlaybackResource {
	return &resource{b: b, volume: 1, finished: make(chan struct{}), stop: make(chan struct{})}
}

// stream is what the ebiten decoders return.
type stream interface {
	io.ReadSeeker
	Length() int64
}

// decode picks a decoder by file extension and resamples to sampleRate.
func decode(track string, sampleRate int, src io.ReadSeeker) (stream, error) {
	switch strings.ToLower(path.Ext(track)) {
	case ".wav":
		s, err := wav.DecodeWithSampleRate(sampleRate, src)
		if err != nil {
			return nil, fmt.Errorf("decode wav %q: %w", track, err)
		}
		return s, nil
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(sampleRate, src)
		if err != nil {
			return nil, fmt.Errorf("decode mp3 %q: %w", track, err)
		}
		return s, nil
	case ".ogg", ".oga":
		s, err := vorbis.DecodeWithSampleRate(sampleRate, src)
		if err != nil {
			return nil, fmt.Errorf("decode ogg %q: %w", track, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, track)
	}
}

type resource struct {
	b *Backend

	mu       sync.Mutex
	player   *audio.Player
	track    string
	looping  bool
	muted    bool
	volume   float64
	disposed bool
	watching bool

	finished   chan struct{}
	finishOnce sync.Once
	stop       chan struct{}
	stopOnce   sync.Once
}

func (r *resource) Load(ctx context.Context, track string) error {
	data, err := fs.ReadFile(r.b.FS, strings.TrimPrefix(track, "/"))
	if err != nil {
		return fmt.Errorf("read %q: %w", track, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s, err := decode(track, r.b.ctx.SampleRate(), bytes.NewReader(data))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return errors.New("ebitenaudio: resource disposed")
	}

	var src io.Reader = s
	if r.looping {
		src = audio.NewInfiniteLoop(s, s.Length())
	}
	player, err := r.b.ctx.NewPlayer(src)
	if err != nil {
		return fmt.Errorf("new player %q: %w", track, err)
	}
	r.player = player
	r.track = track
	r.applyVolumeLocked()
	return nil
}

// Play starts the player. Until the audio device is up (browsers need a
// user gesture first) it reports transport.ErrPlaybackBlocked.
func (r *resource) Play(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.player == nil {
		return errors.New("ebitenaudio: play before load")
	}
	if !r.b.ctx.IsReady() {
		return fmt.Errorf("play %q: %w", r.track, transport.ErrPlaybackBlocked)
	}
	r.player.Play()
	if !r.looping && !r.watching {
		r.watching = true
		go r.watchFinish(r.player)
	}
	return nil
}

// watchFinish closes finished once a one-shot stops playing.
func (r *resource) watchFinish(p *audio.Player) {
	ticker := time.NewTicker(finishPoll)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if !p.IsPlaying() {
				r.finish()
				return
			}
		}
	}
}

func (r *resource) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.player != nil {
		r.player.Pause()
	}
}

func (r *resource) SetVolume(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = v
	r.applyVolumeLocked()
}

// SetLooping must be called before Load to take effect.
func (r *resource) SetLooping(loop bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.looping = loop
}

func (r *resource) SetMuted(muted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.muted = muted
	r.applyVolumeLocked()
}

func (r *resource) Dispose() {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	r.disposed = true
	p := r.player
	r.player = nil
	r.mu.Unlock()

	r.stopOnce.Do(func() { close(r.stop) })
	if p != nil {
		p.Pause()
		if err := p.Close(); err != nil {
			r.b.log.Debug("closing player", zap.Error(err))
		}
	}
	r.finish()
}

func (r *resource) Finished() <-chan struct{} { return r.finished }

func (r *resource) finish() {
	r.finishOnce.Do(func() { close(r.finished) })
}

// applyVolumeLocked pushes the effective volume; ebiten has no mute flag.
func (r *resource) applyVolumeLocked() {
	if r.player == nil {
		return
	}
	if r.muted {
		r.player.SetVolume(0)
		return
	}
	r.player.SetVolume(r.volume)
}
