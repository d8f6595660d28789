// Package director is the public face of SceneKitt. It resolves scenes from
// story context, drives the crossfade transport and persists the user's
// audio preferences. Playback work runs in the background: audio failures
// are logged and counted, never returned to callers.
package director

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kittclouds/scenekitt/internal/store"
	"github.com/kittclouds/scenekitt/pkg/classifier"
	"github.com/kittclouds/scenekitt/pkg/lexicon"
	"github.com/kittclouds/scenekitt/pkg/scene"
	"github.com/kittclouds/scenekitt/pkg/transport"
)

// Deps are the collaborators of a Director. Only Backend is required.
type Deps struct {
	Backend    transport.Backend
	Store      store.SettingsStore     // nil keeps prefs in memory
	Gestures   transport.GestureSignal // nil disables autoplay recovery
	Logger     *zap.Logger
	Registerer prometheus.Registerer // nil leaves metrics unregistered
	Catalog    *scene.Catalog
	Sounds     *transport.SoundBank
	Lexicon    *lexicon.Lexicon
	Clock      transport.Clock
}

// Options tune the director.
type Options struct {
	Transport transport.Options
	// HistoryWindow is the number of recent lines classified together.
	HistoryWindow int
}

// Director coordinates scene resolution, playback and settings.
type Director struct {
	tr         *transport.Transport
	classifier *classifier.Classifier
	resolver   *scene.Resolver
	store      store.SettingsStore
	log        *zap.Logger
	metrics    *metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// music operations run one at a time, in call order, on the worker
	wake       chan struct{}
	stopWorker chan struct{}
	workerDone chan struct{}

	mu     sync.Mutex
	prefs  store.AudioPrefs
	queue  []job
	closed bool
}

type job struct {
	op string
	fn func(ctx context.Context)
}

// New builds a director and applies the stored audio prefs. A store read
// failure is logged and the defaults are used.
func New(deps Deps, opts Options) (*Director, error) {
	if deps.Backend == nil {
		return nil, errors.New("director: backend is nil")
	}
	if deps.Store == nil {
		deps.Store = store.NewMemStore()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	log := deps.Logger.Named("director")

	prefs, err := store.LoadOrDefault(deps.Store)
	if err != nil {
		log.Warn("reading audio prefs, using defaults", zap.Error(err))
	}

	tr, err := transport.New(transport.Config{
		Backend:     deps.Backend,
		Catalog:     deps.Catalog,
		Sounds:      deps.Sounds,
		Gestures:    deps.Gestures,
		Clock:       deps.Clock,
		Logger:      deps.Logger.Named("transport"),
		Options:     opts.Transport,
		MusicVolume: prefs.MusicVolume,
		SFXVolume:   prefs.SFXVolume,
		Enabled:     prefs.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("director: %w", err)
	}

	cls := classifier.New(deps.Lexicon)
	if opts.HistoryWindow > 0 {
		cls = cls.WithHistoryWindow(opts.HistoryWindow)
	}

	m := newMetrics(deps.Registerer)
	m.musicVolume.Set(prefs.MusicVolume)
	m.sfxVolume.Set(prefs.SFXVolume)

	ctx, cancel := context.WithCancel(context.Background())
	log.Info("director ready",
		zap.Float64("music_volume", prefs.MusicVolume),
		zap.Float64("sfx_volume", prefs.SFXVolume),
		zap.Bool("enabled", prefs.Enabled))

	d := &Director{
		tr:         tr,
		classifier: cls,
		resolver:   scene.NewResolver(cls),
		store:      deps.Store,
		log:        log,
		metrics:    m,
		ctx:        ctx,
		cancel:     cancel,
		wake:       make(chan struct{}, 1),
		stopWorker: make(chan struct{}),
		workerDone: make(chan struct{}),
		prefs:      prefs,
	}
	go d.work()
	return d, nil
}

// ChangeScene moves the music to s in the background.
func (d *Director) ChangeScene(s scene.Scene) {
	d.enqueue("change_scene", func(ctx context.Context) {
		out, err := d.tr.ChangeScene(ctx, s)
		d.recordSceneChange(s, scene.ReasonExplicit, out, err)
	})
}

// ChangeSceneFromText resolves a scene from the story signals and moves the
// music there in the background. The resolution is returned for display.
func (d *Director) ChangeSceneFromText(sig scene.Signals) scene.Resolution {
	res := d.resolver.ResolveDetailed(sig)
	d.enqueue("change_scene_from_text", func(ctx context.Context) {
		out, err := d.tr.ChangeScene(ctx, res.Scene)
		d.recordSceneChange(res.Scene, res.Reason, out, err)
	})
	return res
}

// StopMusic fades the music out and forgets the scene.
func (d *Director) StopMusic() {
	d.enqueue("stop_music", func(ctx context.Context) {
		out, err := d.tr.StopMusic(ctx)
		if err != nil {
			d.log.Warn("stop music", zap.Error(err))
			return
		}
		d.log.Debug("stop music", zap.Stringer("outcome", out))
	})
}

// PlayOneShot plays a UI sound in the background. One-shots do not wait
// for queued music operations.
func (d *Director) PlayOneShot(name string) {
	d.spawn("play_one_shot", func(ctx context.Context) {
		err := d.tr.PlayOneShot(ctx, name)
		switch {
		case err == nil:
			d.metrics.oneShots.WithLabelValues(oneShotOK).Inc()
		case errors.Is(err, transport.ErrUnknownSound):
			d.metrics.oneShots.WithLabelValues(oneShotUnknown).Inc()
			d.log.Warn("one-shot", zap.String("sound", name), zap.Error(err))
		default:
			d.metrics.oneShots.WithLabelValues(oneShotFailed).Inc()
			d.log.Debug("one-shot failed", zap.String("sound", name), zap.Error(err))
		}
	})
}

// SetMusicVolume clamps, applies and persists the music volume and returns
// the stored value.
func (d *Director) SetMusicVolume(v float64) float64 {
	v = d.tr.SetMusicVolume(v)
	d.metrics.musicVolume.Set(v)
	d.updatePrefs(func(p *store.AudioPrefs) { p.MusicVolume = v })
	return v
}

// SetSFXVolume clamps, applies and persists the one-shot volume and returns
// the stored value.
func (d *Director) SetSFXVolume(v float64) float64 {
	v = d.tr.SetSFXVolume(v)
	d.metrics.sfxVolume.Set(v)
	d.updatePrefs(func(p *store.AudioPrefs) { p.SFXVolume = v })
	return v
}

// SetEnabled persists the flag at once; the music is released or resumed
// in the background, after the music operations queued before it.
func (d *Director) SetEnabled(enabled bool) {
	d.updatePrefs(func(p *store.AudioPrefs) { p.Enabled = enabled })
	d.enqueue("set_enabled", func(ctx context.Context) {
		out, err := d.tr.SetEnabled(ctx, enabled)
		if err != nil {
			d.log.Warn("set enabled", zap.Bool("enabled", enabled), zap.Stringer("outcome", out), zap.Error(err))
			return
		}
		d.log.Debug("set enabled", zap.Bool("enabled", enabled), zap.Stringer("outcome", out))
	})
}

// SetCatalog swaps the scene catalog, for example after the catalog file
// changed on disk.
func (d *Director) SetCatalog(c *scene.Catalog) { d.tr.SetCatalog(c) }

// SetSounds swaps the one-shot sound bank.
func (d *Director) SetSounds(b *transport.SoundBank) { d.tr.SetSounds(b) }

func (d *Director) CurrentScene() (scene.Scene, bool) { return d.tr.CurrentScene() }

func (d *Director) MusicVolume() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prefs.MusicVolume
}

func (d *Director) SFXVolume() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prefs.SFXVolume
}

func (d *Director) IsAudioEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prefs.Enabled
}

// Status returns the transport snapshot.
func (d *Director) Status() transport.Status { return d.tr.Status() }

// Classify scores text without touching playback.
func (d *Director) Classify(text string) classifier.Result {
	return d.classifier.Classify(text)
}

// Resolve picks a scene for the signals without touching playback.
func (d *Director) Resolve(sig scene.Signals) scene.Resolution {
	return d.resolver.ResolveDetailed(sig)
}

// Wait blocks until all background work started so far is done.
func (d *Director) Wait() {
	d.wg.Wait()
}

// Close stops accepting work, lets queued work finish (cancelling it when
// ctx expires), fades the music out and releases everything.
func (d *Director) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		d.cancel()
		<-done
	}
	close(d.stopWorker)
	<-d.workerDone

	var errs []error
	if _, err := d.tr.StopMusic(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop music: %w", err))
	}
	d.cancel()
	if err := d.tr.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := d.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	d.log.Info("director closed")
	return errors.Join(errs...)
}

// enqueue appends fn to the music queue unless the director is closed.
func (d *Director) enqueue(op string, fn func(ctx context.Context)) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Debug("dropped after close", zap.String("op", op))
		return
	}
	d.wg.Add(1)
	d.queue = append(d.queue, job{op: op, fn: fn})
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// work drains the music queue in FIFO order until Close.
func (d *Director) work() {
	defer close(d.workerDone)
	for {
		select {
		case <-d.wake:
		case <-d.stopWorker:
			return
		}
		for {
			d.mu.Lock()
			if len(d.queue) == 0 {
				d.mu.Unlock()
				break
			}
			j := d.queue[0]
			d.queue[0] = job{}
			d.queue = d.queue[1:]
			d.mu.Unlock()

			j.fn(d.ctx)
			d.wg.Done()
		}
	}
}

// spawn runs fn on a tracked goroutine unless the director is closed.
func (d *Director) spawn(op string, fn func(ctx context.Context)) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Debug("dropped after close", zap.String("op", op))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		fn(d.ctx)
	}()
}

func (d *Director) updatePrefs(mutate func(*store.AudioPrefs)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	mutate(&d.prefs)
	d.prefs.UpdatedAt = time.Now().UnixMilli()
	if err := d.store.WriteAudioPrefs(d.prefs); err != nil {
		d.log.Warn("persisting audio prefs", zap.Error(err))
	}
}

func (d *Director) recordSceneChange(s scene.Scene, reason scene.Reason, out transport.Outcome, err error) {
	d.metrics.sceneChanges.WithLabelValues(out.String()).Inc()
	fields := []zap.Field{
		zap.Stringer("scene", s),
		zap.String("reason", string(reason)),
		zap.Stringer("outcome", out),
	}
	if err != nil {
		d.log.Warn("scene change failed", append(fields, zap.Error(err))...)
		return
	}
	d.log.Debug("scene change", fields...)
}
