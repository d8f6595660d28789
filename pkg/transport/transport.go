package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kittclouds/scenekitt/pkg/scene"
)

// State is the transport's playback state.
type State uint8

const (
	Idle State = iota
	Loading
	FadingOut
	FadingIn
	Playing
	// AwaitingGesture: the current resource is loaded but paused because the
	// host blocked autoplay; playback resumes on the next user gesture.
	AwaitingGesture
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case FadingOut:
		return "fading_out"
	case FadingIn:
		return "fading_in"
	case Playing:
		return "playing"
	case AwaitingGesture:
		return "awaiting_gesture"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Outcome says what a transport operation did. Drops are outcomes, not errors.
type Outcome uint8

const (
	OutcomeApplied Outcome = iota
	OutcomeRecorded
	OutcomeUnchanged
	OutcomeDebounced
	OutcomeBusy
	OutcomeAwaitingGesture
	OutcomeLoadFailed
	OutcomePlaybackFailed
	OutcomeStopped
	OutcomeCanceled
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeRecorded:
		return "recorded"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeDebounced:
		return "debounced"
	case OutcomeBusy:
		return "busy"
	case OutcomeAwaitingGesture:
		return "awaiting_gesture"
	case OutcomeLoadFailed:
		return "load_failed"
	case OutcomePlaybackFailed:
		return "playback_failed"
	case OutcomeStopped:
		return "stopped"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeRejected:
		return "rejected"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Config wires a Transport.
type Config struct {
	Backend  Backend
	Catalog  *scene.Catalog // nil selects scene.DefaultCatalog()
	Sounds   *SoundBank     // nil selects DefaultSoundBank()
	Gestures GestureSignal  // nil disables autoplay retry
	Clock    Clock          // nil selects RealClock()
	Logger   *zap.Logger
	Options  Options

	MusicVolume float64
	SFXVolume   float64
	Enabled     bool
}

// Status is a point-in-time view of the transport.
type Status struct {
	State         State       `json:"state"`
	Scene         scene.Scene `json:"scene"` // meaningful only when HasScene
	HasScene      bool        `json:"hasScene"`
	Track         string      `json:"track,omitempty"`
	Playing       bool        `json:"playing"`
	Transitioning bool        `json:"transitioning"`
	MusicVolume   float64     `json:"musicVolume"`
	SFXVolume     float64     `json:"sfxVolume"`
	Enabled       bool        `json:"enabled"`
}

// track is the resource currently owned for scene music.
type track struct {
	res         PlaybackResource
	id          string
	volume      float64
	playing     bool
	cancelRetry func()
}

// Transport owns at most one music resource and moves it between scenes.
// All methods are safe for concurrent use; transitions are serialized.
type Transport struct {
	backend  Backend
	gestures GestureSignal
	clock    Clock
	log      *zap.Logger
	opts     Options

	// guard is held for the whole of one transition or stop.
	guard chan struct{}

	baseCtx    context.Context
	baseCancel context.CancelFunc
	closed     chan struct{}
	closeOnce  sync.Once
	reapers    sync.WaitGroup

	mu           sync.Mutex
	catalog      *scene.Catalog
	sounds       *SoundBank
	state        State
	current      *track
	currentScene scene.Scene
	hasScene     bool
	lastChangeAt time.Time
	musicVolume  float64
	sfxVolume    float64
	enabled      bool
	closing      bool
	oneshots     map[uint64]PlaybackResource
	nextShot     uint64
}

// New creates a transport in the Idle state.
func New(cfg Config) (*Transport, error) {
	if cfg.Backend == nil {
		return nil, errors.New("transport: backend is nil")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = scene.DefaultCatalog()
	}
	if cfg.Sounds == nil {
		cfg.Sounds = DefaultSoundBank()
	}
	if cfg.Gestures == nil {
		cfg.Gestures = noGestures{}
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Transport{
		backend:     cfg.Backend,
		catalog:     cfg.Catalog,
		sounds:      cfg.Sounds,
		gestures:    cfg.Gestures,
		clock:       cfg.Clock,
		log:         cfg.Logger,
		opts:        cfg.Options.withDefaults(),
		guard:       make(chan struct{}, 1),
		baseCtx:     ctx,
		baseCancel:  cancel,
		closed:      make(chan struct{}),
		state:       Idle,
		musicVolume: clamp01(cfg.MusicVolume),
		sfxVolume:   clamp01(cfg.SFXVolume),
		enabled:     cfg.Enabled,
		oneshots:    make(map[uint64]PlaybackResource),
	}, nil
}

// ChangeScene crossfades to the track of s. It returns once the transition
// finished or was dropped; load and playback failures leave the transport
// in its previous steady state and are reported through the error.
func (t *Transport) ChangeScene(ctx context.Context, s scene.Scene) (Outcome, error) {
	if !s.Valid() {
		return OutcomeRejected, fmt.Errorf("%w: %d", scene.ErrUnknownScene, uint8(s))
	}
	if t.isClosed() {
		return OutcomeCanceled, ErrClosed
	}

	t.mu.Lock()
	if !t.enabled {
		t.currentScene, t.hasScene = s, true
		t.mu.Unlock()
		return OutcomeRecorded, nil
	}
	if t.hasScene && t.currentScene == s && t.current != nil && t.current.playing {
		t.mu.Unlock()
		return OutcomeUnchanged, nil
	}
	now := t.clock.Now()
	if !t.lastChangeAt.IsZero() && now.Sub(t.lastChangeAt) < t.opts.DebounceWindow {
		t.mu.Unlock()
		return OutcomeDebounced, nil
	}
	t.mu.Unlock()

	release, ok := t.tryAcquire(ctx)
	if !ok {
		return OutcomeBusy, nil
	}
	defer release()

	// only accepted requests open a debounce window
	t.mu.Lock()
	t.lastChangeAt = now
	t.mu.Unlock()

	return t.transition(ctx, s)
}

// transition runs the body of a scene change. The guard must be held.
func (t *Transport) transition(ctx context.Context, s scene.Scene) (Outcome, error) {
	t.mu.Lock()
	if !t.enabled {
		t.currentScene, t.hasScene = s, true
		t.mu.Unlock()
		return OutcomeRecorded, nil
	}
	target := t.catalog.Track(s)
	prev := t.current
	if prev != nil && prev.id == target && prev.playing {
		same := t.hasScene && t.currentScene == s
		t.currentScene, t.hasScene = s, true
		t.mu.Unlock()
		if same {
			return OutcomeUnchanged, nil
		}
		return OutcomeApplied, nil
	}
	t.mu.Unlock()

	log := t.log.With(zap.Stringer("scene", s), zap.String("track", target))
	log.Debug("transition started")

	next := prev
	if prev == nil || prev.id != target {
		t.setState(Loading)
		res := t.backend.NewResource()
		res.SetLooping(true)
		if err := t.load(ctx, res, target); err != nil {
			res.Dispose()
			t.restoreSteadyState()
			return OutcomeLoadFailed, fmt.Errorf("load %q for scene %s: %w", target, s, err)
		}
		next = &track{res: res, id: target}

		if prev != nil {
			t.setState(FadingOut)
			t.fadeOutAndDispose(ctx, prev)
		}
		if err := ctx.Err(); err != nil {
			res.Dispose()
			t.restoreSteadyState()
			return OutcomeCanceled, err
		}

		t.mu.Lock()
		t.current = next
		t.mu.Unlock()
	}

	outcome, err := t.fadeIn(ctx, s, next)
	log.Debug("transition finished", zap.Stringer("outcome", outcome))
	return outcome, err
}

// fadeIn starts tr muted at volume 0, unmutes once playing and ramps to the
// music volume. A blocked start parks tr until the next user gesture.
func (t *Transport) fadeIn(ctx context.Context, s scene.Scene, tr *track) (Outcome, error) {
	t.mu.Lock()
	t.state = FadingIn
	if tr.cancelRetry != nil {
		tr.cancelRetry()
		tr.cancelRetry = nil
	}
	t.applyVolumeLocked(tr, 0)
	t.mu.Unlock()

	tr.res.SetMuted(true)
	if err := tr.res.Play(ctx); err != nil {
		if errors.Is(err, ErrPlaybackBlocked) {
			t.mu.Lock()
			tr.playing = false
			t.currentScene, t.hasScene = s, true
			t.state = AwaitingGesture
			t.mu.Unlock()
			t.registerRetry(tr)
			t.log.Debug("playback blocked, waiting for user gesture", zap.Stringer("scene", s))
			return OutcomeAwaitingGesture, nil
		}

		t.mu.Lock()
		if t.current == tr {
			t.current = nil
		}
		t.mu.Unlock()
		tr.res.Dispose()
		t.restoreSteadyState()
		return OutcomePlaybackFailed, fmt.Errorf("play %q for scene %s: %w", tr.id, s, err)
	}
	tr.res.SetMuted(false)

	t.mu.Lock()
	tr.playing = true
	target := t.musicVolume
	t.mu.Unlock()

	f := Fade{From: 0, To: target, Duration: t.opts.FadeDuration, Step: t.opts.FadeStep}
	_ = f.Run(ctx, t.clock, func(v float64) { t.applyVolume(tr, v) })

	t.mu.Lock()
	t.currentScene, t.hasScene = s, true
	t.state = Playing
	// the music volume may have changed during the ramp
	t.applyVolumeLocked(tr, t.musicVolume)
	t.mu.Unlock()
	return OutcomeApplied, nil
}

// fadeOutAndDispose ramps tr to silence and releases it.
func (t *Transport) fadeOutAndDispose(ctx context.Context, tr *track) {
	t.mu.Lock()
	from, playing := tr.volume, tr.playing
	if tr.cancelRetry != nil {
		tr.cancelRetry()
		tr.cancelRetry = nil
	}
	t.mu.Unlock()

	if playing {
		f := Fade{From: from, To: 0, Duration: t.opts.FadeDuration, Step: t.opts.FadeStep}
		_ = f.Run(ctx, t.clock, func(v float64) { t.applyVolume(tr, v) })
	}

	t.mu.Lock()
	if t.current == tr {
		t.current = nil
	}
	tr.playing = false
	t.mu.Unlock()

	tr.res.Pause()
	tr.res.Dispose()
}

func (t *Transport) registerRetry(tr *track) {
	cancel := t.gestures.OnNextGesture(func() { go t.retry(tr) })

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == tr && !tr.playing {
		tr.cancelRetry = cancel
		return
	}
	cancel()
}

// retry resumes a resource parked by a blocked autoplay.
func (t *Transport) retry(tr *track) {
	release, ok := t.tryAcquire(t.baseCtx)
	if !ok {
		t.mu.Lock()
		still := t.current == tr && !tr.playing && !t.closing
		t.mu.Unlock()
		if still {
			t.registerRetry(tr)
		}
		return
	}
	defer release()

	t.mu.Lock()
	if t.current != tr || tr.playing || !t.enabled || t.closing {
		t.mu.Unlock()
		return
	}
	s := t.currentScene
	t.mu.Unlock()

	outcome, err := t.fadeIn(t.baseCtx, s, tr)
	if err != nil {
		t.log.Warn("gesture retry failed", zap.Stringer("scene", s), zap.Error(err))
		return
	}
	t.log.Debug("gesture retry", zap.Stringer("scene", s), zap.Stringer("outcome", outcome))
}

// StopMusic fades out and releases the current resource and forgets the
// scene. It waits for an in-flight transition rather than dropping.
func (t *Transport) StopMusic(ctx context.Context) (Outcome, error) {
	release, err := t.acquire(ctx)
	if err != nil {
		return OutcomeCanceled, err
	}
	defer release()
	return t.stop(ctx, true), nil
}

// stop releases playback. The guard must be held.
func (t *Transport) stop(ctx context.Context, forgetScene bool) Outcome {
	t.mu.Lock()
	cur := t.current
	if forgetScene {
		t.hasScene = false
	}
	t.mu.Unlock()

	if cur == nil {
		t.setState(Idle)
		return OutcomeUnchanged
	}
	t.setState(FadingOut)
	t.fadeOutAndDispose(ctx, cur)
	t.setState(Idle)
	return OutcomeStopped
}

// SetEnabled turns music on or off. Disabling releases playback but keeps
// the scene; enabling plays the recorded scene again without debouncing.
func (t *Transport) SetEnabled(ctx context.Context, enabled bool) (Outcome, error) {
	t.mu.Lock()
	if t.enabled == enabled {
		t.mu.Unlock()
		return OutcomeUnchanged, nil
	}
	t.enabled = enabled
	s, has := t.currentScene, t.hasScene
	t.mu.Unlock()

	release, err := t.acquire(ctx)
	if err != nil {
		return OutcomeCanceled, err
	}
	defer release()

	if !enabled {
		return t.stop(ctx, false), nil
	}
	if !has {
		return OutcomeUnchanged, nil
	}
	return t.transition(ctx, s)
}

// SetMusicVolume clamps v to [0,1] and applies it to the playing resource
// without a fade. It returns the stored value.
func (t *Transport) SetMusicVolume(v float64) float64 {
	v = clamp01(v)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.musicVolume = v
	if t.state == Playing && t.current != nil && t.current.playing {
		t.applyVolumeLocked(t.current, v)
	}
	return v
}

// SetSFXVolume clamps v to [0,1] for subsequent one-shots and returns it.
func (t *Transport) SetSFXVolume(v float64) float64 {
	v = clamp01(v)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sfxVolume = v
	return v
}

// SetCatalog swaps the scene catalog. The playing track is kept until the
// next scene change.
func (t *Transport) SetCatalog(c *scene.Catalog) {
	if c == nil {
		return
	}
	t.mu.Lock()
	t.catalog = c
	t.mu.Unlock()
}

// SetSounds swaps the one-shot sound bank.
func (t *Transport) SetSounds(b *SoundBank) {
	if b == nil {
		return
	}
	t.mu.Lock()
	t.sounds = b
	t.mu.Unlock()
}

// CurrentScene returns the scene the transport is on (or was asked to be on
// while disabled).
func (t *Transport) CurrentScene() (scene.Scene, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentScene, t.hasScene
}

// Transitioning reports whether a transition or stop is in flight.
func (t *Transport) Transitioning() bool {
	return len(t.guard) == 1
}

// Status returns a snapshot of the transport.
func (t *Transport) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := Status{
		State:         t.state,
		Scene:         t.currentScene,
		HasScene:      t.hasScene,
		Transitioning: len(t.guard) == 1,
		MusicVolume:   t.musicVolume,
		SFXVolume:     t.sfxVolume,
		Enabled:       t.enabled,
	}
	if t.current != nil {
		st.Track = t.current.id
		st.Playing = t.current.playing
	}
	return st
}

// Close releases every resource immediately, without fading. In-flight
// transitions are waited for until ctx expires.
func (t *Transport) Close(ctx context.Context) error {
	t.closeOnce.Do(func() {
		close(t.closed)
		t.baseCancel()
	})

	t.mu.Lock()
	t.closing = true
	shots := make([]PlaybackResource, 0, len(t.oneshots))
	for id, res := range t.oneshots {
		shots = append(shots, res)
		delete(t.oneshots, id)
	}
	t.mu.Unlock()
	for _, res := range shots {
		res.Dispose()
	}

	release, err := t.acquire(ctx)
	if err != nil {
		return fmt.Errorf("close transport: %w", err)
	}
	defer release()

	t.mu.Lock()
	cur := t.current
	t.current = nil
	t.state = Idle
	if cur != nil && cur.cancelRetry != nil {
		cur.cancelRetry()
		cur.cancelRetry = nil
	}
	t.mu.Unlock()
	if cur != nil {
		cur.res.Pause()
		cur.res.Dispose()
	}

	t.reapers.Wait()
	return nil
}

func (t *Transport) isClosed() bool {
	select {
	case <-t.closed:
		return true
	default:
		return false
	}
}

// tryAcquire takes the transition guard, waiting at most BusyWait.
func (t *Transport) tryAcquire(ctx context.Context) (release func(), ok bool) {
	select {
	case t.guard <- struct{}{}:
		return t.release, true
	default:
	}
	select {
	case t.guard <- struct{}{}:
		return t.release, true
	case <-t.clock.After(t.opts.BusyWait):
		return nil, false
	case <-ctx.Done():
		return nil, false
	}
}

// acquire takes the transition guard, waiting until ctx is done.
func (t *Transport) acquire(ctx context.Context) (release func(), err error) {
	select {
	case t.guard <- struct{}{}:
		return t.release, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *Transport) release() {
	<-t.guard
}

// load waits for res to become ready, bounded by LoadTimeout. Load runs on
// its own goroutine so a resource that ignores ctx cannot stall the caller.
func (t *Transport) load(ctx context.Context, res PlaybackResource, id string) error {
	ctx, cancel := context.WithTimeout(ctx, t.opts.LoadTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- res.Load(ctx, id) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrLoadTimeout, t.opts.LoadTimeout)
		}
		return ctx.Err()
	}
}

func (t *Transport) setState(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

// restoreSteadyState derives the state from the current resource after an
// aborted transition.
func (t *Transport) restoreSteadyState() {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.current == nil:
		t.state = Idle
	case t.current.playing:
		t.state = Playing
	default:
		t.state = AwaitingGesture
	}
}

func (t *Transport) applyVolume(tr *track, v float64) {
	t.mu.Lock()
	t.applyVolumeLocked(tr, v)
	t.mu.Unlock()
}

func (t *Transport) applyVolumeLocked(tr *track, v float64) {
	tr.volume = v
	tr.res.SetVolume(v)
}
