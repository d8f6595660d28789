package transport

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Sound is a named one-shot with a primary and an optional fallback file.
type Sound struct {
	Name     string `yaml:"name" json:"name"`
	Primary  string `yaml:"primary" json:"primary"`
	Fallback string `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// SoundBank maps one-shot names to files.
type SoundBank struct {
	sounds map[string]Sound
}

// UI sound names in the default bank.
const (
	SoundClick   = "click"
	SoundHover   = "hover"
	SoundOpen    = "open"
	SoundClose   = "close"
	SoundSuccess = "success"
	SoundError   = "error"
)

// NewSoundBank indexes sounds by name; later entries replace earlier ones.
func NewSoundBank(sounds []Sound) (*SoundBank, error) {
	b := &SoundBank{sounds: make(map[string]Sound, len(sounds))}
	for _, s := range sounds {
		if s.Name == "" || s.Primary == "" {
			return nil, fmt.Errorf("sound %q: name and primary are required", s.Name)
		}
		b.sounds[s.Name] = s
	}
	return b, nil
}

// DefaultSoundBank returns the UI sounds, ogg with an mp3 fallback.
func DefaultSoundBank() *SoundBank {
	names := []string{SoundClick, SoundHover, SoundOpen, SoundClose, SoundSuccess, SoundError}
	b := &SoundBank{sounds: make(map[string]Sound, len(names))}
	for _, n := range names {
		b.sounds[n] = Sound{Name: n, Primary: "sfx/" + n + ".ogg", Fallback: "sfx/" + n + ".mp3"}
	}
	return b
}

func (b *SoundBank) Lookup(name string) (Sound, bool) {
	s, ok := b.sounds[name]
	return s, ok
}

// Names returns the sound names in sorted order.
func (b *SoundBank) Names() []string {
	out := make([]string, 0, len(b.sounds))
	for n := range b.sounds {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Sounds returns the sounds sorted by name.
func (b *SoundBank) Sounds() []Sound {
	names := b.Names()
	out := make([]Sound, len(names))
	for i, n := range names {
		out[i] = b.sounds[n]
	}
	return out
}

// PlayOneShot plays a sound from the bank at the SFX volume on a fresh
// resource, independent of the music. If the primary file fails the
// fallback is tried once. Nothing is played while audio is disabled or the
// SFX volume is zero.
func (t *Transport) PlayOneShot(ctx context.Context, name string) error {
	if t.isClosed() {
		return ErrClosed
	}
	t.mu.Lock()
	bank, enabled, vol := t.sounds, t.enabled, t.sfxVolume
	t.mu.Unlock()

	s, ok := bank.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSound, name)
	}
	if !enabled || vol == 0 {
		return nil
	}

	err := t.playSound(ctx, s.Primary, vol)
	if err == nil || s.Fallback == "" || s.Fallback == s.Primary {
		return err
	}
	t.log.Debug("one-shot primary failed, trying fallback",
		zap.String("sound", name), zap.String("fallback", s.Fallback), zap.Error(err))
	if ferr := t.playSound(ctx, s.Fallback, vol); ferr != nil {
		return errors.Join(
			fmt.Errorf("primary %q: %w", s.Primary, err),
			fmt.Errorf("fallback %q: %w", s.Fallback, ferr),
		)
	}
	return nil
}

func (t *Transport) playSound(ctx context.Context, file string, vol float64) error {
	res := t.backend.NewResource()
	res.SetLooping(false)
	if err := t.load(ctx, res, file); err != nil {
		res.Dispose()
		return err
	}
	res.SetVolume(vol)
	if err := res.Play(ctx); err != nil {
		res.Dispose()
		return err
	}

	t.mu.Lock()
	if t.closing {
		t.mu.Unlock()
		res.Dispose()
		return ErrClosed
	}
	t.nextShot++
	id := t.nextShot
	t.oneshots[id] = res
	t.reapers.Add(1)
	t.mu.Unlock()

	go t.reap(id, res)
	return nil
}

// reap disposes a one-shot once it finished or outlived OneShotMaxLifetime.
func (t *Transport) reap(id uint64, res PlaybackResource) {
	defer t.reapers.Done()

	var finished <-chan struct{}
	if f, ok := res.(Finisher); ok {
		finished = f.Finished()
	}
	timer := time.NewTimer(t.opts.OneShotMaxLifetime)
	defer timer.Stop()

	select {
	case <-finished:
	case <-timer.C:
	case <-t.closed:
	}

	t.mu.Lock()
	_, owned := t.oneshots[id]
	delete(t.oneshots, id)
	t.mu.Unlock()
	if owned {
		res.Dispose()
	}
}

// ActiveOneShots returns the number of one-shots not yet reaped.
func (t *Transport) ActiveOneShots() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.oneshots)
}
