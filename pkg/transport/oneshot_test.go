package transport_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/scenekitt/pkg/scene"
	"github.com/kittclouds/scenekitt/pkg/transport"
)

func TestDefaultSoundBank(t *testing.T) {
	bank := transport.DefaultSoundBank()
	assert.Equal(t, []string{"click", "close", "error", "hover", "open", "success"}, bank.Names())

	s, ok := bank.Lookup(transport.SoundClick)
	require.True(t, ok)
	assert.Equal(t, "sfx/click.ogg", s.Primary)
	assert.Equal(t, "sfx/click.mp3", s.Fallback)
}

func TestNewSoundBankValidates(t *testing.T) {
	_, err := transport.NewSoundBank([]transport.Sound{{Name: "dice"}})
	assert.Error(t, err)

	bank, err := transport.NewSoundBank([]transport.Sound{
		{Name: "dice", Primary: "sfx/dice.wav"},
		{Name: "dice", Primary: "sfx/dice2.wav"},
	})
	require.NoError(t, err)
	s, ok := bank.Lookup("dice")
	require.True(t, ok)
	assert.Equal(t, "sfx/dice2.wav", s.Primary)
}

func TestPlayOneShotUsesSFXVolume(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.tr.PlayOneShot(context.Background(), transport.SoundOpen))

	resources := f.backend.Resources()
	require.Len(t, resources, 1)
	res := resources[0]
	assert.Equal(t, "sfx/open.ogg", res.Track())
	assert.False(t, res.Looping())
	assert.Equal(t, 0.8, res.Volume())
	assert.Equal(t, 1, res.Plays())

	require.Eventually(t, res.Disposed, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return f.tr.ActiveOneShots() == 0 }, time.Second, time.Millisecond)
}

func TestPlayOneShotFallsBack(t *testing.T) {
	f := newFixture(t)
	f.backend.FailLoad("sfx/click.ogg", errors.New("codec not supported"))

	require.NoError(t, f.tr.PlayOneShot(context.Background(), transport.SoundClick))

	resources := f.backend.Resources()
	require.Len(t, resources, 2)
	assert.True(t, resources[0].Disposed())
	assert.Equal(t, "sfx/click.mp3", resources[1].Track())
	assert.Equal(t, 1, resources[1].Plays())
}

func TestPlayOneShotReportsBothFailures(t *testing.T) {
	f := newFixture(t)
	primary := errors.New("codec not supported")
	fallback := errors.New("not found")
	f.backend.FailLoad("sfx/error.ogg", primary)
	f.backend.FailLoad("sfx/error.mp3", fallback)

	err := f.tr.PlayOneShot(context.Background(), transport.SoundError)
	require.Error(t, err)
	assert.ErrorIs(t, err, primary)
	assert.ErrorIs(t, err, fallback)
	assert.Empty(t, f.backend.Live())
}

func TestPlayOneShotUnknownSound(t *testing.T) {
	f := newFixture(t)
	err := f.tr.PlayOneShot(context.Background(), "gong")
	assert.ErrorIs(t, err, transport.ErrUnknownSound)
	assert.Empty(t, f.backend.Resources())
}

func TestPlayOneShotSilentWhenDisabledOrMuted(t *testing.T) {
	f := newFixture(t, func(c *transport.Config) { c.Enabled = false })
	require.NoError(t, f.tr.PlayOneShot(context.Background(), transport.SoundHover))
	assert.Zero(t, f.backend.Loads())

	g := newFixture(t)
	g.tr.SetSFXVolume(0)
	require.NoError(t, g.tr.PlayOneShot(context.Background(), transport.SoundHover))
	assert.Zero(t, g.backend.Loads())
}

func TestPlayOneShotDoesNotTouchMusic(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, transport.OutcomeApplied, f.change(t, scene.City))
	music := f.musicResource(t, scene.City)

	require.NoError(t, f.tr.PlayOneShot(context.Background(), transport.SoundSuccess))

	assert.True(t, music.Playing())
	assert.Equal(t, 0.6, music.Volume())
	assert.Equal(t, transport.Playing, f.tr.Status().State)
	assert.Equal(t, 1, f.backend.MaxConcurrentMusic())
}
