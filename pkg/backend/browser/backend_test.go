//go:build js && wasm

package browser

import (
	"syscall/js"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kittclouds/scenekitt/pkg/transport"
)

func TestPlayErrorBlockedAutoplay(t *testing.T) {
	reason := js.ValueOf(map[string]any{"name": "NotAllowedError", "message": "user didn't interact"})
	assert.ErrorIs(t, playError(reason), transport.ErrPlaybackBlocked)
}

func TestPlayErrorUsesMessage(t *testing.T) {
	reason := js.Global().Get("Error").New("decode failed")
	err := playError(reason)
	assert.NotErrorIs(t, err, transport.ErrPlaybackBlocked)
	assert.EqualError(t, err, "browser: play: decode failed")
}

func TestPlayErrorNonObjectReasons(t *testing.T) {
	tests := []struct {
		name   string
		reason js.Value
		want   string
	}{
		{"string", js.ValueOf("NotAllowedError"), "browser: play: NotAllowedError"},
		{"undefined", js.Undefined(), "browser: play: rejected without a reason"},
		{"null", js.Null(), "browser: play: rejected without a reason"},
		{"object without fields", js.ValueOf(map[string]any{}), "browser: play: unknown error"},
		{"numeric name", js.ValueOf(map[string]any{"name": 3}), "browser: play: unknown error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() { err = playError(tt.reason) })
			assert.EqualError(t, err, tt.want)
		})
	}
}
