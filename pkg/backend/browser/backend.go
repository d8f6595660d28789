//go:build js && wasm

// Package browser plays audio through HTMLAudioElement when SceneKitt runs
// as WebAssembly.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"syscall/js"

	"github.com/kittclouds/scenekitt/pkg/transport"
)

var errDisposed = errors.New("browser: resource disposed")

// Backend creates audio elements for tracks served under BaseURL.
type Backend struct {
	BaseURL string
}

func New(baseURL string) *Backend {
	return &Backend{BaseURL: strings.TrimSuffix(baseURL, "/")}
}

func (b *Backend) NewResource() transport.PlaybackResource {
	return &resource{b: b, finished: make(chan struct{})}
}

func (b *Backend) url(track string) string {
	track = strings.TrimPrefix(track, "/")
	if b.BaseURL == "" {
		return track
	}
	return b.BaseURL + "/" + track
}

type handler struct {
	event string
	fn    js.Func
}

type resource struct {
	b *Backend

	mu       sync.Mutex
	el       js.Value
	handlers []handler
	looping  bool
	disposed bool

	finished   chan struct{}
	finishOnce sync.Once
}

// Load creates the element and waits for canplaythrough or error.
func (r *resource) Load(ctx context.Context, track string) error {
	ready := make(chan error, 1)
	send := func(err error) {
		select {
		case ready <- err:
		default:
		}
	}

	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return errDisposed
	}
	el := js.Global().Get("Audio").New()
	el.Set("preload", "auto")
	el.Set("loop", r.looping)

	onReady := js.FuncOf(func(js.Value, []js.Value) any {
		send(nil)
		return nil
	})
	onError := js.FuncOf(func(this js.Value, _ []js.Value) any {
		code := 0
		if e := this.Get("error"); e.Truthy() {
			code = e.Get("code").Int()
		}
		send(fmt.Errorf("load %q: media error %d", track, code))
		return nil
	})
	onEnded := js.FuncOf(func(js.Value, []js.Value) any {
		r.finish()
		return nil
	})
	r.handlers = []handler{{"canplaythrough", onReady}, {"error", onError}, {"ended", onEnded}}
	for _, h := range r.handlers {
		el.Call("addEventListener", h.event, h.fn)
	}
	r.el = el

	el.Set("src", r.b.url(track))
	el.Call("load")
	r.mu.Unlock()

	select {
	case err := <-ready:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Play resolves the play() promise; NotAllowedError means autoplay was
// refused and maps to transport.ErrPlaybackBlocked.
func (r *resource) Play(ctx context.Context) error {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return errDisposed
	}
	if !r.el.Truthy() {
		r.mu.Unlock()
		return errors.New("browser: play before load")
	}
	done := make(chan error, 1)
	onOK := js.FuncOf(func(js.Value, []js.Value) any {
		done <- nil
		return nil
	})
	onErr := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var reason js.Value
		if len(args) > 0 {
			reason = args[0]
		}
		done <- playError(reason)
		return nil
	})
	r.el.Call("play").Call("then", onOK).Call("catch", onErr)
	r.mu.Unlock()

	release := func() {
		onOK.Release()
		onErr.Release()
	}
	select {
	case err := <-done:
		release()
		return err
	case <-ctx.Done():
		// the promise still settles later
		go func() {
			<-done
			release()
		}()
		return ctx.Err()
	}
}

// playError maps a play() rejection reason, which may be any JS value, to
// an error. NotAllowedError means autoplay was refused.
func playError(reason js.Value) error {
	if reason.Type() != js.TypeObject {
		if reason.IsUndefined() || reason.IsNull() {
			return errors.New("browser: play: rejected without a reason")
		}
		return fmt.Errorf("browser: play: %s", reason.String())
	}
	if name := reason.Get("name"); name.Type() == js.TypeString && name.String() == "NotAllowedError" {
		return transport.ErrPlaybackBlocked
	}
	if msg := reason.Get("message"); msg.Type() == js.TypeString {
		return fmt.Errorf("browser: play: %s", msg.String())
	}
	return errors.New("browser: play: unknown error")
}

func (r *resource) Pause() {
	r.withElement(func(el js.Value) { el.Call("pause") })
}

func (r *resource) SetVolume(v float64) {
	r.withElement(func(el js.Value) { el.Set("volume", v) })
}

func (r *resource) SetLooping(loop bool) {
	r.mu.Lock()
	r.looping = loop
	r.mu.Unlock()
	r.withElement(func(el js.Value) { el.Set("loop", loop) })
}

func (r *resource) SetMuted(muted bool) {
	r.withElement(func(el js.Value) { el.Set("muted", muted) })
}

// Dispose stops the element, drops its source and releases the callbacks.
func (r *resource) Dispose() {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	r.disposed = true
	el, handlers := r.el, r.handlers
	r.el, r.handlers = js.Undefined(), nil
	r.mu.Unlock()

	if el.Truthy() {
		for _, h := range handlers {
			el.Call("removeEventListener", h.event, h.fn)
		}
		el.Call("pause")
		el.Call("removeAttribute", "src")
		el.Call("load")
	}
	for _, h := range handlers {
		h.fn.Release()
	}
	r.finish()
}

func (r *resource) Finished() <-chan struct{} { return r.finished }

func (r *resource) finish() {
	r.finishOnce.Do(func() { close(r.finished) })
}

func (r *resource) withElement(fn func(js.Value)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed || !r.el.Truthy() {
		return
	}
	fn(r.el)
}
