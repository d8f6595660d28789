//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"syscall/js"
	"time"

	"github.com/hack-pad/hackpadfs/indexeddb"
	"go.uber.org/zap"

	"github.com/kittclouds/scenekitt/internal/config"
	"github.com/kittclouds/scenekitt/internal/logger"
	"github.com/kittclouds/scenekitt/internal/store"
	"github.com/kittclouds/scenekitt/pkg/backend/browser"
	"github.com/kittclouds/scenekitt/pkg/director"
	"github.com/kittclouds/scenekitt/pkg/gesture"
	"github.com/kittclouds/scenekitt/pkg/scene"
	"github.com/kittclouds/scenekitt/pkg/transport"
)

// Version info
const Version = "0.3.0"

const (
	idbName   = "scenekitt"
	prefsPath = "prefs/audio.json"
)

var errNotInitialized = errors.New("not initialized, call SceneKitt.initialize first")

// initOptions is the JSON accepted by initialize.
type initOptions struct {
	BaseURL  string `json:"baseURL"`
	Catalog  string `json:"catalog"` // catalog YAML, optional
	LogLevel string `json:"logLevel"`
}

var (
	mu    sync.Mutex
	dir   *director.Director
	latch = gesture.NewLatch()
	log   = zap.NewNop()
)

func main() {
	listenForGestures()

	js.Global().Set("SceneKitt", js.ValueOf(map[string]interface{}{
		"version":             js.FuncOf(getVersion),
		"initialize":          js.FuncOf(initialize),
		"dispose":             js.FuncOf(dispose),
		"changeScene":         js.FuncOf(changeScene),
		"changeSceneFromText": js.FuncOf(changeSceneFromText),
		"stopMusic":           js.FuncOf(stopMusic),
		"playOneShot":         js.FuncOf(playOneShot),
		"setMusicVolume":      js.FuncOf(setMusicVolume),
		"setSFXVolume":        js.FuncOf(setSFXVolume),
		"setEnabled":          js.FuncOf(setEnabled),
		"getCurrentScene":     js.FuncOf(getCurrentScene),
		"getMusicVolume":      js.FuncOf(getMusicVolume),
		"getSFXVolume":        js.FuncOf(getSFXVolume),
		"isAudioEnabled":      js.FuncOf(isAudioEnabled),
		"classify":            js.FuncOf(classify),
		"status":              js.FuncOf(status),
	}))
	println("[SceneKitt] WASM Ready v" + Version)

	select {}
}

// listenForGestures fires the latch on the first input events the browser
// accepts as user activation.
func listenForGestures() {
	doc := js.Global().Get("document")
	fire := js.FuncOf(func(js.Value, []js.Value) interface{} {
		latch.Fire()
		return nil
	})
	for _, event := range []string{"pointerdown", "keydown", "touchend"} {
		doc.Call("addEventListener", event, fire, map[string]interface{}{"capture": true, "passive": true})
	}
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return Version
}

// initialize builds the director. It opens IndexedDB, so it runs off the
// event loop and returns a Promise.
// Args: [optionsJSON?]
func initialize(this js.Value, args []js.Value) interface{} {
	var opts initOptions
	if len(args) > 0 && args[0].Type() == js.TypeString && args[0].String() != "" {
		if err := json.Unmarshal([]byte(args[0].String()), &opts); err != nil {
			return errorResult("invalid options: " + err.Error())
		}
	}
	return promise(func() (interface{}, error) {
		if err := setup(opts); err != nil {
			return nil, err
		}
		return successResult("initialized"), nil
	})
}

func setup(opts initOptions) error {
	l, err := logger.New(logger.Config{Level: opts.LogLevel, Encoding: "console"})
	if err != nil {
		return err
	}

	catalogs := config.DefaultCatalogs()
	if opts.Catalog != "" {
		if catalogs, err = config.ParseCatalog([]byte(opts.Catalog)); err != nil {
			return err
		}
	}

	var prefs store.SettingsStore
	fs, err := indexeddb.NewFS(context.Background(), idbName, indexeddb.Options{})
	if err == nil {
		prefs, err = store.NewFSStore(fs, prefsPath)
	}
	if err != nil {
		l.Warn("IndexedDB unavailable, prefs stay in memory", zap.Error(err))
		prefs = store.NewMemStore()
	}

	d, err := director.New(director.Deps{
		Backend:  browser.New(opts.BaseURL),
		Store:    prefs,
		Gestures: latch,
		Logger:   l,
		Catalog:  catalogs.Scenes,
		Sounds:   catalogs.Sounds,
	}, director.Options{})
	if err != nil {
		return err
	}

	mu.Lock()
	prev := dir
	dir, log = d, l
	mu.Unlock()

	if prev != nil {
		closeDirector(prev)
	}
	return nil
}

// dispose fades the music out and releases the director.
func dispose(this js.Value, args []js.Value) interface{} {
	mu.Lock()
	d := dir
	dir = nil
	mu.Unlock()
	if d == nil {
		return successResult("nothing to dispose")
	}
	return promise(func() (interface{}, error) {
		closeDirector(d)
		return successResult("disposed"), nil
	})
}

func closeDirector(d *director.Director) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		mu.Lock()
		l := log
		mu.Unlock()
		l.Warn("closing director", zap.Error(err))
	}
}

// Args: [sceneName]
func changeScene(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return errorResult(err.Error())
	}
	if len(args) < 1 {
		return errorResult("missing scene name")
	}
	s, err := scene.Parse(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	d.ChangeScene(s)
	return successResult(s.String())
}

// Args: [text, signalsJSON?] where signalsJSON holds inCombat and locationHint.
// Returns the resolution as JSON.
func changeSceneFromText(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return errorResult(err.Error())
	}
	var sig scene.Signals
	if len(args) > 1 && args[1].Type() == js.TypeString {
		if err := json.Unmarshal([]byte(args[1].String()), &sig); err != nil {
			return errorResult("invalid signals: " + err.Error())
		}
	}
	if len(args) > 0 && args[0].Type() == js.TypeString {
		sig.RecentText = args[0].String()
	}
	return jsonResult(d.ChangeSceneFromText(sig))
}

func stopMusic(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return errorResult(err.Error())
	}
	d.StopMusic()
	return successResult("stopping")
}

// Args: [soundName]
func playOneShot(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return errorResult(err.Error())
	}
	if len(args) < 1 {
		return errorResult("missing sound name")
	}
	d.PlayOneShot(args[0].String())
	return nil
}

// The volume setters write prefs to IndexedDB, which needs the event loop,
// so the write happens on a goroutine and the clamped value is returned now.

// Args: [volume]
func setMusicVolume(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return errorResult(err.Error())
	}
	if len(args) < 1 {
		return errorResult("missing volume")
	}
	v := store.AudioPrefs{MusicVolume: args[0].Float()}.Clamped().MusicVolume
	go d.SetMusicVolume(v)
	return v
}

// Args: [volume]
func setSFXVolume(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return errorResult(err.Error())
	}
	if len(args) < 1 {
		return errorResult("missing volume")
	}
	v := store.AudioPrefs{SFXVolume: args[0].Float()}.Clamped().SFXVolume
	go d.SetSFXVolume(v)
	return v
}

// Args: [enabled]
func setEnabled(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return errorResult(err.Error())
	}
	if len(args) < 1 {
		return errorResult("missing flag")
	}
	enabled := args[0].Truthy()
	go d.SetEnabled(enabled)
	return enabled
}

func getCurrentScene(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return nil
	}
	if s, ok := d.CurrentScene(); ok {
		return s.String()
	}
	return nil
}

func getMusicVolume(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return store.DefaultAudioPrefs().MusicVolume
	}
	return d.MusicVolume()
}

func getSFXVolume(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return store.DefaultAudioPrefs().SFXVolume
	}
	return d.SFXVolume()
}

func isAudioEnabled(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return store.DefaultAudioPrefs().Enabled
	}
	return d.IsAudioEnabled()
}

// Args: [text]
func classify(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return errorResult(err.Error())
	}
	if len(args) < 1 {
		return errorResult("missing text")
	}
	return jsonResult(d.Classify(args[0].String()))
}

func status(this js.Value, args []js.Value) interface{} {
	d, err := current()
	if err != nil {
		return jsonResult(transport.Status{Enabled: store.DefaultAudioPrefs().Enabled})
	}
	return jsonResult(d.Status())
}

func current() (*director.Director, error) {
	mu.Lock()
	defer mu.Unlock()
	if dir == nil {
		return nil, errNotInitialized
	}
	return dir, nil
}

// promise runs fn on a goroutine and settles a JS Promise with its result.
func promise(fn func() (interface{}, error)) interface{} {
	var executor js.Func
	executor = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve, reject := args[0], args[1]
		go func() {
			defer executor.Release()
			v, err := fn()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(v)
		}()
		return nil
	})
	return js.Global().Get("Promise").New(executor)
}

// Helper: JSON-encode v, or an error result
func jsonResult(v interface{}) interface{} {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return errorResult(err.Error())
	}
	return string(jsonBytes)
}

// Helper: Create error result
func errorResult(msg string) interface{} {
	result := map[string]interface{}{
		"error": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}

// Helper: Create success result
func successResult(msg string) interface{} {
	result := map[string]interface{}{
		"success": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}
