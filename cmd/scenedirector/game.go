package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/kittclouds/scenekitt/pkg/director"
	"github.com/kittclouds/scenekitt/pkg/gesture"
)

const (
	screenWidth  = 480
	screenHeight = 160
	maxLines     = 6
)

// statusWindow drives ebiten's audio and shows what the director is doing.
// Key presses and clicks in the window count as user gestures.
type statusWindow struct {
	ctx   context.Context
	d     *director.Director
	latch *gesture.Latch
	lines <-chan string
	out   io.Writer
	log   *zap.Logger

	audioReady bool
	history    []string
	keys       []ebiten.Key
}

func (w *statusWindow) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}

	// Players created before the device came up were refused; the first
	// ready frame lets them retry.
	if !w.audioReady {
		if c := audio.CurrentContext(); c != nil && c.IsReady() {
			w.audioReady = true
			w.latch.Fire()
		}
	}

	w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
	if len(w.keys) > 0 || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		w.latch.Fire()
	}

	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				w.lines = nil
				return nil
			}
			w.latch.Fire()
			if err := w.handle(line); errors.Is(err, errQuit) {
				return ebiten.Termination
			}
		default:
			return nil
		}
	}
}

func (w *statusWindow) handle(line string) error {
	c, err := parseLine(line)
	if err != nil {
		w.print(err.Error())
		return nil
	}
	msg, err := run(w.d, c)
	if err != nil {
		if !errors.Is(err, errQuit) {
			w.log.Warn("command failed", zap.String("line", line), zap.Error(err))
		}
		return err
	}
	if msg != "" {
		w.print(msg)
	}
	return nil
}

func (w *statusWindow) print(msg string) {
	fmt.Fprintln(w.out, msg)
	w.history = append(w.history, firstLine(msg))
	if len(w.history) > maxLines {
		w.history = w.history[len(w.history)-maxLines:]
	}
}

func (w *statusWindow) Draw(screen *ebiten.Image) {
	st := w.d.Status()
	scene := "-"
	if st.HasScene {
		scene = st.Scene.String()
	}
	head := fmt.Sprintf("scene: %s  state: %s\nmusic: %.2f  sfx: %.2f  enabled: %t",
		scene, st.State, st.MusicVolume, st.SFXVolume, st.Enabled)
	ebitenutil.DebugPrint(screen, head+"\n\n"+strings.Join(w.history, "\n"))
}

func (w *statusWindow) Layout(int, int) (int, int) {
	return screenWidth, screenHeight
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
