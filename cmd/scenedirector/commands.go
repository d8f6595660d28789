package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kittclouds/scenekitt/pkg/director"
	"github.com/kittclouds/scenekitt/pkg/scene"
)

// errQuit is returned by run for /quit.
var errQuit = errors.New("quit")

type op string

const (
	opNone      op = ""
	opNarrate   op = "narrate"
	opScene     op = "scene"
	opCombat    op = "combat"
	opLocation  op = "at"
	opStop      op = "stop"
	opSFX       op = "sfx"
	opVolume    op = "volume"
	opSFXVolume op = "sfxvolume"
	opEnable    op = "enable"
	opDisable   op = "disable"
	opClassify  op = "classify"
	opStatus    op = "status"
	opHelp      op = "help"
	opQuit      op = "quit"
)

// command is one parsed input line.
type command struct {
	op    op
	text  string
	scene scene.Scene
	value float64
}

const helpText = `lines without a slash are narrative text and pick a scene
/scene <name>        switch to a scene
/combat [text]       resolve with the combat flag set
/at <place> [| text] resolve with a location hint
/stop                fade out and forget the scene
/sfx <name>          play a one-shot sound
/volume <0..1>       set the music volume
/sfxvolume <0..1>    set the sound volume
/enable, /disable    toggle audio
/classify <text>     score text without playing
/status              print the transport state
/quit`

// parseLine turns a stdin line into a command.
func parseLine(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{op: opNone}, nil
	}
	if !strings.HasPrefix(line, "/") {
		return command{op: opNarrate, text: line}, nil
	}

	name, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)
	c := command{op: op(strings.ToLower(name)), text: rest}

	switch c.op {
	case opScene:
		s, err := scene.Parse(rest)
		if err != nil {
			return command{}, err
		}
		c.scene = s
	case opVolume, opSFXVolume:
		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return command{}, fmt.Errorf("/%s: %q is not a number", c.op, rest)
		}
		c.value = v
	case opSFX, opLocation, opClassify:
		if rest == "" {
			return command{}, fmt.Errorf("/%s needs an argument", c.op)
		}
	case opCombat, opStop, opEnable, opDisable, opStatus, opHelp, opQuit:
	default:
		return command{}, fmt.Errorf("unknown command /%s, try /help", name)
	}
	return c, nil
}

// run applies c to d and returns what to print.
func run(d *director.Director, c command) (string, error) {
	switch c.op {
	case opNone:
		return "", nil
	case opNarrate:
		return describe(d.ChangeSceneFromText(scene.Signals{RecentText: c.text})), nil
	case opScene:
		d.ChangeScene(c.scene)
		return "-> " + c.scene.String(), nil
	case opCombat:
		return describe(d.ChangeSceneFromText(scene.Signals{InCombat: true, RecentText: c.text})), nil
	case opLocation:
		hint, text, _ := strings.Cut(c.text, "|")
		return describe(d.ChangeSceneFromText(scene.Signals{
			LocationHint: strings.TrimSpace(hint),
			RecentText:   strings.TrimSpace(text),
		})), nil
	case opStop:
		d.StopMusic()
		return "stopping", nil
	case opSFX:
		d.PlayOneShot(c.text)
		return "", nil
	case opVolume:
		return fmt.Sprintf("music volume %.2f", d.SetMusicVolume(c.value)), nil
	case opSFXVolume:
		return fmt.Sprintf("sfx volume %.2f", d.SetSFXVolume(c.value)), nil
	case opEnable:
		d.SetEnabled(true)
		return "audio on", nil
	case opDisable:
		d.SetEnabled(false)
		return "audio off", nil
	case opClassify:
		return toJSON(d.Classify(c.text))
	case opStatus:
		return toJSON(d.Status())
	case opHelp:
		return helpText, nil
	case opQuit:
		return "", errQuit
	}
	return "", fmt.Errorf("unhandled command /%s", c.op)
}

func describe(res scene.Resolution) string {
	s := fmt.Sprintf("-> %s (%s", res.Scene, res.Reason)
	if res.Matched != "" {
		s += ": " + res.Matched
	}
	return s + ")"
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
