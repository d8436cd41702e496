// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Event types for viewer use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	XRel   int
	YRel   int
	Button uint8
}

// Key bindings.
const (
	KeyForward       sdl.Scancode = sdl.SCANCODE_W
	KeyBack          sdl.Scancode = sdl.SCANCODE_S
	KeyLeft          sdl.Scancode = sdl.SCANCODE_A
	KeyRight         sdl.Scancode = sdl.SCANCODE_D
	KeyAscend        sdl.Scancode = sdl.SCANCODE_SPACE
	KeyDescend       sdl.Scancode = sdl.SCANCODE_LCTRL
	KeyToggleShadows sdl.Scancode = sdl.SCANCODE_L
	KeyReloadShaders sdl.Scancode = sdl.SCANCODE_R
	KeyScreenshot    sdl.Scancode = sdl.SCANCODE_F12
	KeyQuit          sdl.Scancode = sdl.SCANCODE_ESCAPE
)

// Input handles all input processing.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool
	dx, dy int
	quit   bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.Begin()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.Process(event)
	}
	return i.quit
}

// Begin clears the per-frame events and mouse motion.
func (i *Input) Begin() {
	i.events = i.events[:0]
	i.dx, i.dy = 0, 0
}

// Process translates one SDL event. Returns true once quit was requested.
func (i *Input) Process(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		i.quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		code := e.Keysym.Scancode
		if e.Type == sdl.KEYDOWN {
			i.held[code] = true
			i.events = append(i.events, Event{
				Type:   EventKeyDown,
				Key:    code,
				Repeat: e.Repeat != 0,
			})
			if code == KeyQuit {
				i.quit = true
			}
		} else if e.Type == sdl.KEYUP {
			delete(i.held, code)
			i.events = append(i.events, Event{
				Type: EventKeyUp,
				Key:  code,
			})
		}

	case *sdl.MouseMotionEvent:
		i.dx += int(e.XRel)
		i.dy += int(e.YRel)
		i.events = append(i.events, Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			XRel:   int(e.XRel),
			YRel:   int(e.YRel),
		})

	case *sdl.MouseButtonEvent:
		typ := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			typ = EventMouseDown
		}
		i.events = append(i.events, Event{
			Type:   typ,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		})
	}
	return i.quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether scancode went down this frame, ignoring key repeat.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether scancode is currently held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// MouseDelta returns the relative mouse motion accumulated this frame.
func (i *Input) MouseDelta() (int, int) {
	return i.dx, i.dy
}

// Movement returns the held movement direction as (forwards, right, up),
// each component in {-1, 0, 1}.
func (i *Input) Movement() [3]float32 {
	var d [3]float32
	axis := func(pos, neg sdl.Scancode) float32 {
		var v float32
		if i.held[pos] {
			v++
		}
		if i.held[neg] {
			v--
		}
		return v
	}
	d[0] = axis(KeyForward, KeyBack)
	d[1] = axis(KeyRight, KeyLeft)
	d[2] = axis(KeyAscend, KeyDescend)
	return d
}
