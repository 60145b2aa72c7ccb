// Package input converts SDL2 events into editor events.
package input

import (
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies an editor event.
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
	EventMouseWheel
	EventMouseLeave
)

// Button is a mouse button.
type Button uint8

const (
	ButtonLeft   Button = sdl.BUTTON_LEFT
	ButtonMiddle Button = sdl.BUTTON_MIDDLE
	ButtonRight  Button = sdl.BUTTON_RIGHT
)

// Mods are the modifier keys held during an event.
type Mods struct {
	Ctrl  bool
	Shift bool
	Alt   bool
}

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Name   string // lower-case key name, "z", "escape", "f1"
	Repeat bool
	Mods   Mods
	Width  int
	Height int
	MouseX int
	MouseY int
	Button Button
	// WheelY is positive when scrolling towards the user, the direction
	// that zooms out.
	WheelY float64
}

// Input polls SDL events once per frame.
type Input struct {
	events []Event
	mouseX int
	mouseY int
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events. It returns true when the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.convert(event) {
			return true
		}
	}
	return false
}

func (i *Input) convert(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED:
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		case sdl.WINDOWEVENT_LEAVE:
			i.events = append(i.events, Event{Type: EventMouseLeave})
		}

	case *sdl.KeyboardEvent:
		ev := Event{
			Key:    e.Keysym.Scancode,
			Name:   strings.ToLower(sdl.GetKeyName(e.Keysym.Sym)),
			Repeat: e.Repeat != 0,
			Mods:   mods(sdl.Keymod(e.Keysym.Mod)),
		}
		if e.Type == sdl.KEYDOWN {
			ev.Type = EventKeyDown
		} else {
			ev.Type = EventKeyUp
		}
		i.events = append(i.events, ev)

	case *sdl.MouseMotionEvent:
		i.mouseX, i.mouseY = int(e.X), int(e.Y)
		i.events = append(i.events, Event{
			Type:   EventMouseMove,
			MouseX: i.mouseX,
			MouseY: i.mouseY,
		})

	case *sdl.MouseButtonEvent:
		ev := Event{
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: Button(e.Button),
			Mods:   mods(sdl.GetModState()),
		}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = EventMouseDown
		} else {
			ev.Type = EventMouseUp
		}
		i.events = append(i.events, ev)

	case *sdl.MouseWheelEvent:
		dy := float64(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		i.events = append(i.events, Event{
			Type:   EventMouseWheel,
			MouseX: i.mouseX,
			MouseY: i.mouseY,
			// SDL reports scrolling away from the user as positive.
			WheelY: -dy * WheelStep,
			Mods:   mods(sdl.GetModState()),
		})
	}
	return false
}

// WheelStep converts one wheel notch into the pixel delta browsers report.
const WheelStep = 100

func mods(m sdl.Keymod) Mods {
	return Mods{
		Ctrl:  m&(sdl.KMOD_CTRL|sdl.KMOD_GUI) != 0,
		Shift: m&sdl.KMOD_SHIFT != 0,
		Alt:   m&sdl.KMOD_ALT != 0,
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Mouse returns the last known pointer position.
func (i *Input) Mouse() (x, y int) {
	return i.mouseX, i.mouseY
}

// IsKeyPressed checks if a key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
