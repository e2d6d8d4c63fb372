package canvas

import (
	"fmt"
	"strings"

	"UIAnnotator/internal/entity"
)

type DrawState uint8

const (
	Idle DrawState = iota
	Dragging
)

func (s DrawState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

type PointerKind uint8

const (
	PointerDown PointerKind = iota + 1
	PointerMove
	PointerUp
)

var pointerKindNames = map[string]PointerKind{
	"down": PointerDown,
	"move": PointerMove,
	"up":   PointerUp,
}

func ParsePointerKind(s string) (PointerKind, error) {
	kind, ok := pointerKindNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown pointer event %q", s)
	}
	return kind, nil
}

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

type PointerEvent struct {
	Kind  PointerKind
	Point entity.Point
}

// Draft is the rectangle of an active drag. End is raw and may sit above or
// left of Start.
type Draft struct {
	Start entity.Point `json:"start"`
	End   entity.Point `json:"end"`
}

// Machine tracks a single pointer drag. It does not know about images or
// tags; the session decides what a finished drag commits.
type Machine struct {
	state DrawState
	draft Draft
}

func (m *Machine) State() DrawState {
	return m.state
}

// Down starts a drag with both corners at p. A second down while dragging
// restarts the draft at the new position.
func (m *Machine) Down(p entity.Point) {
	m.state = Dragging
	m.draft = Draft{Start: p, End: p}
}

// Move updates the second corner. It reports false when no drag is active.
func (m *Machine) Move(p entity.Point) bool {
	if m.state != Dragging {
		return false
	}
	m.draft.End = p
	return true
}

// Up ends the drag and returns the normalized rectangle. The draft is
// cleared whatever the caller does with the result.
func (m *Machine) Up(p entity.Point) (entity.Coordinates, bool) {
	if m.state != Dragging {
		return entity.Coordinates{}, false
	}
	m.draft.End = p
	coords := Normalize(m.draft.Start, m.draft.End)
	m.Reset()
	return coords, true
}

func (m *Machine) Draft() (Draft, bool) {
	if m.state != Dragging {
		return Draft{}, false
	}
	return m.draft, true
}

func (m *Machine) Reset() {
	m.state = Idle
	m.draft = Draft{}
}
