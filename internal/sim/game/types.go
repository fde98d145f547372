// Package game holds the authoritative snake simulation: the discrete
// fixed-step state evolution plus the frame-driven scheduler that decides
// when a step runs and how far between steps the current frame falls.
// The package is single-threaded and deterministic: no goroutines, no wall
// clock (time enters only through Advance timestamps), randomness only
// through the seeded food spawner.
package game

import (
	"fmt"
	"time"
)

// Cell is a grid coordinate. X grows right, Y grows down.
type Cell struct {
	X int
	Y int
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Step returns the cell one step from c in direction d.
func (c Cell) Step(d Dir) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Dir is one of the four movement directions.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

func (d Dir) Opposite() Dir {
	switch d {
	case DirUp:
		return DirDown
	case DirRight:
		return DirLeft
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return d
	}
}

func (d Dir) String() string {
	switch d {
	case DirUp:
		return "UP"
	case DirRight:
		return "RIGHT"
	case DirDown:
		return "DOWN"
	case DirLeft:
		return "LEFT"
	default:
		return "UNKNOWN"
	}
}

// ParseDir maps a wire direction string to a Dir. Unknown strings report
// ok=false and are ignored by callers (malformed input is a no-op, not a
// fault).
func ParseDir(s string) (Dir, bool) {
	switch s {
	case "UP":
		return DirUp, true
	case "RIGHT":
		return DirRight, true
	case "DOWN":
		return DirDown, true
	case "LEFT":
		return DirLeft, true
	default:
		return 0, false
	}
}

// Phase is the run lifecycle state.
type Phase uint8

const (
	PhaseWelcome Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseWelcome:
		return "WELCOME"
	case PhasePlaying:
		return "PLAYING"
	case PhaseGameOver:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}

// EventKind identifies a transient notification emitted by a tick for the
// renderer's visual effects.
type EventKind string

const (
	EventEat       EventKind = "EAT"
	EventCollision EventKind = "COLLISION"
)

// Event is emitted by step() and surfaced once through the Frame returned by
// Advance. Cell carries current (post-shift) board coordinates.
type Event struct {
	Kind EventKind
	Cell Cell
	Tick uint64
	At   time.Time
}
