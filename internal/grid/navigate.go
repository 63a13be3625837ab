package grid

import "strings"

type Key string

const (
	KeyUp    Key = "up"
	KeyDown  Key = "down"
	KeyLeft  Key = "left"
	KeyRight Key = "right"
	KeyEnter Key = "enter"
	KeyOther Key = "other"
)

// ParseKey maps browser and terminal key names onto the navigation keys.
func ParseKey(s string) Key {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "arrowup":
		return KeyUp
	case "down", "arrowdown":
		return KeyDown
	case "left", "arrowleft":
		return KeyLeft
	case "right", "arrowright":
		return KeyRight
	case "enter", "return":
		return KeyEnter
	default:
		return KeyOther
	}
}

// KeyEvent is a key press inside a cell editor. Caret is the cursor position within the
// cell text and TextLen the text length, both in characters.
type KeyEvent struct {
	Key     Key  `json:"key"`
	Shift   bool `json:"shift"`
	Ctrl    bool `json:"ctrl"`
	Meta    bool `json:"meta"`
	Caret   int  `json:"caret"`
	TextLen int  `json:"textLen"`
}

type Outcome string

const (
	// Pass leaves the key to the editor (caret movement, newline).
	Pass Outcome = "pass"
	// Swallow consumes the key without moving focus.
	Swallow Outcome = "swallow"
	// Focus moves focus to the cell in the FocusRequest.
	Focus Outcome = "focus"
)

// FocusRequest asks the surface to focus a cell. SelectAll means the cell's text is
// selected so the next typed character overwrites it.
type FocusRequest struct {
	Coord     Coord   `json:"coord"`
	Cell      CellRef `json:"cell"`
	SelectAll bool    `json:"selectAll"`
}

// Navigate decides what a key press in the cell at from does.
//
// Enter without shift is swallowed. Arrows move one cell when the caret sits at the
// matching text boundary or Ctrl/Meta is held; otherwise they stay with the editor.
// Moves past the grid edge are swallowed; there is no wraparound.
func Navigate(ix *Index, from Coord, ev KeyEvent) (FocusRequest, Outcome) {
	mod := ev.Ctrl || ev.Meta
	atStart := ev.Caret <= 0
	atEnd := ev.Caret >= ev.TextLen

	to := from
	switch ev.Key {
	case KeyEnter:
		if ev.Shift {
			return FocusRequest{}, Pass
		}
		return FocusRequest{}, Swallow
	case KeyUp:
		if !atStart && !mod {
			return FocusRequest{}, Pass
		}
		to.Row--
	case KeyDown:
		if !atEnd && !mod {
			return FocusRequest{}, Pass
		}
		to.Row++
	case KeyLeft:
		if !atStart && !mod {
			return FocusRequest{}, Pass
		}
		to.Col--
	case KeyRight:
		if !atEnd && !mod {
			return FocusRequest{}, Pass
		}
		to.Col++
	default:
		return FocusRequest{}, Pass
	}

	ref, ok := ix.Lookup(to)
	if !ok {
		return FocusRequest{}, Swallow
	}
	return FocusRequest{Coord: to, Cell: ref, SelectAll: true}, Focus
}
