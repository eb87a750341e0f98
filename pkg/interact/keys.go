package interact

// Key names a keyboard gesture. Values match bubbletea's KeyMsg strings.
type Key string

const (
	KeyTab       Key = "tab"
	KeyEnter     Key = "enter"
	KeyBackspace Key = "backspace"
	KeyDelete    Key = "delete"
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyF2        Key = "f2"
	KeySpace     Key = " "
	KeyEscape    Key = "esc"

	KeyAltLeft  Key = "alt+left"
	KeyAltRight Key = "alt+right"
	KeyAltUp    Key = "alt+up"
	KeyAltDown  Key = "alt+down"

	KeyAltShiftUp   Key = "alt+shift+up"
	KeyAltShiftDown Key = "alt+shift+down"

	KeyUndo Key = "ctrl+z"
	KeyRedo Key = "ctrl+y"
)

// normalize folds aliases onto the canonical key names.
func normalize(k Key) Key {
	switch k {
	case "space":
		return KeySpace
	case "escape":
		return KeyEscape
	case "shift+alt+up":
		return KeyAltShiftUp
	case "shift+alt+down":
		return KeyAltShiftDown
	}
	return k
}

// Direction is a side used by spatial navigation.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}
