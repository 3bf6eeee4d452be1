// Package keys parses the key specs used in the key_bindings section of the
// configuration and matches them against terminal key events.
package keys

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

var namedKeys = map[string]tcell.Key{
	"TAB":       tcell.KeyTab,
	"ENTER":     tcell.KeyEnter,
	"RETURN":    tcell.KeyEnter,
	"ESC":       tcell.KeyEsc,
	"ESCAPE":    tcell.KeyEsc,
	"UP":        tcell.KeyUp,
	"DOWN":      tcell.KeyDown,
	"LEFT":      tcell.KeyLeft,
	"RIGHT":     tcell.KeyRight,
	"HOME":      tcell.KeyHome,
	"END":       tcell.KeyEnd,
	"PGUP":      tcell.KeyPgUp,
	"PAGEUP":    tcell.KeyPgUp,
	"PGDN":      tcell.KeyPgDn,
	"PAGEDOWN":  tcell.KeyPgDn,
	"DELETE":    tcell.KeyDelete,
	"DEL":       tcell.KeyDelete,
	"BACKSPACE": tcell.KeyBackspace2,
}

// Parse converts a key specification like "Ctrl+R", "F5" or "x" to tcell
// values. Letters are matched case-insensitively.
func Parse(spec string) (tcell.Key, rune, tcell.ModMask, error) {
	if strings.TrimSpace(spec) == "" {
		return 0, 0, 0, fmt.Errorf("empty key specification")
	}

	parts := strings.Split(spec, "+")
	base := strings.TrimSpace(parts[len(parts)-1])
	if base == "" && len(parts) > 1 {
		// "Ctrl++" binds the plus key.
		base = "+"
		parts = parts[:len(parts)-1]
	}

	var mods tcell.ModMask
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			mods |= tcell.ModCtrl
		case "alt":
			mods |= tcell.ModAlt
		case "shift":
			mods |= tcell.ModShift
		case "meta", "win", "cmd", "super":
			mods |= tcell.ModMeta
		case "":
		default:
			return 0, 0, 0, fmt.Errorf("unknown modifier %q", p)
		}
	}

	upper := strings.ToUpper(base)
	if key, ok := namedKeys[upper]; ok {
		return key, 0, mods, nil
	}

	if n, err := strconv.Atoi(strings.TrimPrefix(upper, "F")); err == nil && strings.HasPrefix(upper, "F") && n >= 1 && n <= 12 {
		return tcell.KeyF1 + tcell.Key(n-1), 0, mods, nil
	}

	if upper == "SPACE" {
		base = " "
	}

	if runes := []rune(base); len(runes) == 1 {
		// Terminals do not report Shift reliably for printable keys.
		return tcell.KeyRune, unicode.ToLower(runes[0]), mods &^ tcell.ModShift, nil
	}

	return 0, 0, 0, fmt.Errorf("unknown key %q", base)
}

// Validate returns an error if the key specification is not recognized.
func Validate(spec string) error {
	_, _, _, err := Parse(spec)
	return err
}

// CanonicalID returns a unique identifier for a parsed key combination.
func CanonicalID(key tcell.Key, r rune, mod tcell.ModMask) string {
	if key == tcell.KeyRune {
		r = unicode.ToLower(r)
	}

	return fmt.Sprintf("%d:%d:%d", key, r, mod)
}

// IsReserved reports whether the combination is reserved for table
// navigation or terminal control and must not be rebound.
func IsReserved(key tcell.Key, r rune, mod tcell.ModMask) bool {
	if mod == 0 {
		switch key {
		case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight,
			tcell.KeyEsc, tcell.KeyEnter, tcell.KeyBackspace, tcell.KeyBackspace2,
			tcell.KeyTab, tcell.KeyHome, tcell.KeyEnd:
			return true
		case tcell.KeyRune:
			switch unicode.ToLower(r) {
			case 'h', 'j', 'k', 'l', 'q':
				return true
			}
		}
	}

	if mod == tcell.ModCtrl && key == tcell.KeyRune {
		switch unicode.ToLower(r) {
		case 'c', 'd', 'z':
			return true
		}
	}

	return false
}

// NormalizeEvent converts an event into the (key, rune, mod) triple Parse
// produces. Legacy Ctrl+letter keys become KeyRune with ModCtrl.
func NormalizeEvent(ev *tcell.EventKey) (tcell.Key, rune, tcell.ModMask) {
	key, r, mod := ev.Key(), ev.Rune(), ev.Modifiers()

	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		switch {
		case mod&tcell.ModCtrl != 0:
			return tcell.KeyRune, 'a' + rune(key-tcell.KeyCtrlA), mod
		case key == tcell.KeyCtrlJ:
			return tcell.KeyEnter, 0, mod
		}
	}

	if key != tcell.KeyRune {
		return key, 0, mod
	}

	return key, unicode.ToLower(r), mod &^ tcell.ModShift
}

// Binding is a parsed key spec.
type Binding struct {
	Spec string
	key  tcell.Key
	r    rune
	mod  tcell.ModMask
}

// MustBinding parses spec and panics on error. It is meant for specs that
// already passed config validation.
func MustBinding(spec string) Binding {
	b, err := NewBinding(spec)
	if err != nil {
		panic(err)
	}

	return b
}

// NewBinding parses spec.
func NewBinding(spec string) (Binding, error) {
	key, r, mod, err := Parse(spec)
	if err != nil {
		return Binding{}, err
	}

	return Binding{Spec: spec, key: key, r: r, mod: mod}, nil
}

// Matches reports whether ev triggers the binding.
func (b Binding) Matches(ev *tcell.EventKey) bool {
	if b.Spec == "" {
		return false
	}

	key, r, mod := NormalizeEvent(ev)

	return CanonicalID(key, r, mod) == CanonicalID(b.key, b.r, b.mod)
}

// Label returns the spec as shown in the help bar.
func (b Binding) Label() string {
	return b.Spec
}
