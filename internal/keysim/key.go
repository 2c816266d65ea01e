package keysim

import (
	"fmt"
	"strings"
)

// KeyKind distinguishes the variants a Key can take
type KeyKind int

const (
	KindModifier KeyKind = iota // Shift, Control, Alt
	KindSystem                  // named non-modifier keys such as Escape
	KindLayout                  // a character on the current keyboard layout
)

// Key identifies a single keyboard key. Modifiers and system keys are named;
// everything else is addressed by its layout character.
type Key struct {
	Kind KeyKind
	Name string // for KindModifier and KindSystem
	Char rune   // for KindLayout
}

// The named keys the engine knows about
var (
	KeyShift   = Key{Kind: KindModifier, Name: "shift"}
	KeyControl = Key{Kind: KindModifier, Name: "control"}
	KeyAlt     = Key{Kind: KindModifier, Name: "alt"}
	KeyEscape  = Key{Kind: KindSystem, Name: "escape"}
)

// Modifiers is the fixed set the coalescer tracks, in press order.
func Modifiers() []Key {
	return []Key{KeyShift, KeyControl}
}

// Layout returns the key for a layout character.
func Layout(c rune) Key {
	return Key{Kind: KindLayout, Char: c}
}

// IsModifier reports whether k is one of the named modifier keys.
func (k Key) IsModifier() bool {
	return k.Kind == KindModifier
}

func (k Key) String() string {
	switch k.Kind {
	case KindLayout:
		if k.Char == ' ' {
			return "space"
		}
		return string(k.Char)
	default:
		return k.Name
	}
}

// ParseKey resolves a key name from a mapping file field. Named keys are
// matched case-insensitively; any other single-character field is a layout
// key.
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(s) {
	case "shift":
		return KeyShift, nil
	case "ctrl", "control":
		return KeyControl, nil
	case "alt":
		return KeyAlt, nil
	case "esc", "escape":
		return KeyEscape, nil
	case "space":
		return Layout(' '), nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return Key{}, fmt.Errorf("unknown key name: %q", s)
	}
	return Layout(runes[0]), nil
}
