package mapping

import "github.com/PixPMusic/gopher-perform/internal/keysim"

// NoteC1 is the base note of the generated default table (C-1 = 0).
const NoteC1 Note = 24

// defaultKeys is the layout-key row played by the two mapped octaves,
// indexed by semitone offset from the base note.
var defaultKeys = []rune{
	't', 'h', 'x', 'g', 'j', 'e', 'z', 'p', 'k', 'f', 'y', 'm',
	'd', 'w', 'a', 'u', 'o', 'r', 'n', 'e', 'c', 't', 'l', 'i',
	's', 'g', 'h', 'v', 'b', 'd', 'q', 'a', 'm', 'e', 'u', 'o',
	'r', ' ', '1', '2', '3', '4', '5', '6', '7', '8', '9', '0',
}

// defaultPads is the pad row found on channel 9 of the author's controller,
// starting at note 40.
var defaultPads = []rune{'z', 'x', 'c', 'v', 'b', 'n', 'm', ','}

// padBaseNote is the note of the first pad button.
const padBaseNote Note = 40

// padChannel is the channel the pad row transmits on.
const padChannel Channel = 9

// DefaultMappings generates the built-in table: every layout key appears in
// a low octave (Control held) and a middle octave (no modifier) on channel
// 0, so the same character set is reachable in two registers. The pads get
// a session-reset chord sequence.
func DefaultMappings() []Mapping {
	var entries []Mapping

	for i, c := range defaultKeys {
		key := keysim.Layout(c)
		ctrl := keysim.KeyControl

		low := Mapping{
			Note:    NoteC1 + Note(i),
			Channel: 0,
			On:      DownSequence(key, &ctrl),
			Off:     UpSequence(key, &ctrl),
		}
		mid := Mapping{
			Note:    NoteC1 + Note(i) + 12,
			Channel: 0,
			On:      DownSequence(key, nil),
			Off:     UpSequence(key, nil),
		}
		entries = append(entries, low, mid)
	}

	for i, c := range defaultPads {
		entries = append(entries, Mapping{
			Note:    padBaseNote + Note(i),
			Channel: padChannel,
			On:      padSequence(keysim.Layout(c)),
		})
	}

	return entries
}

// padSequence clears any held modifiers, taps Escape twice-worth of settle
// time to dismiss dialogs or leave the current session, then sends the pad
// key under a full Control+Alt+Shift chord.
func padSequence(pad keysim.Key) []Event {
	return []Event{
		ModifierSet(nil),
		KeyDown(keysim.KeyEscape),
		Delay(KeyDelay),
		KeyUp(keysim.KeyEscape),
		Delay(SysDelay),
		KeyDown(keysim.KeyControl),
		KeyDown(keysim.KeyAlt),
		KeyDown(keysim.KeyShift),
		Delay(ModDelay),
		KeyDown(pad),
		Delay(KeyDelay),
		KeyUp(pad),
		Delay(ModDelay),
		KeyUp(keysim.KeyShift),
		KeyUp(keysim.KeyAlt),
		KeyUp(keysim.KeyControl),
	}
}
