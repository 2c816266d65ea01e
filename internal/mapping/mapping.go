package mapping

import (
	"fmt"
	"time"

	"github.com/PixPMusic/gopher-perform/internal/keysim"
)

// Timing required for synthesized key events to register with the OS and the
// target application. These feed both the generated default sequences and
// the engine's modifier settle pause.
const (
	// ModDelay is how long a modifier needs to stick before the next key.
	ModDelay = 150 * time.Millisecond

	// KeyDelay is how long a keydown needs to stick.
	KeyDelay = 40 * time.Millisecond

	// SysDelay is the time system events such as Escape take to process.
	SysDelay = 400 * time.Millisecond

	// SwitchDelay is the short pause after the held-modifier set changes.
	SwitchDelay = 10 * time.Millisecond
)

// Note is a MIDI pitch index, 0-127.
type Note uint8

// MaxNote is the highest valid note index.
const MaxNote Note = 127

// NewNote validates a pitch index.
func NewNote(n int) (Note, error) {
	if n < 0 || n > int(MaxNote) {
		return 0, fmt.Errorf("note %d out of range 0-%d", n, MaxNote)
	}
	return Note(n), nil
}

// Channel is a MIDI channel, 0-15.
type Channel uint8

// MaxChannel is the highest valid channel.
const MaxChannel Channel = 15

// NewChannel validates a channel number.
func NewChannel(c int) (Channel, error) {
	if c < 0 || c > int(MaxChannel) {
		return 0, fmt.Errorf("channel %d out of range 0-%d", c, MaxChannel)
	}
	return Channel(c), nil
}

// EventKind tags the Event variant.
type EventKind int

const (
	EventDelay EventKind = iota
	EventKeyDown
	EventKeyUp
	EventModifierSet
)

// Event is one primitive step of a triggered sequence.
type Event struct {
	Kind  EventKind
	Pause time.Duration // EventDelay
	Key   keysim.Key    // EventKeyDown, EventKeyUp

	// Modifier is the desired modifier context for EventModifierSet.
	// nil means "no modifier held".
	Modifier *keysim.Key
}

// Delay pauses the sequence for d.
func Delay(d time.Duration) Event {
	return Event{Kind: EventDelay, Pause: d}
}

// KeyDown presses k.
func KeyDown(k keysim.Key) Event {
	return Event{Kind: EventKeyDown, Key: k}
}

// KeyUp releases k.
func KeyUp(k keysim.Key) Event {
	return Event{Kind: EventKeyUp, Key: k}
}

// ModifierSet switches the held-modifier context to k (nil for none).
func ModifierSet(k *keysim.Key) Event {
	return Event{Kind: EventModifierSet, Modifier: k}
}

// Mapping binds a (note, channel) trigger to the sequences run on note-on
// and note-off. Immutable once added to a table.
type Mapping struct {
	Note    Note
	Channel Channel

	// AnyChannel makes the mapping match its note on every channel.
	AnyChannel bool

	On  []Event
	Off []Event
}

// DownSequence builds the standard note-on sequence: establish the modifier
// context, then press the key.
func DownSequence(k keysim.Key, modifier *keysim.Key) []Event {
	return []Event{ModifierSet(modifier), KeyDown(k)}
}

// UpSequence builds the matching note-off sequence. The modifier context is
// re-asserted so that a release arriving after an octave change does not
// strip the new context.
func UpSequence(k keysim.Key, modifier *keysim.Key) []Event {
	return []Event{ModifierSet(modifier), KeyUp(k)}
}
