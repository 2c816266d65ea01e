// Package dispatch routes parsed controller messages to the mapped key
// sequences. A single owner goroutine holds the engine, so sequences from
// different device connections can never interleave their key events.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/PixPMusic/gopher-perform/internal/engine"
	"github.com/PixPMusic/gopher-perform/internal/mapping"
)

// Message is one parsed note event from a controller.
type Message struct {
	Note    mapping.Note
	Channel mapping.Channel

	// On is true for note-on; a note-on with velocity zero arrives here as
	// a note-off already.
	On bool

	// Device names the connection the message came from, for logging.
	Device string
}

// Coordinator owns the mapping table and the engine for the process
// lifetime. Device listener goroutines hand messages over an unbuffered
// channel: while one sequence runs, the next sender blocks, which
// serializes near-simultaneous notes exactly like a lock held for the whole
// sequence would.
type Coordinator struct {
	table *mapping.Table
	eng   *engine.Engine
	log   *slog.Logger
	msgs  chan Message
}

// New wires a coordinator over table and eng.
func New(table *mapping.Table, eng *engine.Engine, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		table: table,
		eng:   eng,
		log:   log,
		msgs:  make(chan Message),
	}
}

// Dispatch hands a message to the owner goroutine. It blocks until the
// owner accepts it (or ctx is cancelled), so callers on transport threads
// experience the same backpressure a shared lock would impose.
func (c *Coordinator) Dispatch(ctx context.Context, msg Message) {
	select {
	case c.msgs <- msg:
	case <-ctx.Done():
	}
}

// Run executes messages until ctx is cancelled. It is the only goroutine
// that ever touches the engine.
func (c *Coordinator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.msgs:
			c.handle(msg)
		}
	}
}

func (c *Coordinator) handle(msg Message) {
	m, ok := c.table.Find(msg.Note, msg.Channel)
	if !ok {
		c.log.Info("no mapping for note", "note", msg.Note, "channel", msg.Channel, "device", msg.Device)
		return
	}

	seq := m.Off
	if msg.On {
		seq = m.On
	}
	if len(seq) == 0 {
		return
	}

	c.log.Debug("running sequence", "note", msg.Note, "channel", msg.Channel, "on", msg.On, "events", len(seq))
	c.eng.Execute(seq)
}
