// Package midi discovers controller input ports and keeps connections to
// them alive, delivering parsed note events to a handler.
package midi

// NoteMessage is a parsed note event from a connected controller. A note-on
// with velocity zero is delivered as a note-off.
type NoteMessage struct {
	Note    uint8
	Channel uint8
	On      bool

	// Device is filled in by the manager with the connection's port name.
	Device string
}

// Handler receives every parsed message from every connection. It is called
// on the transport's delivery goroutine and may block; delivery for that
// connection waits until it returns.
type Handler func(NoteMessage)

// Transport enumerates controller input ports. Implementations wrap a
// concrete MIDI backend; tests substitute a fake.
type Transport interface {
	// ListPorts returns the currently visible input ports. An error here
	// means the transport itself is broken, which callers treat as fatal.
	ListPorts() ([]Port, error)

	// Close releases the underlying driver.
	Close() error
}

// Port is a single enumerated input port.
type Port interface {
	// Name resolves the port's display name. Failure is per-port and
	// recoverable: the manager skips the port for the cycle.
	Name() (string, error)

	// Connect opens the port and starts delivering parsed messages to h on
	// the transport's own goroutine.
	Connect(h Handler) (Connection, error)
}

// Connection is an open port delivering messages until closed.
type Connection interface {
	Close() error
}
