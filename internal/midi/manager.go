package midi

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPollInterval is how often the manager rescans the transport.
const DefaultPollInterval = time.Second

// Manager polls the transport for visible input ports and keeps at most one
// connection per port name alive, binding the handler to each. A vanished
// port is closed and forgotten; if it reappears it gets a fresh connection
// and a fresh ID.
type Manager struct {
	transport Transport
	handler   Handler
	filter    string
	poll      time.Duration
	log       *slog.Logger

	// registry is mutated only by the polling goroutine; the mutex covers
	// read-side snapshots taken elsewhere.
	mu       sync.Mutex
	registry map[string]*activeConn
}

type activeConn struct {
	id   uuid.UUID
	conn Connection
}

// Option configures a Manager.
type Option func(*Manager)

// WithDeviceFilter restricts connections to the exactly named port.
func WithDeviceFilter(name string) Option {
	return func(m *Manager) { m.filter = name }
}

// WithPollInterval overrides the rescan interval.
func WithPollInterval(d time.Duration) Option {
	return func(m *Manager) { m.poll = d }
}

// WithLogger sets the manager's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a manager delivering every connection's messages to h.
func NewManager(t Transport, h Handler, opts ...Option) *Manager {
	m := &Manager{
		transport: t,
		handler:   h,
		poll:      DefaultPollInterval,
		log:       slog.Default(),
		registry:  make(map[string]*activeConn),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run polls until ctx is cancelled. It returns an error only when the
// transport can no longer enumerate ports, which is unrecoverable; every
// per-port failure is logged and retried on the next cycle.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()
	defer m.closeAll()

	if err := m.scan(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := m.scan(); err != nil {
				return err
			}
		}
	}
}

// scan performs one poll cycle: connect new ports, drop vanished ones.
func (m *Manager) scan() error {
	ports, err := m.transport.ListPorts()
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, port := range ports {
		name, err := port.Name()
		if err != nil {
			m.log.Warn("cannot resolve port name, skipping this cycle", "err", err)
			continue
		}
		seen[name] = true

		m.mu.Lock()
		_, connected := m.registry[name]
		m.mu.Unlock()
		if connected {
			continue
		}
		if m.filter != "" && name != m.filter {
			continue
		}

		id := uuid.New()
		device := name
		conn, err := port.Connect(func(msg NoteMessage) {
			msg.Device = device
			m.handler(msg)
		})
		if err != nil {
			m.log.Warn("unable to connect to device", "device", name, "err", err)
			continue
		}

		m.mu.Lock()
		m.registry[name] = &activeConn{id: id, conn: conn}
		m.mu.Unlock()
		m.log.Info("connection established", "device", name, "conn_id", id)
	}

	// Close whatever was not seen this cycle.
	m.mu.Lock()
	var gone []string
	for name := range m.registry {
		if !seen[name] {
			gone = append(gone, name)
		}
	}
	m.mu.Unlock()

	for _, name := range gone {
		m.mu.Lock()
		ac := m.registry[name]
		delete(m.registry, name)
		m.mu.Unlock()
		if err := ac.conn.Close(); err != nil {
			m.log.Warn("error closing vanished connection", "device", name, "err", err)
		}
		m.log.Info("disconnected", "device", name, "conn_id", ac.id)
	}

	return nil
}

// Connected returns the names of currently registered connections.
func (m *Manager) Connected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.registry))
	for name := range m.registry {
		names = append(names, name)
	}
	return names
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, ac := range m.registry {
		if err := ac.conn.Close(); err != nil {
			m.log.Warn("error closing connection", "device", name, "err", err)
		}
		delete(m.registry, name)
	}
}
