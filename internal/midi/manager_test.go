package midi

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu    sync.Mutex
	ports []Port
	err   error
}

func (t *fakeTransport) setPorts(ports ...Port) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ports = ports
}

func (t *fakeTransport) ListPorts() ([]Port, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return nil, t.err
	}
	return append([]Port(nil), t.ports...), nil
}

func (t *fakeTransport) Close() error { return nil }

type fakePort struct {
	name       string
	nameErr    error
	connectErr error

	mu       sync.Mutex
	conns    []*fakeConn
	connects int
}

func (p *fakePort) Name() (string, error) {
	if p.nameErr != nil {
		return "", p.nameErr
	}
	return p.name, nil
}

func (p *fakePort) Connect(h Handler) (Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connects++
	if p.connectErr != nil {
		return nil, p.connectErr
	}
	c := &fakeConn{handler: h}
	p.conns = append(p.conns, c)
	return c, nil
}

func (p *fakePort) connectCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connects
}

func (p *fakePort) lastConn() *fakeConn {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.conns) == 0 {
		return nil
	}
	return p.conns[len(p.conns)-1]
}

type fakeConn struct {
	handler Handler
	mu      sync.Mutex
	closed  bool
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func sorted(names []string) []string {
	sort.Strings(names)
	return names
}

func TestScanConnectsAndDisconnects(t *testing.T) {
	portA := &fakePort{name: "A"}
	portB := &fakePort{name: "B"}
	portC := &fakePort{name: "C"}
	tr := &fakeTransport{}
	m := NewManager(tr, func(NoteMessage) {})

	tr.setPorts(portA, portB)
	require.NoError(t, m.scan())
	assert.Equal(t, []string{"A", "B"}, sorted(m.Connected()))

	// Next poll sees {B, C}: A drops, B persists, C connects fresh.
	tr.setPorts(portB, portC)
	require.NoError(t, m.scan())
	assert.Equal(t, []string{"B", "C"}, sorted(m.Connected()))

	assert.True(t, portA.lastConn().isClosed(), "vanished device is closed")
	assert.Equal(t, 1, portB.connectCount(), "persisting device keeps its connection")
	assert.Equal(t, 1, portC.connectCount())
}

func TestReappearedDeviceGetsFreshConnection(t *testing.T) {
	port := &fakePort{name: "A"}
	tr := &fakeTransport{}
	m := NewManager(tr, func(NoteMessage) {})

	tr.setPorts(port)
	require.NoError(t, m.scan())
	tr.setPorts()
	require.NoError(t, m.scan())
	assert.Empty(t, m.Connected())

	tr.setPorts(port)
	require.NoError(t, m.scan())
	assert.Equal(t, 2, port.connectCount(), "reappearance is a new connection attempt, not a resume")
}

func TestDeviceFilterSkipsOtherPorts(t *testing.T) {
	tr := &fakeTransport{}
	tr.setPorts(&fakePort{name: "A"}, &fakePort{name: "B"})
	m := NewManager(tr, func(NoteMessage) {}, WithDeviceFilter("B"))

	require.NoError(t, m.scan())
	assert.Equal(t, []string{"B"}, m.Connected())
}

func TestNameResolutionFailureIsSkippedNotFatal(t *testing.T) {
	good := &fakePort{name: "A"}
	bad := &fakePort{nameErr: errors.New("no name")}
	tr := &fakeTransport{}
	tr.setPorts(bad, good)
	m := NewManager(tr, func(NoteMessage) {})

	require.NoError(t, m.scan())
	assert.Equal(t, []string{"A"}, m.Connected())
}

func TestConnectFailureRetriedNextCycle(t *testing.T) {
	port := &fakePort{name: "A", connectErr: errors.New("busy")}
	tr := &fakeTransport{}
	tr.setPorts(port)
	m := NewManager(tr, func(NoteMessage) {})

	require.NoError(t, m.scan())
	assert.Empty(t, m.Connected(), "failed connect leaves the port unregistered")

	port.connectErr = nil
	require.NoError(t, m.scan())
	assert.Equal(t, []string{"A"}, m.Connected())
	assert.Equal(t, 2, port.connectCount())
}

func TestEnumerationFailureIsFatal(t *testing.T) {
	tr := &fakeTransport{err: errors.New("driver gone")}
	m := NewManager(tr, func(NoteMessage) {}, WithPollInterval(time.Millisecond))

	err := m.Run(context.Background())
	assert.Error(t, err)
}

func TestRunClosesConnectionsOnCancel(t *testing.T) {
	port := &fakePort{name: "A"}
	tr := &fakeTransport{}
	tr.setPorts(port)
	m := NewManager(tr, func(NoteMessage) {}, WithPollInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return len(m.Connected()) == 1 },
		time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.True(t, port.lastConn().isClosed())
}

func TestHandlerReceivesDeviceName(t *testing.T) {
	port := &fakePort{name: "Keystation"}
	tr := &fakeTransport{}
	tr.setPorts(port)

	var mu sync.Mutex
	var got []NoteMessage
	m := NewManager(tr, func(msg NoteMessage) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
	})

	require.NoError(t, m.scan())
	port.lastConn().handler(NoteMessage{Note: 60, Channel: 0, On: true})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "Keystation", got[0].Device)
	assert.Equal(t, uint8(60), got[0].Note)
	assert.True(t, got[0].On)
}
