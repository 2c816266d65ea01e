package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// RTMidiTransport backs Transport with the rtmidi driver. The driver handle
// is held explicitly so enumeration errors surface instead of panicking.
type RTMidiTransport struct {
	drv *rtmididrv.Driver
}

// NewRTMidi initializes the rtmidi driver. Failure here means no MIDI
// support on this host at all.
func NewRTMidi() (*RTMidiTransport, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("initialize rtmidi driver: %w", err)
	}
	return &RTMidiTransport{drv: drv}, nil
}

func (t *RTMidiTransport) ListPorts() ([]Port, error) {
	ins, err := t.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("enumerate input ports: %w", err)
	}
	ports := make([]Port, 0, len(ins))
	for _, in := range ins {
		ports = append(ports, &rtPort{in: in})
	}
	return ports, nil
}

func (t *RTMidiTransport) Close() error {
	return t.drv.Close()
}

type rtPort struct {
	in drivers.In
}

func (p *rtPort) Name() (string, error) {
	return p.in.String(), nil
}

func (p *rtPort) Connect(h Handler) (Connection, error) {
	if err := p.in.Open(); err != nil {
		return nil, fmt.Errorf("open port: %w", err)
	}
	stop, err := gomidi.ListenTo(p.in, func(msg gomidi.Message, timestampms int32) {
		var channel, key, velocity uint8
		switch {
		case msg.GetNoteStart(&channel, &key, &velocity):
			h(NoteMessage{Note: key, Channel: channel, On: true})
		case msg.GetNoteEnd(&channel, &key):
			h(NoteMessage{Note: key, Channel: channel, On: false})
		}
	})
	if err != nil {
		_ = p.in.Close()
		return nil, fmt.Errorf("start listener: %w", err)
	}
	return &rtConnection{in: p.in, stop: stop}, nil
}

type rtConnection struct {
	in   drivers.In
	stop func()
}

func (c *rtConnection) Close() error {
	c.stop()
	return c.in.Close()
}
