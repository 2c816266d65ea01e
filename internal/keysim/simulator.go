package keysim

import (
	"fmt"
	"log/slog"
	"os/exec"
)

// Simulator is the platform key-synthesis primitive the engine drives.
// Implementations must be safe to call from the coordinator goroutine only;
// they are never called concurrently.
type Simulator interface {
	// Press pushes the key down.
	Press(k Key) error

	// Release lets the key up.
	Release(k Key) error
}

// ExecSimulator synthesizes key events by shelling out to xdotool, which
// talks to the X server on behalf of the process.
type ExecSimulator struct {
	// Command overrides the tool name, for tests. Empty means "xdotool".
	Command string
}

// NewExecSimulator returns a Simulator backed by xdotool. It fails if the
// tool is not on PATH, so main can abort before any device connects.
func NewExecSimulator() (*ExecSimulator, error) {
	if _, err := exec.LookPath("xdotool"); err != nil {
		return nil, fmt.Errorf("key synthesis unavailable: %w", err)
	}
	return &ExecSimulator{}, nil
}

func (s *ExecSimulator) Press(k Key) error {
	return s.run("keydown", k)
}

func (s *ExecSimulator) Release(k Key) error {
	return s.run("keyup", k)
}

func (s *ExecSimulator) run(verb string, k Key) error {
	tool := s.Command
	if tool == "" {
		tool = "xdotool"
	}
	out, err := exec.Command(tool, verb, xdoKeyName(k)).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s %s: %v (%s)", tool, verb, k, err, out)
	}
	return nil
}

// xdoKeyName maps a Key to the keysym name xdotool expects.
func xdoKeyName(k Key) string {
	switch k {
	case KeyShift:
		return "shift"
	case KeyControl:
		return "ctrl"
	case KeyAlt:
		return "alt"
	case KeyEscape:
		return "Escape"
	}
	if k.Char == ' ' {
		return "space"
	}
	return string(k.Char)
}

// ConsoleSimulator logs every transition instead of synthesizing it. Used in
// dry-run mode so a mapping can be exercised without touching the desktop.
type ConsoleSimulator struct {
	Log *slog.Logger
}

func (s *ConsoleSimulator) Press(k Key) error {
	s.logger().Info("key down", "key", k.String())
	return nil
}

func (s *ConsoleSimulator) Release(k Key) error {
	s.logger().Info("key up", "key", k.String())
	return nil
}

func (s *ConsoleSimulator) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
