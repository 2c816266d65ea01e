package engine

import (
	"github.com/PixPMusic/gopher-perform/internal/keysim"
)

// Coalescer owns the set of modifier keys currently believed to be held and
// forwards every key transition to the simulator. Routing all presses and
// releases through it keeps that belief accurate even when a sequence drives
// a modifier key directly.
//
// Not safe for concurrent use; the coordinator goroutine is the sole caller.
type Coalescer struct {
	sim     keysim.Simulator
	tracked []keysim.Key
	held    map[keysim.Key]bool
}

// NewCoalescer tracks the fixed modifier set over sim.
func NewCoalescer(sim keysim.Simulator) *Coalescer {
	return &Coalescer{
		sim:     sim,
		tracked: keysim.Modifiers(),
		held:    make(map[keysim.Key]bool),
	}
}

// Press pushes k down. For a tracked modifier that is already held this is
// a no-op. Reports whether a transition was sent to the simulator.
func (c *Coalescer) Press(k keysim.Key) (bool, error) {
	if c.isTracked(k) && c.held[k] {
		return false, nil
	}
	if err := c.sim.Press(k); err != nil {
		return false, err
	}
	if c.isTracked(k) {
		c.held[k] = true
	}
	return true, nil
}

// Release lets k up, with the same idempotence rule for tracked modifiers.
func (c *Coalescer) Release(k keysim.Key) (bool, error) {
	if c.isTracked(k) && !c.held[k] {
		return false, nil
	}
	if err := c.sim.Release(k); err != nil {
		return false, err
	}
	if c.isTracked(k) {
		delete(c.held, k)
	}
	return true, nil
}

// Set moves the held-modifier state to exactly desired: press it if absent,
// release every other tracked modifier. desired == nil releases everything.
// Reports whether at least one transition occurred, so the caller knows a
// settle pause is due. Consecutive calls with the same desired key are free.
func (c *Coalescer) Set(desired *keysim.Key) (bool, error) {
	changed := false
	for _, mod := range c.tracked {
		var did bool
		var err error
		if desired != nil && mod == *desired {
			did, err = c.Press(mod)
		} else {
			did, err = c.Release(mod)
		}
		if err != nil {
			return changed, err
		}
		if did {
			changed = true
		}
	}
	return changed, nil
}

// IsHeld reports whether the coalescer believes k is currently pressed.
func (c *Coalescer) IsHeld(k keysim.Key) bool {
	return c.held[k]
}

func (c *Coalescer) isTracked(k keysim.Key) bool {
	for _, mod := range c.tracked {
		if mod == k {
			return true
		}
	}
	return false
}
