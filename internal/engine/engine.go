// Package engine executes mapping event sequences against the key
// simulator, coalescing modifier transitions along the way.
package engine

import (
	"log/slog"
	"time"

	"github.com/PixPMusic/gopher-perform/internal/keysim"
	"github.com/PixPMusic/gopher-perform/internal/mapping"
)

// Engine runs event sequences synchronously on the calling goroutine. A
// sequence always runs to completion; simulator failures are logged and the
// remaining events still execute, since dropping half a chord would leave
// keys wedged down.
type Engine struct {
	coal   *Coalescer
	settle time.Duration
	log    *slog.Logger

	// sleep is swapped out by tests.
	sleep func(time.Duration)
}

// New builds an engine over sim. settle is the pause inserted after the
// held-modifier set actually changes; zero selects the default.
func New(sim keysim.Simulator, settle time.Duration, log *slog.Logger) *Engine {
	if settle <= 0 {
		settle = mapping.SwitchDelay
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		coal:   NewCoalescer(sim),
		settle: settle,
		log:    log,
		sleep:  time.Sleep,
	}
}

// Coalescer exposes the engine's modifier state machine.
func (e *Engine) Coalescer() *Coalescer {
	return e.coal
}

// Execute runs seq strictly in order. Delays block for their full duration
// before the next event starts; key events hit the simulator synchronously.
func (e *Engine) Execute(seq []mapping.Event) {
	for _, ev := range seq {
		switch ev.Kind {
		case mapping.EventDelay:
			e.sleep(ev.Pause)

		case mapping.EventKeyDown:
			if _, err := e.coal.Press(ev.Key); err != nil {
				e.log.Warn("key down failed", "key", ev.Key.String(), "err", err)
			}

		case mapping.EventKeyUp:
			if _, err := e.coal.Release(ev.Key); err != nil {
				e.log.Warn("key up failed", "key", ev.Key.String(), "err", err)
			}

		case mapping.EventModifierSet:
			changed, err := e.coal.Set(ev.Modifier)
			if err != nil {
				e.log.Warn("modifier switch failed", "err", err)
			}
			if changed {
				// Give the OS a moment to register the new chord.
				e.sleep(e.settle)
			}
		}
	}
}
