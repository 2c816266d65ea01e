package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/PixPMusic/gopher-perform/internal/config"
	"github.com/PixPMusic/gopher-perform/internal/dispatch"
	"github.com/PixPMusic/gopher-perform/internal/engine"
	"github.com/PixPMusic/gopher-perform/internal/keysim"
	"github.com/PixPMusic/gopher-perform/internal/mapping"
	"github.com/PixPMusic/gopher-perform/internal/midi"
	"github.com/PixPMusic/gopher-perform/internal/startup"
)

var logger = slog.Default()

// initLogger configures the shared slog logger; stdlib log routes through
// the same handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func fatal(msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}

func main() {
	list := flag.Bool("list", false, "list available MIDI input devices and exit")
	device := flag.String("device", "", "connect only to the named device")
	mappings := flag.String("mappings", "", "load a mappings file (line format: note channel keydown keyup)")
	configPath := flag.String("config", "", "path to a config file (default: platform config dir)")
	dryRun := flag.Bool("dry-run", false, "log key events instead of synthesizing them")
	debug := flag.Bool("debug", false, "enable debug logging")
	startupMode := flag.String("startup", "", "manage the login item: enable, disable or status")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		initLogger(false)
		fatal("config", err)
	}

	// Flags that were given on the command line win over file values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Device = *device
		case "mappings":
			cfg.Mappings = *mappings
		case "dry-run":
			cfg.DryRun = *dryRun
		case "debug":
			cfg.Debug = *debug
		}
	})

	initLogger(cfg.Debug)

	if *startupMode != "" {
		if err := handleStartup(*startupMode); err != nil {
			fatal("startup", err)
		}
		return
	}

	transport, err := midi.NewRTMidi()
	if err != nil {
		fatal("cannot initialize MIDI transport", err)
	}
	defer transport.Close()

	if *list {
		if err := listDevices(transport); err != nil {
			fatal("unable to list MIDI devices", err)
		}
		return
	}

	if err := run(transport, cfg); err != nil {
		fatal("run", err)
	}
}

func run(transport midi.Transport, cfg *config.Config) error {
	table := mapping.NewTable()
	if cfg.Mappings != "" {
		if err := table.ImportFile(cfg.Mappings); err != nil {
			return err
		}
		logger.Info("mappings imported", "path", cfg.Mappings, "count", table.Len())
	} else {
		table.Replace(mapping.DefaultMappings())
		logger.Info("using built-in default mappings", "count", table.Len())
	}

	var sim keysim.Simulator
	if cfg.DryRun {
		sim = &keysim.ConsoleSimulator{Log: logger}
	} else {
		s, err := keysim.NewExecSimulator()
		if err != nil {
			return err
		}
		sim = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(sim, cfg.SettleDelay(), logger)
	coord := dispatch.New(table, eng, logger)
	go coord.Run(ctx)

	if cfg.Mappings != "" {
		if err := mapping.Watch(ctx, table, cfg.Mappings, logger); err != nil {
			logger.Warn("live mappings reload unavailable", "err", err)
		}
	}

	manager := midi.NewManager(transport,
		func(msg midi.NoteMessage) {
			note, err := mapping.NewNote(int(msg.Note))
			if err != nil {
				logger.Warn("unparseable message dropped", "device", msg.Device, "err", err)
				return
			}
			ch, err := mapping.NewChannel(int(msg.Channel))
			if err != nil {
				logger.Warn("unparseable message dropped", "device", msg.Device, "err", err)
				return
			}
			coord.Dispatch(ctx, dispatch.Message{
				Note:    note,
				Channel: ch,
				On:      msg.On,
				Device:  msg.Device,
			})
		},
		midi.WithDeviceFilter(cfg.Device),
		midi.WithPollInterval(cfg.PollInterval()),
		midi.WithLogger(logger),
	)

	logger.Info("running, waiting for MIDI devices",
		"device_filter", cfg.Device,
		"poll_interval", cfg.PollInterval(),
		"dry_run", cfg.DryRun,
	)
	return manager.Run(ctx)
}

func listDevices(transport midi.Transport) error {
	ports, err := transport.ListPorts()
	if err != nil {
		return err
	}
	fmt.Println("Available MIDI devices:")
	for _, port := range ports {
		name, err := port.Name()
		if err != nil {
			logger.Warn("cannot resolve port name", "err", err)
			continue
		}
		fmt.Printf("    %s\n", name)
	}
	return nil
}

func handleStartup(mode string) error {
	switch mode {
	case "enable":
		// Preserve the run flags so the login item starts with the same
		// device, mappings and config.
		var args []string
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "device", "mappings", "config":
				args = append(args, "--"+f.Name, f.Value.String())
			case "dry-run", "debug":
				args = append(args, "--"+f.Name)
			}
		})
		if err := startup.Enable(args); err != nil {
			return err
		}
		logger.Info("login item enabled")
	case "disable":
		if err := startup.Disable(); err != nil {
			return err
		}
		logger.Info("login item disabled")
	case "status":
		if startup.IsEnabled() {
			fmt.Println("login item: enabled")
		} else {
			fmt.Println("login item: disabled")
		}
	default:
		return fmt.Errorf("unknown startup mode %q (want enable, disable or status)", mode)
	}
	return nil
}
