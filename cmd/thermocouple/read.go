package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/thermocouple"
	"github.com/mklimuk/thermocouple/cmd/thermocouple/config"
	"github.com/mklimuk/thermocouple/cmd/thermocouple/console"
	"github.com/mklimuk/thermocouple/mcp9600"
)

// withSensor resolves the profile, opens the bus and configures the amplifier before calling fn.
func withSensor(c *cli.Context, fn func(ctx context.Context, s *mcp9600.MCP9600) error) error {
	profile, err := resolveProfile(c)
	if err != nil {
		return console.Exit(1, "invalid profile: %s", console.Red(err))
	}
	bus, closeBus, err := openBus(profile)
	if err != nil {
		return console.Exit(1, "adapter initialization error: %s", console.Red(err))
	}
	defer closeBus()
	return withConfigured(c.Context, bus, profile, fn)
}

func withConfigured(ctx context.Context, bus thermocouple.RegisterBus, profile config.Profile, fn func(ctx context.Context, s *mcp9600.MCP9600) error) error {
	s, err := mcp9600.New(ctx, bus, profile.Options()...)
	if errors.Is(err, mcp9600.ErrInvalidConfiguration) {
		return console.Exit(1, "invalid configuration: %s", console.Red(err))
	}
	if err != nil {
		return console.Exit(2, "could not configure thermocouple amplifier: %s", console.Red(err))
	}
	slog.Debug("sensor ready", "sensor", s.String())
	return fn(ctx, s)
}

var readCmd = cli.Command{
	Name:      "read",
	Aliases:   []string{"rd"},
	Usage:     "read temperatures",
	ArgsUsage: "[hot|cold|delta|all]",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yaml", Usage: "print a YAML document instead of text"},
	},
	Action: func(c *cli.Context) error {
		what := "all"
		if c.NArg() > 0 {
			what = c.Args().Get(0)
		}
		return withSensor(c, func(ctx context.Context, s *mcp9600.MCP9600) error {
			return readTemperatures(ctx, s, what, c.Bool("yaml"))
		})
	},
}

func readTemperatures(ctx context.Context, s mcp9600.Thermocouple, what string, asYAML bool) error {
	var read func(context.Context) (float64, error)
	var picto, label string
	switch what {
	case "hot", "temperature", "temp":
		read, picto, label = s.Temperature, console.PictoFire, "hot junction"
	case "cold", "ambient":
		read, picto, label = s.AmbientTemperature, console.PictoSnowflake, "cold junction"
	case "delta":
		read, picto, label = s.DeltaTemperature, console.PictoThermometer, "delta"
	case "all":
		r, err := s.Sense(ctx)
		if err != nil {
			return console.Exit(2, "error getting temperature read: %s", console.Red(err))
		}
		return printReading(r, asYAML)
	default:
		return console.Exit(1, "unknown register %q, expected hot, cold, delta or all", what)
	}
	value, err := read(ctx)
	if err != nil {
		return console.Exit(2, "error getting temperature read: %s", console.Red(err))
	}
	if asYAML {
		return encodeYAML(map[string]float64{label: value})
	}
	console.PInfof(picto, "%s: %s", label, console.Celsius(value))
	return nil
}

func printReading(r mcp9600.Reading, asYAML bool) error {
	if asYAML {
		return encodeYAML(r)
	}
	console.PInfof(console.PictoFire, "hot junction:  %s", console.Celsius(r.Hot))
	console.PInfof(console.PictoSnowflake, "cold junction: %s", console.Celsius(r.Cold))
	console.PInfof(console.PictoThermometer, "delta:         %s", console.Celsius(r.Delta))
	return nil
}

func encodeYAML(v interface{}) error {
	enc := yaml.NewEncoder(console.Output())
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(v); err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}

var watchCmd = cli.Command{
	Name:  "watch",
	Usage: "read all temperatures periodically until interrupted",
	Flags: []cli.Flag{
		&cli.DurationFlag{Name: "interval", Aliases: []string{"i"}, Value: time.Second},
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "stop after n readings, 0 means forever"},
		&cli.BoolFlag{Name: "yaml", Usage: "print YAML documents instead of text"},
	},
	Action: func(c *cli.Context) error {
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
		defer stop()
		c.Context = ctx
		return withSensor(c, func(ctx context.Context, s *mcp9600.MCP9600) error {
			return watch(ctx, s, c.Duration("interval"), c.Int("count"), c.Bool("yaml"))
		})
	},
}

func watch(ctx context.Context, s mcp9600.Thermocouple, interval time.Duration, count int, asYAML bool) error {
	if count < 0 {
		return console.Exit(1, "invalid count %d, expected 0 or more", count)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 0; count == 0 || n < count; n++ {
		r, err := s.Sense(ctx)
		if err != nil {
			return console.Exit(2, "error getting temperature read: %s", console.Red(err))
		}
		if err := printReading(r, asYAML); err != nil {
			return err
		}
		if count != 0 && n == count-1 {
			break
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

var versionCmd = cli.Command{
	Name:  "version",
	Usage: "read the device ID and revision",
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, s *mcp9600.MCP9600) error {
			ver, err := s.Version(ctx)
			if err != nil {
				return console.Exit(2, "error reading version: %s", console.Red(err))
			}
			console.PInfof(console.PictoChip, "version: %s", console.White(formatVersion(ver)))
			return nil
		})
	},
}

func formatVersion(ver uint16) string {
	return fmt.Sprintf("0x%04x", ver)
}

var configureCmd = cli.Command{
	Name:  "configure",
	Usage: "write thermocouple type and filter to the amplifier",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	},
	Action: func(c *cli.Context) error {
		profile, err := resolveProfile(c)
		if err != nil {
			return console.Exit(1, "invalid profile: %s", console.Red(err))
		}
		if !c.Bool("yes") {
			ok, err := console.Confirm(configureQuestion(profile))
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if !ok {
				console.Warnf("configuration not written")
				return nil
			}
		}
		bus, closeBus, err := openBus(profile)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()
		return withConfigured(c.Context, bus, profile, func(ctx context.Context, s *mcp9600.MCP9600) error {
			console.PInfof(console.PictoPlug, "configured %s", console.Green(s.String()))
			return nil
		})
	},
}

func configureQuestion(profile config.Profile) string {
	cfg := mcp9600.ConfigByte(profile.Type, profile.Filter)
	return fmt.Sprintf("write type %s filter %d (0x%02x) to device %#x?", profile.Type, cfg&0x0F, cfg, profile.Address)
}
