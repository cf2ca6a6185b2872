package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/thermocouple/cmd/thermocouple/config"
	"github.com/mklimuk/thermocouple/mcp9600"
	"github.com/mklimuk/thermocouple/snsctx"
)

var version string
var commit string
var date string

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	err := newApp().Run(args)
	if err == nil {
		return 0
	}
	log.Printf("unexpected error: %v", err)
	var exerr cli.ExitCoder
	if errors.As(err, &exerr) {
		return exerr.ExitCode()
	}
	return 1
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "thermocouple"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "MCP9600 thermocouple amplifier cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "enable verbose logging and bus traffic dumps",
			EnvVars: []string{"TC_VERBOSE"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML device profile",
			EnvVars: []string{"TC_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Usage:   "bus adapter: mcp2221, generic or nanopi",
			Value:   config.AdapterMCP2221,
			EnvVars: []string{"TC_ADAPTER"},
		},
		&cli.StringFlag{
			Name:    "device",
			Aliases: []string{"d"},
			Usage:   "i2c device for the generic adapter",
			Value:   "/dev/i2c-1",
			EnvVars: []string{"TC_DEVICE"},
		},
		&cli.IntFlag{
			Name:    "bus",
			Usage:   "i2c bus number for the nanopi adapter",
			EnvVars: []string{"TC_BUS"},
		},
		&cli.StringFlag{
			Name:    "address",
			Usage:   "7-bit device address",
			Value:   fmt.Sprintf("%#x", mcp9600.DefaultAddress),
			EnvVars: []string{"TC_ADDRESS"},
		},
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "thermocouple type: K, J, T, N, S, E, B or R",
			Value:   mcp9600.TypeK.String(),
			EnvVars: []string{"TC_TYPE"},
		},
		&cli.IntFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "input filter coefficient 0-7",
			EnvVars: []string{"TC_FILTER"},
		},
	}
	app.Before = func(ctx *cli.Context) error {
		charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if ctx.Bool("verbose") {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))
		ctx.Context = snsctx.WithVerbose(ctx.Context, ctx.Bool("verbose"))
		return nil
	}
	app.Commands = cli.Commands{
		&profileCmd,
		&readCmd,
		&watchCmd,
		&versionCmd,
		&configureCmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	return app
}
