package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/thermocouple/adapter"
	"github.com/mklimuk/thermocouple/cmd/thermocouple/console"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 USB-I2C adapter utilities",
	Subcommands: []*cli.Command{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name: "status",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221()
		status, err := a.Status(c.Context)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return encodeYAML(status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the current transfer and free a stuck bus",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221()
		status, err := a.ReleaseBus(c.Context)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return encodeYAML(status)
	},
}
