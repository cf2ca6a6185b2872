package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/thermocouple/cmd/thermocouple/config"
	"github.com/mklimuk/thermocouple/cmd/thermocouple/console"
	"github.com/mklimuk/thermocouple/mcp9600"
)

var profileCmd = cli.Command{
	Name:  "profile",
	Usage: "print the effective device profile",
	Action: func(c *cli.Context) error {
		profile, err := resolveProfile(c)
		if err != nil {
			return console.Exit(1, "invalid profile: %s", console.Red(err))
		}
		enc := yaml.NewEncoder(console.Output())
		defer func() { _ = enc.Close() }()
		err = enc.Encode(profile)
		if err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}

// resolveProfile loads the --config profile, if any, and applies explicitly set flags on top of it.
func resolveProfile(c *cli.Context) (config.Profile, error) {
	profile := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return profile, err
		}
		profile = loaded
	}
	if c.IsSet("adapter") {
		profile.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		profile.Device = c.String("device")
	}
	if c.IsSet("bus") {
		profile.Bus = c.Int("bus")
	}
	if c.IsSet("address") {
		addr, err := strconv.ParseUint(c.String("address"), 0, 8)
		if err != nil {
			return profile, fmt.Errorf("could not parse address %q: %w", c.String("address"), err)
		}
		profile.Address = uint8(addr)
	}
	if c.IsSet("type") {
		tcType, err := mcp9600.ParseType(c.String("type"))
		if err != nil {
			return profile, err
		}
		profile.Type = tcType
	}
	if c.IsSet("filter") {
		profile.Filter = c.Int("filter")
	}
	return profile, profile.Validate()
}
