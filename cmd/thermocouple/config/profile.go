package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/thermocouple/mcp9600"
)

const (
	AdapterMCP2221 = "mcp2221"
	AdapterGeneric = "generic"
	AdapterNanoPi  = "nanopi"
)

// Profile describes how to reach one thermocouple amplifier and how to configure it.
//
//	adapter: generic
//	device: /dev/i2c-1
//	address: 0x67
//	type: J
//	filter: 2
type Profile struct {
	Adapter string                   `yaml:"adapter"`
	Device  string                   `yaml:"device"`
	Bus     int                      `yaml:"bus"`
	Address uint8                    `yaml:"address"`
	Type    mcp9600.ThermocoupleType `yaml:"type"`
	Filter  int                      `yaml:"filter"`
}

func Default() Profile {
	return Profile{
		Adapter: AdapterMCP2221,
		Device:  "/dev/i2c-1",
		Bus:     0,
		Address: mcp9600.DefaultAddress,
		Type:    mcp9600.TypeK,
		Filter:  0,
	}
}

// Load reads a YAML profile on top of the defaults. A missing file is reported as an error.
func Load(path string) (Profile, error) {
	profile := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("could not read profile %s: %w", path, err)
	}
	err = yaml.Unmarshal(data, &profile)
	if err != nil {
		return profile, fmt.Errorf("could not parse profile %s: %w", path, err)
	}
	return profile, profile.Validate()
}

var ErrUnknownAdapter = errors.New("unknown adapter")

func (p Profile) Validate() error {
	switch p.Adapter {
	case AdapterMCP2221, AdapterGeneric, AdapterNanoPi:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAdapter, p.Adapter)
	}
	if p.Address > 0x7F {
		return fmt.Errorf("address %#x is not a 7-bit address", p.Address)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("%w: unknown thermocouple type %d", mcp9600.ErrInvalidConfiguration, byte(p.Type))
	}
	return nil
}

// Options converts the profile to driver options. The filter is passed as is and clamped by the driver.
func (p Profile) Options() []mcp9600.ConfigOption {
	return []mcp9600.ConfigOption{
		mcp9600.WithAddress(p.Address),
		mcp9600.WithType(p.Type),
		mcp9600.WithFilter(p.Filter),
	}
}
