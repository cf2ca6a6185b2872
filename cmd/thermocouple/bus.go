package main

import (
	"fmt"

	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/mklimuk/thermocouple"
	"github.com/mklimuk/thermocouple/adapter"
	"github.com/mklimuk/thermocouple/cmd/thermocouple/config"
	"github.com/mklimuk/thermocouple/cmd/thermocouple/console"
	"github.com/mklimuk/thermocouple/i2c"
)

// openBus connects the adapter named by the profile. The returned close function is never nil.
func openBus(profile config.Profile) (thermocouple.I2CBus, func(), error) {
	switch profile.Adapter {
	case config.AdapterMCP2221:
		a := adapter.NewMCP2221()
		if err := a.Init(); err != nil {
			return nil, func() {}, err
		}
		return a, func() {}, nil
	case config.AdapterGeneric:
		bus, err := i2c.NewGenericBus(profile.Device)
		if err != nil {
			return nil, func() {}, err
		}
		return bus, func() {
			if err := bus.Close(); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
		}, nil
	case config.AdapterNanoPi:
		npi := nanopi.NewNeoAdaptor()
		if err := npi.Connect(); err != nil {
			return nil, func() {}, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := i2c.NewGobotBus(npi, profile.Bus)
		return bus, func() {
			if err := bus.Close(); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
			if err := npi.Finalize(); err != nil {
				console.Errorf("error finalizing adaptor: %s", console.Red(err))
			}
		}, nil
	}
	return nil, func() {}, fmt.Errorf("%w: %q", config.ErrUnknownAdapter, profile.Adapter)
}
