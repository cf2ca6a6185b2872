package i2c

import (
	"context"
	"fmt"
	"sync"

	"github.com/mklimuk/thermocouple"
	gobot "gobot.io/x/gobot/v2/drivers/i2c"
)

var _ thermocouple.I2CBus = &GobotBus{}

// GobotBus drives devices through a gobot I2C connector (e.g. nanopi.NewNeoAdaptor()).
// A generic gobot driver is started lazily for each address and kept until Close.
type GobotBus struct {
	mx        sync.Mutex
	connector gobot.Connector
	busNr     int
	devices   map[byte]*gobot.GenericDriver
}

func NewGobotBus(connector gobot.Connector, busNr int) *GobotBus {
	return &GobotBus{
		connector: connector,
		busNr:     busNr,
		devices:   make(map[byte]*gobot.GenericDriver),
	}
}

func (b *GobotBus) device(address byte) (*gobot.GenericDriver, error) {
	if dev, ok := b.devices[address]; ok {
		return dev, nil
	}
	dev := gobot.NewGenericDriver(b.connector, fmt.Sprintf("i2c-%#x", address), int(address), func(c gobot.Config) {
		c.SetBus(b.busNr)
	})
	err := dev.Start()
	if err != nil {
		return nil, fmt.Errorf("could not start i2c device %x: %w", address, err)
	}
	b.devices[address] = dev
	return dev, nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	err = dev.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	err = dev.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

// TxToAddr writes w and then reads r while holding the bus lock.
// The connector issues a stop between both phases; register pointer devices keep the pointer across it.
func (b *GobotBus) TxToAddr(ctx context.Context, address byte, w, r []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	if len(w) > 0 {
		err = dev.Write(w)
		if err != nil {
			return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
		}
	}
	if len(r) > 0 {
		err = dev.Read(r)
		if err != nil {
			return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
		}
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

// Close halts every device driver started by the bus.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for addr, dev := range b.devices {
		if err := dev.Halt(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not halt i2c device %x: %w", addr, err)
		}
		delete(b.devices, addr)
	}
	return firstErr
}
