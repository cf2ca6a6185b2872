package mcp9600

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mklimuk/thermocouple"
)

const DefaultAddress = 0x67

// Register map
const (
	regHotJunction  byte = 0x00
	regDeltaTemp    byte = 0x01
	regColdJunction byte = 0x02
	regThermoConfig byte = 0x05
	regVersion      byte = 0x20
)

const (
	MinFilter = 0
	MaxFilter = 7
)

// 0.0625 °C per LSB; readings with the sign flag set are shifted down by 4096 °C
const (
	degreesPerLSB  = 0.0625
	signCorrection = 4096.0
	signFlag       = 0x80
)

// MCP9600 represents Microchip MCP9600 thermocouple EMF to temperature converter.
// See: https://ww1.microchip.com/downloads/en/DeviceDoc/MCP960X-Data-Sheet-20005426.pdf
//
// The thermocouple type and filter are written once by New and never changed afterwards:
//
//	s, err := New(ctx, bus, WithType(TypeJ), WithFilter(3))
//	t, err := s.Temperature(ctx)
type MCP9600 struct {
	mx        sync.Mutex
	transport thermocouple.RegisterBus
	address   byte
	tcType    ThermocoupleType
	filter    int
	// buf[0] carries the register pointer, buf[1:] receives the payload
	buf []byte
}

type Config struct {
	Address byte
	Type    ThermocoupleType
	Filter  int
}

type ConfigOption func(*Config)

func WithAddress(address byte) ConfigOption {
	return func(c *Config) {
		c.Address = address
	}
}

func WithType(t ThermocoupleType) ConfigOption {
	return func(c *Config) {
		c.Type = t
	}
}

// WithFilter sets the input filter coefficient. Values outside 0-7 are clamped.
func WithFilter(level int) ConfigOption {
	return func(c *Config) {
		c.Filter = level
	}
}

// Reading holds one snapshot of all three temperature registers in Celsius.
type Reading struct {
	Hot   float64 `yaml:"hot"`
	Delta float64 `yaml:"delta"`
	Cold  float64 `yaml:"cold"`
}

// New validates the configuration and writes it to the thermocouple configuration register.
// An invalid thermocouple type fails with ErrInvalidConfiguration before any bus traffic;
// a failed configuration write returns the wrapped bus error.
func New(ctx context.Context, trans thermocouple.RegisterBus, opts ...ConfigOption) (*MCP9600, error) {
	config := &Config{
		Address: DefaultAddress,
		Type:    TypeK,
		Filter:  MinFilter,
	}
	for _, opt := range opts {
		opt(config)
	}
	if !config.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown thermocouple type %d", ErrInvalidConfiguration, byte(config.Type))
	}
	sensor := &MCP9600{
		transport: trans,
		address:   config.Address,
		tcType:    config.Type,
		filter:    clampFilter(config.Filter),
		buf:       make([]byte, 3),
	}
	cfg := ConfigByte(sensor.tcType, sensor.filter)
	err := sensor.transport.WriteToAddr(ctx, sensor.address, []byte{regThermoConfig, cfg})
	if err != nil {
		return nil, fmt.Errorf("mcp9600: could not write thermocouple configuration: %w", err)
	}
	slog.Debug("mcp9600 configured", "address", fmt.Sprintf("%#x", sensor.address), "type", sensor.tcType, "filter", sensor.filter, "config", fmt.Sprintf("%#x", cfg))
	return sensor, nil
}

// ConfigByte encodes the thermocouple configuration register: filter in bits [3:0], type in bits [7:4].
func ConfigByte(t ThermocoupleType, filter int) byte {
	return byte(clampFilter(filter)) | byte(t)<<4
}

func clampFilter(level int) int {
	return min(MaxFilter, max(MinFilter, level))
}

func (sensor *MCP9600) Address() byte {
	return sensor.address
}

func (sensor *MCP9600) Type() ThermocoupleType {
	return sensor.tcType
}

func (sensor *MCP9600) Filter() int {
	return sensor.filter
}

func (sensor *MCP9600) String() string {
	return fmt.Sprintf("MCP9600{addr: %#x, type: %s, filter: %d}", sensor.address, sensor.tcType, sensor.filter)
}

// Version returns the device ID and revision register.
func (sensor *MCP9600) Version(ctx context.Context) (uint16, error) {
	sensor.mx.Lock()
	defer sensor.mx.Unlock()
	data, err := sensor.readRegister(ctx, regVersion, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(data), nil
}

// Temperature returns the hot junction (thermocouple tip) temperature in Celsius.
func (sensor *MCP9600) Temperature(ctx context.Context) (float64, error) {
	return sensor.readTemperature(ctx, regHotJunction)
}

// AmbientTemperature returns the cold junction (chip) temperature in Celsius.
func (sensor *MCP9600) AmbientTemperature(ctx context.Context) (float64, error) {
	return sensor.readTemperature(ctx, regColdJunction)
}

// DeltaTemperature returns the hot minus cold junction difference in Celsius, as computed by the chip.
func (sensor *MCP9600) DeltaTemperature(ctx context.Context) (float64, error) {
	return sensor.readTemperature(ctx, regDeltaTemp)
}

// Sense reads hot junction, delta and cold junction registers in that order.
func (sensor *MCP9600) Sense(ctx context.Context) (Reading, error) {
	var r Reading
	var err error
	r.Hot, err = sensor.Temperature(ctx)
	if err != nil {
		return Reading{}, err
	}
	r.Delta, err = sensor.DeltaTemperature(ctx)
	if err != nil {
		return Reading{}, err
	}
	r.Cold, err = sensor.AmbientTemperature(ctx)
	if err != nil {
		return Reading{}, err
	}
	return r, nil
}

func (sensor *MCP9600) readTemperature(ctx context.Context, reg byte) (float64, error) {
	sensor.mx.Lock()
	defer sensor.mx.Unlock()
	data, err := sensor.readRegister(ctx, reg, 2)
	if err != nil {
		return 0, err
	}
	return convertTemperature(data), nil
}

// readRegister sets the register pointer and reads count bytes back in one transaction.
// The returned slice aliases the scratch buffer and is only valid until the next call.
func (sensor *MCP9600) readRegister(ctx context.Context, reg byte, count int) ([]byte, error) {
	sensor.buf[0] = reg
	resp := sensor.buf[1 : 1+count]
	err := sensor.transport.TxToAddr(ctx, sensor.address, sensor.buf[:1], resp)
	if err != nil {
		return nil, fmt.Errorf("mcp9600: could not read register %#x: %w", reg, err)
	}
	return resp, nil
}

func convertTemperature(resp []byte) float64 {
	value := float64(binary.BigEndian.Uint16(resp)) * degreesPerLSB
	// sign flag is bit 15 of the register pair
	if resp[0]&signFlag != 0 {
		value -= signCorrection
	}
	return value
}

// Thermocouple is implemented by MCP9600 and MockThermocouple.
type Thermocouple interface {
	Temperature(ctx context.Context) (float64, error)
	AmbientTemperature(ctx context.Context) (float64, error)
	DeltaTemperature(ctx context.Context) (float64, error)
	Version(ctx context.Context) (uint16, error)
	Sense(ctx context.Context) (Reading, error)
}

var (
	_ Thermocouple = &MCP9600{}
	_ Thermocouple = &MockThermocouple{}
)
