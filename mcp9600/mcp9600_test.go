package mcp9600

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	tci2c "github.com/mklimuk/thermocouple/i2c"
)

// MockBus is a mock implementation of thermocouple.RegisterBus using testify/mock
type MockBus struct {
	mock.Mock
}

func (m *MockBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockBus) TxToAddr(ctx context.Context, address byte, w, r []byte) error {
	args := m.Called(ctx, address, w, r)
	if data, ok := args.Get(0).([]byte); ok {
		copy(r, data)
	}
	return args.Error(1)
}

func (m *MockBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newConfigured(t *testing.T, bus *MockBus, opts ...ConfigOption) *MCP9600 {
	t.Helper()
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), mock.Anything).Return(nil).Once()
	sensor, err := New(context.Background(), bus, opts...)
	require.NoError(t, err)
	return sensor
}

func TestConfigByte(t *testing.T) {
	tests := []struct {
		tcType   ThermocoupleType
		filter   int
		expected byte
	}{
		{TypeK, 0, 0x00},
		{TypeT, 3, 0x23},
		{TypeR, 7, 0x77},
		{TypeJ, 9, 0x17},
		{TypeB, -4, 0x60},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%s/%d", test.tcType, test.filter), func(t *testing.T) {
			assert.Equal(t, test.expected, ConfigByte(test.tcType, test.filter))
		})
	}
}

func TestNew_AllTypes(t *testing.T) {
	for i, tcType := range Types() {
		t.Run(tcType.String(), func(t *testing.T) {
			pb := &i2ctest.Playback{
				Ops:       []i2ctest.IO{{Addr: DefaultAddress, W: []byte{regThermoConfig, byte(i) << 4}}},
				DontPanic: true,
			}
			sensor, err := New(context.Background(), tci2c.NewBus(pb), WithType(tcType))
			require.NoError(t, err)
			assert.NoError(t, pb.Close())
			assert.Equal(t, tcType, sensor.Type())
			assert.Equal(t, 0, sensor.Filter())
		})
	}
}

func TestNew_TypeT_Filter3(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: 0x60, W: []byte{0x05, 0x23}}},
		DontPanic: true,
	}
	sensor, err := New(context.Background(), tci2c.NewBus(pb), WithAddress(0x60), WithType(TypeT), WithFilter(3))
	require.NoError(t, err)
	assert.NoError(t, pb.Close())
	assert.Equal(t, byte(0x60), sensor.Address())
	assert.Equal(t, "MCP9600{addr: 0x60, type: T, filter: 3}", sensor.String())
}

func TestNew_FilterIsClamped(t *testing.T) {
	for f := -100; f <= 100; f++ {
		expected := min(7, max(0, f))
		bus := new(MockBus)
		bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{regThermoConfig, byte(expected) | byte(TypeJ)<<4}).
			Return(nil).Once()

		sensor, err := New(context.Background(), bus, WithType(TypeJ), WithFilter(f))
		require.NoError(t, err, "filter %d", f)
		assert.Equal(t, expected, sensor.Filter())
		bus.AssertExpectations(t)
	}
}

func TestNew_InvalidType(t *testing.T) {
	for _, tcType := range []ThermocoupleType{8, 9, 0x10, 0xFF} {
		t.Run(fmt.Sprintf("%d", tcType), func(t *testing.T) {
			bus := new(MockBus)
			_, err := New(context.Background(), bus, WithType(tcType))
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
			bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
			bus.AssertNotCalled(t, "TxToAddr", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestNew_BusError(t *testing.T) {
	busErr := errors.New("address not acknowledged")
	bus := new(MockBus)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), mock.Anything).Return(busErr).Once()

	_, err := New(context.Background(), bus)
	assert.ErrorIs(t, err, busErr)
	assert.NotErrorIs(t, err, ErrInvalidConfiguration)
	bus.AssertExpectations(t)
}

func TestNew_SingleWriteNoRead(t *testing.T) {
	bus := new(MockBus)
	newConfigured(t, bus, WithType(TypeE), WithFilter(2))
	bus.AssertNumberOfCalls(t, "WriteToAddr", 1)
	bus.AssertNumberOfCalls(t, "TxToAddr", 0)
}

func TestMCP9600_ConvertTemp(t *testing.T) {
	tests := []struct {
		given    []byte
		expected float64
	}{
		{[]byte{0x00, 0x00}, 0.0},
		{[]byte{0x01, 0x90}, 25.0},
		{[]byte{0x00, 0x90}, 9.0},
		{[]byte{0x19, 0x04}, 400.25},
		{[]byte{0x7F, 0xFF}, 2047.9375},
		{[]byte{0x80, 0x80}, -2040.0},
		{[]byte{0xFF, 0x00}, -16.0},
		{[]byte{0xFF, 0xFF}, -0.0625},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.given), func(t *testing.T) {
			assert.Equal(t, test.expected, convertTemperature(test.given))
		})
	}
}

func TestMCP9600_Queries(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddress, W: []byte{regThermoConfig, 0x01}},
			{Addr: DefaultAddress, W: []byte{regHotJunction}, R: []byte{0x19, 0x04}},
			{Addr: DefaultAddress, W: []byte{regDeltaTemp}, R: []byte{0x17, 0x70}},
			{Addr: DefaultAddress, W: []byte{regColdJunction}, R: []byte{0x01, 0x94}},
			{Addr: DefaultAddress, W: []byte{regVersion}, R: []byte{0x01, 0x20}},
		},
		DontPanic: true,
	}
	ctx := context.Background()
	sensor, err := New(ctx, tci2c.NewBus(pb), WithFilter(1))
	require.NoError(t, err)

	hot, err := sensor.Temperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, 400.25, hot)

	delta, err := sensor.DeltaTemperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, 375.0, delta)

	cold, err := sensor.AmbientTemperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25.25, cold)

	ver, err := sensor.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(288), ver)

	assert.NoError(t, pb.Close())
}

func TestMCP9600_OneTransactionPerQuery(t *testing.T) {
	tests := []struct {
		name  string
		reg   byte
		query func(ctx context.Context, s *MCP9600) error
	}{
		{"temperature", regHotJunction, func(ctx context.Context, s *MCP9600) error { _, err := s.Temperature(ctx); return err }},
		{"delta", regDeltaTemp, func(ctx context.Context, s *MCP9600) error { _, err := s.DeltaTemperature(ctx); return err }},
		{"ambient", regColdJunction, func(ctx context.Context, s *MCP9600) error { _, err := s.AmbientTemperature(ctx); return err }},
		{"version", regVersion, func(ctx context.Context, s *MCP9600) error { _, err := s.Version(ctx); return err }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bus := new(MockBus)
			sensor := newConfigured(t, bus)
			bus.On("TxToAddr", mock.Anything, byte(DefaultAddress), []byte{test.reg}, mock.Anything).
				Return([]byte{0x00, 0x10}, nil).Once()

			require.NoError(t, test.query(context.Background(), sensor))
			bus.AssertNumberOfCalls(t, "TxToAddr", 1)
			// the only plain write is the configuration done by New
			bus.AssertNumberOfCalls(t, "WriteToAddr", 1)
			bus.AssertExpectations(t)
		})
	}
}

func TestMCP9600_ReadBusError(t *testing.T) {
	busErr := errors.New("device not responding")
	bus := new(MockBus)
	sensor := newConfigured(t, bus)
	bus.On("TxToAddr", mock.Anything, byte(DefaultAddress), []byte{regHotJunction}, mock.Anything).
		Return(nil, busErr).Once()

	_, err := sensor.Temperature(context.Background())
	assert.ErrorIs(t, err, busErr)
	bus.AssertNumberOfCalls(t, "TxToAddr", 1)
}

func TestMCP9600_Sense(t *testing.T) {
	bus := new(MockBus)
	sensor := newConfigured(t, bus)
	bus.On("TxToAddr", mock.Anything, byte(DefaultAddress), []byte{regHotJunction}, mock.Anything).
		Return([]byte{0x06, 0x40}, nil).Once()
	bus.On("TxToAddr", mock.Anything, byte(DefaultAddress), []byte{regDeltaTemp}, mock.Anything).
		Return([]byte{0x04, 0xB0}, nil).Once()
	bus.On("TxToAddr", mock.Anything, byte(DefaultAddress), []byte{regColdJunction}, mock.Anything).
		Return([]byte{0x01, 0x90}, nil).Once()

	r, err := sensor.Sense(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Reading{Hot: 100.0, Delta: 75.0, Cold: 25.0}, r)
	bus.AssertExpectations(t)
}

func TestMCP9600_SenseStopsOnError(t *testing.T) {
	busErr := errors.New("arbitration lost")
	bus := new(MockBus)
	sensor := newConfigured(t, bus)
	bus.On("TxToAddr", mock.Anything, byte(DefaultAddress), []byte{regHotJunction}, mock.Anything).
		Return([]byte{0x06, 0x40}, nil).Once()
	bus.On("TxToAddr", mock.Anything, byte(DefaultAddress), []byte{regDeltaTemp}, mock.Anything).
		Return(nil, busErr).Once()

	r, err := sensor.Sense(context.Background())
	assert.ErrorIs(t, err, busErr)
	assert.Equal(t, Reading{}, r)
	bus.AssertNumberOfCalls(t, "TxToAddr", 2)
}

func TestMCP9600_ConcurrentQueries(t *testing.T) {
	bus := new(MockBus)
	sensor := newConfigured(t, bus)
	bus.On("TxToAddr", mock.Anything, byte(DefaultAddress), mock.Anything, mock.Anything).
		Return([]byte{0x01, 0x90}, nil)

	const numOps = 8
	var wg sync.WaitGroup
	wg.Add(numOps)
	for i := 0; i < numOps; i++ {
		go func() {
			defer wg.Done()
			temp, err := sensor.AmbientTemperature(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 25.0, temp)
		}()
	}
	wg.Wait()
	bus.AssertNumberOfCalls(t, "TxToAddr", numOps)
}
