package mcp9600

import (
	"context"
)

// TemperatureBehaviorFunc defines the function signature for temperature behavior.
// It returns the temperature in Celsius or an error.
type TemperatureBehaviorFunc func(ctx context.Context) (float64, error)

// MockThermocouple is a mock implementation of a thermocouple amplifier that uses behavior functions
// to produce results without requiring any hardware.
// Nil behaviors return 0 without error.
//
// Example usage:
//
//	hot := 180.0
//	sensor := NewMockThermocouple(
//		func(ctx context.Context) (float64, error) { return hot, nil },
//		func(ctx context.Context) (float64, error) { return 21.5, nil },
//	)
type MockThermocouple struct {
	hotBehavior  TemperatureBehaviorFunc
	coldBehavior TemperatureBehaviorFunc
	// DeltaBehavior overrides the hot minus cold default when set.
	DeltaBehavior TemperatureBehaviorFunc
	Ver           uint16
}

func NewMockThermocouple(hot, cold TemperatureBehaviorFunc) *MockThermocouple {
	return &MockThermocouple{hotBehavior: hot, coldBehavior: cold}
}

func (m *MockThermocouple) Temperature(ctx context.Context) (float64, error) {
	return call(ctx, m.hotBehavior)
}

func (m *MockThermocouple) AmbientTemperature(ctx context.Context) (float64, error) {
	return call(ctx, m.coldBehavior)
}

func (m *MockThermocouple) DeltaTemperature(ctx context.Context) (float64, error) {
	if m.DeltaBehavior != nil {
		return m.DeltaBehavior(ctx)
	}
	hot, err := m.Temperature(ctx)
	if err != nil {
		return 0, err
	}
	cold, err := m.AmbientTemperature(ctx)
	if err != nil {
		return 0, err
	}
	return hot - cold, nil
}

func (m *MockThermocouple) Version(ctx context.Context) (uint16, error) {
	return m.Ver, nil
}

func (m *MockThermocouple) Sense(ctx context.Context) (Reading, error) {
	var r Reading
	var err error
	r.Hot, err = m.Temperature(ctx)
	if err != nil {
		return Reading{}, err
	}
	r.Delta, err = m.DeltaTemperature(ctx)
	if err != nil {
		return Reading{}, err
	}
	r.Cold, err = m.AmbientTemperature(ctx)
	if err != nil {
		return Reading{}, err
	}
	return r, nil
}

func call(ctx context.Context, behavior TemperatureBehaviorFunc) (float64, error) {
	if behavior == nil {
		return 0, nil
	}
	return behavior(ctx)
}
