package mcp9600

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidConfiguration = errors.New("mcp9600: invalid configuration")

// ThermocoupleType selects the voltage-to-temperature curve the amplifier uses.
// The value is the type index written into bits [7:4] of the configuration register.
type ThermocoupleType byte

const (
	TypeK ThermocoupleType = iota
	TypeJ
	TypeT
	TypeN
	TypeS
	TypeE
	TypeB
	TypeR
)

var typeNames = [...]string{"K", "J", "T", "N", "S", "E", "B", "R"}

var typesByName = map[string]ThermocoupleType{
	"K": TypeK,
	"J": TypeJ,
	"T": TypeT,
	"N": TypeN,
	"S": TypeS,
	"E": TypeE,
	"B": TypeB,
	"R": TypeR,
}

// Types returns all supported thermocouple types in register index order.
func Types() []ThermocoupleType {
	return []ThermocoupleType{TypeK, TypeJ, TypeT, TypeN, TypeS, TypeE, TypeB, TypeR}
}

// ParseType maps a type letter (K, J, T, N, S, E, B or R) to its ThermocoupleType.
func ParseType(name string) (ThermocoupleType, error) {
	t, ok := typesByName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown thermocouple type %q", ErrInvalidConfiguration, name)
	}
	return t, nil
}

func (t ThermocoupleType) Valid() bool {
	return int(t) < len(typeNames)
}

func (t ThermocoupleType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("ThermocoupleType(%d)", byte(t))
	}
	return typeNames[t]
}

// UnmarshalText lets the type be used directly in flag and YAML decoding.
func (t *ThermocoupleType) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ThermocoupleType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown thermocouple type %d", ErrInvalidConfiguration, byte(t))
	}
	return []byte(t.String()), nil
}
