package mcp9600

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseType(t *testing.T) {
	for i, name := range []string{"K", "J", "T", "N", "S", "E", "B", "R"} {
		t.Run(name, func(t *testing.T) {
			tcType, err := ParseType(name)
			require.NoError(t, err)
			assert.Equal(t, ThermocoupleType(i), tcType)
			assert.Equal(t, name, tcType.String())
			assert.True(t, tcType.Valid())
		})
	}
}

func TestParseType_Lenient(t *testing.T) {
	tcType, err := ParseType(" j ")
	require.NoError(t, err)
	assert.Equal(t, TypeJ, tcType)
}

func TestParseType_Invalid(t *testing.T) {
	for _, name := range []string{"", "X", "KK", "type-k", "0"} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseType(name)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestThermocoupleType_Invalid(t *testing.T) {
	tcType := ThermocoupleType(8)
	assert.False(t, tcType.Valid())
	assert.Equal(t, "ThermocoupleType(8)", tcType.String())
	_, err := tcType.MarshalText()
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestThermocoupleType_YAML(t *testing.T) {
	var profile struct {
		Type ThermocoupleType `yaml:"type"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("type: N\n"), &profile))
	assert.Equal(t, TypeN, profile.Type)

	profile.Type = TypeT
	out, err := yaml.Marshal(profile)
	require.NoError(t, err)
	assert.Equal(t, "type: T\n", string(out))

	err = yaml.Unmarshal([]byte("type: Z\n"), &profile)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestTypes_Order(t *testing.T) {
	types := Types()
	require.Len(t, types, 8)
	for i, tcType := range types {
		assert.Equal(t, byte(i), byte(tcType))
	}
}
