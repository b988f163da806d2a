package entity

import (
	"testing"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBytesToLowercaseHex(t *testing.T) {

	normalized := NormalizeValue(rct.BytesValue{0xDE, 0xAD, 0xBE, 0xEF}, "")
	assert.Equal(t, "deadbeef", normalized)

	// hex rendering is a fixpoint: a re-encoded hex string stays itself
	assert.Equal(t, "deadbeef", NormalizeValue(rct.StringValue("deadbeef"), ""))
}

func TestNormalizeStructToNil(t *testing.T) {

	value := rct.StructValue{
		{Name: "t", Value: 1700000000},
		{Name: "soc", Value: 0.55},
	}
	assert.Nil(t, NormalizeValue(value, ""))
	assert.Nil(t, NormalizeValue(rct.StructValue{}, "%"))
}

func TestNormalizePercentScalesFractions(t *testing.T) {

	assert.Equal(t, 57.0, NormalizeValue(rct.NumberValue(0.57), "%"))
	assert.Equal(t, 56.8, NormalizeValue(rct.NumberValue(0.5678), "%"))
	assert.Equal(t, 100.0, NormalizeValue(rct.NumberValue(1), "%"))
	assert.Equal(t, 0.0, NormalizeValue(rct.NumberValue(0), "%"))
}

func TestNormalizeNumberRoundsToOneDecimal(t *testing.T) {

	assert.Equal(t, 230.1, NormalizeValue(rct.NumberValue(230.06), "V"))
	assert.Equal(t, -1499.9, NormalizeValue(rct.NumberValue(-1499.94), "W"))
	assert.Equal(t, 50.0, NormalizeValue(rct.NumberValue(49.99), "Hz"))
	assert.Equal(t, 42.0, NormalizeValue(rct.NumberValue(42), ""))
}

func TestNormalizeStringPassesThrough(t *testing.T) {

	assert.Equal(t, "PS 6.0 Integra", NormalizeValue(rct.StringValue("PS 6.0 Integra"), ""))
	assert.Equal(t, "", NormalizeValue(rct.StringValue(""), "%"))
}

func TestNormalizeIsTotal(t *testing.T) {

	// every variant and the absent case produce a defined value
	values := []rct.ResponseValue{
		rct.NumberValue(1.23),
		rct.StringValue("x"),
		rct.BytesValue{0x00},
		rct.StructValue{{Name: "a", Value: 1}},
		nil,
	}
	for _, value := range values {
		assert.NotPanics(t, func() {
			NormalizeValue(value, "%")
			NormalizeValue(value, "")
		})
	}
	assert.Nil(t, NormalizeValue(nil, "W"))
}
