package entity

import (
	"testing"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var faultMaskNames = []string{"fault[0].flt", "fault[1].flt", "fault[2].flt", "fault[3].flt"}

func buildFaultEntity(t *testing.T, registry *rct.Registry, source port.ResponseSource) *FaultSensorEntity {
	t.Helper()
	desc, err := NewDescriptor(registry, Descriptor{Key: "inverter_faults", ObjectNames: faultMaskNames})
	require.NoError(t, err)
	e, err := NewFaultSensorEntity(registry, desc, []port.ResponseSource{source}, testEntry())
	require.NoError(t, err)
	return e
}

func putFaultMasks(t *testing.T, registry *rct.Registry, source *fakeSource, masks [FAULT_MASK_COUNT]float64) {
	t.Helper()
	for i, name := range faultMaskNames {
		source.putValid(mustID(t, registry, name), rct.NumberValue(masks[i]))
	}
}

func TestFaultStateConcatenatesBinaryMasks(t *testing.T) {

	registry := rct.NewRegistry()
	source := newFakeSource()
	putFaultMasks(t, registry, source, [FAULT_MASK_COUNT]float64{1, 0, 5, 0})

	e := buildFaultEntity(t, registry, source)

	// 1 -> "1", 0 -> "0", 5 -> "101", 0 -> "0", without padding
	assert.Equal(t, "101010", e.State())
}

func TestFaultStateAllClear(t *testing.T) {

	registry := rct.NewRegistry()
	source := newFakeSource()
	putFaultMasks(t, registry, source, [FAULT_MASK_COUNT]float64{0, 0, 0, 0})

	e := buildFaultEntity(t, registry, source)
	assert.Equal(t, "0000", e.State())
	assert.True(t, e.Available())
}

func TestFaultStateNilWhenAnyMaskMissing(t *testing.T) {

	registry := rct.NewRegistry()
	source := newFakeSource()
	putFaultMasks(t, registry, source, [FAULT_MASK_COUNT]float64{1, 0, 5, 0})
	source.drop(mustID(t, registry, "fault[2].flt"))

	e := buildFaultEntity(t, registry, source)

	// no partial rendering
	assert.Nil(t, e.State())
	assert.False(t, e.Available())
}

func TestFaultStateNilWhenMaskInvalidOrNotInteger(t *testing.T) {

	registry := rct.NewRegistry()

	source := newFakeSource()
	putFaultMasks(t, registry, source, [FAULT_MASK_COUNT]float64{1, 0, 5, 0})
	source.putInvalid(mustID(t, registry, "fault[1].flt"), rct.ErrCRCMismatch)
	e := buildFaultEntity(t, registry, source)
	assert.Nil(t, e.State())

	source = newFakeSource()
	putFaultMasks(t, registry, source, [FAULT_MASK_COUNT]float64{1, 0, 5.5, 0})
	e = buildFaultEntity(t, registry, source)
	assert.Nil(t, e.State())

	source = newFakeSource()
	putFaultMasks(t, registry, source, [FAULT_MASK_COUNT]float64{1, 0, 5, 0})
	source.putValid(mustID(t, registry, "fault[3].flt"), rct.StringValue("5"))
	e = buildFaultEntity(t, registry, source)
	assert.Nil(t, e.State())
}

func TestFaultUnitAndDeviceClassAreEmpty(t *testing.T) {

	registry := rct.NewRegistry()
	e := buildFaultEntity(t, registry, newFakeSource())

	assert.Equal(t, "", e.Unit())
	assert.Equal(t, "", e.DeviceClass())
}

func TestFaultAttributesCarryRawBitmasks(t *testing.T) {

	registry := rct.NewRegistry()
	source := newFakeSource()
	putFaultMasks(t, registry, source, [FAULT_MASK_COUNT]float64{1, 0, 5, 0})
	source.drop(mustID(t, registry, "fault[3].flt"))

	e := buildFaultEntity(t, registry, source)

	attributes := e.StateAttributes()
	require.Contains(t, attributes, "latest_api_responses")
	masks, ok := attributes["fault_bitmasks"].([]any)
	require.True(t, ok)
	require.Len(t, masks, FAULT_MASK_COUNT)
	assert.Equal(t, 1.0, masks[0])
	assert.Equal(t, 0.0, masks[1])
	assert.Equal(t, 5.0, masks[2])
	assert.Nil(t, masks[3])
}

func TestFaultEntityRequiresFourMasks(t *testing.T) {

	registry := rct.NewRegistry()
	desc, err := NewDescriptor(registry, Descriptor{Key: "inverter_faults", ObjectNames: faultMaskNames[:2]})
	require.NoError(t, err)

	_, err = NewFaultSensorEntity(registry, desc, []port.ResponseSource{newFakeSource()}, testEntry())
	require.Error(t, err)
}

func TestKnownFaultsCoverEveryMaskBit(t *testing.T) {

	// four 32-bit masks, one description per bit position
	assert.Len(t, KnownFaults, FAULT_MASK_COUNT*32)
	for i, fault := range KnownFaults {
		assert.NotEmpty(t, fault, "fault description %d", i)
	}
}
