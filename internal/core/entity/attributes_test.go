package entity

import (
	"testing"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAttributesEntity(t *testing.T, registry *rct.Registry, source port.ResponseSource, names ...string) *AttributesSensorEntity {
	t.Helper()
	desc, err := NewDescriptor(registry, Descriptor{Key: "battery_calibration", ObjectNames: names})
	require.NoError(t, err)
	return NewAttributesSensorEntity(registry, desc, []port.ResponseSource{source}, testEntry())
}

func TestAttributesEntityStateCountsAttributes(t *testing.T) {

	registry := rct.NewRegistry()
	source := newFakeSource()
	source.putValid(mustID(t, registry, "battery.soc_target_high"), rct.NumberValue(0.97))
	source.putValid(mustID(t, registry, "battery.soc_target_low"), rct.NumberValue(0.05))

	e := buildAttributesEntity(t, registry, source, "battery.soc_target_high", "battery.soc_target_low", "battery.efficiency")

	// three tracked names plus the latest_api_responses list
	assert.Equal(t, "4 attributes", e.State())
}

func TestAttributesEntityExposesValuesByName(t *testing.T) {

	registry := rct.NewRegistry()
	source := newFakeSource()
	source.putValid(mustID(t, registry, "battery.soc_target_high"), rct.NumberValue(0.97))
	source.putInvalid(mustID(t, registry, "battery.efficiency"), rct.ErrReadTimeout)

	e := buildAttributesEntity(t, registry, source, "battery.soc_target_high", "battery.soc_target_low", "battery.efficiency")

	attributes := e.StateAttributes()
	require.Contains(t, attributes, "latest_api_responses")

	// raw value for resolved registers, nil for invalid or absent ones
	assert.Equal(t, rct.NumberValue(0.97), attributes["battery.soc_target_high"])
	assert.Nil(t, attributes["battery.soc_target_low"])
	assert.Nil(t, attributes["battery.efficiency"])
}

func TestAttributesEntityUnitAndDeviceClassAreEmpty(t *testing.T) {

	registry := rct.NewRegistry()

	// first tracked object declares "%" but the entity renders a count
	e := buildAttributesEntity(t, registry, newFakeSource(), "battery.soc_target_high")
	assert.Equal(t, "", e.Unit())
	assert.Equal(t, "", e.DeviceClass())
}
