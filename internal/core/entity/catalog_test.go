package entity

import (
	"testing"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestCatalog(t *testing.T, source port.ResponseSource) []Entity {
	t.Helper()
	registry := rct.NewRegistry()
	entities, err := BuildCatalog(registry, []port.ResponseSource{source}, testEntry())
	require.NoError(t, err)
	return entities
}

func TestBuildCatalogResolvesEveryItem(t *testing.T) {

	entities := buildTestCatalog(t, newFakeSource())
	require.Len(t, entities, len(Catalog()))

	keys := make(map[string]bool)
	uniqueIDs := make(map[string]bool)
	for _, e := range entities {
		assert.False(t, keys[e.Key()], "duplicate key %q", e.Key())
		keys[e.Key()] = true
		assert.False(t, uniqueIDs[e.UniqueID()], "duplicate unique id for %q", e.Key())
		uniqueIDs[e.UniqueID()] = true
		assert.NotEmpty(t, e.Name())
		assert.NotEmpty(t, e.Icon())
	}
}

func TestCatalogFailsOnUnknownRegisterName(t *testing.T) {

	registry := rct.NewRegistry()
	_, err := NewEntity(registry, CatalogItem{
		Variant:    VARIANT_SENSOR,
		Descriptor: Descriptor{Key: "broken", ObjectNames: []string{"no.such.register"}},
	}, []port.ResponseSource{newFakeSource()}, testEntry())

	var nameErr *NameResolutionError
	require.ErrorAs(t, err, &nameErr)
}

func TestCatalogTiersArePopulated(t *testing.T) {

	entities := buildTestCatalog(t, newFakeSource())

	frequent := FilterByPriority(entities, UPDATE_PRIORITY_FREQUENT)
	infrequent := FilterByPriority(entities, UPDATE_PRIORITY_INFREQUENT)
	static := FilterByPriority(entities, UPDATE_PRIORITY_STATIC)

	assert.NotEmpty(t, frequent)
	assert.NotEmpty(t, infrequent)
	assert.NotEmpty(t, static)
	assert.Len(t, entities, len(frequent)+len(infrequent)+len(static))
}

func TestObjectIDsByPriorityAreDistinct(t *testing.T) {

	registry := rct.NewRegistry()
	entities := buildTestCatalog(t, newFakeSource())

	// battery.ah_capacity is tracked by both the capacity sensor and the
	// calibration attributes entity; the poll set must list it once
	ids := ObjectIDsByPriority(entities, UPDATE_PRIORITY_STATIC)
	capacityID := mustID(t, registry, "battery.ah_capacity")

	count := 0
	for _, id := range ids {
		if id == capacityID {
			count++
		}
	}
	assert.Equal(t, 1, count)

	seen := make(map[uint32]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id 0x%08X", id)
		seen[id] = true
	}
}

func TestCatalogDeviceIdentities(t *testing.T) {

	registry := rct.NewRegistry()
	source := identitySource(t, registry)
	entities := buildTestCatalog(t, source)

	inverter, battery := DeviceIdentities(entities)
	require.NotNil(t, inverter)
	require.NotNil(t, battery)
	assert.Equal(t, TEST_DESCRIPTION, inverter.Name)
	assert.Equal(t, "Battery at "+TEST_DESCRIPTION, battery.Name)
	require.NotNil(t, battery.ViaDevice)
	assert.Equal(t, TEST_INVERTER_SN, battery.ViaDevice.Serial)
}

func TestTakeSnapshotResolvesAllAccessors(t *testing.T) {

	registry := rct.NewRegistry()
	source := newFakeSource()
	source.putValid(mustID(t, registry, "battery.soc"), rct.NumberValue(0.57))

	e := buildSensor(t, registry, Descriptor{
		Key:         "battery_state_of_charge",
		Name:        "Battery State of Charge",
		ObjectNames: []string{"battery.soc"},
	}, source)

	now := time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)
	snapshot := TakeSnapshot(e, now)

	assert.Equal(t, "battery_state_of_charge", snapshot.Key)
	assert.Equal(t, "RCT Power Storage Battery State of Charge", snapshot.Name)
	assert.Equal(t, e.UniqueID(), snapshot.UniqueID)
	assert.Equal(t, "%", snapshot.Unit)
	assert.True(t, snapshot.Available)
	assert.Equal(t, 57.0, snapshot.State)
	assert.Contains(t, snapshot.Attributes, "latest_api_responses")
	assert.Nil(t, snapshot.LastReset)
	assert.Equal(t, now, snapshot.TakenAt)
}

func TestTakeSnapshotsCoversTheWholeCatalog(t *testing.T) {

	entities := buildTestCatalog(t, newFakeSource())
	snapshots := TakeSnapshots(entities, time.Now())
	require.Len(t, snapshots, len(entities))

	// nothing polled yet: everything is unavailable but well-formed
	for _, snapshot := range snapshots {
		assert.False(t, snapshot.Available)
		assert.NotEmpty(t, snapshot.Key)
		assert.NotEmpty(t, snapshot.UniqueID)
	}
}
