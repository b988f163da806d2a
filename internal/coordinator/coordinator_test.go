package coordinator

import (
	"testing"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	TEST_SOC_ID     = uint32(0x959930BF)
	TEST_VOLTAGE_ID = uint32(0xA7447453)
)

func TestGetLatestResponseNilBeforeFirstRound(t *testing.T) {

	c := New(entity.UPDATE_PRIORITY_FREQUENT)
	c.Track([]uint32{TEST_SOC_ID})

	assert.Nil(t, c.GetLatestResponse(TEST_SOC_ID))
}

func TestStoreReplacesEntries(t *testing.T) {

	c := New(entity.UPDATE_PRIORITY_FREQUENT)

	c.Store(rct.NewValidResponse(TEST_SOC_ID, rct.NumberValue(0.5), time.Now()))
	response := c.GetLatestResponse(TEST_SOC_ID)
	require.NotNil(t, response)
	assert.True(t, response.Valid())
	assert.Equal(t, rct.NumberValue(0.5), response.Value)

	// a later failed read for the same register wins
	c.Store(rct.NewInvalidResponse(TEST_SOC_ID, rct.ErrCRCMismatch, time.Now()))
	response = c.GetLatestResponse(TEST_SOC_ID)
	require.NotNil(t, response)
	assert.False(t, response.Valid())
	assert.ErrorIs(t, response.Cause, rct.ErrCRCMismatch)
}

func TestStoreSkipsNilResponses(t *testing.T) {

	c := New(entity.UPDATE_PRIORITY_FREQUENT)
	c.Store(nil, rct.NewValidResponse(TEST_SOC_ID, rct.NumberValue(0.5), time.Now()), nil)

	assert.NotNil(t, c.GetLatestResponse(TEST_SOC_ID))
}

func TestMarkRoundFailureCoversTheWholePollSet(t *testing.T) {

	c := New(entity.UPDATE_PRIORITY_FREQUENT)
	c.Track([]uint32{TEST_SOC_ID, TEST_VOLTAGE_ID})

	// only one register has been seen before the round fails
	c.Store(rct.NewValidResponse(TEST_SOC_ID, rct.NumberValue(0.5), time.Now()))
	c.MarkRoundFailure(rct.ErrReadTimeout, time.Now())

	for _, id := range []uint32{TEST_SOC_ID, TEST_VOLTAGE_ID} {
		response := c.GetLatestResponse(id)
		require.NotNil(t, response)
		assert.False(t, response.Valid())
		assert.ErrorIs(t, response.Cause, rct.ErrReadTimeout)
	}
}

func TestMarkRoundFailureLeavesUntrackedEntriesAlone(t *testing.T) {

	c := New(entity.UPDATE_PRIORITY_FREQUENT)
	c.Track([]uint32{TEST_SOC_ID})

	c.Store(rct.NewValidResponse(TEST_VOLTAGE_ID, rct.NumberValue(53.1), time.Now()))
	c.MarkRoundFailure(rct.ErrReadTimeout, time.Now())

	response := c.GetLatestResponse(TEST_VOLTAGE_ID)
	require.NotNil(t, response)
	assert.True(t, response.Valid())
}

func TestTrackCopiesThePollSet(t *testing.T) {

	ids := []uint32{TEST_SOC_ID, TEST_VOLTAGE_ID}
	c := New(entity.UPDATE_PRIORITY_STATIC)
	c.Track(ids)

	ids[0] = 0
	assert.Equal(t, []uint32{TEST_SOC_ID, TEST_VOLTAGE_ID}, c.ObjectIDs())
	assert.Equal(t, entity.UPDATE_PRIORITY_STATIC, c.Priority())
}

func TestFailedRoundFlipsEntityAvailability(t *testing.T) {

	registry := rct.NewRegistry()
	info, err := registry.GetByName("battery.soc")
	require.NoError(t, err)

	c := New(entity.UPDATE_PRIORITY_FREQUENT)
	c.Track([]uint32{info.ObjectID})

	desc, err := entity.NewDescriptor(registry, entity.Descriptor{
		Key:         "battery_state_of_charge",
		ObjectNames: []string{"battery.soc"},
	})
	require.NoError(t, err)
	e := entity.NewSensorEntity(registry, desc, []port.ResponseSource{c}, entity.ConfigEntry{ID: "0123abcd"})

	// nothing polled yet
	assert.False(t, e.Available())
	assert.Nil(t, e.State())

	c.Store(rct.NewValidResponse(info.ObjectID, rct.NumberValue(0.5), time.Now()))
	assert.True(t, e.Available())
	assert.Equal(t, 50.0, e.State())

	c.MarkRoundFailure(rct.ErrReadTimeout, time.Now())
	assert.False(t, e.Available())
	assert.Nil(t, e.State())
}
