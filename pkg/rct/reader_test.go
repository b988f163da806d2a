package rct

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestRegisterReaderLifecycle(t *testing.T) {
	reg := NewRegistry()
	reader := NewTestRegisterReader(reg)

	_, err := reader.ReadRegisters(context.Background(), []uint32{1})
	assert.Error(t, err)

	require.NoError(t, reader.Open())
	defer func() {
		assert.NoError(t, reader.Close())
	}()

	soc, err := reg.GetByName("battery.soc")
	require.NoError(t, err)

	responses, err := reader.ReadRegisters(context.Background(), []uint32{soc.ObjectID, 0xDEADBEEF})
	require.NoError(t, err)
	require.Len(t, responses, 2)

	assert.True(t, responses[0].Valid())
	assert.Equal(t, NumberValue(0.57), responses[0].Value)

	assert.False(t, responses[1].Valid())
	assert.True(t, errors.Is(responses[1].Cause, ErrObjectNotFound))

	assert.Equal(t, 1, reader.Reads())
}

func TestTestRegisterReaderOverrides(t *testing.T) {
	reg := NewRegistry()
	reader := NewTestRegisterReader(reg)
	require.NoError(t, reader.Open())

	soc, err := reg.GetByName("battery.soc")
	require.NoError(t, err)

	reader.SetFailure(soc.ObjectID, ErrReadTimeout)
	responses, err := reader.ReadRegisters(context.Background(), []uint32{soc.ObjectID})
	require.NoError(t, err)
	assert.True(t, errors.Is(responses[0].Cause, ErrReadTimeout))

	reader.ClearFailure(soc.ObjectID)
	reader.SetValue(soc.ObjectID, NumberValue(0.99))
	responses, err = reader.ReadRegisters(context.Background(), []uint32{soc.ObjectID})
	require.NoError(t, err)
	require.True(t, responses[0].Valid())
	assert.Equal(t, NumberValue(0.99), responses[0].Value)
}

func TestTestRegisterReaderHonorsContext(t *testing.T) {
	reader := NewTestRegisterReader(NewRegistry())
	require.NoError(t, reader.Open())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reader.ReadRegisters(ctx, []uint32{1})
	assert.True(t, errors.Is(err, context.Canceled))
}
