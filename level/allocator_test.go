package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorModelFloor(t *testing.T) {
	a := NewAllocator()
	assert.Equal(t, ModelId(1000), a.ModelFloor("mesh", 1000))

	a.CommitModel("mesh", 1004)
	assert.Equal(t, ModelId(1005), a.ModelFloor("mesh", 1000))
	assert.Equal(t, ModelId(2000), a.ModelFloor("mesh", 2000))
	assert.Equal(t, ModelId(1000), a.ModelFloor("terrain", 1000))

	// lower commits never move the cursor back
	a.CommitModel("mesh", 10)
	assert.Equal(t, ModelId(1005), a.ModelFloor("mesh", 1000))

	a.Reset()
	assert.Equal(t, ModelId(1000), a.ModelFloor("mesh", 1000))
}

func TestAllocatorNextInstance(t *testing.T) {
	a := NewAllocator()
	used := map[InstanceId]struct{}{0x1000: {}, 0x1002: {}}

	id, err := a.NextInstance(Static, 0x1000, used)
	require.NoError(t, err)
	assert.Equal(t, InstanceId(0x1001), id)

	id, err = a.NextInstance(Static, 0x1000, used)
	require.NoError(t, err)
	assert.Equal(t, InstanceId(0x1003), id)

	// a fresh used set does not bring back issued ids
	id, err = a.NextInstance(Static, 0x1000, map[InstanceId]struct{}{})
	require.NoError(t, err)
	assert.Equal(t, InstanceId(0x1004), id)

	id, err = a.NextInstance(Placeable, 0x1000, used)
	require.NoError(t, err)
	assert.Equal(t, InstanceId(0x1004), id)
}

func TestAllocatorExhausted(t *testing.T) {
	a := NewAllocator()
	used := map[InstanceId]struct{}{}

	id, err := a.NextInstance(Volume, INSTANCE_ID_MAX, used)
	require.NoError(t, err)
	assert.Equal(t, INSTANCE_ID_MAX, id)

	_, err = a.NextInstance(Volume, INSTANCE_ID_MAX, used)
	assert.ErrorIs(t, err, ErrIdSpaceExhausted)
}
