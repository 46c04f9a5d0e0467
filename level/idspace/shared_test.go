package idspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/levelport/level"
)

func sharedContainer() *level.Container {
	c := level.NewContainer("shared")
	st := c.Class(level.Static)
	st.Models = []level.Model{
		&level.StaticMeshModel{ModelBase: level.ModelBase{Id: 1}},
		&level.StaticMeshModel{ModelBase: level.ModelBase{Id: 2}},
	}
	pl := c.Class(level.Placeable)
	pl.Models = []level.Model{
		&level.PlaceableModel{ModelBase: level.ModelBase{Id: 2}},
		&level.PlaceableModel{ModelBase: level.ModelBase{Id: 40}},
	}
	pl.Instances = []*level.Instance{
		{Id: 1, ModelId: 2},
		{Id: 2, ModelId: 40},
	}
	pl.Index = []level.IndexEntry{{Offset: 0, Count: 1}, {Offset: 0x50, Count: 1}}
	st.Instances = []*level.Instance{{Id: 1, ModelId: 2}}
	c.Groups = []*level.Group{
		{Name: "vis0", Class: level.Placeable, Models: []level.ModelId{2, 40}},
		{Name: "vis1", Class: level.Static, Models: []level.ModelId{2}},
	}
	return c
}

func TestCollisions(t *testing.T) {
	c := sharedContainer()
	col := Collisions(c, []level.Class{level.Static, level.Placeable})
	assert.Equal(t, map[level.Class][]level.ModelId{level.Placeable: {2}}, col)
}

func TestReconcileSharedMovesLoserAboveMax(t *testing.T) {
	c := sharedContainer()
	ns := level.DefaultNamespaces()

	remaps, err := ReconcileShared(c, ns, "mesh", 10)
	require.NoError(t, err)
	require.Equal(t, []Remap{{Class: level.Placeable, From: 2, To: 41}}, remaps)

	assert.Equal(t, []level.ModelId{41, 40}, c.ModelIds(level.Placeable))
	assert.Equal(t, []level.ModelId{1, 2}, c.ModelIds(level.Static))
	assert.Equal(t, level.ModelId(41), c.Class(level.Placeable).Instances[0].ModelId)
	assert.Equal(t, level.ModelId(2), c.Class(level.Static).Instances[0].ModelId)
	assert.Equal(t, []level.ModelId{41, 40}, c.Groups[0].Models)
	assert.Equal(t, []level.ModelId{2}, c.Groups[1].Models)
	assert.Nil(t, c.Class(level.Placeable).Index)

	again, err := ReconcileShared(c, ns, "mesh", 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestReconcileSharedElevatedFloor(t *testing.T) {
	c := sharedContainer()
	remaps, err := ReconcileShared(c, level.DefaultNamespaces(), "mesh", 5000)
	require.NoError(t, err)
	require.Len(t, remaps, 1)
	assert.Equal(t, level.ModelId(5000), remaps[0].To)
}

func TestReconcileSharedHonoursAllocator(t *testing.T) {
	c := sharedContainer()
	c.Alloc.CommitModel("mesh", 6000)

	remaps, err := ReconcileShared(c, level.DefaultNamespaces(), "mesh", 5000)
	require.NoError(t, err)
	require.Len(t, remaps, 1)
	assert.Equal(t, level.ModelId(6001), remaps[0].To)
	assert.Equal(t, level.ModelId(6002), c.Alloc.ModelFloor("mesh", 5000))
}

func TestReconcileSharedSingleClassNamespace(t *testing.T) {
	c := sharedContainer()
	remaps, err := ReconcileShared(c, level.DefaultNamespaces(), "terrain", 10)
	assert.NoError(t, err)
	assert.Empty(t, remaps)
}

func TestReconcileDuplicates(t *testing.T) {
	c := level.NewContainer("dup")
	cd := c.Class(level.Terrain)
	cd.Models = []level.Model{
		&level.TerrainFragmentModel{ModelBase: level.ModelBase{Id: 3}},
		&level.TerrainFragmentModel{ModelBase: level.ModelBase{Id: 3}},
		&level.TerrainFragmentModel{ModelBase: level.ModelBase{Id: 4}},
	}
	cd.Instances = []*level.Instance{{Id: 1, ModelId: 3}}

	remaps, err := ReconcileDuplicates(c, level.DefaultNamespaces(), level.Terrain, 2000)
	require.NoError(t, err)
	assert.Equal(t, []Remap{{Class: level.Terrain, From: 3, To: 2000}}, remaps)
	assert.Equal(t, []level.ModelId{3, 2000, 4}, c.ModelIds(level.Terrain))
	assert.Equal(t, level.ModelId(3), cd.Instances[0].ModelId)

	remaps, err = ReconcileDuplicates(c, level.DefaultNamespaces(), level.Terrain, 2000)
	require.NoError(t, err)
	assert.Empty(t, remaps)
}
