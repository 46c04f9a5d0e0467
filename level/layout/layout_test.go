package layout

import (
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/levelport/level"
)

func models(ids ...level.ModelId) []level.Model {
	res := make([]level.Model, len(ids))
	for i, id := range ids {
		res[i] = &level.StaticMeshModel{ModelBase: level.ModelBase{Id: id}}
	}
	return res
}

func inst(id level.InstanceId, model level.ModelId) *level.Instance {
	return &level.Instance{Id: id, ModelId: model, Scale: mgl32.Vec3{1, 1, 1}}
}

func TestBuildTwoModels(t *testing.T) {
	l, err := Build(models(10, 20), []*level.Instance{
		inst(1, 10), inst(2, 10), inst(3, 10), inst(4, 20),
	})
	require.NoError(t, err)

	assert.Equal(t, []level.IndexEntry{{Offset: 0, Count: 3}, {Offset: 3 * RECORD_SIZE, Count: 1}}, l.Index)
	require.Len(t, l.IndexRaw, ALIGNMENT)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(l.IndexRaw[0:]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(l.IndexRaw[4:]))
	assert.Equal(t, uint32(3*RECORD_SIZE), binary.LittleEndian.Uint32(l.IndexRaw[8:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(l.IndexRaw[12:]))
	assert.Equal(t, make([]byte, ALIGNMENT-16), l.IndexRaw[16:])
	assert.Len(t, l.InstanceRaw, 4*RECORD_SIZE)
}

func TestBuildGroupsByModelOrder(t *testing.T) {
	l, err := Build(models(7, 3, 9), []*level.Instance{
		inst(1, 3), inst(2, 7), inst(3, 42), inst(4, 3), inst(5, 7),
	})
	require.NoError(t, err)

	order := make([]level.InstanceId, len(l.Instances))
	for i, in := range l.Instances {
		order[i] = in.Id
	}
	assert.Equal(t, []level.InstanceId{2, 5, 1, 4, 3}, order)
	assert.Equal(t, []level.IndexEntry{{Offset: 0, Count: 2}, {Offset: 2 * RECORD_SIZE, Count: 2}, {Offset: 0, Count: 0}}, l.Index)
	assert.Equal(t, 1, l.Orphans)
}

func TestBuildAlignment(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 17, 100} {
		ids := make([]level.ModelId, n)
		for i := range ids {
			ids[i] = level.ModelId(i)
		}
		l, err := Build(models(ids...), nil)
		require.NoError(t, err)
		assert.Zero(t, len(l.IndexRaw)%ALIGNMENT, "models=%d", n)
		assert.GreaterOrEqual(t, len(l.IndexRaw), n*PAIR_SIZE)
		assert.Len(t, l.Index, n)
	}
}

func TestBuildColors(t *testing.T) {
	a := inst(1, 1)
	a.Colors = []color.NRGBA{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}}
	b := inst(2, 1)
	b.Colors = []color.NRGBA{{0xff, 0, 0, 0xff}}

	l, err := Build(models(1), []*level.Instance{a, b})
	require.NoError(t, err)
	assert.Len(t, l.ColorRaw, 0x20)

	back, err := DecodeInstance(l.InstanceRaw[RECORD_SIZE:], l.ColorRaw)
	require.NoError(t, err)
	assert.Equal(t, b.Colors, back.Colors)
	assert.Equal(t, uint32(0x10), binary.LittleEndian.Uint32(l.InstanceRaw[RECORD_SIZE+0x2c:]))
}

func TestRecordFields(t *testing.T) {
	in := &level.Instance{
		Id:         0x1234,
		Name:       "inst_door01",
		ModelId:    -3,
		Position:   mgl32.Vec3{1, 2, 3},
		Rotation:   mgl32.Vec3{0, 1.5, 0},
		Scale:      mgl32.Vec3{2, 2, 2},
		LightGroup: 4,
		Flags:      0x8001,
	}
	buf := make([]byte, RECORD_SIZE)
	require.NoError(t, EncodeInstance(buf, in, 0))

	assert.Equal(t, uint16(0xfffd), binary.LittleEndian.Uint16(buf[0:]))
	assert.Equal(t, uint16(0x1234), binary.LittleEndian.Uint16(buf[2:]))

	out, err := DecodeInstance(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRecordNameTooLong(t *testing.T) {
	in := inst(1, 1)
	in.Name = "a_very_long_instance_name_x"
	assert.Error(t, EncodeInstance(make([]byte, RECORD_SIZE), in, 0))
}

func TestDecodeColorsOutOfBlob(t *testing.T) {
	_, err := DecodeColors(make([]byte, 8), 4, 2)
	assert.Error(t, err)
}

func TestApplyReordersAndStores(t *testing.T) {
	cd := &level.ClassData{
		Models:    models(1, 2),
		Instances: []*level.Instance{inst(1, 2), inst(2, 1)},
	}
	assert.False(t, Consistent(cd))

	_, err := Apply(cd)
	require.NoError(t, err)
	assert.True(t, Consistent(cd))
	assert.Equal(t, level.InstanceId(2), cd.Instances[0].Id)

	entries, err := DecodeIndex(cd.IndexRaw, len(cd.Models))
	require.NoError(t, err)
	assert.Equal(t, cd.Index, entries)
}

func TestDecodeIndexShortTable(t *testing.T) {
	_, err := DecodeIndex(make([]byte, 8), 2)
	assert.Error(t, err)
}

func TestConsistentRejectsExtraPairs(t *testing.T) {
	cd := &level.ClassData{Models: models(1), Instances: []*level.Instance{inst(1, 1)}}
	_, err := Apply(cd)
	require.NoError(t, err)
	require.True(t, Consistent(cd))

	cd.IndexRaw = EncodeIndex(make([]level.IndexEntry, 17))
	copy(cd.IndexRaw, EncodeIndex(cd.Index)[:PAIR_SIZE])
	assert.Len(t, cd.IndexRaw, 2*ALIGNMENT)
	assert.False(t, Consistent(cd))

	_, err = Apply(cd)
	require.NoError(t, err)
	assert.Len(t, cd.IndexRaw, ALIGNMENT)
	assert.True(t, Consistent(cd))
}

func TestConsistentComparesContent(t *testing.T) {
	build := func() *level.ClassData {
		cd := &level.ClassData{
			Models:    models(1, 2),
			Instances: []*level.Instance{inst(1, 1), inst(2, 2), inst(3, 2)},
		}
		_, err := Apply(cd)
		require.NoError(t, err)
		return cd
	}

	cd := build()
	cd.Index[1].Count = 1
	assert.False(t, Consistent(cd), "index pairs")

	cd = build()
	cd.Instances[0].LightGroup = 4
	assert.False(t, Consistent(cd), "instance record")

	cd = build()
	cd.Instances[1], cd.Instances[2] = cd.Instances[2], cd.Instances[1]
	assert.False(t, Consistent(cd), "instance order")

	cd = build()
	cd.IndexRaw[len(cd.IndexRaw)-1] = 1
	assert.False(t, Consistent(cd), "padding")
}
