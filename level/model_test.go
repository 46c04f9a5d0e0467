package level

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/levelport/utils"
)

func TestNewModelVariants(t *testing.T) {
	for _, c := range Classes {
		m := NewModel(c)
		require.NotNil(t, m, "%v", c)
		assert.Equal(t, c, m.Class())
	}
	assert.Nil(t, NewModel(Class(CLASS_COUNT)))
}

func TestModelMeshesAndVertexCount(t *testing.T) {
	static := &StaticMeshModel{}
	assert.Empty(t, static.Meshes())
	static.Mesh = NewMesh(DefaultLayout, make([]Vertex, 3), nil)
	assert.Equal(t, 3, VertexCount(static))

	prop := &PlaceableModel{Parts: []*Mesh{
		NewMesh(DefaultLayout, make([]Vertex, 2), nil),
		NewMesh(DefaultLayout, make([]Vertex, 5), nil),
	}}
	assert.Equal(t, 7, VertexCount(prop))
	assert.Zero(t, VertexCount(&VolumeModel{}))
}

func TestModelCloneIsDeep(t *testing.T) {
	prop := &PlaceableModel{Parts: []*Mesh{NewMesh(DefaultLayout, make([]Vertex, 1), nil)}}
	prop.Textures = []TextureRef{{Id: 1}}

	c := prop.Clone().(*PlaceableModel)
	c.Textures[0].Id = 4
	c.Parts[0].Vertices[0] = 1
	c.Base().Id = 9

	assert.Equal(t, int32(1), prop.Textures[0].Id)
	assert.Zero(t, prop.Parts[0].Vertices[0])
	assert.Zero(t, prop.Id)
}

func TestVolumeBasisCache(t *testing.T) {
	stored := mgl32.Mat3{0, 0, 1, 0, 1, 0, -1, 0, 0}
	v := &VolumeModel{Rotation: mgl32.Vec3{0.1, 0.2, 0.3}, Basis: &stored}

	// a cached basis is used as is even when Rotation disagrees
	assert.Equal(t, stored, v.Orientation())

	c := v.Clone().(*VolumeModel)
	require.NotNil(t, c.Basis)
	assert.NotSame(t, v.Basis, c.Basis)
	assert.Equal(t, stored, *c.Basis)

	v.RegenerateBasis()
	require.NotNil(t, v.Basis)
	assert.True(t, v.Basis.ApproxEqual(utils.EulerToQuat(mgl32.Vec3{0.1, 0.2, 0.3}).Mat4().Mat3()))

	v.SetRotation(mgl32.Vec3{})
	assert.Nil(t, v.Basis)
	assert.True(t, v.Orientation().ApproxEqual(mgl32.Ident3()))
}
