package level

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutStride(t *testing.T) {
	assert.Equal(t, 32, DefaultLayout.Stride())
	assert.Equal(t, 16, (VertexPosition | VertexUVHalf).Stride())
	assert.Error(t, (VertexUV | VertexUVHalf | VertexPosition).Validate())
	assert.Error(t, VertexNormal.Validate())
	assert.Equal(t, "[pos|uv16]", (VertexPosition | VertexUVHalf).String())
}

func TestConvertLayoutSynthesizes(t *testing.T) {
	m := NewMesh(VertexPosition, []Vertex{{Position: mgl32.Vec3{1, 2, 3}}}, []uint16{0})
	require.NoError(t, m.ConvertLayout(DefaultLayout))

	assert.Equal(t, DefaultLayout, m.Layout)
	assert.Len(t, m.Vertices, DefaultLayout.Stride())
	v := m.Vertex(0)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, v.Position)
	assert.Equal(t, DefaultNormal, v.Normal)
	assert.Equal(t, DefaultUV, v.UV)
}

func TestConvertLayoutHalfUV(t *testing.T) {
	full := NewMesh(DefaultLayout, []Vertex{{UV: mgl32.Vec2{0.5, 0.125}}, {UV: mgl32.Vec2{1.0 / 3, 2}}}, nil)
	require.NoError(t, full.ConvertLayout(VertexPosition|VertexUVHalf))

	assert.Equal(t, 2, full.VertexCount())
	assert.Equal(t, mgl32.Vec2{0.5, 0.125}, full.Vertex(0).UV)
	// half precision loses the low bits
	assert.InDelta(t, 1.0/3, full.Vertex(1).UV[0], 1e-3)
	assert.NotEqual(t, float32(1.0/3), full.Vertex(1).UV[0])
}

func TestConvertLayoutInvalid(t *testing.T) {
	m := NewMesh(DefaultLayout, []Vertex{{}}, nil)
	assert.Error(t, m.ConvertLayout(VertexNormal))
	assert.Equal(t, DefaultLayout, m.Layout)
}

func TestMeshValidate(t *testing.T) {
	m := NewMesh(DefaultLayout, make([]Vertex, 2), []uint16{0, 1})
	assert.NoError(t, m.Validate())

	m.Indices = append(m.Indices, 2)
	assert.Error(t, m.Validate())

	m.Indices = nil
	m.Vertices = m.Vertices[:len(m.Vertices)-1]
	assert.Error(t, m.Validate())
}

func TestMeshClone(t *testing.T) {
	m := NewMesh(DefaultLayout, make([]Vertex, 1), []uint16{0})
	c := m.Clone()
	c.Vertices[0] = 0xff
	c.Indices[0] = 9
	assert.Zero(t, m.Vertices[0])
	assert.Zero(t, m.Indices[0])
}
