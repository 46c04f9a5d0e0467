package level

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/levelport/utils"
)

type ModelId int16

const (
	MODEL_ID_MIN ModelId = 0
	MODEL_ID_MAX ModelId = 0x7fff
)

type WrapFlags uint32

const (
	WrapClampU WrapFlags = 1 << iota
	WrapClampV
	WrapMirrorU
	WrapMirrorV
)

type TextureRef struct {
	Id   int32
	Wrap WrapFlags
}

// ModelBase holds the fields every model variant carries.
type ModelBase struct {
	Id       ModelId
	Name     string
	Layout   VertexLayout
	Textures []TextureRef
}

func (b *ModelBase) Base() *ModelBase { return b }

func (b ModelBase) clone() ModelBase {
	b.Textures = append([]TextureRef(nil), b.Textures...)
	return b
}

// Model is a geometry definition placed by instances of the same class.
type Model interface {
	Base() *ModelBase
	Class() Class
	Meshes() []*Mesh
	Clone() Model
}

func VertexCount(m Model) int {
	count := 0
	for _, mesh := range m.Meshes() {
		count += mesh.VertexCount()
	}
	return count
}

func cloneMeshes(meshes []*Mesh) []*Mesh {
	if meshes == nil {
		return nil
	}
	res := make([]*Mesh, len(meshes))
	for i, m := range meshes {
		res[i] = m.Clone()
	}
	return res
}

type StaticMeshModel struct {
	ModelBase
	Mesh         *Mesh
	HideDistance float32
}

func (m *StaticMeshModel) Class() Class { return Static }

func (m *StaticMeshModel) Meshes() []*Mesh {
	if m.Mesh == nil {
		return nil
	}
	return []*Mesh{m.Mesh}
}

func (m *StaticMeshModel) Clone() Model {
	res := *m
	res.ModelBase = m.ModelBase.clone()
	if m.Mesh != nil {
		res.Mesh = m.Mesh.Clone()
	}
	return &res
}

// PlaceableModel is a prop built from several parts.
type PlaceableModel struct {
	ModelBase
	Parts []*Mesh
	Flags uint32
}

func (m *PlaceableModel) Class() Class    { return Placeable }
func (m *PlaceableModel) Meshes() []*Mesh { return m.Parts }

func (m *PlaceableModel) Clone() Model {
	res := *m
	res.ModelBase = m.ModelBase.clone()
	res.Parts = cloneMeshes(m.Parts)
	return &res
}

type TerrainFragmentModel struct {
	ModelBase
	Fragments []*Mesh
	Cell      [2]int16
}

func (m *TerrainFragmentModel) Class() Class    { return Terrain }
func (m *TerrainFragmentModel) Meshes() []*Mesh { return m.Fragments }

func (m *TerrainFragmentModel) Clone() Model {
	res := *m
	res.ModelBase = m.ModelBase.clone()
	res.Fragments = cloneMeshes(m.Fragments)
	return &res
}

// VolumeModel is a bounding volume. It has no renderable geometry.
type VolumeModel struct {
	ModelBase
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3
	Rotation    mgl32.Vec3 // euler, radians

	// Basis is the orientation matrix as stored on disk. While set it is
	// written back verbatim; nil means it is derived from Rotation.
	Basis *mgl32.Mat3
}

func (m *VolumeModel) Class() Class    { return Volume }
func (m *VolumeModel) Meshes() []*Mesh { return nil }

func (m *VolumeModel) Clone() Model {
	res := *m
	res.ModelBase = m.ModelBase.clone()
	if m.Basis != nil {
		basis := *m.Basis
		res.Basis = &basis
	}
	return &res
}

// Orientation returns the cached basis if present, the derived one otherwise.
func (m *VolumeModel) Orientation() mgl32.Mat3 {
	if m.Basis != nil {
		return *m.Basis
	}
	return utils.EulerToQuat(m.Rotation).Mat4().Mat3()
}

// RegenerateBasis drops the cached basis and stores one derived from Rotation.
func (m *VolumeModel) RegenerateBasis() {
	m.Basis = nil
	basis := m.Orientation()
	m.Basis = &basis
}

func (m *VolumeModel) SetRotation(r mgl32.Vec3) {
	m.Rotation = r
	m.Basis = nil
}

// NewModel returns an empty model of the variant matching class.
func NewModel(c Class) Model {
	switch c {
	case Static:
		return &StaticMeshModel{}
	case Placeable:
		return &PlaceableModel{}
	case Terrain:
		return &TerrainFragmentModel{}
	case Volume:
		return &VolumeModel{}
	default:
		return nil
	}
}
