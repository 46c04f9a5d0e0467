package wadio

import (
	"bytes"
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/utils"
)

const (
	MAGIC       = 0x504c564c // "LVLP"
	HEADER_SIZE = 8
	LIGHT_SIZE  = 0x3C
)

type header struct {
	Magic   uint32
	Version uint16
	Layout  uint16
}

func encodeHeader(version uint16, layout level.VertexLayout) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, &header{Magic: MAGIC, Version: version, Layout: uint16(layout)})
	return buf.Bytes()
}

func decodeHeader(bs *utils.BufStack) (version uint16, layout level.VertexLayout, err error) {
	if magic := bs.ReadLU32(); magic != MAGIC {
		return 0, 0, errors.Errorf("invalid magic 0x%.8x", magic)
	}
	version = bs.ReadLU16()
	layout = level.VertexLayout(bs.ReadLU16())
	return version, layout, nil
}

func encodeTexture(t *level.Texture) []byte {
	buf := make([]byte, 8+len(t.Data))
	binary.LittleEndian.PutUint16(buf[0:], t.Width)
	binary.LittleEndian.PutUint16(buf[2:], t.Height)
	binary.LittleEndian.PutUint32(buf[4:], t.EnginePtr)
	copy(buf[8:], t.Data)
	return buf
}

func decodeTexture(name string, bs *utils.BufStack) *level.Texture {
	t := &level.Texture{
		Name:      name,
		Width:     bs.ReadLU16(),
		Height:    bs.ReadLU16(),
		EnginePtr: bs.ReadLU32(),
	}
	t.Data = append([]byte(nil), bs.Read(bs.Left())...)
	return t
}

// light record:
//   0x00 uint32 kind
//   0x04 uint16 group
//   0x08 vec4   position
//   0x18 vec4   rotation
//   0x28 vec4   color, w is intensity
//   0x38 float  radius
type lightRecord struct {
	Kind     uint32
	Group    uint16
	_        uint16
	Position mgl32.Vec4
	Rotation mgl32.Vec4
	Color    mgl32.Vec4
	Radius   float32
}

func encodeLight(l *level.Light) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, &lightRecord{
		Kind:     uint32(l.Kind),
		Group:    l.Group,
		Position: l.Position,
		Rotation: l.Rotation,
		Color:    l.Color,
		Radius:   l.Radius,
	})
	return buf.Bytes()
}

func decodeLight(bs *utils.BufStack) *level.Light {
	l := &level.Light{Kind: level.LightKind(bs.ReadLU32())}
	l.Group = bs.ReadLU16()
	bs.Skip(2)
	l.Position = bs.ReadVec4()
	l.Rotation = bs.ReadVec4()
	l.Color = bs.ReadVec4()
	l.Radius = bs.ReadLF()
	return l
}

func encodeGroup(g *level.Group) []byte {
	buf := make([]byte, 4+2*len(g.Models))
	binary.LittleEndian.PutUint16(buf[0:], uint16(g.Class))
	binary.LittleEndian.PutUint16(buf[2:], uint16(len(g.Models)))
	for i, id := range g.Models {
		binary.LittleEndian.PutUint16(buf[4+i*2:], uint16(id))
	}
	return buf
}

func decodeGroup(name string, bs *utils.BufStack) (*level.Group, error) {
	g := &level.Group{Name: name, Class: level.Class(bs.ReadLU16())}
	if int(g.Class) >= level.CLASS_COUNT {
		return nil, errors.Errorf("group %q: unknown class %d", name, g.Class)
	}
	g.Models = make([]level.ModelId, bs.ReadLU16())
	for i := range g.Models {
		g.Models[i] = level.ModelId(bs.ReadLI16())
	}
	return g, nil
}

// model record:
//   0x00 int16  id
//   0x02 uint16 vertex layout
//   0x04 uint16 texture count
//   0x06 uint16 mesh count
//   0x08 texture refs: int32 id, uint32 wrap
//   variant fields
//   meshes: uint32 vertex count, uint32 index count, vertices, indices,
//   padded to 4
func encodeModel(m level.Model) ([]byte, error) {
	b := m.Base()
	meshes := m.Meshes()

	var buf bytes.Buffer
	w := func(v interface{}) { binary.Write(&buf, binary.LittleEndian, v) }
	w(int16(b.Id))
	w(uint16(b.Layout))
	w(uint16(len(b.Textures)))
	w(uint16(len(meshes)))
	for _, ref := range b.Textures {
		w(ref.Id)
		w(uint32(ref.Wrap))
	}

	switch v := m.(type) {
	case *level.StaticMeshModel:
		w(v.HideDistance)
	case *level.PlaceableModel:
		w(v.Flags)
	case *level.TerrainFragmentModel:
		w(v.Cell)
	case *level.VolumeModel:
		w(v.Center)
		w(v.HalfExtents)
		w(v.Rotation)
		if v.Basis != nil {
			w(uint32(1))
			w(*v.Basis)
		} else {
			w(uint32(0))
			w(mgl32.Mat3{})
		}
	default:
		return nil, errors.Errorf("unknown model variant %T", m)
	}

	for i, mesh := range meshes {
		if mesh.Layout != b.Layout {
			return nil, errors.Errorf("model %d mesh %d layout %v differs from model layout %v",
				b.Id, i, mesh.Layout, b.Layout)
		}
		if err := mesh.Validate(); err != nil {
			return nil, errors.Wrapf(err, "model %d mesh %d", b.Id, i)
		}
		w(uint32(mesh.VertexCount()))
		w(uint32(len(mesh.Indices)))
		buf.Write(mesh.Vertices)
		w(mesh.Indices)
		if pad := utils.AlignUp(buf.Len(), 4) - buf.Len(); pad != 0 {
			buf.Write(make([]byte, pad))
		}
	}
	return buf.Bytes(), nil
}

func decodeModel(class level.Class, name string, bs *utils.BufStack) (level.Model, error) {
	m := level.NewModel(class)
	if m == nil {
		return nil, errors.Errorf("unknown class %d", class)
	}
	b := m.Base()
	b.Name = name
	b.Id = level.ModelId(bs.ReadLI16())
	b.Layout = level.VertexLayout(bs.ReadLU16())
	textures := int(bs.ReadLU16())
	meshCount := int(bs.ReadLU16())
	if err := b.Layout.Validate(); err != nil {
		return nil, errors.Wrapf(err, "model %d", b.Id)
	}

	if textures != 0 {
		b.Textures = make([]level.TextureRef, textures)
		for i := range b.Textures {
			b.Textures[i].Id = bs.ReadLI32()
			b.Textures[i].Wrap = level.WrapFlags(bs.ReadLU32())
		}
	}

	switch v := m.(type) {
	case *level.StaticMeshModel:
		v.HideDistance = bs.ReadLF()
		if meshCount > 1 {
			return nil, errors.Errorf("static model %d has %d meshes", b.Id, meshCount)
		}
	case *level.PlaceableModel:
		v.Flags = bs.ReadLU32()
	case *level.TerrainFragmentModel:
		v.Cell[0] = bs.ReadLI16()
		v.Cell[1] = bs.ReadLI16()
	case *level.VolumeModel:
		v.Center = bs.ReadVec3()
		v.HalfExtents = bs.ReadVec3()
		v.Rotation = bs.ReadVec3()
		hasBasis := bs.ReadLU32() != 0
		var basis mgl32.Mat3
		for i := range basis {
			basis[i] = bs.ReadLF()
		}
		if hasBasis {
			v.Basis = &basis
		}
		if meshCount != 0 {
			return nil, errors.Errorf("volume model %d has %d meshes", b.Id, meshCount)
		}
	}

	meshes := make([]*level.Mesh, meshCount)
	stride := b.Layout.Stride()
	for i := range meshes {
		vertices := int(bs.ReadLU32())
		indices := int(bs.ReadLU32())
		mesh := &level.Mesh{
			Layout:   b.Layout,
			Vertices: append([]byte(nil), bs.Read(vertices*stride)...),
			Indices:  make([]uint16, indices),
		}
		for j := range mesh.Indices {
			mesh.Indices[j] = bs.ReadLU16()
		}
		if pad := utils.AlignUp(bs.Pos(), 4) - bs.Pos(); pad != 0 {
			bs.Skip(pad)
		}
		if err := mesh.Validate(); err != nil {
			return nil, errors.Wrapf(err, "model %d mesh %d", b.Id, i)
		}
		meshes[i] = mesh
	}

	switch v := m.(type) {
	case *level.StaticMeshModel:
		if len(meshes) != 0 {
			v.Mesh = meshes[0]
		}
	case *level.PlaceableModel:
		if len(meshes) != 0 {
			v.Parts = meshes
		}
	case *level.TerrainFragmentModel:
		if len(meshes) != 0 {
			v.Fragments = meshes
		}
	}
	return m, nil
}
