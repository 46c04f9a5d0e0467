package level

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// VertexLayout describes which components a packed vertex carries.
// Components are stored in declaration order, little endian.
type VertexLayout uint8

const (
	VertexPosition VertexLayout = 1 << iota // 3 x float32
	VertexNormal                            // 3 x float32
	VertexUV                                // 2 x float32
	VertexUVHalf                            // 2 x float16
)

// Layout written by the current format version.
const DefaultLayout = VertexPosition | VertexNormal | VertexUV

var (
	DefaultNormal = mgl32.Vec3{0, 1, 0}
	DefaultUV     = mgl32.Vec2{0.5, 0.5}
)

func (l VertexLayout) Stride() int {
	stride := 0
	if l&VertexPosition != 0 {
		stride += 12
	}
	if l&VertexNormal != 0 {
		stride += 12
	}
	if l&VertexUV != 0 {
		stride += 8
	}
	if l&VertexUVHalf != 0 {
		stride += 4
	}
	return stride
}

func (l VertexLayout) HasUV() bool {
	return l&(VertexUV|VertexUVHalf) != 0
}

func (l VertexLayout) Validate() error {
	if l&VertexPosition == 0 {
		return errors.Errorf("vertex layout %v has no position", l)
	}
	if l&VertexUV != 0 && l&VertexUVHalf != 0 {
		return errors.Errorf("vertex layout %v has both float and half uv", l)
	}
	if l&^(VertexPosition|VertexNormal|VertexUV|VertexUVHalf) != 0 {
		return errors.Errorf("vertex layout 0x%x has unknown components", uint8(l))
	}
	return nil
}

func (l VertexLayout) String() string {
	parts := make([]string, 0, 4)
	for _, c := range []struct {
		flag VertexLayout
		name string
	}{{VertexPosition, "pos"}, {VertexNormal, "norm"}, {VertexUV, "uv"}, {VertexUVHalf, "uv16"}} {
		if l&c.flag != 0 {
			parts = append(parts, c.name)
		}
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, "|"))
}

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

func readVec(buf []byte, out []float32) {
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
}

func writeVec(buf []byte, in []float32) {
	for i, f := range in {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
}

// DecodeVertex unpacks one vertex. Missing components get the defaults.
func (l VertexLayout) DecodeVertex(buf []byte) Vertex {
	v := Vertex{Normal: DefaultNormal, UV: DefaultUV}
	pos := 0
	if l&VertexPosition != 0 {
		readVec(buf[pos:], v.Position[:])
		pos += 12
	}
	if l&VertexNormal != 0 {
		readVec(buf[pos:], v.Normal[:])
		pos += 12
	}
	if l&VertexUV != 0 {
		readVec(buf[pos:], v.UV[:])
		pos += 8
	}
	if l&VertexUVHalf != 0 {
		v.UV[0] = float16.Frombits(binary.LittleEndian.Uint16(buf[pos:])).Float32()
		v.UV[1] = float16.Frombits(binary.LittleEndian.Uint16(buf[pos+2:])).Float32()
	}
	return v
}

func (l VertexLayout) EncodeVertex(buf []byte, v Vertex) {
	pos := 0
	if l&VertexPosition != 0 {
		writeVec(buf[pos:], v.Position[:])
		pos += 12
	}
	if l&VertexNormal != 0 {
		writeVec(buf[pos:], v.Normal[:])
		pos += 12
	}
	if l&VertexUV != 0 {
		writeVec(buf[pos:], v.UV[:])
		pos += 8
	}
	if l&VertexUVHalf != 0 {
		binary.LittleEndian.PutUint16(buf[pos:], float16.Fromfloat32(v.UV[0]).Bits())
		binary.LittleEndian.PutUint16(buf[pos+2:], float16.Fromfloat32(v.UV[1]).Bits())
	}
}

type Mesh struct {
	Layout   VertexLayout
	Vertices []byte
	Indices  []uint16
}

func NewMesh(layout VertexLayout, vertices []Vertex, indices []uint16) *Mesh {
	stride := layout.Stride()
	m := &Mesh{
		Layout:   layout,
		Vertices: make([]byte, stride*len(vertices)),
		Indices:  append([]uint16(nil), indices...),
	}
	for i, v := range vertices {
		layout.EncodeVertex(m.Vertices[i*stride:], v)
	}
	return m
}

func (m *Mesh) VertexCount() int {
	stride := m.Layout.Stride()
	if stride == 0 {
		return 0
	}
	return len(m.Vertices) / stride
}

func (m *Mesh) Vertex(i int) Vertex {
	stride := m.Layout.Stride()
	return m.Layout.DecodeVertex(m.Vertices[i*stride : (i+1)*stride])
}

func (m *Mesh) Validate() error {
	if err := m.Layout.Validate(); err != nil {
		return err
	}
	if len(m.Vertices)%m.Layout.Stride() != 0 {
		return errors.Errorf("vertex buffer size 0x%x is not a multiple of stride 0x%x",
			len(m.Vertices), m.Layout.Stride())
	}
	count := m.VertexCount()
	for i, idx := range m.Indices {
		if int(idx) >= count {
			return errors.Errorf("index %d points to vertex %d of %d", i, idx, count)
		}
	}
	return nil
}

// ConvertLayout re-packs vertices to dst in place.
func (m *Mesh) ConvertLayout(dst VertexLayout) error {
	if m.Layout == dst {
		return nil
	}
	if err := dst.Validate(); err != nil {
		return err
	}
	count := m.VertexCount()
	stride := dst.Stride()
	out := make([]byte, count*stride)
	for i := 0; i < count; i++ {
		dst.EncodeVertex(out[i*stride:], m.Vertex(i))
	}
	m.Vertices = out
	m.Layout = dst
	return nil
}

func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Layout:   m.Layout,
		Vertices: append([]byte(nil), m.Vertices...),
		Indices:  append([]uint16(nil), m.Indices...),
	}
}
