package level

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/levelport/utils"
)

type InstanceId uint16

var White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Instance is a placement of a model inside the level.
type Instance struct {
	Id      InstanceId
	Name    string
	ModelId ModelId

	Position mgl32.Vec3
	Rotation mgl32.Vec3 // euler, radians
	Scale    mgl32.Vec3

	// One color per model vertex, baked lighting.
	Colors []color.NRGBA

	LightGroup uint16
	Flags      uint16
}

func (inst *Instance) Clone() *Instance {
	res := *inst
	res.Colors = append([]color.NRGBA(nil), inst.Colors...)
	return &res
}

// CopyTransform copies placement fields only.
func (inst *Instance) CopyTransform(from *Instance) {
	inst.Position = from.Position
	inst.Rotation = from.Rotation
	inst.Scale = from.Scale
}

func (inst *Instance) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(inst.Position[0], inst.Position[1], inst.Position[2]).
		Mul4(utils.EulerToQuat(inst.Rotation).Mat4()).
		Mul4(mgl32.Scale3D(inst.Scale[0], inst.Scale[1], inst.Scale[2]))
}

// RebuildColors resizes the color buffer to vertexCount. Existing colors are
// kept only when the count already matches, otherwise the buffer is reset to
// opaque white.
func (inst *Instance) RebuildColors(source []color.NRGBA, vertexCount int) {
	colors := make([]color.NRGBA, vertexCount)
	if len(source) == vertexCount {
		copy(colors, source)
	} else {
		for i := range colors {
			colors[i] = White
		}
	}
	inst.Colors = colors
}
