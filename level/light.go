package level

import "github.com/go-gl/mathgl/mgl32"

type LightKind uint32

const (
	LightAmbient     LightKind = 0 // position and rotation ignored
	LightPoint       LightKind = 1
	LightDirectional LightKind = 2
)

type Light struct {
	Kind     LightKind
	Group    uint16
	Position mgl32.Vec4
	Rotation mgl32.Vec4
	Color    mgl32.Vec4 // w is intensity, rgb can be negative
	Radius   float32
}

func (l *Light) Clone() *Light {
	res := *l
	return &res
}

// Group is a named list of model ids of one class (visibility sets,
// activation lists). It must follow model id remaps.
type Group struct {
	Name   string
	Class  Class
	Models []ModelId
}

func (g *Group) Clone() *Group {
	res := *g
	res.Models = append([]ModelId(nil), g.Models...)
	return &res
}
