package level

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestRebuildColors(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	inst := &Instance{}

	inst.RebuildColors([]color.NRGBA{red, red}, 2)
	assert.Equal(t, []color.NRGBA{red, red}, inst.Colors)

	inst.RebuildColors([]color.NRGBA{red}, 3)
	assert.Equal(t, []color.NRGBA{White, White, White}, inst.Colors)

	inst.RebuildColors(nil, 0)
	assert.Empty(t, inst.Colors)
}

func TestInstanceCopyTransform(t *testing.T) {
	from := &Instance{Id: 4, Name: "a", Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.Vec3{0, 1, 0}, Scale: mgl32.Vec3{2, 2, 2}}
	to := &Instance{Id: 9, Name: "b"}
	to.CopyTransform(from)

	assert.Equal(t, from.Position, to.Position)
	assert.Equal(t, from.Scale, to.Scale)
	assert.Equal(t, InstanceId(9), to.Id)
	assert.Equal(t, "b", to.Name)

	m := to.Matrix()
	assert.True(t, m.Col(3).Vec3().ApproxEqual(mgl32.Vec3{1, 2, 3}))
}
