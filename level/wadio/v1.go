package wadio

import (
	"github.com/pkg/errors"

	"github.com/mogaika/levelport/config"
	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/level/layout"
	"github.com/mogaika/levelport/utils"
)

const V1_RECORD_SIZE = 0x5C

// Vertex layout of every v1 mesh.
const V1_LAYOUT = level.VertexPosition | level.VertexUVHalf

// v1 instance record:
//   0x00 int16   model id
//   0x02 uint16  light group
//   0x04 [0x18]  name
//   0x1c uint16  instance id
//   0x1e uint16  flags
//   0x20 vec4    position
//   0x30 vec4    rotation
//   0x40 vec4    scale
//   0x50 uint32  color data offset
//   0x54 uint32  color count
//   0x58 uint32  zero
func decodeInstanceV1(rec []byte, colorBlob []byte) (*level.Instance, error) {
	bs := utils.NewBufStack("instance_v1", rec[:V1_RECORD_SIZE])
	inst := &level.Instance{
		ModelId:    level.ModelId(bs.ReadLI16()),
		LightGroup: bs.ReadLU16(),
		Name:       bs.ReadStringBuffer(layout.NAME_SIZE),
		Id:         level.InstanceId(bs.ReadLU16()),
		Flags:      bs.ReadLU16(),
		Position:   bs.ReadVec4().Vec3(),
		Rotation:   bs.ReadVec4().Vec3(),
		Scale:      bs.ReadVec4().Vec3(),
	}
	offset := int(bs.ReadLU32())
	count := int(bs.ReadLU32())

	colors, err := layout.DecodeColors(colorBlob, offset, count)
	if err != nil {
		return nil, errors.Wrapf(err, "instance %d (%s)", inst.Id, inst.Name)
	}
	inst.Colors = colors
	return inst, nil
}

func decodeInstances(version config.FormatVersion, raw, colors []byte) ([]*level.Instance, error) {
	size := layout.RECORD_SIZE
	decode := layout.DecodeInstance
	if version == config.FormatV1 {
		size = V1_RECORD_SIZE
		decode = decodeInstanceV1
	}
	if len(raw)%size != 0 {
		return nil, errors.Errorf("instance blob of 0x%x bytes is not a multiple of record size 0x%x", len(raw), size)
	}
	instances := make([]*level.Instance, len(raw)/size)
	for i := range instances {
		inst, err := decode(raw[i*size:(i+1)*size], colors)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		instances[i] = inst
	}
	return instances, nil
}
