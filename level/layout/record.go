package layout

import (
	"encoding/binary"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/utils"
)

const (
	RECORD_SIZE = 0x50
	NAME_SIZE   = 0x18
	COLOR_SIZE  = 4
	COLOR_ALIGN = 0x10
)

// instance record, little endian:
//   0x00 int16   model id
//   0x02 uint16  instance id
//   0x04 uint16  light group
//   0x06 uint16  flags
//   0x08 vec3    position
//   0x14 vec3    rotation
//   0x20 vec3    scale
//   0x2c uint32  color data offset
//   0x30 uint32  color count
//   0x34 [0x18]  name
//   0x4c uint32  zero

func putVec3(buf []byte, v mgl32.Vec3) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
}

func EncodeInstance(buf []byte, inst *level.Instance, colorOffset uint32) error {
	if len(buf) < RECORD_SIZE {
		return errors.Errorf("record buffer 0x%x is smaller than 0x%x", len(buf), RECORD_SIZE)
	}
	name, err := utils.StringToBytesBuffer(inst.Name, NAME_SIZE)
	if err != nil {
		return errors.Wrapf(err, "instance %d", inst.Id)
	}

	binary.LittleEndian.PutUint16(buf[0x00:], uint16(inst.ModelId))
	binary.LittleEndian.PutUint16(buf[0x02:], uint16(inst.Id))
	binary.LittleEndian.PutUint16(buf[0x04:], inst.LightGroup)
	binary.LittleEndian.PutUint16(buf[0x06:], inst.Flags)
	putVec3(buf[0x08:], inst.Position)
	putVec3(buf[0x14:], inst.Rotation)
	putVec3(buf[0x20:], inst.Scale)
	binary.LittleEndian.PutUint32(buf[0x2c:], colorOffset)
	binary.LittleEndian.PutUint32(buf[0x30:], uint32(len(inst.Colors)))
	copy(buf[0x34:0x4c], name)
	binary.LittleEndian.PutUint32(buf[0x4c:], 0)
	return nil
}

// DecodeInstance parses one record, taking its colors from colorBlob.
func DecodeInstance(rec []byte, colorBlob []byte) (*level.Instance, error) {
	if len(rec) < RECORD_SIZE {
		return nil, errors.Errorf("record of 0x%x bytes, need 0x%x", len(rec), RECORD_SIZE)
	}
	bs := utils.NewBufStack("instance", rec[:RECORD_SIZE])
	inst := &level.Instance{
		ModelId:    level.ModelId(bs.ReadLI16()),
		Id:         level.InstanceId(bs.ReadLU16()),
		LightGroup: bs.ReadLU16(),
		Flags:      bs.ReadLU16(),
		Position:   bs.ReadVec3(),
		Rotation:   bs.ReadVec3(),
		Scale:      bs.ReadVec3(),
	}
	offset := int(bs.ReadLU32())
	count := int(bs.ReadLU32())
	inst.Name = bs.ReadStringBuffer(NAME_SIZE)

	colors, err := DecodeColors(colorBlob, offset, count)
	if err != nil {
		return nil, errors.Wrapf(err, "instance %d (%s)", inst.Id, inst.Name)
	}
	inst.Colors = colors
	return inst, nil
}

func DecodeColors(blob []byte, offset, count int) ([]color.NRGBA, error) {
	if count == 0 {
		return nil, nil
	}
	end := offset + count*COLOR_SIZE
	if offset < 0 || end > len(blob) {
		return nil, errors.Errorf("color data [0x%x:0x%x] outside of blob of 0x%x bytes", offset, end, len(blob))
	}
	colors := make([]color.NRGBA, count)
	for i := range colors {
		c := blob[offset+i*COLOR_SIZE:]
		colors[i] = color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
	}
	return colors, nil
}

func appendColors(blob []byte, colors []color.NRGBA) ([]byte, uint32) {
	offset := uint32(len(blob))
	for _, c := range colors {
		blob = append(blob, c.R, c.G, c.B, c.A)
	}
	if pad := utils.AlignUp(len(blob), COLOR_ALIGN) - len(blob); pad != 0 {
		blob = append(blob, make([]byte, pad)...)
	}
	return blob, offset
}
