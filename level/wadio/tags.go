// Package wadio reads and writes level containers as a WAD tag stream.
//
// Every tag is a 0x20 byte header (tag, flags, payload size, 24 byte name)
// followed by the payload, zero padded to 16 bytes when not empty.
package wadio

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/levelport/utils"
)

const (
	TAG_HEADER_SIZE = 0x20
	TAG_NAME_SIZE   = 24
	TAG_ALIGN       = 16
)

const (
	TAG_HEADER      = 0x01
	TAG_TEXTURE     = 0x10
	TAG_LIGHT       = 0x11
	TAG_GROUP       = 0x12
	TAG_CLASS_START = 0x20 // flags: class
	TAG_MODEL       = 0x21 // flags: class
	TAG_INSTANCES   = 0x22 // flags: class
	TAG_COLORS      = 0x23 // flags: class
	TAG_INDEX       = 0x24 // flags: class
	TAG_CLASS_END   = 0x2f // flags: class
)

type Tag struct {
	Tag   uint16
	Flags uint16
	Name  string
	Data  []byte
}

func UnmarshalTag(bs *utils.BufStack) Tag {
	t := Tag{
		Tag:   bs.ReadLU16(),
		Flags: bs.ReadLU16(),
	}
	size := int(bs.ReadLU32())
	t.Name = bs.ReadStringBuffer(TAG_NAME_SIZE)
	t.Data = bs.Read(size)
	return t
}

func MarshalTag(t *Tag) ([]byte, error) {
	name, err := utils.StringToBytesBuffer(t.Name, TAG_NAME_SIZE)
	if err != nil {
		return nil, errors.Wrapf(err, "tag %.4x", t.Tag)
	}
	buf := make([]byte, TAG_HEADER_SIZE)
	binary.LittleEndian.PutUint16(buf[0:2], t.Tag)
	binary.LittleEndian.PutUint16(buf[2:4], t.Flags)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(t.Data)))
	copy(buf[8:32], name)
	return buf, nil
}

// ReadTags splits a whole stream into tags. A truncated stream is an error.
func ReadTags(r io.Reader) (tags []Tag, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading from wad")
	}

	defer func() {
		if rec := recover(); rec != nil {
			overrun, ok := rec.(*utils.BufOverrun)
			if !ok {
				panic(rec)
			}
			tags, err = nil, errors.Wrapf(overrun, "Wad parsing error at tag %d", len(tags))
		}
	}()

	bs := utils.NewBufStack("wad", raw)
	tags = make([]Tag, 0)
	for bs.Left() != 0 {
		t := UnmarshalTag(bs)
		tags = append(tags, t)
		if pad := utils.AlignUp(bs.Pos(), TAG_ALIGN) - bs.Pos(); pad != 0 && len(t.Data) != 0 {
			if pad > bs.Left() {
				pad = bs.Left()
			}
			bs.Skip(pad)
		}
	}
	return tags, nil
}

func WriteTags(w io.Writer, tags []Tag) error {
	var buf bytes.Buffer
	for i := range tags {
		header, err := MarshalTag(&tags[i])
		if err != nil {
			return err
		}
		buf.Write(header)
		if len(tags[i].Data) != 0 {
			buf.Write(tags[i].Data)
			targetPos := utils.AlignUp(buf.Len(), TAG_ALIGN)
			buf.Write(make([]byte, targetPos-buf.Len()))
		}
	}
	_, err := w.Write(buf.Bytes())
	return errors.Wrapf(err, "Error writing wad")
}
