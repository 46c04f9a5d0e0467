package utils

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BufStack is a cursor over a byte buffer that knows where it came from.
// Reads past the end panic with a *BufOverrun so parsers can recover and
// report the whole chain of nested buffers.
type BufStack struct {
	parent         *BufStack
	buf            []byte
	absoluteOffset int
	pos            int
	kind           string
	name           string
}

type BufOverrun struct {
	Buf  *BufStack
	Want int
}

func (e *BufOverrun) Error() string {
	return fmt.Sprintf("read of 0x%x bytes at 0x%x overruns %s", e.Want, e.Buf.pos, e.Buf.StringChain())
}

func NewBufStack(kind string, b []byte) *BufStack {
	return &BufStack{buf: b, kind: kind}
}

// SubBuf returns a child over [offset, offset+size). size < 0 means up to the end.
func (bs *BufStack) SubBuf(kind string, offset, size int) *BufStack {
	if size < 0 {
		size = len(bs.buf) - offset
	}
	if offset < 0 || offset+size > len(bs.buf) {
		panic(&BufOverrun{Buf: bs, Want: offset + size - bs.pos})
	}
	return &BufStack{
		parent:         bs,
		buf:            bs.buf[offset : offset+size],
		absoluteOffset: bs.absoluteOffset + offset,
		kind:           kind,
	}
}

func (bs *BufStack) SetName(name string) *BufStack {
	bs.name = name
	return bs
}

func (bs *BufStack) Size() int { return len(bs.buf) }
func (bs *BufStack) Pos() int  { return bs.pos }
func (bs *BufStack) Left() int { return len(bs.buf) - bs.pos }
func (bs *BufStack) Raw() []byte {
	return bs.buf
}

func (bs *BufStack) String() string {
	return fmt.Sprintf("buf<%v>(%v)[s:0x%x,ao:0x%x,ae:0x%x]",
		bs.kind, bs.name, len(bs.buf), bs.absoluteOffset, bs.absoluteOffset+len(bs.buf))
}

func (bs *BufStack) StringChain() string {
	s := bs.String()
	if bs.parent != nil {
		s += "::" + bs.parent.StringChain()
	}
	return s
}

func (bs *BufStack) Read(amount int) []byte {
	if amount < 0 || bs.pos+amount > len(bs.buf) {
		panic(&BufOverrun{Buf: bs, Want: amount})
	}
	oldPos := bs.pos
	bs.pos += amount
	return bs.buf[oldPos:bs.pos]
}

func (bs *BufStack) Skip(amount int) {
	bs.Read(amount)
}

func (bs *BufStack) ReadU8() byte {
	return bs.Read(1)[0]
}

func (bs *BufStack) ReadLU16() uint16 {
	return binary.LittleEndian.Uint16(bs.Read(2))
}

func (bs *BufStack) ReadLI16() int16 {
	return int16(bs.ReadLU16())
}

func (bs *BufStack) ReadLU32() uint32 {
	return binary.LittleEndian.Uint32(bs.Read(4))
}

func (bs *BufStack) ReadLI32() int32 {
	return int32(bs.ReadLU32())
}

func (bs *BufStack) ReadLF() float32 {
	return math.Float32frombits(bs.ReadLU32())
}

func (bs *BufStack) ReadVec3() (v mgl32.Vec3) {
	for i := range v {
		v[i] = bs.ReadLF()
	}
	return v
}

// ReadVec4 reads 16 bytes, the ps2 way of storing padded vectors.
func (bs *BufStack) ReadVec4() (v mgl32.Vec4) {
	for i := range v {
		v[i] = bs.ReadLF()
	}
	return v
}

func (bs *BufStack) ReadStringBuffer(size int) string {
	return BytesToString(bs.Read(size))
}
