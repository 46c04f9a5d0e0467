package utils

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/levelport/config"
)

func TestStringBuffer(t *testing.T) {
	buf, err := StringToBytesBuffer("café", 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9, 0, 0, 0, 0}, buf)
	assert.Equal(t, "café", BytesToString(buf))

	_, err = StringToBytesBuffer("12345678", 8)
	assert.Error(t, err)
	assert.Equal(t, "1234", BytesToString([]byte("1234")))
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, 0, AlignUp(0, 0x80))
	assert.Equal(t, 0x80, AlignUp(1, 0x80))
	assert.Equal(t, 0x80, AlignUp(0x80, 0x80))
	assert.Equal(t, 0x20, AlignUp(0x11, 0x10))
}

func TestEulerRoundtrip(t *testing.T) {
	in := mgl32.Vec3{0.1, 0.2, 0.3}
	out := QuatToEuler(EulerToQuat(in))
	for i := range in {
		assert.InDelta(t, in[i], out[i], 1e-5)
	}
}

func TestBufStackOverrun(t *testing.T) {
	bs := NewBufStack("test", []byte{1, 0, 2, 0, 0, 0})
	assert.Equal(t, uint16(1), bs.ReadLU16())
	assert.Equal(t, uint32(2), bs.ReadLU32())
	assert.Zero(t, bs.Left())

	defer func() {
		r := recover()
		require.NotNil(t, r)
		overrun, ok := r.(*BufOverrun)
		require.True(t, ok)
		assert.Contains(t, overrun.Error(), "buf<test>")
	}()
	bs.ReadU8()
}

func TestBufStackSub(t *testing.T) {
	bs := NewBufStack("outer", []byte{0, 1, 2, 3, 4})
	sub := bs.SubBuf("inner", 2, 2).SetName("x")
	assert.Equal(t, []byte{2, 3}, sub.Raw())
	assert.Contains(t, sub.StringChain(), "buf<outer>")
	assert.Panics(t, func() { bs.SubBuf("bad", 4, 2) })
}

func TestRandomNameGenerator(t *testing.T) {
	rng := NewRandomNameGenerator(map[string]struct{}{"taken": {}})
	assert.True(t, rng.Taken("taken"))

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		name := rng.RandomName(23)
		assert.LessOrEqual(t, len(name), 23)
		assert.NotContains(t, seen, name)
		assert.True(t, rng.Taken(name))
		seen[name] = struct{}{}
	}
}

func TestNewLogger(t *testing.T) {
	for _, cfg := range []config.LogConfig{
		{Level: "debug", Format: "console"},
		{Level: "warn", Format: "json"},
		{Level: "nonsense", Format: "console"},
	} {
		l, err := NewLogger(cfg)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
	assert.NotNil(t, OrNop(nil))
}

func TestDumpToOneLineString(t *testing.T) {
	assert.Equal(t, `ab\x00\xff`, DumpToOneLineString([]byte{'a', 'b', 0, 0xff}))
	assert.Contains(t, SDump(struct{ A int }{7}), "A: (int) 7")
}
