package wire_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/blukai/mcwire/internal/wire"
	"github.com/google/uuid"
	"github.com/matryer/is"
)

func TestVarIntEncoding(t *testing.T) {
	is := is.New(t)

	testCases := []struct {
		value int32
		bytes []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xff, 0x01}},
		{300, []byte{0xac, 0x02}},
		{2097151, []byte{0xff, 0xff, 0x7f}},
		{math.MaxInt32, []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
		{-1, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{math.MinInt32, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	}

	for _, tc := range testCases {
		buf := wire.NewBuffer()
		buf.WriteVarInt(tc.value)
		is.Equal(buf.Bytes(), tc.bytes)
		is.Equal(wire.VarIntSize(tc.value), len(tc.bytes))

		decoded, err := buf.ReadVarInt()
		is.NoErr(err)
		is.Equal(decoded, tc.value)
		is.Equal(buf.Len(), 0)
	}
}

func TestVarIntRoundTripUnsigned(t *testing.T) {
	is := is.New(t)

	// walk the whole uint32 range with a stride that hits every byte length
	for x := uint64(0); x <= math.MaxUint32; x += 65537 {
		buf := wire.NewBuffer()
		buf.WriteVarInt(int32(uint32(x)))
		is.True(buf.Len() <= wire.MaxVarIntSize)

		decoded, err := buf.ReadVarInt()
		is.NoErr(err)
		is.Equal(uint32(decoded), uint32(x))
	}
}

func TestVarIntTooBig(t *testing.T) {
	is := is.New(t)

	buf := wire.NewBufferBytes([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	_, err := buf.ReadVarInt()
	is.True(errors.Is(err, wire.ErrVarIntTooBig))
	is.Equal(buf.ReaderIndex(), 0)
}

func TestVarIntInsufficientBytes(t *testing.T) {
	is := is.New(t)

	buf := wire.NewBufferBytes([]byte{0x80, 0x80})
	_, err := buf.ReadVarInt()
	is.True(errors.Is(err, wire.ErrInsufficientBytes))
	is.Equal(buf.ReaderIndex(), 0)
}

func TestVarLong(t *testing.T) {
	is := is.New(t)

	testCases := []int64{0, 1, 127, 128, 300, math.MaxInt32, math.MaxInt64, -1, math.MinInt64}
	for _, tc := range testCases {
		buf := wire.NewBuffer()
		buf.WriteVarLong(tc)
		is.True(buf.Len() <= wire.MaxVarLongSize)

		decoded, err := buf.ReadVarLong()
		is.NoErr(err)
		is.Equal(decoded, tc)
	}

	buf := wire.NewBuffer()
	buf.WriteVarLong(-1)
	is.Equal(buf.Len(), wire.MaxVarLongSize)

	tooBig := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	_, err := wire.NewBufferBytes(tooBig).ReadVarLong()
	is.True(errors.Is(err, wire.ErrVarLongTooBig))
}

func TestString(t *testing.T) {
	is := is.New(t)

	testCases := []string{"", "hello", "§cred", "日本語", "🙂", strings.Repeat("x", wire.MaxStringLength)}
	for _, tc := range testCases {
		buf := wire.NewBuffer()
		is.NoErr(buf.WriteString(tc))
		is.Equal(buf.Len(), wire.VarIntSize(int32(len(tc)))+len(tc))

		decoded, err := buf.ReadString()
		is.NoErr(err)
		is.Equal(decoded, tc)
	}
}

func TestStringTooLong(t *testing.T) {
	is := is.New(t)

	buf := wire.NewBuffer()
	err := buf.WriteString(strings.Repeat("x", wire.MaxStringLength+1))
	is.True(errors.Is(err, wire.ErrStringTooLong))
	is.Equal(buf.Len(), 0)

	// multi-byte characters count as bytes
	err = buf.WriteString(strings.Repeat("é", wire.MaxStringLength/2+1))
	is.True(errors.Is(err, wire.ErrStringTooLong))
	is.Equal(buf.Len(), 0)
}

func TestStringMalformed(t *testing.T) {
	is := is.New(t)

	t.Run("invalid utf-8", func(t *testing.T) {
		is := is.New(t)
		buf := wire.NewBufferBytes([]byte{0x02, 0xc3, 0x28})
		_, err := buf.ReadString()
		is.True(errors.Is(err, wire.ErrInvalidUTF8))
		is.Equal(buf.ReaderIndex(), 0)
	})

	t.Run("short payload", func(t *testing.T) {
		is := is.New(t)
		buf := wire.NewBufferBytes([]byte{0x05, 'a', 'b'})
		_, err := buf.ReadString()
		is.True(errors.Is(err, wire.ErrInsufficientBytes))
		is.Equal(buf.ReaderIndex(), 0)
	})

	t.Run("negative length", func(t *testing.T) {
		is := is.New(t)
		buf := wire.NewBuffer()
		buf.WriteVarInt(-1)
		_, err := buf.ReadString()
		is.True(errors.Is(err, wire.ErrNegativeLength))
	})

	t.Run("write invalid utf-8", func(t *testing.T) {
		is := is.New(t)
		buf := wire.NewBuffer()
		is.True(errors.Is(buf.WriteString("\xff"), wire.ErrInvalidUTF8))
		is.Equal(buf.Len(), 0)
	})
}

func TestStrings(t *testing.T) {
	is := is.New(t)

	buf := wire.NewBuffer()
	is.NoErr(buf.WriteStrings([]string{"a", "bc"}))
	is.Equal(buf.Bytes(), []byte{0x02, 0x01, 'a', 0x02, 'b', 'c'})

	decoded, err := buf.ReadStrings()
	is.NoErr(err)
	is.Equal(decoded, []string{"a", "bc"})

	err = buf.WriteStrings([]string{"ok", strings.Repeat("x", wire.MaxStringLength+1)})
	is.True(errors.Is(err, wire.ErrStringTooLong))
	is.Equal(buf.Len(), 0)
}

func TestUUID(t *testing.T) {
	is := is.New(t)

	testCases := []uuid.UUID{
		uuid.Nil,
		uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5"),
		uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"),
		uuid.New(),
	}

	for _, tc := range testCases {
		buf := wire.NewBuffer()
		buf.WriteUUID(tc)
		is.Equal(buf.Len(), 16)

		decoded, err := buf.ReadUUID()
		is.NoErr(err)
		is.Equal(decoded, tc)
		is.Equal(buf.Len(), 0)
	}

	// msb then lsb, big endian
	buf := wire.NewBuffer()
	buf.WriteUUID(uuid.MustParse("00000000-0000-0001-0000-000000000002"))
	msb, err := buf.ReadInt64()
	is.NoErr(err)
	lsb, err := buf.ReadInt64()
	is.NoErr(err)
	is.Equal(msb, int64(1))
	is.Equal(lsb, int64(2))
}

func TestFixedWidth(t *testing.T) {
	is := is.New(t)

	buf := wire.NewBuffer()
	buf.WriteBool(true)
	buf.WriteBool(false)
	buf.WriteInt8(-2)
	buf.WriteUint16(0xBEEF)
	buf.WriteInt32(-42)
	buf.WriteInt64(math.MinInt64)
	buf.WriteFloat32(0.05)
	buf.WriteFloat64(math.Pi)
	buf.WriteBytes([]byte{1, 2, 3})

	is.Equal(buf.Bytes()[3:5], []byte{0xBE, 0xEF})

	b, err := buf.ReadBool()
	is.NoErr(err)
	is.True(b)
	b, err = buf.ReadBool()
	is.NoErr(err)
	is.True(!b)
	i8, err := buf.ReadInt8()
	is.NoErr(err)
	is.Equal(i8, int8(-2))
	u16, err := buf.ReadUint16()
	is.NoErr(err)
	is.Equal(u16, uint16(0xBEEF))
	i32, err := buf.ReadInt32()
	is.NoErr(err)
	is.Equal(i32, int32(-42))
	i64, err := buf.ReadInt64()
	is.NoErr(err)
	is.Equal(i64, int64(math.MinInt64))
	f32, err := buf.ReadFloat32()
	is.NoErr(err)
	is.Equal(f32, float32(0.05))
	f64, err := buf.ReadFloat64()
	is.NoErr(err)
	is.Equal(f64, math.Pi)
	is.Equal(buf.ReadRemaining(), []byte{1, 2, 3})
	is.Equal(buf.Len(), 0)
}

func TestReadPastWriteCursor(t *testing.T) {
	is := is.New(t)

	buf := wire.NewBuffer()
	buf.WriteUint16(1)

	_, err := buf.ReadInt32()
	is.True(errors.Is(err, wire.ErrInsufficientBytes))
	is.Equal(buf.ReaderIndex(), 0)

	_, err = buf.ReadBytes(-1)
	is.True(errors.Is(err, wire.ErrNegativeLength))

	v, err := buf.ReadUint16()
	is.NoErr(err)
	is.Equal(v, uint16(1))
}

func TestCursors(t *testing.T) {
	is := is.New(t)

	buf := wire.NewBuffer()
	buf.WriteInt32(7)
	mark := buf.WriterIndex()
	buf.WriteInt32(8)
	buf.SetWriterIndex(mark)
	is.Equal(buf.Len(), 4)

	_, err := buf.ReadInt32()
	is.NoErr(err)
	buf.SetReaderIndex(0)
	is.Equal(buf.Len(), 4)

	buf.Reset()
	is.Equal(buf.Len(), 0)
	is.Equal(buf.WriterIndex(), 0)
}

func TestChat(t *testing.T) {
	is := is.New(t)

	c := chat.NewText("hi")
	c.Append(chat.NewKeybind("key.jump"))

	buf := wire.NewBuffer()
	is.NoErr(buf.WriteChat(c))

	s, err := wire.NewBufferBytes(append([]byte(nil), buf.Bytes()...)).ReadString()
	is.NoErr(err)
	is.Equal(s, `{"text":"hi","extra":[{"keybind":"key.jump"}]}`)

	decoded, err := buf.ReadChat()
	is.NoErr(err)
	is.True(chat.Equal(decoded, c))

	// a bare string is fine on the wire too
	is.NoErr(buf.WriteString(`"legacy"`))
	decoded, err = buf.ReadChat()
	is.NoErr(err)
	is.True(chat.Equal(decoded, chat.NewText("legacy")))

	is.NoErr(buf.WriteString(`{"nope":1}`))
	_, err = buf.ReadChat()
	is.True(errors.Is(err, chat.ErrUnknownComponent))
	is.Equal(buf.Len(), 11)
}
