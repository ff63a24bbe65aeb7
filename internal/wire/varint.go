package wire

import (
	"fmt"
)

// VarInt and VarLong are unsigned LEB128 over the two's complement bits of
// the value: 7 payload bits per byte, least significant group first, high
// bit set when more bytes follow. Negative values always take the maximum
// number of bytes.

func appendVarInt(dst []byte, v int32) []byte {
	u := uint32(v)
	for u&^0x7f != 0 {
		dst = append(dst, byte(u&0x7f)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}

func appendVarLong(dst []byte, v int64) []byte {
	u := uint64(v)
	for u&^0x7f != 0 {
		dst = append(dst, byte(u&0x7f)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}

// VarIntSize returns the number of bytes v takes on the wire.
func VarIntSize(v int32) int {
	u := uint32(v)
	n := 1
	for u&^0x7f != 0 {
		u >>= 7
		n++
	}
	return n
}

func (b *Buffer) WriteVarInt(v int32) {
	b.data = appendVarInt(b.data[:b.w], v)
	b.w = len(b.data)
}

func (b *Buffer) WriteVarLong(v int64) {
	b.data = appendVarLong(b.data[:b.w], v)
	b.w = len(b.data)
}

// ReadVarInt fails with ErrVarIntTooBig when the fifth byte still has its
// continuation bit set.
func (b *Buffer) ReadVarInt() (int32, error) {
	var value uint32
	for i := 0; i < MaxVarIntSize; i++ {
		if i >= b.Len() {
			return 0, fmt.Errorf("%w (got %d; want more varint bytes)", ErrInsufficientBytes, b.Len())
		}
		c := b.data[b.r+i]
		value |= uint32(c&0x7f) << (7 * i)
		if c&0x80 == 0 {
			b.r += i + 1
			return int32(value), nil
		}
	}
	return 0, ErrVarIntTooBig
}

// ReadVarLong fails with ErrVarLongTooBig when the tenth byte still has its
// continuation bit set.
func (b *Buffer) ReadVarLong() (int64, error) {
	var value uint64
	for i := 0; i < MaxVarLongSize; i++ {
		if i >= b.Len() {
			return 0, fmt.Errorf("%w (got %d; want more varlong bytes)", ErrInsufficientBytes, b.Len())
		}
		c := b.data[b.r+i]
		value |= uint64(c&0x7f) << (7 * i)
		if c&0x80 == 0 {
			b.r += i + 1
			return int64(value), nil
		}
	}
	return 0, ErrVarLongTooBig
}
