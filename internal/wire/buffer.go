// Package wire implements the primitive field codec of the protocol: fixed
// width big endian numbers, LEB128 varints, length prefixed UTF-8 strings,
// UUIDs and chat components, over a byte buffer with independent read and
// write cursors.
package wire

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/blukai/mcwire/internal/byteorder"
	"github.com/blukai/mcwire/internal/debug"
	"github.com/google/uuid"
)

const (
	// MaxStringLength is the largest string, in UTF-8 bytes, that may be
	// written.
	MaxStringLength = 32767
	MaxVarIntSize   = 5
	MaxVarLongSize  = 10

	// a string prefix may count at most 4 bytes per character
	maxStringPrefix = MaxStringLength * utf8.UTFMax
)

var (
	ErrInsufficientBytes = errors.New("insufficient bytes")
	ErrVarIntTooBig      = errors.New("varint is too big")
	ErrVarLongTooBig     = errors.New("varlong is too big")
	ErrStringTooLong     = errors.New("string is too long")
	ErrInvalidUTF8       = errors.New("string is not valid utf-8")
	ErrNegativeLength    = errors.New("negative length")
)

// Buffer is a growable byte sequence with a read cursor and a write cursor,
// 0 <= r <= w <= len(data). Writes append at w, reads consume from r. A
// failed read leaves r where it was.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	data []byte
	r    int
	w    int
}

func NewBuffer() *Buffer {
	return &Buffer{data: make([]byte, 0, 64)}
}

// NewBufferBytes wraps p for reading. The buffer owns p afterwards.
func NewBufferBytes(p []byte) *Buffer {
	return &Buffer{data: p, w: len(p)}
}

// Bytes returns the unread part of the buffer. It aliases the buffer's
// storage and is only valid until the next write.
func (b *Buffer) Bytes() []byte {
	return b.data[b.r:b.w]
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return b.w - b.r
}

func (b *Buffer) ReaderIndex() int {
	return b.r
}

func (b *Buffer) WriterIndex() int {
	return b.w
}

// SetReaderIndex moves the read cursor, e.g. back to a mark taken before a
// read that failed.
func (b *Buffer) SetReaderIndex(i int) {
	debug.Assert(i >= 0 && i <= b.w, "reader index %d out of range [0, %d]", i, b.w)
	b.r = i
}

// SetWriterIndex discards everything written at or after i.
func (b *Buffer) SetWriterIndex(i int) {
	debug.Assert(i >= b.r && i <= b.w, "writer index %d out of range [%d, %d]", i, b.r, b.w)
	b.data = b.data[:i]
	b.w = i
}

// Reset empties the buffer but keeps its storage.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.r = 0
	b.w = 0
}

func (b *Buffer) append(p ...byte) {
	b.data = append(b.data[:b.w], p...)
	b.w = len(b.data)
}

// next consumes exactly n bytes.
func (b *Buffer) next(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}
	if b.Len() < n {
		return nil, fmt.Errorf("%w (got %d; want %d)", ErrInsufficientBytes, b.Len(), n)
	}
	p := b.data[b.r : b.r+n]
	b.r += n
	return p, nil
}

// fixed width

func (b *Buffer) WriteUint8(v uint8) {
	b.append(v)
}

func (b *Buffer) WriteInt8(v int8) {
	b.append(byte(v))
}

func (b *Buffer) WriteBool(v bool) {
	if v {
		b.append(1)
	} else {
		b.append(0)
	}
}

func (b *Buffer) WriteUint16(v uint16) {
	b.data = byteorder.AppendHtons(b.data[:b.w], v)
	b.w = len(b.data)
}

func (b *Buffer) WriteInt16(v int16) {
	b.WriteUint16(uint16(v))
}

func (b *Buffer) WriteUint32(v uint32) {
	b.data = byteorder.AppendHtonl(b.data[:b.w], v)
	b.w = len(b.data)
}

func (b *Buffer) WriteInt32(v int32) {
	b.WriteUint32(uint32(v))
}

func (b *Buffer) WriteUint64(v uint64) {
	b.data = byteorder.AppendHtonll(b.data[:b.w], v)
	b.w = len(b.data)
}

func (b *Buffer) WriteInt64(v int64) {
	b.WriteUint64(uint64(v))
}

func (b *Buffer) WriteFloat32(v float32) {
	b.WriteUint32(math.Float32bits(v))
}

func (b *Buffer) WriteFloat64(v float64) {
	b.WriteUint64(math.Float64bits(v))
}

// WriteBytes writes p as is, without a length prefix.
func (b *Buffer) WriteBytes(p []byte) {
	b.append(p...)
}

func (b *Buffer) ReadUint8() (uint8, error) {
	p, err := b.next(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (b *Buffer) ReadInt8() (int8, error) {
	v, err := b.ReadUint8()
	return int8(v), err
}

// ReadBool treats any non-zero byte as true.
func (b *Buffer) ReadBool() (bool, error) {
	v, err := b.ReadUint8()
	return v != 0, err
}

func (b *Buffer) ReadUint16() (uint16, error) {
	p, err := b.next(2)
	if err != nil {
		return 0, err
	}
	return byteorder.Ntohs(p), nil
}

func (b *Buffer) ReadInt16() (int16, error) {
	v, err := b.ReadUint16()
	return int16(v), err
}

func (b *Buffer) ReadUint32() (uint32, error) {
	p, err := b.next(4)
	if err != nil {
		return 0, err
	}
	return byteorder.Ntohl(p), nil
}

func (b *Buffer) ReadInt32() (int32, error) {
	v, err := b.ReadUint32()
	return int32(v), err
}

func (b *Buffer) ReadUint64() (uint64, error) {
	p, err := b.next(8)
	if err != nil {
		return 0, err
	}
	return byteorder.Ntohll(p), nil
}

func (b *Buffer) ReadInt64() (int64, error) {
	v, err := b.ReadUint64()
	return int64(v), err
}

func (b *Buffer) ReadFloat32() (float32, error) {
	v, err := b.ReadUint32()
	return math.Float32frombits(v), err
}

func (b *Buffer) ReadFloat64() (float64, error) {
	v, err := b.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBytes reads exactly n bytes into a fresh slice.
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	p, err := b.next(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), p...), nil
}

// ReadRemaining consumes everything that is left.
func (b *Buffer) ReadRemaining() []byte {
	p, _ := b.ReadBytes(b.Len())
	return p
}

// uuid

// WriteUUID writes the most significant 64 bits then the least significant
// 64 bits, both big endian.
func (b *Buffer) WriteUUID(id uuid.UUID) {
	b.WriteUint64(byteorder.Ntohll(id[0:8]))
	b.WriteUint64(byteorder.Ntohll(id[8:16]))
}

func (b *Buffer) ReadUUID() (uuid.UUID, error) {
	p, err := b.next(16)
	if err != nil {
		return uuid.Nil, err
	}
	var id uuid.UUID
	copy(id[:], p)
	return id, nil
}
