package wire

import (
	"fmt"
	"unicode/utf8"

	"github.com/blukai/mcwire/internal/chat"
)

// WriteString writes a varint byte length followed by the UTF-8 bytes of s.
// Nothing is written when s is longer than MaxStringLength bytes or is not
// valid UTF-8.
func (b *Buffer) WriteString(s string) error {
	if len(s) > MaxStringLength {
		return fmt.Errorf("%w (got %d bytes; want <= %d)", ErrStringTooLong, len(s), MaxStringLength)
	}
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	b.WriteVarInt(int32(len(s)))
	b.data = append(b.data, s...)
	b.w = len(b.data)
	return nil
}

func (b *Buffer) ReadString() (string, error) {
	mark := b.r

	n, err := b.ReadVarInt()
	if err != nil {
		return "", fmt.Errorf("could not read string length: %w", err)
	}
	if n < 0 {
		b.r = mark
		return "", fmt.Errorf("%w: string length %d", ErrNegativeLength, n)
	}
	if n > maxStringPrefix {
		b.r = mark
		return "", fmt.Errorf("%w (got %d bytes; want <= %d)", ErrStringTooLong, n, maxStringPrefix)
	}

	p, err := b.next(int(n))
	if err != nil {
		b.r = mark
		return "", fmt.Errorf("could not read string bytes: %w", err)
	}
	if !utf8.Valid(p) {
		b.r = mark
		return "", ErrInvalidUTF8
	}
	return string(p), nil
}

// WriteStrings writes a varint count followed by every string. On failure
// the buffer is left as it was.
func (b *Buffer) WriteStrings(ss []string) error {
	mark := b.w
	b.WriteVarInt(int32(len(ss)))
	for i, s := range ss {
		if err := b.WriteString(s); err != nil {
			b.SetWriterIndex(mark)
			return fmt.Errorf("could not write string %d: %w", i, err)
		}
	}
	return nil
}

func (b *Buffer) ReadStrings() ([]string, error) {
	mark := b.r

	n, err := b.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("could not read string count: %w", err)
	}
	if n < 0 {
		b.r = mark
		return nil, fmt.Errorf("%w: string count %d", ErrNegativeLength, n)
	}

	var ss []string
	for i := int32(0); i < n; i++ {
		s, err := b.ReadString()
		if err != nil {
			b.r = mark
			return nil, fmt.Errorf("could not read string %d: %w", i, err)
		}
		ss = append(ss, s)
	}
	return ss, nil
}

// WriteChat writes c as a string holding its JSON.
func (b *Buffer) WriteChat(c chat.Component) error {
	data, err := chat.Marshal(c)
	if err != nil {
		return fmt.Errorf("could not encode chat component: %w", err)
	}
	return b.WriteString(string(data))
}

// ReadChat reads a string and decodes it leniently as a chat component.
func (b *Buffer) ReadChat() (chat.Component, error) {
	mark := b.r

	s, err := b.ReadString()
	if err != nil {
		return nil, err
	}
	c, err := chat.Unmarshal([]byte(s))
	if err != nil {
		b.r = mark
		return nil, fmt.Errorf("could not decode chat component: %w", err)
	}
	return c, nil
}
