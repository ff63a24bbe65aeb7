package protocol

import (
	"fmt"
	"unicode/utf8"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/blukai/mcwire/internal/wire"
	"github.com/google/uuid"
)

// MaxNameLength is the longest player name, in characters.
const MaxNameLength = 16

func checkName(name string) error {
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return fmt.Errorf("%w (got %d; want <= %d)", ErrNameTooLong, n, MaxNameLength)
	}
	return nil
}

type CPacketLoginStart struct {
	Name string
}

var _ Packet = (*CPacketLoginStart)(nil)

func (*CPacketLoginStart) Direction() Direction { return ServerBound }

func (p *CPacketLoginStart) Read(buf *wire.Buffer) (err error) {
	defer rewindRead(buf, buf.ReaderIndex(), &err)

	name, err := buf.ReadString()
	if err != nil {
		return fmt.Errorf("could not read name: %w", err)
	}
	if err := checkName(name); err != nil {
		return err
	}
	p.Name = name
	return nil
}

func (p *CPacketLoginStart) Write(buf *wire.Buffer) error {
	if err := checkName(p.Name); err != nil {
		return err
	}
	return buf.WriteString(p.Name)
}

// SPacketLoginSuccess ends the login phase. Unlike everywhere else the id
// is sent as a hyphenated string.
type SPacketLoginSuccess struct {
	ID   uuid.UUID
	Name string
}

var _ Packet = (*SPacketLoginSuccess)(nil)

func (*SPacketLoginSuccess) Direction() Direction { return ClientBound }

func (p *SPacketLoginSuccess) Read(buf *wire.Buffer) (err error) {
	defer rewindRead(buf, buf.ReaderIndex(), &err)

	s, err := buf.ReadString()
	if err != nil {
		return fmt.Errorf("could not read id: %w", err)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("could not parse id: %w", err)
	}
	name, err := buf.ReadString()
	if err != nil {
		return fmt.Errorf("could not read name: %w", err)
	}
	*p = SPacketLoginSuccess{ID: id, Name: name}
	return nil
}

func (p *SPacketLoginSuccess) Write(buf *wire.Buffer) (err error) {
	defer rewindWrite(buf, buf.WriterIndex(), &err)

	if err := buf.WriteString(p.ID.String()); err != nil {
		return fmt.Errorf("could not write id: %w", err)
	}
	if err := buf.WriteString(p.Name); err != nil {
		return fmt.Errorf("could not write name: %w", err)
	}
	return nil
}

// SPacketLoginDisconnect refuses a login.
type SPacketLoginDisconnect struct {
	Reason chat.Component
}

var _ Packet = (*SPacketLoginDisconnect)(nil)

func (*SPacketLoginDisconnect) Direction() Direction { return ClientBound }

func (p *SPacketLoginDisconnect) Read(buf *wire.Buffer) error {
	reason, err := buf.ReadChat()
	if err != nil {
		return fmt.Errorf("could not read reason: %w", err)
	}
	p.Reason = reason
	return nil
}

func (p *SPacketLoginDisconnect) Write(buf *wire.Buffer) error {
	return buf.WriteChat(p.Reason)
}

// SPacketEnableCompression sets the size from which frames are compressed.
// A negative threshold disables compression.
type SPacketEnableCompression struct {
	Threshold int32
}

var _ Packet = (*SPacketEnableCompression)(nil)

func (*SPacketEnableCompression) Direction() Direction { return ClientBound }

func (p *SPacketEnableCompression) Read(buf *wire.Buffer) error {
	threshold, err := buf.ReadVarInt()
	if err != nil {
		return fmt.Errorf("could not read threshold: %w", err)
	}
	p.Threshold = threshold
	return nil
}

func (p *SPacketEnableCompression) Write(buf *wire.Buffer) error {
	buf.WriteVarInt(p.Threshold)
	return nil
}
