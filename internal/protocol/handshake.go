package protocol

import (
	"fmt"

	"github.com/blukai/mcwire/internal/wire"
)

// CPacketHandshake opens every connection and picks the next phase.
type CPacketHandshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       NextState
}

var _ Packet = (*CPacketHandshake)(nil)

func (*CPacketHandshake) Direction() Direction { return ServerBound }

func (p *CPacketHandshake) Read(buf *wire.Buffer) (err error) {
	defer rewindRead(buf, buf.ReaderIndex(), &err)

	version, err := buf.ReadVarInt()
	if err != nil {
		return fmt.Errorf("could not read protocol version: %w", err)
	}
	address, err := buf.ReadString()
	if err != nil {
		return fmt.Errorf("could not read server address: %w", err)
	}
	port, err := buf.ReadUint16()
	if err != nil {
		return fmt.Errorf("could not read server port: %w", err)
	}
	next, err := buf.ReadVarInt()
	if err != nil {
		return fmt.Errorf("could not read next state: %w", err)
	}
	if err := checkEnum(NextState(next)); err != nil {
		return err
	}

	*p = CPacketHandshake{
		ProtocolVersion: version,
		ServerAddress:   address,
		ServerPort:      port,
		NextState:       NextState(next),
	}
	return nil
}

func (p *CPacketHandshake) Write(buf *wire.Buffer) (err error) {
	defer rewindWrite(buf, buf.WriterIndex(), &err)

	if err := checkEnum(p.NextState); err != nil {
		return err
	}
	buf.WriteVarInt(p.ProtocolVersion)
	if err := buf.WriteString(p.ServerAddress); err != nil {
		return fmt.Errorf("could not write server address: %w", err)
	}
	buf.WriteUint16(p.ServerPort)
	buf.WriteVarInt(int32(p.NextState))
	return nil
}
