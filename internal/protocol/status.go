package protocol

import (
	"fmt"

	"github.com/blukai/mcwire/internal/status"
	"github.com/blukai/mcwire/internal/wire"
)

// CPacketStatusStart requests the server info. It has no fields.
type CPacketStatusStart struct{}

var _ Packet = (*CPacketStatusStart)(nil)

func (*CPacketStatusStart) Direction() Direction { return ServerBound }

func (*CPacketStatusStart) Read(buf *wire.Buffer) error {
	return nil
}

func (*CPacketStatusStart) Write(buf *wire.Buffer) error {
	return nil
}

// SPacketStatusServerInfo carries the status document as a json string.
type SPacketStatusServerInfo struct {
	Info *status.ServerInfo
}

var _ Packet = (*SPacketStatusServerInfo)(nil)

func (*SPacketStatusServerInfo) Direction() Direction { return ClientBound }

func (p *SPacketStatusServerInfo) Read(buf *wire.Buffer) (err error) {
	defer rewindRead(buf, buf.ReaderIndex(), &err)

	s, err := buf.ReadString()
	if err != nil {
		return fmt.Errorf("could not read server info: %w", err)
	}
	info, err := status.Unmarshal([]byte(s))
	if err != nil {
		return fmt.Errorf("could not unmarshal server info: %w", err)
	}
	p.Info = info
	return nil
}

func (p *SPacketStatusServerInfo) Write(buf *wire.Buffer) error {
	if p.Info == nil {
		return fmt.Errorf("could not write server info: %w", status.ErrMalformedStatus)
	}
	data, err := status.Marshal(p.Info)
	if err != nil {
		return fmt.Errorf("could not marshal server info: %w", err)
	}
	return buf.WriteString(string(data))
}

// CPacketStatusPing carries an opaque value, usually a timestamp, that the
// server echoes back in SPacketStatusPong.
type CPacketStatusPing struct {
	Time int64
}

var _ Packet = (*CPacketStatusPing)(nil)

func (*CPacketStatusPing) Direction() Direction { return ServerBound }

func (p *CPacketStatusPing) Read(buf *wire.Buffer) error {
	t, err := buf.ReadInt64()
	if err != nil {
		return fmt.Errorf("could not read time: %w", err)
	}
	p.Time = t
	return nil
}

func (p *CPacketStatusPing) Write(buf *wire.Buffer) error {
	buf.WriteInt64(p.Time)
	return nil
}

type SPacketStatusPong struct {
	Time int64
}

var _ Packet = (*SPacketStatusPong)(nil)

func (*SPacketStatusPong) Direction() Direction { return ClientBound }

func (p *SPacketStatusPong) Read(buf *wire.Buffer) error {
	t, err := buf.ReadInt64()
	if err != nil {
		return fmt.Errorf("could not read time: %w", err)
	}
	p.Time = t
	return nil
}

func (p *SPacketStatusPong) Write(buf *wire.Buffer) error {
	buf.WriteInt64(p.Time)
	return nil
}
