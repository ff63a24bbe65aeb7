// Package conn frames packets over a stream connection: every frame is a
// varint length followed by the varint packet id and the packet fields.
// Compression and encryption are not supported.
package conn

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/blukai/mcwire/internal/protocol"
	"github.com/blukai/mcwire/internal/wire"
	"github.com/phuslu/log"
)

// MaxFrameSize is the largest frame length, the largest value a three byte
// varint can hold.
const MaxFrameSize = 1<<21 - 1

var (
	ErrFrameTooBig            = errors.New("frame is too big")
	ErrEmptyFrame             = errors.New("empty frame")
	ErrWrongDirection         = errors.New("packet sent in the wrong direction")
	ErrCompressionUnsupported = errors.New("compression is not supported")
)

// Conn reads and writes packets of the current phase. Reads must not be
// called concurrently; writes may be.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader

	logger *log.Logger

	registry *protocol.Registry
	// inbound is the direction of the packets this side reads.
	inbound protocol.Direction
	phase   protocol.Phase

	writeMu sync.Mutex
}

func newConn(c net.Conn, inbound protocol.Direction, registry *protocol.Registry, logger *log.Logger) *Conn {
	if registry == nil {
		registry = protocol.DefaultRegistry()
	}

	// if logger is nil (which might be true in tests) => use default, but
	// silenced logger
	if logger == nil {
		tmp := log.DefaultLogger
		logger = &tmp
		logger.Writer = &log.IOWriter{Writer: io.Discard}
	}

	return &Conn{
		conn:   c,
		reader: bufio.NewReader(c),

		logger: logger,

		registry: registry,
		inbound:  inbound,
		phase:    protocol.Handshake,
	}
}

// Client wraps the client side of a connection: it reads client bound
// packets. A nil registry means protocol.DefaultRegistry.
func Client(c net.Conn, registry *protocol.Registry, logger *log.Logger) *Conn {
	return newConn(c, protocol.ClientBound, registry, logger)
}

// Server wraps the server side of a connection: it reads server bound
// packets.
func Server(c net.Conn, registry *protocol.Registry, logger *log.Logger) *Conn {
	return newConn(c, protocol.ServerBound, registry, logger)
}

// Dial connects to a server.
func Dial(ctx context.Context, network, address string, logger *log.Logger) (*Conn, error) {
	dialer := net.Dialer{}
	c, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("could not dial %s: %w", address, err)
	}
	return Client(c, nil, logger), nil
}

func (c *Conn) Phase() protocol.Phase {
	return c.phase
}

// SetPhase switches the packet set used for the following reads and writes.
func (c *Conn) SetPhase(phase protocol.Phase) {
	c.logger.Debug().
		Stringer("from", c.phase).
		Stringer("to", phase).
		Str("remote", c.conn.RemoteAddr().String()).
		Msg("phase")
	c.phase = phase
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *Conn) SetDeadline(t time.Time) error {
	return c.conn.SetDeadline(t)
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

func (c *Conn) readFrameLength() (int32, error) {
	var value uint32
	for i := 0; i < wire.MaxVarIntSize; i++ {
		b, err := c.reader.ReadByte()
		if err != nil {
			return 0, err
		}
		value |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return int32(value), nil
		}
	}
	return 0, wire.ErrVarIntTooBig
}

// ReadFrame reads the next frame, packet id included.
func (c *Conn) ReadFrame() (*wire.Buffer, error) {
	n, err := c.readFrameLength()
	if err != nil {
		return nil, fmt.Errorf("could not read frame length: %w", err)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrEmptyFrame, n)
	}
	if n > MaxFrameSize {
		return nil, fmt.Errorf("%w (got %d; want <= %d)", ErrFrameTooBig, n, MaxFrameSize)
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(c.reader, data); err != nil {
		return nil, fmt.Errorf("could not read frame: %w", err)
	}
	return wire.NewBufferBytes(data), nil
}

// ReadPacket reads the next packet of the current phase.
func (c *Conn) ReadPacket() (protocol.Packet, error) {
	buf, err := c.ReadFrame()
	if err != nil {
		return nil, err
	}

	id, err := buf.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("could not read packet id: %w", err)
	}

	p, err := c.registry.Decode(c.phase, c.inbound, id, buf)
	if err != nil {
		c.logger.Error().
			Stringer("phase", c.phase).
			Int32("id", id).
			Str("remote", c.conn.RemoteAddr().String()).
			Msgf("could not decode packet: %v", err)
		return nil, err
	}

	c.logger.Debug().
		Stringer("phase", c.phase).
		Int32("id", id).
		Str("packet", fmt.Sprintf("%T", p)).
		Msg("recv")

	if p, ok := p.(*protocol.SPacketEnableCompression); ok && p.Threshold >= 0 {
		return nil, fmt.Errorf("%w (threshold %d)", ErrCompressionUnsupported, p.Threshold)
	}

	return p, nil
}

// WritePacket frames p and writes it in one call.
func (c *Conn) WritePacket(p protocol.Packet) error {
	if p.Direction() == c.inbound {
		return fmt.Errorf("%w: %T is %s", ErrWrongDirection, p, p.Direction())
	}

	body := wire.NewBuffer()
	if err := c.registry.Encode(c.phase, p, body); err != nil {
		return err
	}
	if body.Len() > MaxFrameSize {
		return fmt.Errorf("%w (got %d; want <= %d)", ErrFrameTooBig, body.Len(), MaxFrameSize)
	}

	frame := wire.NewBuffer()
	frame.WriteVarInt(int32(body.Len()))
	frame.WriteBytes(body.Bytes())

	c.logger.Debug().
		Stringer("phase", c.phase).
		Str("packet", fmt.Sprintf("%T", p)).
		Int("size", frame.Len()).
		Msg("send")

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := c.conn.Write(frame.Bytes()); err != nil {
		return fmt.Errorf("could not write frame: %w", err)
	}
	return nil
}
