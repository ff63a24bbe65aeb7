// Package statusclient pings servers for their status document.
package statusclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/blukai/mcwire/internal/conn"
	"github.com/blukai/mcwire/internal/protocol"
	"github.com/blukai/mcwire/internal/status"
	"github.com/phuslu/log"
)

var ErrUnexpectedPacket = errors.New("unexpected packet")

// DisconnectError is returned when the server refuses a login.
type DisconnectError struct {
	Reason chat.Component
}

func (e *DisconnectError) Error() string {
	return "disconnected: " + chat.PlainText(e.Reason)
}

type StatusClient struct {
	network string
	address string
	host    string
	port    uint16

	logger *log.Logger

	// timeout bounds a whole exchange when ctx has no deadline.
	timeout time.Duration
}

func NewStatusClient(network, address string, logger *log.Logger) (*StatusClient, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("could not split host port: %w", err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("could not parse port: %w", err)
	}

	// if logger is nil (which might be true in tests) => use default, but
	// silenced logger
	if logger == nil {
		tmp := log.DefaultLogger
		logger = &tmp
		logger.Writer = &log.IOWriter{Writer: io.Discard}
	}

	sc := &StatusClient{
		network: network,
		address: address,
		host:    host,
		port:    uint16(port),

		logger: logger,

		timeout: time.Second * 5,
	}

	return sc, nil
}

// SetTimeout changes the bound used when ctx has no deadline.
func (sc *StatusClient) SetTimeout(timeout time.Duration) {
	sc.timeout = timeout
}

func (sc *StatusClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, sc.timeout)
}

// dial connects and sends the handshake. Once ctx is done every pending and
// future read and write of the returned connection fails, until done is
// called.
func (sc *StatusClient) dial(ctx context.Context, next protocol.NextState) (c *conn.Conn, done func(), err error) {
	c, err = conn.Dial(ctx, sc.network, sc.address, sc.logger)
	if err != nil {
		return nil, nil, err
	}

	// the deadline is only moved once ctx is done, so that ctx.Err is set
	// by the time a blocked read or write fails
	stop := context.AfterFunc(ctx, func() {
		_ = c.SetDeadline(time.Now())
	})
	done = func() {
		stop()
		c.Close()
	}

	err = c.WritePacket(&protocol.CPacketHandshake{
		ProtocolVersion: protocol.Version,
		ServerAddress:   sc.host,
		ServerPort:      sc.port,
		NextState:       next,
	})
	if err != nil {
		done()
		return nil, nil, fmt.Errorf("could not send handshake: %w", err)
	}
	c.SetPhase(next.Phase())

	return c, done, nil
}

// ctxErr prefers the context error over the i/o error it caused.
func ctxErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}

// Ping requests the status document and measures the round trip of a ping
// sent right after it.
func (sc *StatusClient) Ping(ctx context.Context) (*status.ServerInfo, time.Duration, error) {
	ctx, cancel := sc.withTimeout(ctx)
	defer cancel()

	c, done, err := sc.dial(ctx, protocol.NextStateStatus)
	if err != nil {
		return nil, 0, ctxErr(ctx, err)
	}
	defer done()

	if err := c.WritePacket(&protocol.CPacketStatusStart{}); err != nil {
		return nil, 0, ctxErr(ctx, fmt.Errorf("could not send status request: %w", err))
	}
	p, err := c.ReadPacket()
	if err != nil {
		return nil, 0, ctxErr(ctx, fmt.Errorf("could not read server info: %w", err))
	}
	serverInfo, ok := p.(*protocol.SPacketStatusServerInfo)
	if !ok {
		return nil, 0, fmt.Errorf("%w (got %T; want %T)", ErrUnexpectedPacket, p, serverInfo)
	}

	start := time.Now()
	if err := c.WritePacket(&protocol.CPacketStatusPing{Time: start.UnixMilli()}); err != nil {
		return nil, 0, ctxErr(ctx, fmt.Errorf("could not send ping: %w", err))
	}
	p, err = c.ReadPacket()
	if err != nil {
		return nil, 0, ctxErr(ctx, fmt.Errorf("could not read pong: %w", err))
	}
	pong, ok := p.(*protocol.SPacketStatusPong)
	if !ok {
		return nil, 0, fmt.Errorf("%w (got %T; want %T)", ErrUnexpectedPacket, p, pong)
	}
	latency := time.Since(start)
	if pong.Time != start.UnixMilli() {
		return nil, 0, fmt.Errorf("pong does not match ping (got %d; want %d)", pong.Time, start.UnixMilli())
	}

	sc.logger.Debug().
		Str("address", sc.address).
		Dur("latency", latency).
		Msg("ping")

	return serverInfo.Info, latency, nil
}

// Login attempts to log in as name. A refusal is reported as a
// *DisconnectError.
func (sc *StatusClient) Login(ctx context.Context, name string) (*protocol.SPacketLoginSuccess, error) {
	ctx, cancel := sc.withTimeout(ctx)
	defer cancel()

	c, done, err := sc.dial(ctx, protocol.NextStateLogin)
	if err != nil {
		return nil, ctxErr(ctx, err)
	}
	defer done()

	if err := c.WritePacket(&protocol.CPacketLoginStart{Name: name}); err != nil {
		return nil, ctxErr(ctx, fmt.Errorf("could not send login start: %w", err))
	}

	for {
		p, err := c.ReadPacket()
		if err != nil {
			return nil, ctxErr(ctx, fmt.Errorf("could not read login response: %w", err))
		}

		switch p := p.(type) {
		case *protocol.SPacketLoginSuccess:
			return p, nil
		case *protocol.SPacketLoginDisconnect:
			return nil, &DisconnectError{Reason: p.Reason}
		case *protocol.SPacketEnableCompression:
			// a negative threshold keeps compression off
			continue
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnexpectedPacket, p)
		}
	}
}
