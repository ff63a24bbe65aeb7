// Package statusserver answers server list pings. Login attempts are
// turned away with a disconnect message.
package statusserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/blukai/mcwire/internal/conn"
	"github.com/blukai/mcwire/internal/debug"
	"github.com/blukai/mcwire/internal/protocol"
	"github.com/blukai/mcwire/internal/status"
	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/phuslu/log"
)

var ErrUnexpectedPacket = errors.New("unexpected packet")

type addrKey uint64

func makeAddrKey(addr net.Addr) addrKey {
	return addrKey(xxhash.Sum64String(addr.String()))
}

type StatusServer struct {
	listener net.Listener

	logger *log.Logger

	registry *protocol.Registry
	timeout  time.Duration

	infoMu sync.RWMutex
	info   *status.ServerInfo
	// kickMessage is sent to clients trying to log in.
	kickMessage chat.Component

	connsMu sync.Mutex
	conns   map[addrKey]*conn.Conn
}

func NewStatusServer(network, address string, info *status.ServerInfo, logger *log.Logger) (*StatusServer, error) {
	listener, err := net.Listen(network, address)
	if err != nil {
		return nil, fmt.Errorf("could not listen: %w", err)
	}

	// if logger is nil (which might be true in tests) => use default, but
	// silenced logger
	if logger == nil {
		tmp := log.DefaultLogger
		logger = &tmp
		logger.Writer = &log.IOWriter{Writer: io.Discard}
	}

	if info == nil {
		info = status.Sample()
	}

	ss := &StatusServer{
		listener: listener,

		logger: logger,

		registry: protocol.DefaultRegistry(),
		timeout:  time.Second * 10,

		info:        info,
		kickMessage: chat.NewText("This server only answers status requests"),

		conns: make(map[addrKey]*conn.Conn),
	}

	return ss, nil
}

// Addr can be useful to retreive server's address when StatusServer was
// constructed with ":0".
func (ss *StatusServer) Addr() net.Addr {
	return ss.listener.Addr()
}

// SetInfo replaces the document sent to subsequent status requests.
func (ss *StatusServer) SetInfo(info *status.ServerInfo) {
	ss.infoMu.Lock()
	defer ss.infoMu.Unlock()
	ss.info = info
}

func (ss *StatusServer) Info() *status.ServerInfo {
	ss.infoMu.RLock()
	defer ss.infoMu.RUnlock()
	return ss.info
}

// SetKickMessage replaces the reason sent to clients trying to log in.
func (ss *StatusServer) SetKickMessage(message chat.Component) {
	ss.infoMu.Lock()
	defer ss.infoMu.Unlock()
	ss.kickMessage = message
}

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// acceptDelay doubles the previous delay, keeping it between
// minAcceptDelay and maxAcceptDelay.
func acceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	return min(prev*2, maxAcceptDelay)
}

func (ss *StatusServer) runAccept(ctx context.Context, wg *sync.WaitGroup) {
	var delay time.Duration
	for {
		nc, err := ss.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}

			// running out of file descriptors and alike won't go away on
			// the next call
			delay = acceptDelay(delay)
			ss.logger.Error().
				Str("retry_in", delay.String()).
				Msgf("could not accept: %v", err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			continue
		}
		delay = 0

		c := conn.Server(nc, ss.registry, ss.logger)
		key := makeAddrKey(nc.RemoteAddr())

		ss.connsMu.Lock()
		ss.conns[key] = c
		ss.connsMu.Unlock()

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer ss.forget(key, c)

			if err := ss.handleConn(c); err != nil {
				ss.logger.Error().
					Str("remote", c.RemoteAddr().String()).
					Msgf("error handling connection: %v", err)
			}
		}()
	}
}

func (ss *StatusServer) forget(key addrKey, c *conn.Conn) {
	ss.connsMu.Lock()
	delete(ss.conns, key)
	ss.connsMu.Unlock()

	// the connection may already be closed by Run
	_ = c.Close()
}

func (ss *StatusServer) closeConns() error {
	ss.connsMu.Lock()
	defer ss.connsMu.Unlock()

	var errs error
	for key, c := range ss.conns {
		if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = multierror.Append(errs, fmt.Errorf("could not close %s: %w", c.RemoteAddr(), err))
		}
		delete(ss.conns, key)
	}
	return errs
}

// Run serves until ctx is done.
func (ss *StatusServer) Run(ctx context.Context) error {
	wg := &sync.WaitGroup{}

	acceptDone := make(chan struct{})
	go func() {
		defer close(acceptDone)
		ss.runAccept(ctx, wg)
	}()

	<-ctx.Done()

	var errs error
	if err := ss.listener.Close(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("could not close listener: %w", err))
	}
	<-acceptDone
	if err := ss.closeConns(); err != nil {
		errs = multierror.Append(errs, err)
	}
	wg.Wait()

	return errs
}

func (ss *StatusServer) handleConn(c *conn.Conn) error {
	if err := c.SetDeadline(time.Now().Add(ss.timeout)); err != nil {
		return fmt.Errorf("could not set deadline: %w", err)
	}

	p, err := c.ReadPacket()
	if err != nil {
		return fmt.Errorf("could not read handshake: %w", err)
	}
	handshake, ok := p.(*protocol.CPacketHandshake)
	if !ok {
		return fmt.Errorf("%w (got %T; want %T)", ErrUnexpectedPacket, p, handshake)
	}

	ss.logger.Debug().
		Str("remote", c.RemoteAddr().String()).
		Int32("protocol", handshake.ProtocolVersion).
		Stringer("next", handshake.NextState).
		Msg("handshake")

	c.SetPhase(handshake.NextState.Phase())
	switch handshake.NextState {
	case protocol.NextStateStatus:
		return ss.handleStatus(c)
	case protocol.NextStateLogin:
		return ss.handleLogin(c)
	default:
		debug.Assert(false, "unhandled next state: %s", handshake.NextState)
		return nil
	}
}

// handleStatus answers a status request and a ping, in that order. The
// client may close the connection without pinging.
func (ss *StatusServer) handleStatus(c *conn.Conn) error {
	for {
		p, err := c.ReadPacket()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("could not read: %w", err)
		}

		switch p := p.(type) {
		case *protocol.CPacketStatusStart:
			if err := c.WritePacket(&protocol.SPacketStatusServerInfo{Info: ss.Info()}); err != nil {
				return fmt.Errorf("could not send server info: %w", err)
			}
		case *protocol.CPacketStatusPing:
			if err := c.WritePacket(&protocol.SPacketStatusPong{Time: p.Time}); err != nil {
				return fmt.Errorf("could not send pong: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("%w: %T", ErrUnexpectedPacket, p)
		}
	}
}

func (ss *StatusServer) handleLogin(c *conn.Conn) error {
	p, err := c.ReadPacket()
	if err != nil {
		return fmt.Errorf("could not read login start: %w", err)
	}
	loginStart, ok := p.(*protocol.CPacketLoginStart)
	if !ok {
		return fmt.Errorf("%w (got %T; want %T)", ErrUnexpectedPacket, p, loginStart)
	}

	ss.infoMu.RLock()
	reason := ss.kickMessage
	ss.infoMu.RUnlock()

	ss.logger.Info().
		Str("remote", c.RemoteAddr().String()).
		Str("name", loginStart.Name).
		Msg("turning away login")

	return c.WritePacket(&protocol.SPacketLoginDisconnect{Reason: reason})
}
