// Package protocol implements the packet model of the game protocol
// (version 340, 1.12.2): typed packets for every connection phase and a
// registry that maps packet ids to them.
//
// Packets whose name starts with C are sent by the client (server bound),
// packets starting with S are sent by the server (client bound).
package protocol

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/blukai/mcwire/internal/debug"
	"github.com/blukai/mcwire/internal/wire"
)

const Version = 340

var (
	ErrUnknownPacket     = errors.New("unknown packet")
	ErrUnknownEnumValue  = errors.New("unknown enum value")
	ErrExtraData         = errors.New("extra data after packet")
	ErrIncompleteProfile = errors.New("incomplete game profile")
	ErrMessageTooLong    = errors.New("message is too long")
	ErrNameTooLong       = errors.New("name is too long")
)

type Direction uint8

const (
	ServerBound Direction = iota
	ClientBound
)

func (d Direction) String() string {
	switch d {
	case ServerBound:
		return "server bound"
	case ClientBound:
		return "client bound"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Phase is the state of a connection. The same packet id means different
// packets in different phases.
type Phase uint8

const (
	Handshake Phase = iota
	Status
	Login
	Play
)

func (p Phase) String() string {
	switch p {
	case Handshake:
		return "handshake"
	case Status:
		return "status"
	case Login:
		return "login"
	case Play:
		return "play"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Packet reads and writes its fields, without the packet id. A Read that
// fails leaves both the packet and the reader index of buf unchanged; a
// Write that fails writes nothing.
type Packet interface {
	Read(buf *wire.Buffer) error
	Write(buf *wire.Buffer) error
	Direction() Direction
}

// rewindRead restores the reader index of buf to mark if *err is set. Read
// methods consuming more than one field defer it with a named error result.
func rewindRead(buf *wire.Buffer, mark int, err *error) {
	if *err != nil {
		buf.SetReaderIndex(mark)
	}
}

// rewindWrite is rewindRead for the writer index.
func rewindWrite(buf *wire.Buffer, mark int, err *error) {
	if *err != nil {
		buf.SetWriterIndex(mark)
	}
}

type registryKey struct {
	phase     Phase
	direction Direction
}

// Registry maps packet ids to packets, per phase and direction.
type Registry struct {
	ctors map[registryKey]map[int32]func() Packet
	ids   map[Phase]map[reflect.Type]int32
}

func NewRegistry() *Registry {
	return &Registry{
		ctors: make(map[registryKey]map[int32]func() Packet),
		ids:   make(map[Phase]map[reflect.Type]int32),
	}
}

// Register adds a packet to the registry. ctor must return a new zero value
// packet every time it is called.
func (r *Registry) Register(phase Phase, id int32, ctor func() Packet) {
	p := ctor()
	key := registryKey{phase: phase, direction: p.Direction()}
	typ := reflect.TypeOf(p)

	if r.ctors[key] == nil {
		r.ctors[key] = make(map[int32]func() Packet)
	}
	_, dup := r.ctors[key][id]
	debug.Assert(!dup, "duplicate %s %s packet id 0x%02x", phase, key.direction, id)
	r.ctors[key][id] = ctor

	if r.ids[phase] == nil {
		r.ids[phase] = make(map[reflect.Type]int32)
	}
	_, dup = r.ids[phase][typ]
	debug.Assert(!dup, "%s registered twice in %s", typ, phase)
	r.ids[phase][typ] = id
}

// New returns an empty packet for the id.
func (r *Registry) New(phase Phase, direction Direction, id int32) (Packet, error) {
	ctor, ok := r.ctors[registryKey{phase: phase, direction: direction}][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s id 0x%02x", ErrUnknownPacket, phase, direction, id)
	}
	return ctor(), nil
}

// ID returns the id p is sent with in phase.
func (r *Registry) ID(phase Phase, p Packet) (int32, error) {
	id, ok := r.ids[phase][reflect.TypeOf(p)]
	if !ok {
		return 0, fmt.Errorf("%w: %T in %s", ErrUnknownPacket, p, phase)
	}
	return id, nil
}

// Decode reads the packet with the given id from buf, which must hold
// exactly one packet body. On failure buf is rewound.
func (r *Registry) Decode(phase Phase, direction Direction, id int32, buf *wire.Buffer) (Packet, error) {
	p, err := r.New(phase, direction, id)
	if err != nil {
		return nil, err
	}

	mark := buf.ReaderIndex()
	if err := p.Read(buf); err != nil {
		buf.SetReaderIndex(mark)
		return nil, fmt.Errorf("could not read %T: %w", p, err)
	}
	if buf.Len() != 0 {
		n := buf.Len()
		buf.SetReaderIndex(mark)
		return nil, fmt.Errorf("%w: %d bytes after %T", ErrExtraData, n, p)
	}
	return p, nil
}

// Encode writes the varint packet id of p followed by its fields. On
// failure nothing is written.
func (r *Registry) Encode(phase Phase, p Packet, buf *wire.Buffer) error {
	id, err := r.ID(phase, p)
	if err != nil {
		return err
	}

	mark := buf.WriterIndex()
	buf.WriteVarInt(id)
	if err := p.Write(buf); err != nil {
		buf.SetWriterIndex(mark)
		return fmt.Errorf("could not write %T: %w", p, err)
	}
	return nil
}

// DefaultRegistry returns a registry holding every packet of this package.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// handshake
	r.Register(Handshake, 0x00, func() Packet { return &CPacketHandshake{} })

	// status
	r.Register(Status, 0x00, func() Packet { return &CPacketStatusStart{} })
	r.Register(Status, 0x01, func() Packet { return &CPacketStatusPing{} })
	r.Register(Status, 0x00, func() Packet { return &SPacketStatusServerInfo{} })
	r.Register(Status, 0x01, func() Packet { return &SPacketStatusPong{} })

	// login
	r.Register(Login, 0x00, func() Packet { return &CPacketLoginStart{} })
	r.Register(Login, 0x00, func() Packet { return &SPacketLoginDisconnect{} })
	r.Register(Login, 0x02, func() Packet { return &SPacketLoginSuccess{} })
	r.Register(Login, 0x03, func() Packet { return &SPacketEnableCompression{} })

	// play
	r.Register(Play, 0x02, func() Packet { return &CPacketChatMessage{} })
	r.Register(Play, 0x0B, func() Packet { return &CPacketKeepAlive{} })
	r.Register(Play, 0x0D, func() Packet { return &SPacketServerDifficulty{} })
	r.Register(Play, 0x0F, func() Packet { return &SPacketChat{} })
	r.Register(Play, 0x1A, func() Packet { return &SPacketDisconnect{} })
	r.Register(Play, 0x1F, func() Packet { return &SPacketKeepAlive{} })
	r.Register(Play, 0x2C, func() Packet { return NewSPacketAbilities() })
	r.Register(Play, 0x2E, func() Packet { return &SPacketPlayerInfo{} })

	return r
}
