package protocol

import (
	"fmt"
	"unicode/utf8"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/blukai/mcwire/internal/wire"
)

const (
	abilityInvulnerable uint8 = 1 << iota
	abilityFlying
	abilityAllowFlying
	abilityCreativeMode
)

// SPacketAbilities packs four flags into one byte.
type SPacketAbilities struct {
	Invulnerable bool
	Flying       bool
	AllowFlying  bool
	// CreativeMode allows breaking blocks instantly.
	CreativeMode bool
	FlySpeed     float32
	WalkSpeed    float32
}

var _ Packet = (*SPacketAbilities)(nil)

// NewSPacketAbilities returns abilities with the default speeds.
func NewSPacketAbilities() *SPacketAbilities {
	return &SPacketAbilities{
		FlySpeed:  0.05,
		WalkSpeed: 0.1,
	}
}

func (*SPacketAbilities) Direction() Direction { return ClientBound }

func (p *SPacketAbilities) Read(buf *wire.Buffer) (err error) {
	defer rewindRead(buf, buf.ReaderIndex(), &err)

	flags, err := buf.ReadUint8()
	if err != nil {
		return fmt.Errorf("could not read flags: %w", err)
	}
	flySpeed, err := buf.ReadFloat32()
	if err != nil {
		return fmt.Errorf("could not read fly speed: %w", err)
	}
	walkSpeed, err := buf.ReadFloat32()
	if err != nil {
		return fmt.Errorf("could not read walk speed: %w", err)
	}

	*p = SPacketAbilities{
		Invulnerable: flags&abilityInvulnerable != 0,
		Flying:       flags&abilityFlying != 0,
		AllowFlying:  flags&abilityAllowFlying != 0,
		CreativeMode: flags&abilityCreativeMode != 0,
		FlySpeed:     flySpeed,
		WalkSpeed:    walkSpeed,
	}
	return nil
}

func (p *SPacketAbilities) Write(buf *wire.Buffer) error {
	var flags uint8
	if p.Invulnerable {
		flags |= abilityInvulnerable
	}
	if p.Flying {
		flags |= abilityFlying
	}
	if p.AllowFlying {
		flags |= abilityAllowFlying
	}
	if p.CreativeMode {
		flags |= abilityCreativeMode
	}
	buf.WriteUint8(flags)
	buf.WriteFloat32(p.FlySpeed)
	buf.WriteFloat32(p.WalkSpeed)
	return nil
}

// SPacketServerDifficulty sends the difficulty as an unsigned byte.
type SPacketServerDifficulty struct {
	Difficulty Difficulty
}

var _ Packet = (*SPacketServerDifficulty)(nil)

func (*SPacketServerDifficulty) Direction() Direction { return ClientBound }

func (p *SPacketServerDifficulty) Read(buf *wire.Buffer) (err error) {
	defer rewindRead(buf, buf.ReaderIndex(), &err)

	v, err := buf.ReadUint8()
	if err != nil {
		return fmt.Errorf("could not read difficulty: %w", err)
	}
	if err := checkEnum(Difficulty(v)); err != nil {
		return err
	}
	p.Difficulty = Difficulty(v)
	return nil
}

func (p *SPacketServerDifficulty) Write(buf *wire.Buffer) error {
	if err := checkEnum(p.Difficulty); err != nil {
		return err
	}
	buf.WriteUint8(uint8(p.Difficulty))
	return nil
}

type SPacketChat struct {
	Message  chat.Component
	Position ChatPosition
}

var _ Packet = (*SPacketChat)(nil)

func (*SPacketChat) Direction() Direction { return ClientBound }

func (p *SPacketChat) Read(buf *wire.Buffer) (err error) {
	defer rewindRead(buf, buf.ReaderIndex(), &err)

	message, err := buf.ReadChat()
	if err != nil {
		return fmt.Errorf("could not read message: %w", err)
	}
	position, err := buf.ReadUint8()
	if err != nil {
		return fmt.Errorf("could not read position: %w", err)
	}
	if err := checkEnum(ChatPosition(position)); err != nil {
		return err
	}
	*p = SPacketChat{Message: message, Position: ChatPosition(position)}
	return nil
}

func (p *SPacketChat) Write(buf *wire.Buffer) (err error) {
	defer rewindWrite(buf, buf.WriterIndex(), &err)

	if err := checkEnum(p.Position); err != nil {
		return err
	}
	if err := buf.WriteChat(p.Message); err != nil {
		return fmt.Errorf("could not write message: %w", err)
	}
	buf.WriteUint8(uint8(p.Position))
	return nil
}

// MaxChatMessageLength is the longest message, in characters, a client may
// send.
const MaxChatMessageLength = 256

// CPacketChatMessage is chat typed by the player, or a command when it
// starts with a slash.
type CPacketChatMessage struct {
	Message string
}

var _ Packet = (*CPacketChatMessage)(nil)

func (*CPacketChatMessage) Direction() Direction { return ServerBound }

func checkChatMessage(message string) error {
	if n := utf8.RuneCountInString(message); n > MaxChatMessageLength {
		return fmt.Errorf("%w (got %d; want <= %d)", ErrMessageTooLong, n, MaxChatMessageLength)
	}
	return nil
}

func (p *CPacketChatMessage) Read(buf *wire.Buffer) (err error) {
	defer rewindRead(buf, buf.ReaderIndex(), &err)

	message, err := buf.ReadString()
	if err != nil {
		return fmt.Errorf("could not read message: %w", err)
	}
	if err := checkChatMessage(message); err != nil {
		return err
	}
	p.Message = message
	return nil
}

func (p *CPacketChatMessage) Write(buf *wire.Buffer) error {
	if err := checkChatMessage(p.Message); err != nil {
		return err
	}
	return buf.WriteString(p.Message)
}

// SPacketKeepAlive must be answered with a CPacketKeepAlive carrying the
// same id.
type SPacketKeepAlive struct {
	ID int64
}

var _ Packet = (*SPacketKeepAlive)(nil)

func (*SPacketKeepAlive) Direction() Direction { return ClientBound }

func (p *SPacketKeepAlive) Read(buf *wire.Buffer) error {
	id, err := buf.ReadInt64()
	if err != nil {
		return fmt.Errorf("could not read id: %w", err)
	}
	p.ID = id
	return nil
}

func (p *SPacketKeepAlive) Write(buf *wire.Buffer) error {
	buf.WriteInt64(p.ID)
	return nil
}

type CPacketKeepAlive struct {
	ID int64
}

var _ Packet = (*CPacketKeepAlive)(nil)

func (*CPacketKeepAlive) Direction() Direction { return ServerBound }

func (p *CPacketKeepAlive) Read(buf *wire.Buffer) error {
	id, err := buf.ReadInt64()
	if err != nil {
		return fmt.Errorf("could not read id: %w", err)
	}
	p.ID = id
	return nil
}

func (p *CPacketKeepAlive) Write(buf *wire.Buffer) error {
	buf.WriteInt64(p.ID)
	return nil
}

type SPacketDisconnect struct {
	Reason chat.Component
}

var _ Packet = (*SPacketDisconnect)(nil)

func (*SPacketDisconnect) Direction() Direction { return ClientBound }

func (p *SPacketDisconnect) Read(buf *wire.Buffer) error {
	reason, err := buf.ReadChat()
	if err != nil {
		return fmt.Errorf("could not read reason: %w", err)
	}
	p.Reason = reason
	return nil
}

func (p *SPacketDisconnect) Write(buf *wire.Buffer) error {
	return buf.WriteChat(p.Reason)
}
