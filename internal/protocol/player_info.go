package protocol

import (
	"fmt"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/blukai/mcwire/internal/ptr"
	"github.com/blukai/mcwire/internal/wire"
)

// SPacketPlayerInfo updates the tab list. Every entry is identified by the
// profile id; the remaining fields of an entry depend on Action:
//
//	AddPlayer:         name, properties, mode, latency, display name
//	UpdateGameMode:    mode
//	UpdateLatency:     latency
//	UpdateDisplayName: display name
//	RemovePlayer:      nothing
//
// Fields an action does not carry are left at their zero value on read and
// ignored on write.
type SPacketPlayerInfo struct {
	Action  PlayerInfoAction
	Entries []PlayerInfo
}

var _ Packet = (*SPacketPlayerInfo)(nil)

func (*SPacketPlayerInfo) Direction() Direction { return ClientBound }

func (p *SPacketPlayerInfo) Read(buf *wire.Buffer) (err error) {
	defer rewindRead(buf, buf.ReaderIndex(), &err)

	v, err := buf.ReadVarInt()
	if err != nil {
		return fmt.Errorf("could not read action: %w", err)
	}
	action := PlayerInfoAction(v)
	if err := checkEnum(action); err != nil {
		return err
	}

	n, err := buf.ReadVarInt()
	if err != nil {
		return fmt.Errorf("could not read entry count: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("%w: entry count %d", wire.ErrNegativeLength, n)
	}

	var entries []PlayerInfo
	for i := int32(0); i < n; i++ {
		entry, err := readPlayerInfo(buf, action)
		if err != nil {
			return fmt.Errorf("could not read entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	*p = SPacketPlayerInfo{Action: action, Entries: entries}
	return nil
}

func readPlayerInfo(buf *wire.Buffer, action PlayerInfoAction) (PlayerInfo, error) {
	var entry PlayerInfo

	id, err := buf.ReadUUID()
	if err != nil {
		return entry, fmt.Errorf("could not read id: %w", err)
	}
	entry.Profile.ID = id

	switch action {
	case AddPlayer:
		name, err := buf.ReadString()
		if err != nil {
			return entry, fmt.Errorf("could not read name: %w", err)
		}
		entry.Profile.Name = name

		properties, err := readProperties(buf)
		if err != nil {
			return entry, err
		}
		entry.Profile.Properties = properties

		mode, err := readGameMode(buf)
		if err != nil {
			return entry, err
		}
		entry.Mode = &mode

		latency, err := buf.ReadVarInt()
		if err != nil {
			return entry, fmt.Errorf("could not read latency: %w", err)
		}
		entry.Latency = latency

		displayName, err := readDisplayName(buf)
		if err != nil {
			return entry, err
		}
		entry.DisplayName = displayName
	case UpdateGameMode:
		mode, err := readGameMode(buf)
		if err != nil {
			return entry, err
		}
		entry.Mode = &mode
	case UpdateLatency:
		latency, err := buf.ReadVarInt()
		if err != nil {
			return entry, fmt.Errorf("could not read latency: %w", err)
		}
		entry.Latency = latency
	case UpdateDisplayName:
		displayName, err := readDisplayName(buf)
		if err != nil {
			return entry, err
		}
		entry.DisplayName = displayName
	case RemovePlayer:
	}

	return entry, nil
}

func readProperties(buf *wire.Buffer) ([]Property, error) {
	n, err := buf.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("could not read property count: %w", err)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: property count %d", wire.ErrNegativeLength, n)
	}

	var properties []Property
	for i := int32(0); i < n; i++ {
		var property Property
		if property.Name, err = buf.ReadString(); err != nil {
			return nil, fmt.Errorf("could not read property %d name: %w", i, err)
		}
		if property.Value, err = buf.ReadString(); err != nil {
			return nil, fmt.Errorf("could not read property %d value: %w", i, err)
		}
		signed, err := buf.ReadBool()
		if err != nil {
			return nil, fmt.Errorf("could not read property %d signature flag: %w", i, err)
		}
		if signed {
			signature, err := buf.ReadString()
			if err != nil {
				return nil, fmt.Errorf("could not read property %d signature: %w", i, err)
			}
			property.Signature = &signature
		}
		properties = append(properties, property)
	}
	return properties, nil
}

func readGameMode(buf *wire.Buffer) (GameMode, error) {
	v, err := buf.ReadVarInt()
	if err != nil {
		return 0, fmt.Errorf("could not read game mode: %w", err)
	}
	mode := GameMode(v)
	if err := checkEnum(mode); err != nil {
		return 0, err
	}
	return mode, nil
}

func readDisplayName(buf *wire.Buffer) (chat.Component, error) {
	present, err := buf.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("could not read display name flag: %w", err)
	}
	if !present {
		return nil, nil
	}
	displayName, err := buf.ReadChat()
	if err != nil {
		return nil, fmt.Errorf("could not read display name: %w", err)
	}
	return displayName, nil
}

func (p *SPacketPlayerInfo) Write(buf *wire.Buffer) (err error) {
	defer rewindWrite(buf, buf.WriterIndex(), &err)

	if err := checkEnum(p.Action); err != nil {
		return err
	}

	buf.WriteVarInt(int32(p.Action))
	buf.WriteVarInt(int32(len(p.Entries)))
	for i := range p.Entries {
		if err := writePlayerInfo(buf, p.Action, &p.Entries[i]); err != nil {
			return fmt.Errorf("could not write entry %d: %w", i, err)
		}
	}
	return nil
}

func writePlayerInfo(buf *wire.Buffer, action PlayerInfoAction, entry *PlayerInfo) error {
	buf.WriteUUID(entry.Profile.ID)

	switch action {
	case AddPlayer:
		if entry.Profile.Name == "" {
			return fmt.Errorf("%w: missing name for %s", ErrIncompleteProfile, entry.Profile.ID)
		}
		if err := buf.WriteString(entry.Profile.Name); err != nil {
			return fmt.Errorf("could not write name: %w", err)
		}
		buf.WriteVarInt(int32(len(entry.Profile.Properties)))
		for i, property := range entry.Profile.Properties {
			if err := writeProperty(buf, property); err != nil {
				return fmt.Errorf("could not write property %d: %w", i, err)
			}
		}
		if err := writeGameMode(buf, entry.Mode); err != nil {
			return err
		}
		buf.WriteVarInt(entry.Latency)
		return writeDisplayName(buf, entry.DisplayName)
	case UpdateGameMode:
		return writeGameMode(buf, entry.Mode)
	case UpdateLatency:
		buf.WriteVarInt(entry.Latency)
	case UpdateDisplayName:
		return writeDisplayName(buf, entry.DisplayName)
	case RemovePlayer:
	}
	return nil
}

func writeProperty(buf *wire.Buffer, property Property) error {
	if err := buf.WriteString(property.Name); err != nil {
		return err
	}
	if err := buf.WriteString(property.Value); err != nil {
		return err
	}
	buf.WriteBool(property.Signature != nil)
	if property.Signature != nil {
		return buf.WriteString(*property.Signature)
	}
	return nil
}

// writeGameMode writes survival for a nil mode.
func writeGameMode(buf *wire.Buffer, mode *GameMode) error {
	v := ptr.Deref(mode, Survival)
	if err := checkEnum(v); err != nil {
		return err
	}
	buf.WriteVarInt(int32(v))
	return nil
}

func writeDisplayName(buf *wire.Buffer, displayName chat.Component) error {
	buf.WriteBool(displayName != nil)
	if displayName == nil {
		return nil
	}
	if err := buf.WriteChat(displayName); err != nil {
		return fmt.Errorf("could not write display name: %w", err)
	}
	return nil
}
