package protocol

import (
	"github.com/blukai/mcwire/internal/chat"
	"github.com/google/uuid"
)

type GameProfile struct {
	ID         uuid.UUID
	Name       string
	Properties []Property
}

// Property is a signed profile attribute, e.g. the skin texture.
type Property struct {
	Name      string
	Value     string
	Signature *string
}

// PlayerInfo is one entry of a player list update. Which fields are
// meaningful depends on the action of the packet carrying it.
type PlayerInfo struct {
	Profile     GameProfile
	DisplayName chat.Component
	Mode        *GameMode
	Latency     int32
}
