// Package status implements the server list ping document: the JSON object
// a server answers a status request with, including its favicon.
package status

import (
	"errors"
	"image"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/google/uuid"
)

var (
	ErrMalformedStatus = errors.New("malformed status document")
	ErrFaviconSize     = errors.New("favicon is not 64x64")
	ErrInvalidFavicon  = errors.New("invalid favicon")
)

// DefaultModType is assumed when a modinfo object has no type.
const DefaultModType = "FML"

type ServerInfo struct {
	Version     Version
	Players     Players
	Description chat.Component
	// ModInfo is only present for modded servers.
	ModInfo *ModInfo
	// Favicon must be exactly 64x64 pixels.
	Favicon image.Image
}

type Version struct {
	Name     string
	Protocol int32
}

type Players struct {
	Max    int32
	Online int32
	Sample []PlayerSample
}

type PlayerSample struct {
	Name string
	ID   uuid.UUID
}

type ModInfo struct {
	Type    string
	ModList []Mod
}

type Mod struct {
	ModID   string
	Version string
}

// Sample returns the document a vanilla 1.8.9 server with nobody online
// would answer with.
func Sample() *ServerInfo {
	return &ServerInfo{
		Version:     Version{Name: "1.8.9", Protocol: 47},
		Players:     Players{Max: 20, Online: 0},
		Description: chat.NewText("A Minecraft Server"),
	}
}

// SampleModInfo is a forge mod list.
func SampleModInfo() *ModInfo {
	return &ModInfo{
		Type: DefaultModType,
		ModList: []Mod{
			{ModID: "mcp", Version: "9.19"},
			{ModID: "FML", Version: "8.0.99.99"},
			{ModID: "Forge", Version: "11.15.1.1722"},
			{ModID: "rpcraft", Version: "2.0"},
		},
	}
}
