package protocol

import "fmt"

type Difficulty uint8

const (
	Peaceful Difficulty = iota
	Easy
	Normal
	Hard
)

func (d Difficulty) Valid() bool {
	return d <= Hard
}

func (d Difficulty) String() string {
	switch d {
	case Peaceful:
		return "peaceful"
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", uint8(d))
	}
}

type GameMode int32

const (
	Survival GameMode = iota
	Creative
	Adventure
	Spectator
)

func (m GameMode) Valid() bool {
	return m >= Survival && m <= Spectator
}

func (m GameMode) String() string {
	switch m {
	case Survival:
		return "survival"
	case Creative:
		return "creative"
	case Adventure:
		return "adventure"
	case Spectator:
		return "spectator"
	default:
		return fmt.Sprintf("GameMode(%d)", int32(m))
	}
}

// PlayerInfoAction selects the shape of every entry of a player list
// update.
type PlayerInfoAction int32

const (
	AddPlayer PlayerInfoAction = iota
	UpdateGameMode
	UpdateLatency
	UpdateDisplayName
	RemovePlayer
)

func (a PlayerInfoAction) Valid() bool {
	return a >= AddPlayer && a <= RemovePlayer
}

func (a PlayerInfoAction) String() string {
	switch a {
	case AddPlayer:
		return "add player"
	case UpdateGameMode:
		return "update game mode"
	case UpdateLatency:
		return "update latency"
	case UpdateDisplayName:
		return "update display name"
	case RemovePlayer:
		return "remove player"
	default:
		return fmt.Sprintf("PlayerInfoAction(%d)", int32(a))
	}
}

// NextState is the phase a handshake asks to switch to.
type NextState int32

const (
	NextStateStatus NextState = 1
	NextStateLogin  NextState = 2
)

func (s NextState) Valid() bool {
	return s == NextStateStatus || s == NextStateLogin
}

func (s NextState) String() string {
	switch s {
	case NextStateStatus:
		return "status"
	case NextStateLogin:
		return "login"
	default:
		return fmt.Sprintf("NextState(%d)", int32(s))
	}
}

// Phase returns the connection phase that follows the handshake.
func (s NextState) Phase() Phase {
	if s == NextStateLogin {
		return Login
	}
	return Status
}

// ChatPosition is where the client shows a chat message.
type ChatPosition uint8

const (
	ChatBox ChatPosition = iota
	SystemMessage
	GameInfo
)

func (p ChatPosition) Valid() bool {
	return p <= GameInfo
}

func (p ChatPosition) String() string {
	switch p {
	case ChatBox:
		return "chat"
	case SystemMessage:
		return "system"
	case GameInfo:
		return "game info"
	default:
		return fmt.Sprintf("ChatPosition(%d)", uint8(p))
	}
}

type enum interface {
	Valid() bool
	fmt.Stringer
}

func checkEnum(v enum) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownEnumValue, v)
	}
	return nil
}
