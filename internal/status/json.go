package status

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

type versionJSON struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type sampleJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type playersJSON struct {
	Max    int32        `json:"max"`
	Online int32        `json:"online"`
	Sample []sampleJSON `json:"sample,omitempty"`
}

type modJSON struct {
	ModID   string `json:"modid"`
	Version string `json:"version"`
}

type modInfoJSON struct {
	Type    *string   `json:"type"`
	ModList []modJSON `json:"modList"`
}

type serverInfoJSON struct {
	Version     *versionJSON    `json:"version"`
	Players     *playersJSON    `json:"players"`
	Description json.RawMessage `json:"description"`
	ModInfo     *modInfoJSON    `json:"modinfo,omitempty"`
	Favicon     string          `json:"favicon,omitempty"`
}

// Marshal encodes info. A nil description is written as empty text.
func Marshal(info *ServerInfo) ([]byte, error) {
	raw := serverInfoJSON{
		Version: &versionJSON{
			Name:     info.Version.Name,
			Protocol: info.Version.Protocol,
		},
		Players: &playersJSON{
			Max:    info.Players.Max,
			Online: info.Players.Online,
		},
	}

	for _, sample := range info.Players.Sample {
		raw.Players.Sample = append(raw.Players.Sample, sampleJSON{
			ID:   sample.ID.String(),
			Name: sample.Name,
		})
	}

	description := info.Description
	if description == nil {
		description = chat.NewText("")
	}
	descriptionBytes, err := chat.Marshal(description)
	if err != nil {
		return nil, fmt.Errorf("could not marshal description: %w", err)
	}
	raw.Description = descriptionBytes

	if info.ModInfo != nil {
		raw.ModInfo = &modInfoJSON{
			Type:    &info.ModInfo.Type,
			ModList: make([]modJSON, 0, len(info.ModInfo.ModList)),
		}
		for _, mod := range info.ModInfo.ModList {
			raw.ModInfo.ModList = append(raw.ModInfo.ModList, modJSON{
				ModID:   mod.ModID,
				Version: mod.Version,
			})
		}
	}

	if info.Favicon != nil {
		favicon, err := EncodeFavicon(info.Favicon)
		if err != nil {
			return nil, fmt.Errorf("could not encode favicon: %w", err)
		}
		raw.Favicon = favicon
	}

	return json.Marshal(raw)
}

// Unmarshal decodes a status document. Every problem found is reported,
// not just the first one.
func Unmarshal(data []byte) (*ServerInfo, error) {
	var raw serverInfoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedStatus, err)
	}

	var result *multierror.Error
	info := &ServerInfo{}

	if raw.Version == nil {
		result = multierror.Append(result, fmt.Errorf("%w: missing version", ErrMalformedStatus))
	} else {
		info.Version = Version{
			Name:     raw.Version.Name,
			Protocol: raw.Version.Protocol,
		}
	}

	if raw.Players == nil {
		result = multierror.Append(result, fmt.Errorf("%w: missing players", ErrMalformedStatus))
	} else {
		info.Players = Players{
			Max:    raw.Players.Max,
			Online: raw.Players.Online,
		}
		for i, sample := range raw.Players.Sample {
			id, err := uuid.Parse(sample.ID)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%w: sample %d id: %w", ErrMalformedStatus, i, err))
				continue
			}
			info.Players.Sample = append(info.Players.Sample, PlayerSample{
				Name: sample.Name,
				ID:   id,
			})
		}
	}

	if len(raw.Description) == 0 || bytes.Equal(raw.Description, []byte("null")) {
		info.Description = chat.NewText("")
	} else {
		description, err := chat.Unmarshal(raw.Description)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("could not unmarshal description: %w", err))
		}
		info.Description = description
	}

	if raw.ModInfo != nil {
		info.ModInfo = &ModInfo{Type: DefaultModType}
		if raw.ModInfo.Type != nil {
			info.ModInfo.Type = *raw.ModInfo.Type
		}
		for _, mod := range raw.ModInfo.ModList {
			info.ModInfo.ModList = append(info.ModInfo.ModList, Mod{
				ModID:   mod.ModID,
				Version: mod.Version,
			})
		}
	}

	if raw.Favicon != "" {
		favicon, err := DecodeFavicon(raw.Favicon)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("could not decode favicon: %w", err))
		}
		info.Favicon = favicon
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return info, nil
}
