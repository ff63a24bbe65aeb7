package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownComponent is returned when a value cannot be turned into (or
// out of) one of the component variants.
var ErrUnknownComponent = errors.New("unknown chat component")

// componentJSON is the canonical object form. Field order is the order keys
// are written in.
type componentJSON struct {
	Text      *string           `json:"text,omitempty"`
	Translate *string           `json:"translate,omitempty"`
	With      []json.RawMessage `json:"with,omitempty"`
	Keybind   *string           `json:"keybind,omitempty"`
	Score     *scoreJSON        `json:"score,omitempty"`
	Selector  *string           `json:"selector,omitempty"`

	Color         *string         `json:"color,omitempty"`
	Bold          *bool           `json:"bold,omitempty"`
	Italic        *bool           `json:"italic,omitempty"`
	Underlined    *bool           `json:"underlined,omitempty"`
	Strikethrough *bool           `json:"strikethrough,omitempty"`
	Obfuscated    *bool           `json:"obfuscated,omitempty"`
	ClickEvent    *clickEventJSON `json:"clickEvent,omitempty"`
	HoverEvent    *hoverEventJSON `json:"hoverEvent,omitempty"`
	Insertion     *string         `json:"insertion,omitempty"`

	Extra []json.RawMessage `json:"extra,omitempty"`
}

type scoreJSON struct {
	Name      string `json:"name"`
	Objective string `json:"objective"`
	Value     string `json:"value,omitempty"`
}

type clickEventJSON struct {
	Action string `json:"action"`
	Value  string `json:"value"`
}

type hoverEventJSON struct {
	Action string          `json:"action"`
	Value  json.RawMessage `json:"value"`
}

// Marshal encodes c in the canonical object form: exactly one payload key,
// style keys only for attributes that are set and "extra" only when the
// node has children.
func Marshal(c Component) ([]byte, error) {
	raw, err := encode(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}

func encode(c Component) (*componentJSON, error) {
	if isNil(c) {
		return nil, fmt.Errorf("%w: nil %T", ErrUnknownComponent, c)
	}
	raw := &componentJSON{}

	switch v := c.(type) {
	case *Text:
		raw.Text = &v.Text
	case *Translation:
		raw.Translate = &v.Key
		for i, arg := range v.With {
			data, err := Marshal(arg)
			if err != nil {
				return nil, fmt.Errorf("could not encode translation arg %d: %w", i, err)
			}
			raw.With = append(raw.With, data)
		}
	case *Keybind:
		raw.Keybind = &v.Keybind
	case *Score:
		raw.Score = &scoreJSON{Name: v.Name, Objective: v.Objective, Value: v.Value}
	case *Selector:
		raw.Selector = &v.Selector
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownComponent, c)
	}

	node := c.Node()
	if err := raw.setStyle(node.Style); err != nil {
		return nil, err
	}
	for i, extra := range node.Extra {
		data, err := Marshal(extra)
		if err != nil {
			return nil, fmt.Errorf("could not encode extra %d: %w", i, err)
		}
		raw.Extra = append(raw.Extra, data)
	}

	return raw, nil
}

func (raw *componentJSON) setStyle(s Style) error {
	if s.Color != nil {
		name := s.Color.String()
		raw.Color = &name
	}
	raw.Bold = s.Bold
	raw.Italic = s.Italic
	raw.Underlined = s.Underlined
	raw.Strikethrough = s.Strikethrough
	raw.Obfuscated = s.Obfuscated
	if s.ClickEvent != nil {
		raw.ClickEvent = &clickEventJSON{
			Action: string(s.ClickEvent.Action),
			Value:  s.ClickEvent.Value,
		}
	}
	if s.HoverEvent != nil {
		value, err := Marshal(s.HoverEvent.Value)
		if err != nil {
			return fmt.Errorf("could not encode hover event value: %w", err)
		}
		raw.HoverEvent = &hoverEventJSON{
			Action: string(s.HoverEvent.Action),
			Value:  value,
		}
	}
	raw.Insertion = s.Insertion
	return nil
}

// Unmarshal decodes a component leniently. Besides the canonical object it
// accepts a bare string (a text component), a bare array (an empty text
// component whose children are the elements) and bare numbers or booleans
// (a text component holding the literal). Unknown keys, unknown colors and
// unknown event actions are ignored.
func Unmarshal(data []byte) (Component, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrUnknownComponent)
	}

	switch data[0] {
	case '{':
		return unmarshalObject(data)
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return nil, fmt.Errorf("could not decode text: %w", err)
		}
		return NewText(text), nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil, fmt.Errorf("could not decode array: %w", err)
		}
		root := NewText("")
		for i, elem := range elems {
			c, err := Unmarshal(elem)
			if err != nil {
				return nil, fmt.Errorf("could not decode element %d: %w", i, err)
			}
			root.Append(c)
		}
		return root, nil
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("could not decode primitive: %w", err)
		}
		if dec.More() {
			return nil, fmt.Errorf("%w: trailing data after %s", ErrUnknownComponent, data[:dec.InputOffset()])
		}
		switch v.(type) {
		case bool, json.Number:
			return NewText(string(data)), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, data)
	}
}

func unmarshalObject(data []byte) (Component, error) {
	raw := componentJSON{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not decode component: %w", err)
	}

	var c Component
	switch {
	case raw.Text != nil:
		c = NewText(*raw.Text)
	case raw.Translate != nil:
		t := NewTranslation(*raw.Translate)
		for i, arg := range raw.With {
			a, err := Unmarshal(arg)
			if err != nil {
				return nil, fmt.Errorf("could not decode translation arg %d: %w", i, err)
			}
			t.With = append(t.With, a)
		}
		c = t
	case raw.Keybind != nil:
		c = NewKeybind(*raw.Keybind)
	case raw.Score != nil:
		c = &Score{
			Name:      raw.Score.Name,
			Objective: raw.Score.Objective,
			Value:     raw.Score.Value,
		}
	case raw.Selector != nil:
		c = NewSelector(*raw.Selector)
	default:
		return nil, fmt.Errorf("%w: no payload key in %s", ErrUnknownComponent, data)
	}

	node := c.Node()
	style, err := raw.style()
	if err != nil {
		return nil, err
	}
	node.Style = style

	for i, extra := range raw.Extra {
		e, err := Unmarshal(extra)
		if err != nil {
			return nil, fmt.Errorf("could not decode extra %d: %w", i, err)
		}
		node.Append(e)
	}

	return c, nil
}

func (raw *componentJSON) style() (Style, error) {
	s := Style{
		Bold:          raw.Bold,
		Italic:        raw.Italic,
		Underlined:    raw.Underlined,
		Strikethrough: raw.Strikethrough,
		Obfuscated:    raw.Obfuscated,
		Insertion:     raw.Insertion,
	}

	if raw.Color != nil {
		if color, ok := ParseColor(*raw.Color); ok {
			s.Color = &color
		}
	}

	if ce := raw.ClickEvent; ce != nil && ClickAction(ce.Action).Valid() {
		s.ClickEvent = &ClickEvent{Action: ClickAction(ce.Action), Value: ce.Value}
	}

	if he := raw.HoverEvent; he != nil && HoverAction(he.Action).Valid() {
		value := bytes.TrimSpace(he.Value)
		if len(value) > 0 && !bytes.Equal(value, []byte("null")) {
			c, err := Unmarshal(value)
			if err != nil {
				return Style{}, fmt.Errorf("could not decode hover event value: %w", err)
			}
			s.HoverEvent = &HoverEvent{Action: HoverAction(he.Action), Value: c}
		}
	}

	return s, nil
}
