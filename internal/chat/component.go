// Package chat implements the rich text ("chat component") tree exchanged
// by the game: a recursive node with optional, inheritable style and ordered
// children, plus its JSON encoding.
package chat

// Component is one node of a chat tree. The set of implementations is
// closed: *Text, *Translation, *Keybind, *Score and *Selector. Code that
// switches over components handles exactly those five.
type Component interface {
	// Node exposes the style and children shared by every variant.
	Node() *Base

	component()
}

// Base holds what every component carries regardless of its variant.
type Base struct {
	Style Style
	// Extra is rendered after the node's own content, in order.
	Extra []Component
}

func (b *Base) Node() *Base {
	return b
}

// Append adds children to the node.
func (b *Base) Append(extra ...Component) {
	b.Extra = append(b.Extra, extra...)
}

// Text is a literal string.
type Text struct {
	Base
	Text string
}

// Translation is a client side translation key with substitution arguments
// (%s and %1$s style placeholders).
type Translation struct {
	Base
	Key  string
	With []Component
}

// Keybind names a client key binding, e.g. "key.jump".
type Keybind struct {
	Base
	Keybind string
}

// Score shows the score of Name in Objective. Value is the resolved value
// sent by the server; an empty Value is not written.
type Score struct {
	Base
	Name      string
	Objective string
	Value     string
}

// Selector is an entity selector pattern such as "@p".
type Selector struct {
	Base
	Selector string
}

func (*Text) component()        {}
func (*Translation) component() {}
func (*Keybind) component()     {}
func (*Score) component()       {}
func (*Selector) component()    {}

// isNil reports whether c is nil, either untyped or as a nil pointer to one
// of the variants.
func isNil(c Component) bool {
	switch v := c.(type) {
	case nil:
		return true
	case *Text:
		return v == nil
	case *Translation:
		return v == nil
	case *Keybind:
		return v == nil
	case *Score:
		return v == nil
	case *Selector:
		return v == nil
	}
	return false
}

var (
	_ Component = (*Text)(nil)
	_ Component = (*Translation)(nil)
	_ Component = (*Keybind)(nil)
	_ Component = (*Score)(nil)
	_ Component = (*Selector)(nil)
)

func NewText(text string) *Text {
	return &Text{Text: text}
}

func NewTranslation(key string, with ...Component) *Translation {
	return &Translation{Key: key, With: with}
}

func NewKeybind(keybind string) *Keybind {
	return &Keybind{Keybind: keybind}
}

func NewScore(name, objective string) *Score {
	return &Score{Name: name, Objective: objective}
}

func NewSelector(selector string) *Selector {
	return &Selector{Selector: selector}
}
