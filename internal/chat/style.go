package chat

// Color is one of the sixteen named chat colors.
type Color uint8

const (
	Black Color = iota
	DarkBlue
	DarkGreen
	DarkAqua
	DarkRed
	DarkPurple
	Gold
	Gray
	DarkGray
	Blue
	Green
	Aqua
	Red
	LightPurple
	Yellow
	White

	colorCount
)

var colors = [colorCount]struct {
	name string
	code byte
}{
	{"black", '0'},
	{"dark_blue", '1'},
	{"dark_green", '2'},
	{"dark_aqua", '3'},
	{"dark_red", '4'},
	{"dark_purple", '5'},
	{"gold", '6'},
	{"gray", '7'},
	{"dark_gray", '8'},
	{"blue", '9'},
	{"green", 'a'},
	{"aqua", 'b'},
	{"red", 'c'},
	{"light_purple", 'd'},
	{"yellow", 'e'},
	{"white", 'f'},
}

func (c Color) Valid() bool {
	return c < colorCount
}

// String returns the JSON name of the color.
func (c Color) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return colors[c].name
}

// Code returns the legacy formatting code of the color, '0'..'f'.
func (c Color) Code() byte {
	if !c.Valid() {
		return CodeReset
	}
	return colors[c].code
}

// ParseColor looks a color up by its JSON name.
func ParseColor(name string) (Color, bool) {
	for i, c := range colors {
		if c.name == name {
			return Color(i), true
		}
	}
	return 0, false
}

// Legacy formatting codes. Each is written after Escape.
const (
	Escape = '§'

	CodeObfuscated    byte = 'k'
	CodeBold          byte = 'l'
	CodeStrikethrough byte = 'm'
	CodeUnderlined    byte = 'n'
	CodeItalic        byte = 'o'
	CodeReset         byte = 'r'
)

type ClickAction string

const (
	OpenURL        ClickAction = "open_url"
	OpenFile       ClickAction = "open_file"
	RunCommand     ClickAction = "run_command"
	SuggestCommand ClickAction = "suggest_command"
	ChangePage     ClickAction = "change_page"
)

func (a ClickAction) Valid() bool {
	switch a {
	case OpenURL, OpenFile, RunCommand, SuggestCommand, ChangePage:
		return true
	}
	return false
}

type HoverAction string

const (
	ShowText        HoverAction = "show_text"
	ShowAchievement HoverAction = "show_achievement"
	ShowItem        HoverAction = "show_item"
	ShowEntity      HoverAction = "show_entity"
)

func (a HoverAction) Valid() bool {
	switch a {
	case ShowText, ShowAchievement, ShowItem, ShowEntity:
		return true
	}
	return false
}

type ClickEvent struct {
	Action ClickAction
	Value  string
}

type HoverEvent struct {
	Action HoverAction
	Value  Component
}

// Style is the formatting of a node. Every field is optional; nil means the
// attribute is inherited from the nearest ancestor that sets it.
type Style struct {
	Color         *Color
	Bold          *bool
	Italic        *bool
	Underlined    *bool
	Strikethrough *bool
	Obfuscated    *bool
	ClickEvent    *ClickEvent
	HoverEvent    *HoverEvent
	Insertion     *string
}

// IsEmpty reports whether no attribute is set.
func (s Style) IsEmpty() bool {
	return s.Color == nil &&
		s.Bold == nil &&
		s.Italic == nil &&
		s.Underlined == nil &&
		s.Strikethrough == nil &&
		s.Obfuscated == nil &&
		s.ClickEvent == nil &&
		s.HoverEvent == nil &&
		s.Insertion == nil
}

// Inherit returns a copy of s where every unset attribute is taken from
// parent. Neither s nor parent is modified.
func (s Style) Inherit(parent Style) Style {
	if s.Color == nil {
		s.Color = parent.Color
	}
	if s.Bold == nil {
		s.Bold = parent.Bold
	}
	if s.Italic == nil {
		s.Italic = parent.Italic
	}
	if s.Underlined == nil {
		s.Underlined = parent.Underlined
	}
	if s.Strikethrough == nil {
		s.Strikethrough = parent.Strikethrough
	}
	if s.Obfuscated == nil {
		s.Obfuscated = parent.Obfuscated
	}
	if s.ClickEvent == nil {
		s.ClickEvent = parent.ClickEvent
	}
	if s.HoverEvent == nil {
		s.HoverEvent = parent.HoverEvent
	}
	if s.Insertion == nil {
		s.Insertion = parent.Insertion
	}
	return s
}

// Equal compares the attributes of two styles, not their pointers.
func (s Style) Equal(o Style) bool {
	return equalPtr(s.Color, o.Color) &&
		equalPtr(s.Bold, o.Bold) &&
		equalPtr(s.Italic, o.Italic) &&
		equalPtr(s.Underlined, o.Underlined) &&
		equalPtr(s.Strikethrough, o.Strikethrough) &&
		equalPtr(s.Obfuscated, o.Obfuscated) &&
		equalPtr(s.ClickEvent, o.ClickEvent) &&
		equalHover(s.HoverEvent, o.HoverEvent) &&
		equalPtr(s.Insertion, o.Insertion)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalHover(a, b *HoverEvent) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Action == b.Action && Equal(a.Value, b.Value)
}
