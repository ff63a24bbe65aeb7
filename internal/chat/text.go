package chat

import (
	"strconv"
	"strings"
)

// walk visits c and its children depth first. fn receives the node's own
// content and its style resolved against every ancestor.
func walk(c Component, parent Style, fn func(content string, style Style)) {
	if isNil(c) {
		return
	}
	node := c.Node()
	style := node.Style.Inherit(parent)
	fn(content(c), style)
	for _, extra := range node.Extra {
		walk(extra, style, fn)
	}
}

// content is the text a node contributes on its own, children excluded.
func content(c Component) string {
	switch v := c.(type) {
	case *Text:
		return v.Text
	case *Translation:
		args := make([]string, len(v.With))
		for i, arg := range v.With {
			args[i] = PlainText(arg)
		}
		return formatTranslation(v.Key, args)
	case *Keybind:
		return v.Keybind
	case *Score:
		return v.Value
	case *Selector:
		return v.Selector
	}
	return ""
}

// formatTranslation substitutes %s, %N$s and %% in key. No locale is
// available here, so the key itself is the format string.
func formatTranslation(key string, args []string) string {
	arg := func(i int) string {
		if i < 0 || i >= len(args) {
			return ""
		}
		return args[i]
	}

	var sb strings.Builder
	next := 0
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if ch != '%' || i+1 == len(key) {
			sb.WriteByte(ch)
			continue
		}

		rest := key[i+1:]
		switch rest[0] {
		case '%':
			sb.WriteByte('%')
			i++
		case 's':
			sb.WriteString(arg(next))
			next++
			i++
		default:
			digits := 0
			for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
				digits++
			}
			if digits == 0 || digits+1 >= len(rest) || rest[digits] != '$' || rest[digits+1] != 's' {
				sb.WriteByte(ch)
				continue
			}
			n, err := strconv.Atoi(rest[:digits])
			if err != nil {
				sb.WriteByte(ch)
				continue
			}
			sb.WriteString(arg(n - 1))
			i += digits + 2
		}
	}
	return sb.String()
}

// PlainText concatenates the text content of the whole tree, ignoring
// formatting.
func PlainText(c Component) string {
	var sb strings.Builder
	walk(c, Style{}, func(content string, _ Style) {
		sb.WriteString(content)
	})
	return sb.String()
}

type format uint8

const (
	formatBold format = 1 << iota
	formatItalic
	formatUnderlined
	formatObfuscated
	formatStrikethrough
)

// order in which codes are emitted after a color
var formatCodes = [...]struct {
	format format
	code   byte
}{
	{formatBold, CodeBold},
	{formatItalic, CodeItalic},
	{formatUnderlined, CodeUnderlined},
	{formatObfuscated, CodeObfuscated},
	{formatStrikethrough, CodeStrikethrough},
}

type legacyState struct {
	color    Color
	hasColor bool
	formats  format
}

func legacyStateOf(s Style) legacyState {
	st := legacyState{}
	if s.Color != nil {
		st.color, st.hasColor = *s.Color, true
	}
	set := func(v *bool, f format) {
		if v != nil && *v {
			st.formats |= f
		}
	}
	set(s.Bold, formatBold)
	set(s.Italic, formatItalic)
	set(s.Underlined, formatUnderlined)
	set(s.Obfuscated, formatObfuscated)
	set(s.Strikethrough, formatStrikethrough)
	return st
}

// LegacyText renders c as text with inline § formatting codes. A code is
// written only when the resolved style changes between segments. Clearing
// an attribute needs a reset, after which the remaining attributes are
// written again; a color code also clears formats on the client, so active
// formats follow it.
func LegacyText(c Component) string {
	var sb strings.Builder
	code := func(b byte) {
		sb.WriteRune(Escape)
		sb.WriteByte(b)
	}

	cur := legacyState{}
	walk(c, Style{}, func(content string, style Style) {
		if content == "" {
			return
		}

		next := legacyStateOf(style)
		if (cur.hasColor && !next.hasColor) || cur.formats&^next.formats != 0 {
			code(CodeReset)
			cur = legacyState{}
		}
		if next.hasColor && (!cur.hasColor || cur.color != next.color) {
			code(next.color.Code())
			cur.color, cur.hasColor = next.color, true
			cur.formats = 0
		}
		for _, fc := range formatCodes {
			if next.formats&fc.format != 0 && cur.formats&fc.format == 0 {
				code(fc.code)
			}
		}
		cur.formats = next.formats

		sb.WriteString(content)
	})
	return sb.String()
}
