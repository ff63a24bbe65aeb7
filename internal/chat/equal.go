package chat

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Equal reports whether a and b are the same variant with equal payload,
// style and children. Children are compared in order. A nil pointer of any
// variant equals an untyped nil.
func Equal(a, b Component) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	switch x := a.(type) {
	case *Text:
		y, ok := b.(*Text)
		return ok && x.Text == y.Text && equalBase(&x.Base, &y.Base)
	case *Translation:
		y, ok := b.(*Translation)
		return ok && x.Key == y.Key && equalAll(x.With, y.With) && equalBase(&x.Base, &y.Base)
	case *Keybind:
		y, ok := b.(*Keybind)
		return ok && x.Keybind == y.Keybind && equalBase(&x.Base, &y.Base)
	case *Score:
		y, ok := b.(*Score)
		return ok &&
			x.Name == y.Name &&
			x.Objective == y.Objective &&
			x.Value == y.Value &&
			equalBase(&x.Base, &y.Base)
	case *Selector:
		y, ok := b.(*Selector)
		return ok && x.Selector == y.Selector && equalBase(&x.Base, &y.Base)
	}
	return false
}

func equalBase(a, b *Base) bool {
	return a.Style.Equal(b.Style) && equalAll(a.Extra, b.Extra)
}

func equalAll(a, b []Component) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Hash returns a digest of c such that Equal components hash equally.
func Hash(c Component) uint64 {
	d := xxhash.New()
	hashComponent(d, c)
	return d.Sum64()
}

// every value is followed by a 0 byte so that adjacent fields can't run
// into each other
func hashField(d *xxhash.Digest, s string) {
	d.WriteString(s)
	d.Write([]byte{0})
}

func hashOptional[T any](d *xxhash.Digest, v *T, str func(T) string) {
	if v == nil {
		d.Write([]byte{1})
		return
	}
	hashField(d, str(*v))
}

func hashComponent(d *xxhash.Digest, c Component) {
	if isNil(c) {
		hashField(d, "nil")
		return
	}

	switch v := c.(type) {
	case *Text:
		hashField(d, "text")
		hashField(d, v.Text)
	case *Translation:
		hashField(d, "translate")
		hashField(d, v.Key)
		hashField(d, strconv.Itoa(len(v.With)))
		for _, arg := range v.With {
			hashComponent(d, arg)
		}
	case *Keybind:
		hashField(d, "keybind")
		hashField(d, v.Keybind)
	case *Score:
		hashField(d, "score")
		hashField(d, v.Name)
		hashField(d, v.Objective)
		hashField(d, v.Value)
	case *Selector:
		hashField(d, "selector")
		hashField(d, v.Selector)
	default:
		hashField(d, "unknown")
		return
	}

	node := c.Node()
	hashStyle(d, node.Style)
	hashField(d, strconv.Itoa(len(node.Extra)))
	for _, extra := range node.Extra {
		hashComponent(d, extra)
	}
}

func hashStyle(d *xxhash.Digest, s Style) {
	hashOptional(d, s.Color, Color.String)
	hashOptional(d, s.Bold, strconv.FormatBool)
	hashOptional(d, s.Italic, strconv.FormatBool)
	hashOptional(d, s.Underlined, strconv.FormatBool)
	hashOptional(d, s.Strikethrough, strconv.FormatBool)
	hashOptional(d, s.Obfuscated, strconv.FormatBool)
	hashOptional(d, s.ClickEvent, func(ce ClickEvent) string {
		return string(ce.Action) + "\x00" + ce.Value
	})
	if s.HoverEvent == nil {
		d.Write([]byte{1})
	} else {
		hashField(d, string(s.HoverEvent.Action))
		hashComponent(d, s.HoverEvent.Value)
	}
	hashOptional(d, s.Insertion, func(s string) string { return s })
}
