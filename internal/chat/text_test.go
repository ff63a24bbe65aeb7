package chat_test

import (
	"errors"
	"testing"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/blukai/mcwire/internal/ptr"
	"github.com/matryer/is"
)

func TestPlainText(t *testing.T) {
	is := is.New(t)

	root := chat.NewText("Hello")
	root.Style.Bold = ptr.To(true)
	root.Append(
		chat.NewText(", "),
		chat.NewTranslation("%s and %2$s %%", chat.NewText("one"), chat.NewSelector("@p")),
		chat.NewKeybind(" key.jump"),
	)

	is.Equal(chat.PlainText(root), "Hello, one and @p % key.jump")
}

func TestLegacyText(t *testing.T) {
	is := is.New(t)

	t.Run("unstyled", func(t *testing.T) {
		is := is.New(t)
		is.Equal(chat.LegacyText(chat.NewText("plain")), "plain")
	})

	t.Run("inherited style and reset", func(t *testing.T) {
		is := is.New(t)
		root := chat.NewText("Hello")
		root.Style.Color = ptr.To(chat.Red)
		root.Style.Bold = ptr.To(true)

		bang := chat.NewText("!")
		bang.Style.Bold = ptr.To(false)
		root.Append(chat.NewText(" world"), bang)

		is.Equal(chat.LegacyText(root), "§c§lHello world§r§c!")
	})

	t.Run("color change keeps formats", func(t *testing.T) {
		is := is.New(t)
		root := chat.NewText("a")
		root.Style.Color = ptr.To(chat.Green)
		root.Style.Italic = ptr.To(true)

		b := chat.NewText("b")
		b.Style.Color = ptr.To(chat.Aqua)
		root.Append(b)

		is.Equal(chat.LegacyText(root), "§a§oa§b§ob")
	})

	t.Run("dropping the color", func(t *testing.T) {
		is := is.New(t)
		root := chat.NewText("")
		gold := chat.NewText("gold")
		gold.Style.Color = ptr.To(chat.Gold)
		root.Append(gold, chat.NewText("plain"))

		is.Equal(chat.LegacyText(root), "§6gold§rplain")
	})
}

func TestStyleInheritDoesNotMutate(t *testing.T) {
	is := is.New(t)

	parent := chat.Style{Color: ptr.To(chat.Blue), Bold: ptr.To(true)}
	child := chat.Style{Bold: ptr.To(false)}

	resolved := child.Inherit(parent)
	is.Equal(*resolved.Color, chat.Blue)
	is.Equal(*resolved.Bold, false)
	is.True(child.Color == nil)
}

func TestEqual(t *testing.T) {
	is := is.New(t)

	is.True(chat.Equal(chat.NewText("a"), chat.NewText("a")))
	is.True(!chat.Equal(chat.NewText("a"), chat.NewSelector("a")))
	is.True(!chat.Equal(chat.NewKeybind("a"), chat.NewKeybind("b")))

	bold := chat.NewText("a")
	bold.Style.Bold = ptr.To(true)
	is.True(!chat.Equal(chat.NewText("a"), bold))

	unset := chat.NewText("a")
	notBold := chat.NewText("a")
	notBold.Style.Bold = ptr.To(false)
	is.True(!chat.Equal(unset, notBold))

	x := chat.NewText("")
	x.Append(chat.NewText("1"), chat.NewText("2"))
	y := chat.NewText("")
	y.Append(chat.NewText("2"), chat.NewText("1"))
	is.True(!chat.Equal(x, y))
	is.True(chat.Hash(x) != chat.Hash(y))
}

func TestTypedNil(t *testing.T) {
	is := is.New(t)

	var text *chat.Text
	var selector *chat.Selector

	is.Equal(chat.PlainText(text), "")
	is.Equal(chat.LegacyText(selector), "")
	is.True(chat.Equal(text, nil))
	is.True(chat.Equal(text, selector))
	is.True(!chat.Equal(text, chat.NewText("")))
	is.Equal(chat.Hash(text), chat.Hash(nil))

	root := chat.NewText("a")
	root.Append(text, chat.NewText("b"))
	is.Equal(chat.PlainText(root), "ab")

	_, err := chat.Marshal(text)
	is.True(errors.Is(err, chat.ErrUnknownComponent))
}
