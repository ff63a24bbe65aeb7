package chat_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/blukai/mcwire/internal/ptr"
	"github.com/matryer/is"
)

func TestMarshalPlainText(t *testing.T) {
	is := is.New(t)

	data, err := chat.Marshal(chat.NewText("Hello"))
	is.NoErr(err)
	is.Equal(string(data), `{"text":"Hello"}`)
}

func TestMarshalExtra(t *testing.T) {
	is := is.New(t)

	c := chat.NewText("Hello")
	bang := chat.NewText("!")
	bang.Style.Bold = ptr.To(true)
	c.Append(bang)

	data, err := chat.Marshal(c)
	is.NoErr(err)
	is.Equal(string(data), `{"text":"Hello","extra":[{"text":"!","bold":true}]}`)

	var generic map[string]any
	is.NoErr(json.Unmarshal(data, &generic))
	extra, ok := generic["extra"].([]any)
	is.True(ok)
	is.Equal(len(extra), 1)
}

func TestMarshalStyle(t *testing.T) {
	is := is.New(t)

	c := chat.NewText("click me")
	c.Style = chat.Style{
		Color:      ptr.To(chat.Gold),
		Italic:     ptr.To(false),
		ClickEvent: &chat.ClickEvent{Action: chat.OpenURL, Value: "https://example.com"},
		HoverEvent: &chat.HoverEvent{Action: chat.ShowText, Value: chat.NewText("tip")},
		Insertion:  ptr.To("ins"),
	}

	data, err := chat.Marshal(c)
	is.NoErr(err)
	is.Equal(string(data), `{"text":"click me","color":"gold","italic":false,`+
		`"clickEvent":{"action":"open_url","value":"https://example.com"},`+
		`"hoverEvent":{"action":"show_text","value":{"text":"tip"}},"insertion":"ins"}`)
}

func TestMarshalVariants(t *testing.T) {
	is := is.New(t)

	testCases := []struct {
		component chat.Component
		want      string
	}{
		{chat.NewTranslation("chat.type.text", chat.NewText("Steve"), chat.NewText("hi")),
			`{"translate":"chat.type.text","with":[{"text":"Steve"},{"text":"hi"}]}`},
		{chat.NewTranslation("multiplayer.disconnect.kicked"),
			`{"translate":"multiplayer.disconnect.kicked"}`},
		{chat.NewKeybind("key.jump"), `{"keybind":"key.jump"}`},
		{chat.NewScore("Steve", "kills"), `{"score":{"name":"Steve","objective":"kills"}}`},
		{&chat.Score{Name: "*", Objective: "deaths", Value: "3"},
			`{"score":{"name":"*","objective":"deaths","value":"3"}}`},
		{chat.NewSelector("@a[r=5]"), `{"selector":"@a[r=5]"}`},
	}

	for _, tc := range testCases {
		data, err := chat.Marshal(tc.component)
		is.NoErr(err)
		is.Equal(string(data), tc.want)
	}
}

func TestMarshalNil(t *testing.T) {
	is := is.New(t)

	_, err := chat.Marshal(nil)
	is.True(errors.Is(err, chat.ErrUnknownComponent))
}

func TestUnmarshalLenient(t *testing.T) {
	is := is.New(t)

	t.Run("bare string", func(t *testing.T) {
		is := is.New(t)
		c, err := chat.Unmarshal([]byte(`"Hello"`))
		is.NoErr(err)
		is.True(chat.Equal(c, chat.NewText("Hello")))
	})

	t.Run("bare array", func(t *testing.T) {
		is := is.New(t)
		c, err := chat.Unmarshal([]byte(`["a", {"text":"b","color":"red"}]`))
		is.NoErr(err)

		want := chat.NewText("")
		b := chat.NewText("b")
		b.Style.Color = ptr.To(chat.Red)
		want.Append(chat.NewText("a"), b)
		is.True(chat.Equal(c, want))
	})

	t.Run("primitives", func(t *testing.T) {
		is := is.New(t)
		c, err := chat.Unmarshal([]byte(`42`))
		is.NoErr(err)
		is.True(chat.Equal(c, chat.NewText("42")))

		c, err = chat.Unmarshal([]byte(` true `))
		is.NoErr(err)
		is.True(chat.Equal(c, chat.NewText("true")))
	})

	t.Run("unknown keys and values", func(t *testing.T) {
		is := is.New(t)
		c, err := chat.Unmarshal([]byte(`{"text":"x","font":"uniform","color":"rainbow",` +
			`"clickEvent":{"action":"teleport","value":"0 0 0"}}`))
		is.NoErr(err)
		is.True(chat.Equal(c, chat.NewText("x")))
		is.True(c.Node().Style.IsEmpty())
	})

	t.Run("null", func(t *testing.T) {
		is := is.New(t)
		_, err := chat.Unmarshal([]byte(`null`))
		is.True(errors.Is(err, chat.ErrUnknownComponent))
	})

	t.Run("no payload key", func(t *testing.T) {
		is := is.New(t)
		_, err := chat.Unmarshal([]byte(`{"bold":true}`))
		is.True(errors.Is(err, chat.ErrUnknownComponent))
	})

	t.Run("malformed", func(t *testing.T) {
		is := is.New(t)
		_, err := chat.Unmarshal([]byte(`{"text":`))
		is.True(err != nil)
	})
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)

	root := chat.NewTranslation("death.attack.player", chat.NewSelector("@p"), chat.NewKeybind("key.attack"))
	root.Style.Color = ptr.To(chat.DarkRed)
	root.Style.Obfuscated = ptr.To(true)

	child := &chat.Score{Name: "Alex", Objective: "hp", Value: "20"}
	child.Style.Strikethrough = ptr.To(false)
	child.Style.HoverEvent = &chat.HoverEvent{Action: chat.ShowEntity, Value: chat.NewText("{id:1}")}
	root.Append(child, chat.NewText("tail"))

	data, err := chat.Marshal(root)
	is.NoErr(err)

	decoded, err := chat.Unmarshal(data)
	is.NoErr(err)
	is.True(chat.Equal(root, decoded))
	is.Equal(chat.Hash(root), chat.Hash(decoded))
}
