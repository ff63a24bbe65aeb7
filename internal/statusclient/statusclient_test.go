package statusclient_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/blukai/mcwire/internal/statusclient"
	"github.com/matryer/is"
)

func TestNewStatusClientBadAddress(t *testing.T) {
	is := is.New(t)

	_, err := statusclient.NewStatusClient("tcp4", "localhost", nil)
	is.True(err != nil)

	_, err = statusclient.NewStatusClient("tcp4", "localhost:70000", nil)
	is.True(err != nil)
}

func TestPingSilentServer(t *testing.T) {
	is := is.New(t)

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	is.NoErr(err)
	defer listener.Close()

	// accept, then never answer
	go func() {
		for {
			c, err := listener.Accept()
			if err != nil {
				return
			}
			defer c.Close()
		}
	}()

	sc, err := statusclient.NewStatusClient("tcp4", listener.Addr().String(), nil)
	is.NoErr(err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*100)
	defer cancel()

	start := time.Now()
	_, _, err = sc.Ping(ctx)
	is.True(errors.Is(err, context.DeadlineExceeded))
	is.True(time.Since(start) < time.Second*5)
}

func TestPingCancelled(t *testing.T) {
	is := is.New(t)

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	is.NoErr(err)
	defer listener.Close()

	go func() {
		for {
			c, err := listener.Accept()
			if err != nil {
				return
			}
			defer c.Close()
		}
	}()

	sc, err := statusclient.NewStatusClient("tcp4", listener.Addr().String(), nil)
	is.NoErr(err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(time.Millisecond*50, cancel)

	_, _, err = sc.Ping(ctx)
	is.True(errors.Is(err, context.Canceled))
}

func TestDisconnectError(t *testing.T) {
	is := is.New(t)

	var err error = &statusclient.DisconnectError{Reason: chat.NewText("bye")}
	is.Equal(err.Error(), "disconnected: bye")

	var disconnect *statusclient.DisconnectError
	is.True(errors.As(err, &disconnect))
}
