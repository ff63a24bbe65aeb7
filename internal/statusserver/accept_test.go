package statusserver

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/phuslu/log"
)

var errTooManyFiles = errors.New("accept: too many open files")

// failingListener fails every Accept with errTooManyFiles until fails runs
// out, then reports itself closed.
type failingListener struct {
	mu    sync.Mutex
	fails int
	calls []time.Time
}

func (l *failingListener) Accept() (net.Conn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, time.Now())
	if l.fails == 0 {
		return nil, net.ErrClosed
	}
	l.fails--
	return nil, errTooManyFiles
}

func (l *failingListener) Close() error   { return nil }
func (l *failingListener) Addr() net.Addr { return &net.TCPAddr{} }

func silentLogger() *log.Logger {
	tmp := log.DefaultLogger
	tmp.Writer = &log.IOWriter{Writer: io.Discard}
	return &tmp
}

func TestAcceptDelay(t *testing.T) {
	is := is.New(t)

	is.Equal(acceptDelay(0), minAcceptDelay)
	is.Equal(acceptDelay(minAcceptDelay), 2*minAcceptDelay)
	is.Equal(acceptDelay(maxAcceptDelay/2+time.Millisecond), maxAcceptDelay)
	is.Equal(acceptDelay(maxAcceptDelay), maxAcceptDelay)
}

func TestAcceptErrorBacksOff(t *testing.T) {
	is := is.New(t)

	l := &failingListener{fails: 3}
	ss := &StatusServer{listener: l, logger: silentLogger()}

	var wg sync.WaitGroup
	ss.runAccept(context.Background(), &wg)

	is.Equal(len(l.calls), 4)
	// 5ms, 10ms and 20ms between the calls
	is.True(l.calls[3].Sub(l.calls[0]) >= 35*time.Millisecond)
	for i := 1; i < len(l.calls); i++ {
		is.True(l.calls[i].Sub(l.calls[i-1]) >= minAcceptDelay)
	}
}

func TestAcceptBackoffStopsOnCancel(t *testing.T) {
	is := is.New(t)

	l := &failingListener{fails: 1 << 30}
	ss := &StatusServer{listener: l, logger: silentLogger()}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	done := make(chan struct{})
	go func() {
		ss.runAccept(ctx, &wg)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		is.Fail() // runAccept did not return after cancel
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// without the delay this would spin through many thousands of calls
	is.True(len(l.calls) < 20)
}
