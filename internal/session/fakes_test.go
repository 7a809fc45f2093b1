package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eznix86/meow/internal/bus"
	"github.com/eznix86/meow/internal/irc"
)

type fakeEvent struct {
	line *irc.Line
	err  error
}

// fakeConn is a scripted protocol connection. Events pushed by the test are
// returned by NextEvent; writes are recorded.
type fakeConn struct {
	events    chan fakeEvent
	closed    chan struct{}
	closeOnce sync.Once

	identifyErr error

	mu      sync.Mutex
	sendErr error
	sent    []string
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		events: make(chan fakeEvent, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) Identify() error {
	return f.identifyErr
}

func (f *fakeConn) NextEvent() (*irc.Line, error) {
	select {
	case ev := <-f.events:
		return ev.line, ev.err
	case <-f.closed:
		return nil, net.ErrClosed
	}
}

func (f *fakeConn) record(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, line)
	return nil
}

func (f *fakeConn) Privmsg(target, body string) error {
	return f.record(fmt.Sprintf("PRIVMSG %s :%s", target, body))
}

func (f *fakeConn) Join(channel string) error { return f.record("JOIN " + channel) }
func (f *fakeConn) Part(channel string) error { return f.record("PART " + channel) }
func (f *fakeConn) Pong(token string) error   { return f.record("PONG :" + token) }
func (f *fakeConn) Quit(reason string) error  { return f.record("QUIT :" + reason) }

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) setSendErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
}

func (f *fakeConn) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

func (f *fakeConn) push(raw string) {
	f.events <- fakeEvent{line: irc.ParseLine(raw)}
}

func (f *fakeConn) eof() {
	f.events <- fakeEvent{err: io.EOF}
}

type dialResult struct {
	conn *fakeConn
	err  error
}

// fakeDialer hands out scripted results in order.
type fakeDialer struct {
	mu      sync.Mutex
	results []dialResult
	calls   []bus.ConnectParams
}

func newFakeDialer(results ...dialResult) *fakeDialer {
	return &fakeDialer{results: results}
}

func (d *fakeDialer) Dial(_ context.Context, p bus.ConnectParams) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, p)
	if len(d.results) == 0 {
		return nil, errors.New("no route to host")
	}
	r := d.results[0]
	d.results = d.results[1:]
	if r.err != nil {
		return nil, r.err
	}
	return r.conn, nil
}

func (d *fakeDialer) Calls() []bus.ConnectParams {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]bus.ConnectParams(nil), d.calls...)
}

// harness runs a controller against fakes and collects its display lines.
type harness struct {
	t      *testing.T
	dialer *fakeDialer
	cmds   chan bus.Command
	lines  chan string
	ctrl   *Controller

	mu     sync.Mutex
	delays []time.Duration

	cancel   context.CancelFunc
	done     chan error
	finished bool
}

func newHarness(t *testing.T, dialer *fakeDialer, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		dialer: dialer,
		cmds:   make(chan bus.Command, bus.DefaultCapacity),
		lines:  make(chan string, bus.DefaultCapacity),
	}

	var n int
	base := []Option{
		WithSleep(func(ctx context.Context, d time.Duration) error {
			h.mu.Lock()
			h.delays = append(h.delays, d)
			h.mu.Unlock()
			return ctx.Err()
		}),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("conn-%d", n)
		}),
	}
	h.ctrl = NewController(dialer, h.cmds, h.lines, append(base, opts...)...)
	return h
}

// start runs the controller loop until the test ends.
func (h *harness) start() {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.done = make(chan error, 1)
	go func() { h.done <- h.ctrl.Run(ctx) }()
	h.t.Cleanup(h.stop)
}

func (h *harness) stop() {
	if h.cancel == nil {
		h.ctrl.shutdown()
		return
	}
	h.cancel()
	if !h.finished {
		h.wait()
	}
}

// wait blocks until Run returns and reports its result.
func (h *harness) wait() error {
	h.t.Helper()
	select {
	case err := <-h.done:
		h.finished = true
		return err
	case <-time.After(2 * time.Second):
		h.finished = true
		assert.Fail(h.t, "controller did not stop")
		return nil
	}
}

func (h *harness) send(cmd bus.Command) {
	h.cmds <- cmd
}

func (h *harness) next() string {
	h.t.Helper()
	select {
	case line := <-h.lines:
		return line
	case <-time.After(2 * time.Second):
		require.FailNow(h.t, "timed out waiting for a display line")
		return ""
	}
}

// expect asserts the next lines, in order.
func (h *harness) expect(want ...string) {
	h.t.Helper()
	for _, w := range want {
		assert.Equal(h.t, w, h.next())
	}
}

// expectAnyOrder asserts the next len(want) lines regardless of order, for
// lines produced by concurrent tasks.
func (h *harness) expectAnyOrder(want ...string) {
	h.t.Helper()
	got := make([]string, 0, len(want))
	for range want {
		got = append(got, h.next())
	}
	assert.ElementsMatch(h.t, want, got)
}

func (h *harness) expectNone() {
	h.t.Helper()
	select {
	case line := <-h.lines:
		assert.Fail(h.t, "unexpected display line", line)
	case <-time.After(50 * time.Millisecond):
	}
}

func (h *harness) Delays() []time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]time.Duration(nil), h.delays...)
}
