/*
Package session implements spec.md §4.F (the protocol state machine and
dispatcher), §4.G (the command surface), and §4.I (the session object):
everything that sits between the wire codec (package irc) and the event
bus (package dispatch).

It is grounded on the teacher's bot/server.go-shaped session (visible
only through bot/server_test.go and bot/bot_test.go in the retrieved
pack — the ServerSender/Endpoint pattern, the connProvider injection
point) and on original_source/girclib/irc.py's IRCProtocol/BaseIRCClient,
which is where the handshake, ISUPPORT latch, and per-command handler
bodies are grounded.
*/
package session

import (
	"bufio"
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wirerelay/ircengine/dispatch"
	"github.com/wirerelay/ircengine/irc"
)

// handlerFunc processes one decoded message. Handlers never return an
// error to the dispatch loop: parse/handler failures are logged and the
// offending line dropped (spec.md §7) rather than tearing the session
// down.
type handlerFunc func(s *Session, msg *irc.Message)

// Session owns the ISUPPORT store, MOTD buffer, and ping ledger for one
// connection, and wires the wire codec (A) through the dispatcher (F)
// to the signal bus (H) — component I of spec.md §2.
type Session struct {
	opts     Options
	bus      *dispatch.Bus
	logger   logrus.FieldLogger
	handlers map[string]handlerFunc

	w      Writer
	closer Closer
	framer irc.Framer

	mu            sync.Mutex
	store         *irc.Store
	motd          motdBuffer
	pings         pingLedger
	attemptedNick string
	currentNick   string
	registered    bool
	processing    bool
	isupportStart bool // a RPL_ISUPPORT burst is in progress

	handlerID string // the sender name this session passes to every Signal.Send
}

// New constructs a Session around the given transport. Callers typically
// follow New with Register to start the handshake and Run to begin
// dispatching inbound lines; the two are independent so embedders that
// already sent PASS/NICK/USER out-of-band can skip Register.
func New(w Writer, opts *Options) *Session {
	if opts == nil {
		opts = NewOptions("guest")
	}
	s := &Session{
		opts:       *opts,
		bus:        dispatch.NewBus(opts.MaxConcurrentReceivers),
		logger:     logrus.StandardLogger(),
		w:          w,
		store:      irc.NewStore(),
		processing: true,
		attemptedNick: opts.Nick,
		handlerID:  fmt.Sprintf("session-%p", opts),
	}
	if c, ok := w.(Closer); ok {
		s.closer = c
	}
	s.handlers = buildHandlers()
	return s
}

// SetLogger overrides the logger used for the session's diagnostics
// (malformed lines, dropped writes, teardown). Defaults to logrus's
// standard logger. Panics recovered from receivers are logged by the
// dispatch bus through logrus's standard logger, not this one.
func (s *Session) SetLogger(l logrus.FieldLogger) { s.logger = l }

// Bus exposes the signal bus so application code can Connect receivers.
func (s *Session) Bus() *dispatch.Bus { return s.bus }

// Store exposes a snapshot of the negotiated ISUPPORT store. Mutation
// only ever happens on the dispatch goroutine; callers get a clone so
// they can't race it.
func (s *Session) Store() *irc.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clone()
}

// CurrentNick returns the nick the server has us registered as (empty
// until RPL_WELCOME).
func (s *Session) CurrentNick() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentNick
}

// IsRegistered reports whether RPL_WELCOME has been received yet.
func (s *Session) IsRegistered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registered
}

// Feed decodes and dispatches every complete line found in chunk,
// retaining any trailing partial line for the next call. This is the
// entry point Run uses internally, and is exported so embedders driving
// their own read loop (e.g. to multiplex several sessions on one
// goroutine) can call it directly instead of using Run.
func (s *Session) Feed(chunk []byte) {
	lines, err := s.framer.Feed(chunk)
	if err != nil {
		s.logger.WithError(err).Warn("session: framing error, buffer reset")
	}
	for _, line := range lines {
		s.dispatchLine(line)
	}
}

// Run reads from r until it returns an error (typically io.EOF on a
// clean close), feeding every chunk to Feed. It is a convenience loop;
// callers with their own event-driven transport can call Feed directly
// instead.
func (s *Session) Run(ctx context.Context, r Reader) error {
	br := bufio.NewReaderSize(r, 4096)
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := br.Read(buf)
		if n > 0 {
			s.Feed(buf[:n])
		}
		if err != nil {
			s.teardown(err)
			return err
		}
	}
}

func (s *Session) dispatchLine(line string) {
	msg, err := irc.DecodeLine(line)
	if err != nil {
		s.logger.WithError(err).WithField("line", line).Warn("session: dropping malformed line")
		return
	}

	s.mu.Lock()
	if msg.Command == irc.RPL_ISUPPORT {
		s.isupportStart = true
		for _, p := range isupportTokens(msg.Params) {
			s.store.Parse(p)
		}
		s.mu.Unlock()
		return
	}
	releaseLatch := s.isupportStart
	s.isupportStart = false
	snapshot := s.store.Clone()
	s.mu.Unlock()

	if releaseLatch {
		s.bus.Signal(dispatch.OnRplISupport).Send(s.handlerID, &ISupportEvent{
			Emitter: s.emitter(), Store: snapshot,
		})
	}

	s.handle(msg)
}

// isupportTokens strips the target-nick first parameter and the
// trailing "are supported by this server" human text, leaving just the
// KEY=VALUE tokens.
func isupportTokens(params []string) []string {
	if len(params) <= 2 {
		return nil
	}
	return params[1 : len(params)-1]
}

func (s *Session) handle(msg *irc.Message) {
	h, ok := s.handlers[msg.Command]
	if !ok {
		h = handleUnknown
	}
	h(s, msg)
}

func (s *Session) emitter() Emitter { return Emitter{Session: s} }

func (s *Session) teardown(cause error) {
	s.mu.Lock()
	if !s.processing {
		s.mu.Unlock()
		return
	}
	s.processing = false
	s.mu.Unlock()

	s.logger.WithError(cause).Info("session: transport closed, tearing down")
	s.bus.Signal(dispatch.OnDisconnected).Send(s.handlerID, &DisconnectedEvent{Emitter: s.emitter()})
}

// writeLine writes a fully-formed, CRLF-terminated line to the
// transport. A write attempted after teardown is dropped, per spec.md
// §5 ("writes that race a torn-down transport are dropped").
func (s *Session) writeLine(line []byte) error {
	s.mu.Lock()
	processing := s.processing
	s.mu.Unlock()
	if !processing {
		s.logger.WithField("line", string(line)).Debug("session: dropping write after teardown")
		return nil
	}
	_, err := s.w.Write(line)
	return err
}

// Disconnect performs the two-step shutdown of spec.md §5: send QUIT,
// close the transport, then emit disconnected. The bus barrier inside
// Signal.Send already guarantees every `quited` receiver has finished
// running before Disconnect proceeds to close the transport.
func (s *Session) Disconnect(message string) error {
	s.Quit(message)

	s.mu.Lock()
	s.processing = false
	s.mu.Unlock()

	var closeErr error
	if s.closer != nil {
		closeErr = s.closer.Close()
	}
	s.bus.Signal(dispatch.OnDisconnected).Send(s.handlerID, &DisconnectedEvent{Emitter: s.emitter()})
	return closeErr
}
