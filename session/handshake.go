package session

import (
	"time"

	"github.com/wirerelay/ircengine/dispatch"
	"github.com/wirerelay/ircengine/irc"
)

// Connected announces that the transport is up, before any bytes have
// been exchanged. Callers invoke it once right after dialing, then call
// Register to start the handshake (spec.md §4.F.1).
func (s *Session) Connected() {
	s.bus.Signal(dispatch.OnConnected).Send(s.handlerID, &ConnectedEvent{Emitter: s.emitter()})
}

// Register sends PASS (if configured) and NICK immediately, then USER
// after Options.RegistrationDelay — spec.md §4.F.1's accommodation for
// servers that race the welcome response against a same-flight USER.
func (s *Session) Register() {
	if s.opts.Password != "" {
		s.writeLine(irc.Encode(irc.PASS, s.opts.Password))
	}

	s.mu.Lock()
	s.attemptedNick = s.opts.Nick
	s.mu.Unlock()
	s.writeLine(irc.Encode(irc.NICK, s.opts.Nick))

	send := func() {
		host := s.opts.Hostname
		if host == "" {
			host = "0"
		}
		server := s.opts.Servername
		if server == "" {
			server = "0"
		}
		s.writeLine(irc.Encode(irc.USER, s.opts.Username, host, server, ":"+s.opts.Realname))
	}
	if s.opts.RegistrationDelay <= 0 {
		send()
		return
	}
	go func() {
		time.Sleep(s.opts.RegistrationDelay)
		send()
	}()
}

// nextNick picks the next nick to try after a collision: the configured
// altnick on the first collision, then that nick with an underscore
// appended on every collision thereafter (teacher's
// irc.py:IRCClient.alterCollidedNick policy, generalized to be
// deterministic rather than random).
func (s *Session) nextNick(attempted string) string {
	if s.opts.Altnick != "" && attempted == s.opts.Nick {
		return s.opts.Altnick
	}
	return attempted + "_"
}

func handleRplWelcome(s *Session, msg *irc.Message) {
	nick := msg.Target()
	if nick == "" {
		nick = msg.Nick()
	}
	s.mu.Lock()
	s.registered = true
	s.currentNick = nick
	s.mu.Unlock()
	s.bus.Signal(dispatch.OnRplWelcome).Send(s.handlerID, &PlainInfoEvent{Emitter: s.emitter(), Info: msg.Trailing()})
	s.bus.Signal(dispatch.OnSignedOn).Send(s.handlerID, &SignedOnEvent{Emitter: s.emitter()})
}

func handleNicknameInUse(s *Session, msg *irc.Message) {
	s.mu.Lock()
	registered := s.registered
	attempted := s.attemptedNick
	s.mu.Unlock()

	if !registered {
		next := s.nextNick(attempted)
		s.mu.Lock()
		s.attemptedNick = next
		s.mu.Unlock()
		s.writeLine(irc.Encode(irc.NICK, next))
	}
	s.bus.Signal(dispatch.OnNicknameInUse).Send(s.handlerID, &NicknameInUseEvent{
		Emitter: s.emitter(), AttemptedNick: attempted,
	})
}

func handleErroneousNickname(s *Session, msg *irc.Message) {
	s.mu.Lock()
	attempted := s.attemptedNick
	s.mu.Unlock()
	s.bus.Signal(dispatch.OnErroneousNickname).Send(s.handlerID, &ErroneousNicknameEvent{
		Emitter: s.emitter(), AttemptedNick: attempted,
	})
}

func handlePasswdMismatch(s *Session, msg *irc.Message) {
	s.bus.Signal(dispatch.OnPasswordMismatch).Send(s.handlerID, &PasswordMismatchEvent{Emitter: s.emitter()})
	s.teardown(&ProtocolError{Reason: msg.Trailing()})
}

func handleError(s *Session, msg *irc.Message) {
	reason := msg.Trailing()
	s.logger.WithField("reason", reason).Info("session: server sent ERROR, closing link")
	s.teardown(&ProtocolError{Reason: reason})
}
