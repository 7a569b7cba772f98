package session

import (
	"strconv"
	"strings"

	"github.com/wirerelay/ircengine/dispatch"
	"github.com/wirerelay/ircengine/irc"
)

// buildHandlers constructs the static command -> handler table, the
// spec.md §9 redesign of the teacher's dynamic "irc_COMMAND" method
// lookup (dispatch/commander's reflection-based Dispatch) into a plain
// map assembled once at construction time.
func buildHandlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		irc.PING: handlePing,

		irc.JOIN: handleJoin,
		irc.PART: handlePart,
		irc.QUIT: handleQuit,
		irc.NICK: handleNick,
		irc.KICK: handleKick,
		irc.MODE: handleMode,

		irc.PRIVMSG: handlePrivmsgOrNotice,
		irc.NOTICE:  handlePrivmsgOrNotice,
		irc.TOPIC:   handleTopicSet,

		irc.RPL_TOPIC:      handleRplTopic,
		irc.RPL_NOTOPIC:    handleRplNotopic,
		irc.RPL_MOTDSTART:  handleMotdStart,
		irc.RPL_MOTD:       handleMotdLine,
		irc.RPL_ENDOFMOTD:  handleMotdEnd,
		irc.RPL_NAMREPLY:   handleNamreply,
		irc.RPL_ENDOFNAMES: handleEndOfNames,
		irc.RPL_LIST:       handleRplList,
		irc.RPL_LISTEND:    handleRplListEnd,

		irc.RPL_WELCOME:        handleRplWelcome,
		irc.ERR_NICKNAMEINUSE:  handleNicknameInUse,
		irc.ERR_ERRONEUSNICKNAME: handleErroneousNickname,
		irc.ERR_PASSWDMISMATCH: handlePasswdMismatch,
		irc.ERR_BANNEDFROMCHAN: handleBannedFromChan,
		irc.ERR_NOTREGISTERED:  handleNotRegistered,
		irc.ERROR:              handleError,

		irc.RPL_CREATED:       handlePlainInfo(dispatch.OnRplCreated),
		irc.RPL_YOURHOST:      handlePlainInfo(dispatch.OnRplYourhost),
		irc.RPL_BOUNCE:        handlePlainInfo(dispatch.OnRplBounce),
		irc.RPL_LUSERCLIENT:   handlePlainInfo(dispatch.OnRplLuserclient),
		irc.RPL_LUSEROP:       handlePlainInfo(dispatch.OnRplLuserop),
		irc.RPL_LUSERCHANNELS: handlePlainInfo(dispatch.OnRplLuserchannels),
		irc.RPL_LUSERME:       handlePlainInfo(dispatch.OnRplLuserme),

		irc.RPL_MYINFO: handleMyInfo,
	}
}

// sameNick compares nicks the way IRC casemapping requires: case
// insensitively (girclib/irc.py's `ascii(a).lower() == ascii(b).lower()`
// self-detection idiom, used throughout JOIN/PART/QUIT/NICK/KICK/ban
// handling).
func sameNick(a, b string) bool {
	return strings.EqualFold(a, b)
}

func handleUnknown(s *Session, msg *irc.Message) {
	s.logger.WithField("command", msg.Command).Debug("session: no handler, dropping")
}

// --- transport-level keepalive ---

func handlePing(s *Session, msg *irc.Message) {
	s.writeLine(irc.Encode(irc.PONG, msg.Params...))
}

// --- membership ---

func handleJoin(s *Session, msg *irc.Message) {
	channel := msg.Target()
	who := msg.Nick()
	s.mu.Lock()
	isSelf := sameNick(who, s.currentNick)
	s.mu.Unlock()
	if isSelf {
		s.bus.Signal(dispatch.OnJoined).Send(s.handlerID, &JoinedEvent{Emitter: s.emitter(), Channel: channel})
		return
	}
	s.bus.Signal(dispatch.OnUserJoined).Send(s.handlerID, &UserJoinedEvent{
		Emitter: s.emitter(), Channel: channel, User: irc.ParseUser(msg.Prefix),
	})
}

func handlePart(s *Session, msg *irc.Message) {
	channel := msg.Target()
	who := msg.Nick()
	reason := msg.Trailing()
	if len(msg.Params) < 2 {
		reason = ""
	}
	s.mu.Lock()
	isSelf := sameNick(who, s.currentNick)
	s.mu.Unlock()
	if isSelf {
		s.bus.Signal(dispatch.OnLeft).Send(s.handlerID, &LeftEvent{Emitter: s.emitter(), Channel: channel, Reason: reason})
		return
	}
	s.bus.Signal(dispatch.OnUserLeft).Send(s.handlerID, &UserLeftEvent{
		Emitter: s.emitter(), Channel: channel, User: irc.ParseUser(msg.Prefix), Reason: reason,
	})
}

func handleQuit(s *Session, msg *irc.Message) {
	who := msg.Nick()
	reason := msg.Trailing()
	s.mu.Lock()
	isSelf := sameNick(who, s.currentNick)
	s.mu.Unlock()
	if isSelf {
		s.bus.Signal(dispatch.OnQuited).Send(s.handlerID, &QuitedEvent{Emitter: s.emitter()})
		return
	}
	s.bus.Signal(dispatch.OnUserQuit).Send(s.handlerID, &UserQuitEvent{
		Emitter: s.emitter(), User: irc.ParseUser(msg.Prefix), Reason: reason,
	})
}

func handleNick(s *Session, msg *irc.Message) {
	who := msg.Nick()
	newNick := msg.Target()
	if newNick == "" {
		newNick = msg.Trailing()
	}
	user := irc.ParseUser(msg.Prefix)

	s.mu.Lock()
	isSelf := sameNick(who, s.currentNick)
	if isSelf {
		s.currentNick = newNick
	}
	s.mu.Unlock()

	if isSelf {
		s.bus.Signal(dispatch.OnNickChanged).Send(s.handlerID, &NickChangedEvent{
			Emitter: s.emitter(), User: user, NewNick: newNick,
		})
		return
	}
	s.bus.Signal(dispatch.OnUserRenamed).Send(s.handlerID, &UserRenamedEvent{
		Emitter: s.emitter(), User: user, NewNick: newNick,
	})
}

func handleKick(s *Session, msg *irc.Message) {
	if len(msg.Params) < 2 {
		return
	}
	channel, who := msg.Params[0], msg.Params[1]
	reason := msg.Trailing()
	by := irc.ParseUser(msg.Prefix)

	s.mu.Lock()
	isSelf := sameNick(who, s.currentNick)
	s.mu.Unlock()
	if isSelf {
		s.bus.Signal(dispatch.OnKicked).Send(s.handlerID, &KickedEvent{Emitter: s.emitter(), Channel: channel, By: by, Reason: reason})
		return
	}
	s.bus.Signal(dispatch.OnUserKicked).Send(s.handlerID, &UserKickedEvent{
		Emitter: s.emitter(), Channel: channel, Who: who, By: by, Reason: reason,
	})
}

func handleBannedFromChan(s *Session, msg *irc.Message) {
	if len(msg.Params) < 2 {
		return
	}
	who := msg.Params[0]
	channel := msg.Params[1]

	s.mu.Lock()
	isSelf := sameNick(who, s.currentNick)
	s.mu.Unlock()
	if isSelf {
		s.bus.Signal(dispatch.OnBanned).Send(s.handlerID, &BannedEvent{Emitter: s.emitter(), Channel: channel})
		return
	}
	s.bus.Signal(dispatch.OnUserBanned).Send(s.handlerID, &UserBannedEvent{
		Emitter: s.emitter(), Channel: channel, Who: who,
	})
}

// --- modes ---

func handleMode(s *Session, msg *irc.Message) {
	if len(msg.Params) < 2 {
		return
	}
	target := msg.Params[0]
	modes := msg.Params[1]
	args := msg.Params[2:]
	by := irc.ParseUser(msg.Prefix)

	var pm irc.ParamModes
	if irc.IsChannel(target, "") {
		pm = s.Store().SetParamModes()
	}

	added, removed, err := irc.ParseModes(modes, args, pm)
	if err != nil {
		s.logger.WithError(err).WithField("modes", modes).Warn("session: dropping unparseable MODE line")
		return
	}
	for _, c := range added {
		s.bus.Signal(dispatch.OnModeChanged).Send(s.handlerID, &ModeChangedEvent{
			Emitter: s.emitter(), Channel: target, By: by, Set: true,
			Modes: string(c.Letter), Args: argList(c),
		})
	}
	for _, c := range removed {
		s.bus.Signal(dispatch.OnModeChanged).Send(s.handlerID, &ModeChangedEvent{
			Emitter: s.emitter(), Channel: target, By: by, Set: false,
			Modes: string(c.Letter), Args: argList(c),
		})
	}
}

func argList(c irc.ModeChange) []string {
	if !c.HasArg {
		return nil
	}
	return []string{c.Arg}
}

// --- messaging + CTCP ---

func handlePrivmsgOrNotice(s *Session, msg *irc.Message) {
	if len(msg.Params) < 2 {
		return
	}
	target := msg.Params[0]
	body := msg.Trailing()
	user := irc.ParseUser(msg.Prefix)

	if msg.IsCTCP() {
		dispatchCTCP(s, msg.Command, target, user, body)
		return
	}

	if msg.Command == irc.NOTICE {
		channel := ""
		if irc.IsChannel(target, "") {
			channel = target
		}
		s.bus.Signal(dispatch.OnNotice).Send(s.handlerID, &NoticeEvent{
			Emitter: s.emitter(), User: user, Channel: channel, Message: body,
		})
		return
	}

	if irc.IsChannel(target, "") {
		s.bus.Signal(dispatch.OnChanmsg).Send(s.handlerID, &ChanmsgEvent{
			Emitter: s.emitter(), Channel: target, User: user, Message: body,
		})
		return
	}
	s.bus.Signal(dispatch.OnPrivmsg).Send(s.handlerID, &PrivmsgEvent{
		Emitter: s.emitter(), User: user, Message: body,
	})
}

// --- topic ---

func handleTopicSet(s *Session, msg *irc.Message) {
	if len(msg.Params) < 2 {
		return
	}
	s.bus.Signal(dispatch.OnTopicChanged).Send(s.handlerID, &TopicChangedEvent{
		Emitter: s.emitter(), Channel: msg.Params[0], By: irc.ParseUser(msg.Prefix), Topic: msg.Trailing(),
	})
}

func handleRplTopic(s *Session, msg *irc.Message) {
	if len(msg.Params) < 2 {
		return
	}
	s.bus.Signal(dispatch.OnRplTopic).Send(s.handlerID, &TopicChangedEvent{
		Emitter: s.emitter(), Channel: msg.Params[1], Topic: msg.Trailing(),
	})
}

func handleRplNotopic(s *Session, msg *irc.Message) {
	if len(msg.Params) < 2 {
		return
	}
	s.bus.Signal(dispatch.OnRplNotopic).Send(s.handlerID, &TopicChangedEvent{
		Emitter: s.emitter(), Channel: msg.Params[1], Topic: "",
	})
}

// --- MOTD ---

func handleMotdStart(s *Session, msg *irc.Message) {
	s.mu.Lock()
	s.motd.start()
	s.mu.Unlock()
}

func handleMotdLine(s *Session, msg *irc.Message) {
	s.mu.Lock()
	s.motd.add(msg.Trailing())
	s.mu.Unlock()
}

func handleMotdEnd(s *Session, msg *irc.Message) {
	s.mu.Lock()
	lines := s.motd.end()
	s.mu.Unlock()
	s.bus.Signal(dispatch.OnMOTD).Send(s.handlerID, &MOTDEvent{Emitter: s.emitter(), Lines: lines})
}

// --- NAMES / LIST ---

func handleNamreply(s *Session, msg *irc.Message) {
	if len(msg.Params) < 3 {
		return
	}
	channel := msg.Params[len(msg.Params)-2]
	names := strings.Fields(msg.Trailing())
	s.bus.Signal(dispatch.OnRplNamreply).Send(s.handlerID, &NamreplyEvent{Emitter: s.emitter(), Channel: channel, Names: names})
}

func handleEndOfNames(s *Session, msg *irc.Message) {
	if len(msg.Params) < 2 {
		return
	}
	s.bus.Signal(dispatch.OnRplEndofnames).Send(s.handlerID, &EndOfNamesEvent{Emitter: s.emitter(), Channel: msg.Params[1]})
}

func handleRplList(s *Session, msg *irc.Message) {
	if len(msg.Params) < 3 {
		return
	}
	visible, _ := strconv.Atoi(msg.Params[2])
	s.bus.Signal(dispatch.OnRplList).Send(s.handlerID, &ListEvent{
		Emitter: s.emitter(), Channel: msg.Params[1], Visible: visible, Topic: msg.Trailing(),
	})
}

func handleRplListEnd(s *Session, msg *irc.Message) {
	s.bus.Signal(dispatch.OnRplListend).Send(s.handlerID, &ListEndEvent{Emitter: s.emitter()})
}

// --- server info ---

func handlePlainInfo(signal string) handlerFunc {
	return func(s *Session, msg *irc.Message) {
		s.bus.Signal(signal).Send(s.handlerID, &PlainInfoEvent{Emitter: s.emitter(), Info: msg.Trailing()})
	}
}

func handleMyInfo(s *Session, msg *irc.Message) {
	ev := &MyInfoEvent{Emitter: s.emitter()}
	if len(msg.Params) > 1 {
		ev.ServerName = msg.Params[1]
	}
	if len(msg.Params) > 2 {
		ev.Version = msg.Params[2]
	}
	if len(msg.Params) > 3 {
		ev.UserModes = msg.Params[3]
	}
	if len(msg.Params) > 4 {
		ev.ChanModes = msg.Params[4]
	}
	s.bus.Signal(dispatch.OnRplMyinfo).Send(s.handlerID, ev)
}

func handleNotRegistered(s *Session, msg *irc.Message) {
	s.logger.WithField("command", msg.Command).Warn("session: server reports ERR_NOTREGISTERED")
}
