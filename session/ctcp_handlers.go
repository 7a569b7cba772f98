package session

import (
	"time"

	"github.com/wirerelay/ircengine/dispatch"
	"github.com/wirerelay/ircengine/irc"
)

// ctcpHelp is the per-tag CLIENTINFO help text (spec.md §6's supplement,
// grounded on original_source/girclib/irc.py's ctcpQuery_CLIENTINFO
// hardcoded help strings).
var ctcpHelp = map[string]string{
	"ACTION":     "ACTION <text> :emotes <text>",
	"CLIENTINFO": "CLIENTINFO [<tag>] :lists supported CTCP tags, or gives help for one",
	"ERRMSG":     "ERRMSG <query> :echoes back an error for a bad query",
	"FINGER":     "FINGER :replies with a user-info string",
	"PING":       "PING <any text> :echoes back <any text>, for round-trip timing",
	"SOURCE":     "SOURCE :replies with where to get this client's source",
	"TIME":       "TIME :replies with the local time",
	"USERINFO":   "USERINFO :replies with a user-set description string",
	"VERSION":    "VERSION :replies with client name, version, and environment",
}

// dispatchCTCP low-dequotes a PRIVMSG or NOTICE body and fans it out to
// its (X-dequoted) extended-data tags, per spec.md §4.F.4. Queries
// (PRIVMSG) get an auto-reply where Options configures one; PING replies
// (NOTICE) are matched against the ping ledger, and other replies are
// logged and dropped.
func dispatchCTCP(s *Session, command, target string, user irc.User, body string) {
	ex := irc.CTCPExtract(irc.LowDequote(body))
	for _, tag := range ex.Extended {
		if command == irc.CTCP {
			handleCTCPQuery(s, target, user, tag)
		} else {
			handleCTCPReply(s, user, tag)
		}
	}
}

func handleCTCPQuery(s *Session, target string, user irc.User, tag irc.CTCPTag) {
	channel := ""
	if irc.IsChannel(target, "") {
		channel = target
	}

	switch tag.Tag {
	case "ACTION":
		s.bus.Signal(dispatch.OnAction).Send(s.handlerID, &ActionEvent{
			Emitter: s.emitter(), Channel: channel, User: user, Data: tag.Data,
		})
		return
	case "PING":
		s.bus.Signal(dispatch.OnCTCPQueryPing).Send(s.handlerID, ctcpQueryEvent(s, user, channel, tag))
		s.replyCTCP(user.Nick, irc.CTCPPack("PING", tag.Data))
		return
	case "VERSION":
		s.bus.Signal(dispatch.OnCTCPQueryVersion).Send(s.handlerID, ctcpQueryEvent(s, user, channel, tag))
		if s.opts.CTCPVersionReply != "" {
			s.replyCTCP(user.Nick, irc.CTCPPack("VERSION", s.opts.CTCPVersionReply))
		}
		return
	case "SOURCE":
		s.bus.Signal(dispatch.OnCTCPQuerySource).Send(s.handlerID, ctcpQueryEvent(s, user, channel, tag))
		if s.opts.CTCPSourceReply != "" {
			s.replyCTCP(user.Nick, irc.CTCPPack("SOURCE", s.opts.CTCPSourceReply))
		}
		return
	case "USERINFO":
		s.bus.Signal(dispatch.OnCTCPQueryUserinfo).Send(s.handlerID, ctcpQueryEvent(s, user, channel, tag))
		if s.opts.CTCPUserinfoReply != "" {
			s.replyCTCP(user.Nick, irc.CTCPPack("USERINFO", s.opts.CTCPUserinfoReply))
		}
		return
	case "FINGER":
		s.bus.Signal(dispatch.OnCTCPQueryFinger).Send(s.handlerID, ctcpQueryEvent(s, user, channel, tag))
		if s.opts.CTCPUserinfoReply != "" {
			s.replyCTCP(user.Nick, irc.CTCPPack("FINGER", s.opts.CTCPUserinfoReply))
		}
		return
	case "TIME":
		s.replyCTCP(user.Nick, irc.CTCPPack("TIME", time.Now().Format(time.RFC1123Z)))
		return
	case "CLIENTINFO":
		s.replyCTCP(user.Nick, irc.CTCPPack("CLIENTINFO", clientInfoReply(tag.Data)))
		return
	case "ERRMSG":
		s.replyCTCP(user.Nick, irc.CTCPPack("ERRMSG", tag.Data+" :no error"))
		return
	default:
		s.logger.WithField("tag", tag.Tag).Debug("session: unknown CTCP query tag")
		s.replyCTCP(user.Nick, irc.CTCPPack("ERRMSG", tag.Tag+" :unknown query"))
	}
}

// clientInfoReply answers CLIENTINFO either with the sorted tag list, or
// (when data names a specific tag) that tag's one-line help string.
func clientInfoReply(data string) string {
	if data != "" {
		if help, ok := ctcpHelp[data]; ok {
			return help
		}
		return data + " :unknown tag"
	}
	tags := make([]string, 0, len(ctcpHelp))
	for t := range ctcpHelp {
		tags = append(tags, t)
	}
	return joinSorted(tags)
}

func joinSorted(tags []string) string {
	for i := 1; i < len(tags); i++ {
		for j := i; j > 0 && tags[j-1] > tags[j]; j-- {
			tags[j-1], tags[j] = tags[j], tags[j-1]
		}
	}
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}

func ctcpQueryEvent(s *Session, user irc.User, channel string, tag irc.CTCPTag) *CTCPQueryEvent {
	return &CTCPQueryEvent{Emitter: s.emitter(), User: user, Channel: channel, Data: tag.Data}
}

func handleCTCPReply(s *Session, user irc.User, tag irc.CTCPTag) {
	if tag.Tag != "PING" {
		s.logger.WithField("tag", tag.Tag).Debug("session: unmatched CTCP reply")
		return
	}
	s.mu.Lock()
	sentAt, ok := s.pings.take(user.Nick, tag.Data)
	s.mu.Unlock()
	if !ok {
		s.logger.WithField("nick", user.Nick).Debug("session: unmatched CTCP PING reply")
		return
	}
	s.bus.Signal(dispatch.OnPong).Send(s.handlerID, &PongEvent{
		Emitter: s.emitter(), User: user, Secs: time.Since(sentAt).Seconds(),
	})
}

// replyCTCP sends a single CTCP reply NOTICE to nick.
func (s *Session) replyCTCP(nick, packed string) {
	s.writeLine(irc.Encode(irc.CTCPReply, nick, ":"+packed))
}
