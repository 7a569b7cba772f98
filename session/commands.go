package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/wirerelay/ircengine/dispatch"
	"github.com/wirerelay/ircengine/irc"
)

// defaultSplitBackward bounds how far Msg looks backward from a chunk
// boundary for a space to split on, so long messages break on word
// boundaries rather than mid-word (teacher's SPLIT_BACKWARD, common.go).
const defaultSplitBackward = 20

// ensureChannelPrefix prepends '#' to name if it doesn't already carry a
// recognized channel-type prefix (girclib/irc.py:1230-1245's join/say,
// which default an unprefixed name to a "#" channel).
func ensureChannelPrefix(name string) string {
	if name == "" || irc.IsChannel(name, "") {
		return name
	}
	return "#" + name
}

// Join sends a JOIN for channel, prepending '#' if it lacks a channel-type
// prefix, with an optional key (spec.md §4.G's `join(chan, key?)`).
func (s *Session) Join(channel, key string) error {
	channel = ensureChannelPrefix(channel)
	if key == "" {
		return s.writeLine(irc.Encode(irc.JOIN, channel))
	}
	return s.writeLine(irc.Encode(irc.JOIN, channel, key))
}

// Part leaves one or more channels, optionally with a reason.
func (s *Session) Part(reason string, channels ...string) error {
	if len(channels) == 0 {
		return nil
	}
	if reason == "" {
		return s.writeLine(irc.Encode(irc.PART, strings.Join(channels, ",")))
	}
	return s.writeLine(irc.Encode(irc.PART, strings.Join(channels, ","), ":"+reason))
}

// Kick removes who from channel, optionally with a reason.
func (s *Session) Kick(channel, who, reason string) error {
	if reason == "" {
		return s.writeLine(irc.Encode(irc.KICK, channel, who))
	}
	return s.writeLine(irc.Encode(irc.KICK, channel, who, ":"+reason))
}

// Topic requests (empty topic) or sets a channel's topic.
func (s *Session) Topic(channel, topic string) error {
	if topic == "" {
		return s.writeLine(irc.Encode(irc.TOPIC, channel))
	}
	return s.writeLine(irc.Encode(irc.TOPIC, channel, ":"+topic))
}

// Mode sends a raw MODE change: Mode("#chan", "+o", "nick").
func (s *Session) Mode(target, modes string, args ...string) error {
	params := append([]string{target, modes}, args...)
	return s.writeLine(irc.Encode(irc.MODE, params...))
}

// Say sends a PRIVMSG, splitting across multiple lines at length if the
// text doesn't fit in one (spec.md §4.G, generalizing the teacher's
// splitSend with an explicit length rather than the hardcoded
// IRC_MAX_LENGTH).
func (s *Session) Say(target, text string) error {
	return s.Msg(ensureChannelPrefix(target), irc.MaxCommandLength-2, text)
}

// Msg is Say with an explicit maximum wire-line length (CRLF included).
// length must leave room for the "PRIVMSG <target> :" header and the
// trailing CRLF; InvalidArgument is returned otherwise.
func (s *Session) Msg(target string, length int, text string) error {
	header := []byte(irc.PRIVMSG + " " + target + " :")
	return s.splitSend(header, []byte(text), length)
}

// Notice is Msg's NOTICE counterpart.
func (s *Session) Notice(target, text string) error {
	header := []byte(irc.NOTICE + " " + target + " :")
	return s.splitSend(header, []byte(text), irc.MaxCommandLength-2)
}

// splitSend breaks msg into chunks of at most length-len(header)-2 bytes
// (room for CRLF), looking up to defaultSplitBackward bytes back for a
// space to avoid splitting mid-word. Grounded on the teacher's
// irc/common.go:Helper.splitSend, generalized to a caller-chosen length.
func (s *Session) splitSend(header, msg []byte, length int) error {
	lnh := len(header)
	msgMax := length - lnh - 2
	if msgMax <= 0 {
		return &InvalidArgument{Op: "Msg", Reason: "length leaves no room for the header and CRLF"}
	}

	ln := len(msg)
	if ln <= msgMax {
		return s.writeLine(append(append(append([]byte{}, header...), msg...), '\r', '\n'))
	}

	for ln > 0 {
		nextOffset := 0
		size := msgMax
		if ln <= msgMax {
			size = ln
		} else {
			for i := msgMax; i != 0 && i > msgMax-defaultSplitBackward; i-- {
				if msg[i] == ' ' {
					size = i
					nextOffset = 1
					break
				}
			}
		}
		line := append(append(append([]byte{}, header...), msg[:size]...), '\r', '\n')
		if err := s.writeLine(line); err != nil {
			return err
		}
		msg = msg[size+nextOffset:]
		ln = len(msg)
	}
	return nil
}

// Away marks the session away with the given message (empty clears it,
// equivalent to Back).
func (s *Session) Away(message string) error {
	if message == "" {
		return s.writeLine(irc.Encode(irc.AWAY))
	}
	return s.writeLine(irc.Encode(irc.AWAY, ":"+message))
}

// Back clears an away status.
func (s *Session) Back() error { return s.Away("") }

// Whois queries information about nick.
func (s *Session) Whois(nick string) error {
	return s.writeLine(irc.Encode(irc.WHOIS, nick))
}

// List requests the channel list, optionally filtered to the given
// channels.
func (s *Session) List(channels ...string) error {
	if len(channels) == 0 {
		return s.writeLine(irc.Encode(irc.LIST))
	}
	return s.writeLine(irc.Encode(irc.LIST, strings.Join(channels, ",")))
}

// SetNick requests a nick change.
func (s *Session) SetNick(nick string) error {
	s.mu.Lock()
	if !s.registered {
		s.attemptedNick = nick
	}
	s.mu.Unlock()
	return s.writeLine(irc.Encode(irc.NICK, nick))
}

// Quit sends QUIT with an optional message, then emits quited; Disconnect
// wraps this with the transport teardown, so most callers want Disconnect
// instead.
func (s *Session) Quit(message string) error {
	var err error
	if message == "" {
		err = s.writeLine(irc.Encode(irc.QUIT))
	} else {
		err = s.writeLine(irc.Encode(irc.QUIT, ":"+message))
	}
	s.bus.Signal(dispatch.OnQuited).Send(s.handlerID, &QuitedEvent{Emitter: s.emitter()})
	return err
}

// Describe sends a CTCP ACTION ("/me does something") to target.
func (s *Session) Describe(target, action string) error {
	return s.writeLine(irc.Encode(irc.CTCP, target, ":"+irc.CTCPPack("ACTION", action)))
}

// Ping sends a CTCP PING to nick, recording the send time under a fresh
// opaque key so the eventual reply (handleCTCPReply) can compute a
// round-trip time. Returns the key in case the caller wants to log it.
func (s *Session) Ping(nick string) (string, error) {
	key := strconv.FormatInt(time.Now().UnixNano(), 36)
	s.mu.Lock()
	s.pings.record(nick, key, time.Now())
	s.mu.Unlock()
	return key, s.writeLine(irc.Encode(irc.CTCP, nick, ":"+irc.CTCPPack("PING", key)))
}
