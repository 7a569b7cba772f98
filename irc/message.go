package irc

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// MaxCommandLength is the maximum length of a single IRC line, including
// the trailing CRLF (RFC 2812 §2.3).
const MaxCommandLength = 512

// Message is a single parsed IRC line: an optional prefix, an uppercase
// (and, for numerics, already-translated) command, and an ordered
// parameter list. Only the final parameter may contain spaces.
type Message struct {
	// Prefix is the raw netmask or server name the line was sent from.
	// Empty when the line had no leading ":prefix".
	Prefix string
	// Command is the upper-cased symbolic command name. Numeric replies
	// are translated via the numerics table; unrecognized ones are kept
	// as their original 3-digit string.
	Command string
	// Params is every remaining token. A trailing ":"-prefixed token
	// absorbs the rest of the line (with the leading colon stripped) as
	// a single final element.
	Params []string
	// Time is when the message was parsed.
	Time time.Time
}

// NewMessage constructs a Message stamped with the current time, copying
// args defensively so later mutation by the caller can't alias it.
func NewMessage(command, prefix string, params ...string) *Message {
	var cp []string
	if len(params) > 0 {
		cp = make([]string, len(params))
		copy(cp, params)
	}
	return &Message{Command: command, Prefix: prefix, Params: cp, Time: time.Now().UTC()}
}

// Nick returns the nick portion of the message's Prefix (the part before
// any '!' or '@'). A server-name prefix such as "irc.example.org" is
// returned whole; an empty prefix gives "".
func (m *Message) Nick() string {
	n, _, _, _ := ParseNetmask(m.Prefix)
	return n
}

// Target returns the first parameter, the conventional recipient
// (channel or nick) for PRIVMSG/NOTICE/JOIN/PART/... Callers should check
// Command before relying on the positional convention.
func (m *Message) Target() string {
	if len(m.Params) == 0 {
		return ""
	}
	return m.Params[0]
}

// Trailing returns the message's last parameter, the conventional
// free-text body for PRIVMSG/NOTICE/TOPIC/QUIT/...
func (m *Message) Trailing() string {
	if len(m.Params) == 0 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}

// IsCTCP reports whether this is a PRIVMSG/NOTICE whose body is CTCP
// delimited (begins with \x01).
func (m *Message) IsCTCP() bool {
	if m.Command != PRIVMSG && m.Command != NOTICE {
		return false
	}
	if len(m.Params) < 2 {
		return false
	}
	body := m.Params[len(m.Params)-1]
	return len(body) > 0 && body[0] == ctcpDelim
}

// BadMessage is returned by DecodeLine when a line cannot be parsed at
// all (spec.md §7's BadMessage taxonomy entry).
type BadMessage struct {
	Line   string
	Reason string
}

func (e *BadMessage) Error() string {
	return "irc: bad message (" + e.Reason + "): " + strconv.Quote(e.Line)
}

// DecodeLine parses a single line (CR/LF already stripped) into a
// Message. See spec.md §4.A for the exact tokenization rules.
func DecodeLine(line string) (*Message, error) {
	if len(line) == 0 {
		return nil, &BadMessage{Line: line, Reason: "empty line"}
	}

	msg := &Message{Time: time.Now().UTC()}
	rest := line

	if rest[0] == ':' {
		sp := strings.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, &BadMessage{Line: line, Reason: "prefix with no command"}
		}
		msg.Prefix = rest[1:sp]
		rest = strings.TrimLeft(rest[sp+1:], " ")
	}
	if len(rest) == 0 {
		return nil, &BadMessage{Line: line, Reason: "no command"}
	}

	sp := strings.IndexByte(rest, ' ')
	var cmdToken string
	if sp < 0 {
		cmdToken, rest = rest, ""
	} else {
		cmdToken, rest = rest[:sp], strings.TrimLeft(rest[sp+1:], " ")
	}
	if len(cmdToken) == 0 {
		return nil, &BadMessage{Line: line, Reason: "empty command"}
	}

	msg.Command = resolveCommand(cmdToken)

	for len(rest) > 0 {
		if rest[0] == ':' {
			msg.Params = append(msg.Params, rest[1:])
			rest = ""
			break
		}
		sp = strings.IndexByte(rest, ' ')
		if sp < 0 {
			msg.Params = append(msg.Params, rest)
			rest = ""
			break
		}
		msg.Params = append(msg.Params, rest[:sp])
		rest = strings.TrimLeft(rest[sp+1:], " ")
	}

	return msg, nil
}

// resolveCommand upper-cases cmd and, if it is purely numeric, translates
// it through the numerics table. Unknown numerics are logged and kept.
func resolveCommand(cmd string) string {
	isNumeric := len(cmd) > 0
	for i := 0; i < len(cmd); i++ {
		if cmd[i] < '0' || cmd[i] > '9' {
			isNumeric = false
			break
		}
	}
	if !isNumeric {
		return strings.ToUpper(cmd)
	}
	if sym, ok := numerics[cmd]; ok {
		return sym
	}
	logrus.WithField("numeric", cmd).Debug("irc: unknown numeric reply")
	return cmd
}

// Encode formats an outbound line: command and the string args joined
// with single spaces, then CRLF-terminated. Args are written as given;
// a trailing parameter that may contain spaces must carry its own
// leading ':'. Encode never errors.
func Encode(command string, args ...string) []byte {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, command)
	parts = append(parts, args...)
	return []byte(strings.Join(parts, " ") + "\r\n")
}
