package irc

import "strings"

// defaultPrefixSigils are the channel-status mode sigils recognized by
// ParseNetmask before any ISUPPORT PREFIX negotiation has happened.
const defaultPrefixSigils = "@+%"

// User is an immutable, parsed nick!user@host, optionally carrying a
// leading channel-status mode sigil (@, +, %, ...) as seen in NAMES
// replies.
type User struct {
	Nick string
	Mode byte // 0 if no sigil was present
	User string
	Host string
}

// ParseNetmask splits "[mode]nick[!user][@host]" into its parts using the
// default channel-status sigils (@, +, %). Any missing component is
// returned as an empty string; this never errors.
func ParseNetmask(mask string) (nick string, mode byte, user string, host string) {
	return ParseNetmaskWithSigils(mask, defaultPrefixSigils)
}

// ParseNetmaskWithSigils is ParseNetmask parameterized on the
// channel-status sigils currently negotiated via ISUPPORT PREFIX (see
// Store.PrefixSymbols), so a server advertising an unusual prefix set
// (e.g. "(qaohv)~&@%+") is still split correctly.
func ParseNetmaskWithSigils(mask, sigils string) (nick string, mode byte, user string, host string) {
	if len(mask) == 0 {
		return "", 0, "", ""
	}
	if sigils == "" {
		sigils = defaultPrefixSigils
	}

	rest := mask
	if strings.IndexByte(sigils, rest[0]) >= 0 {
		mode = rest[0]
		rest = rest[1:]
	}

	if at := strings.IndexByte(rest, '@'); at >= 0 {
		host = rest[at+1:]
		rest = rest[:at]
	}
	if bang := strings.IndexByte(rest, '!'); bang >= 0 {
		user = rest[bang+1:]
		rest = rest[:bang]
	}
	nick = rest
	return
}

// ParseUser is a convenience wrapper around ParseNetmask returning a User.
func ParseUser(mask string) User {
	n, m, u, h := ParseNetmask(mask)
	return User{Nick: n, Mode: m, User: u, Host: h}
}

// String renders the netmask back to wire form (without any mode
// sigil — sigils are contextual to a NAMES/WHO reply, not part of the
// identity itself).
func (u User) String() string {
	var b strings.Builder
	b.WriteString(u.Nick)
	if u.User != "" {
		b.WriteByte('!')
		b.WriteString(u.User)
	}
	if u.Host != "" {
		b.WriteByte('@')
		b.WriteString(u.Host)
	}
	return b.String()
}
