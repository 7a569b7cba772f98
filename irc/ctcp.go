package irc

import "strings"

// ctcpDelim is the CTCP extended-data delimiter, \x01.
const ctcpDelim = '\x01'

// CTCPTag pairs a CTCP tag with its optional data (Data empty and
// HasData false when the tag carried none, e.g. a bare "\x01VERSION\x01").
type CTCPTag struct {
	Tag  string
	Data string
	// HasData distinguishes a present-but-empty data string from no
	// data at all, mirroring the "data | None" shape in spec.md §4.B.
	HasData bool
}

// --- low-level (M-)quoting: NUL, NL, CR, and \x10 itself. ---

// LowQuote escapes NUL, NL, CR, and the escape byte itself so the
// payload survives a line-oriented transport.
func LowQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\x10':
			b.WriteByte('\x10')
			b.WriteByte('\x10')
		case '\x00':
			b.WriteByte('\x10')
			b.WriteByte('0')
		case '\n':
			b.WriteByte('\x10')
			b.WriteByte('n')
		case '\r':
			b.WriteByte('\x10')
			b.WriteByte('r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// LowDequote reverses LowQuote. Unknown escape suffixes are lenient:
// they dequote to themselves rather than raising an error.
func LowDequote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\x10' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			b.WriteByte(s[i])
			break
		}
		switch s[i+1] {
		case '\x10':
			b.WriteByte('\x10')
		case '0':
			b.WriteByte('\x00')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i+1])
		}
		i++
	}
	return b.String()
}

// --- X-level quoting: the CTCP delimiter and the escape character. ---

// Quote X-quotes s: escapes \x01 and backslash with a leading backslash.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ctcpDelim:
			b.WriteByte('\\')
			b.WriteByte('a')
		case '\\':
			b.WriteByte('\\')
			b.WriteByte('\\')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Dequote reverses Quote. Unknown escape suffixes dequote to themselves.
func Dequote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			b.WriteByte(s[i])
			break
		}
		switch s[i+1] {
		case 'a':
			b.WriteByte(ctcpDelim)
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(s[i+1])
		}
		i++
	}
	return b.String()
}

// Extraction holds the result of CTCPExtract: the normal-text segments
// and the extended (CTCP) tags found in a PRIVMSG/NOTICE payload.
type Extraction struct {
	Normal   []string
	Extended []CTCPTag
}

// CTCPExtract splits a low-dequoted payload on \x01. Segments at even
// index (0, 2, 4, ...) are normal text; odd-index segments are CTCP
// tags, each X-dequoted then split once on space into (tag, data).
// Empty segments are dropped.
func CTCPExtract(payload string) Extraction {
	var out Extraction
	segments := strings.Split(payload, string(ctcpDelim))
	for i, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if i%2 == 0 {
			out.Normal = append(out.Normal, seg)
			continue
		}
		seg = Dequote(seg)
		if sp := strings.IndexByte(seg, ' '); sp >= 0 {
			out.Extended = append(out.Extended, CTCPTag{Tag: seg[:sp], Data: seg[sp+1:], HasData: true})
		} else {
			out.Extended = append(out.Extended, CTCPTag{Tag: seg})
		}
	}
	return out
}

// CTCPStringify composes one or more CTCP tags into their wire form:
// "\x01TAG DATA\x01" (X-quoted), concatenated with no separator between
// messages.
func CTCPStringify(tags ...CTCPTag) string {
	var b strings.Builder
	for _, t := range tags {
		b.WriteByte(ctcpDelim)
		body := t.Tag
		if t.HasData {
			body += " " + t.Data
		}
		b.WriteString(Quote(body))
		b.WriteByte(ctcpDelim)
	}
	return b.String()
}

// CTCPPack builds a single "\x01TAG DATA\x01" message, the low-level
// primitive the command surface uses to build outbound CTCP queries and
// replies (teacher's CTCPpack).
func CTCPPack(tag, data string) string {
	if data == "" {
		return CTCPStringify(CTCPTag{Tag: tag})
	}
	return CTCPStringify(CTCPTag{Tag: tag, Data: data, HasData: true})
}
