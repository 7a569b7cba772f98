package irc

import "bytes"

// Framer accumulates bytes from a transport and splits them into
// complete, CR-stripped lines on LF. It is transport-agnostic: callers
// feed it whatever chunks arrive and drain completed lines after each
// Feed call.
//
// A line (excluding its terminator) longer than MaxCommandLength with no
// LF in sight is a protocol violation (spec.md §4.A); Feed surfaces it as
// a *BadMessage instead of buffering forever.
type Framer struct {
	buf bytes.Buffer
}

// Feed appends chunk to the internal buffer and returns every complete
// line found (CR trimmed, LF excluded), in arrival order. The trailing,
// possibly-incomplete fragment is retained for the next call.
func (f *Framer) Feed(chunk []byte) ([]string, error) {
	f.buf.Write(chunk)

	var lines []string
	for {
		data := f.buf.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			if f.buf.Len() > MaxCommandLength {
				f.buf.Reset()
				return lines, &BadMessage{Reason: "line exceeds max command length with no terminator"}
			}
			break
		}
		line := data[:idx]
		line = bytes.TrimSuffix(line, []byte{'\r'})
		lines = append(lines, string(line))
		f.buf.Next(idx + 1)
	}
	return lines, nil
}

// Reset discards any buffered partial line.
func (f *Framer) Reset() {
	f.buf.Reset()
}
