package session

import "strings"

// motdBuffer accumulates RPL_MOTD lines between RPL_MOTDSTART and
// RPL_ENDOFMOTD (spec.md §3's "MOTD buffer").
type motdBuffer struct {
	active bool
	lines  []string
}

func (m *motdBuffer) start() {
	m.active = true
	m.lines = nil
}

func (m *motdBuffer) add(line string) {
	if !m.active {
		// Some servers skip RPL_MOTDSTART; tolerate it rather than
		// dropping the line.
		m.active = true
	}
	m.lines = append(m.lines, strings.TrimPrefix(line, "- "))
}

// end clears the buffer and returns the accumulated lines.
func (m *motdBuffer) end() []string {
	lines := m.lines
	m.active = false
	m.lines = nil
	return lines
}
