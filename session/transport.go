package session

import "io"

// Reader yields the inbound byte stream from the IRC server. The session
// owns framing (via irc.Framer) on top of whatever chunking Read
// happens to produce; Reader itself is nothing more than an io.Reader,
// matching spec.md §9's "Polymorphism over transport" note — tests
// supply an in-memory fake (a bytes.Reader, or a gomock.Mock) in place
// of a real socket.
type Reader interface {
	io.Reader
}

// Writer accepts the outbound byte stream. Every complete line the
// command surface builds already ends in CRLF before it reaches Write.
type Writer interface {
	io.Writer
}

// Closer optionally torn down by Disconnect. Transports that don't need
// an explicit close (e.g. test fakes) may simply not implement it; a
// type assertion guards the call site.
type Closer interface {
	Close() error
}
