package session

import "errors"

// ErrUnhandledCommand is the sentinel for a decoded command that has
// neither a specific handler nor an `unknown` fallback. The dispatcher
// always falls back to handleUnknown, so nothing in this package returns
// it.
var ErrUnhandledCommand = errors.New("session: unhandled command")

// InvalidArgument is returned synchronously by command-surface calls
// whose arguments violate the operation's contract (spec.md §7), e.g.
// Msg with a length at or below the framing overhead.
type InvalidArgument struct {
	Op     string
	Reason string
}

func (e *InvalidArgument) Error() string {
	return "session: invalid argument to " + e.Op + ": " + e.Reason
}

// ProtocolError wraps a fatal server-indicated condition (ERROR,
// ERR_PASSWDMISMATCH) that causes state teardown.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "session: protocol error: " + e.Reason
}
