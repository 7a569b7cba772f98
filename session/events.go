package session

import "github.com/wirerelay/ircengine/irc"

// Every event payload embeds Emitter, identifying which Session produced
// it — spec.md §6: "every payload includes emitter identifying the
// session."
type Emitter struct {
	Session *Session
}

type ConnectedEvent struct{ Emitter }
type DisconnectedEvent struct{ Emitter }
type QuitedEvent struct{ Emitter }
type SignedOnEvent struct{ Emitter }

type PrivmsgEvent struct {
	Emitter
	User    irc.User
	Message string
}

type ChanmsgEvent struct {
	Emitter
	Channel string
	User    irc.User
	Message string
}

type NoticeEvent struct {
	Emitter
	User    irc.User
	Channel string // empty when the notice targeted us directly
	Message string
}

type ActionEvent struct {
	Emitter
	Channel string
	User    irc.User
	Data    string
}

type JoinedEvent struct {
	Emitter
	Channel string
}

type UserJoinedEvent struct {
	Emitter
	Channel string
	User    irc.User
}

type LeftEvent struct {
	Emitter
	Channel string
	Reason  string
}

type UserLeftEvent struct {
	Emitter
	Channel string
	User    irc.User
	Reason  string
}

type UserQuitEvent struct {
	Emitter
	User    irc.User
	Reason  string
}

// NickChangedEvent fires when our own nick changes. spec.md §9 flags a
// divergent teacher signature across revisions (nickname vs user/
// newnick); we pick: the full prior User (nick/user/host as last known)
// plus the new nick string.
type NickChangedEvent struct {
	Emitter
	User    irc.User
	NewNick string
}

// UserRenamedEvent is NickChangedEvent's sibling for other users,
// carrying the same two fields for symmetry.
type UserRenamedEvent struct {
	Emitter
	User    irc.User
	NewNick string
}

type KickedEvent struct {
	Emitter
	Channel string
	By      irc.User
	Reason  string
}

type UserKickedEvent struct {
	Emitter
	Channel string
	Who     string
	By      irc.User
	Reason  string
}

type BannedEvent struct {
	Emitter
	Channel string
}

type UserBannedEvent struct {
	Emitter
	Channel string
	Who     string
}

type ModeChangedEvent struct {
	Emitter
	Channel string
	By      irc.User
	Set     bool
	Modes   string
	Args    []string
}

type TopicChangedEvent struct {
	Emitter
	Channel string
	By      irc.User
	Topic   string
}

type MOTDEvent struct {
	Emitter
	Lines []string
}

type PlainInfoEvent struct {
	Emitter
	Info string
}

type MyInfoEvent struct {
	Emitter
	ServerName string
	Version    string
	UserModes  string
	ChanModes  string
}

type ISupportEvent struct {
	Emitter
	Options []string
	Store   *irc.Store
}

type NamreplyEvent struct {
	Emitter
	Channel string
	Names   []string
}

type EndOfNamesEvent struct {
	Emitter
	Channel string
}

type ListEvent struct {
	Emitter
	Channel string
	Visible int
	Topic   string
}

type ListEndEvent struct{ Emitter }

type NicknameInUseEvent struct {
	Emitter
	AttemptedNick string
}

type ErroneousNicknameEvent struct {
	Emitter
	AttemptedNick string
}

type PasswordMismatchEvent struct{ Emitter }

type CTCPQueryEvent struct {
	Emitter
	User    irc.User
	Channel string
	Data    string
}

type PongEvent struct {
	Emitter
	User irc.User
	Secs float64
}
