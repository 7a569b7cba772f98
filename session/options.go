package session

import "time"

// Options configures a Session's registration parameters and the few
// policy knobs spec.md §9 flags as Open Questions (the NICK/USER
// throttle delay, the ISUPPORT-latch fallback). It is a fluent builder,
// generalizing the teacher's config.Server chain
// (CreateConfig().Host(...).Port(...).Nick(...)) onto what the CORE
// engine itself needs rather than a multi-server bot's file format.
type Options struct {
	Nick       string
	Altnick    string
	Username   string
	Hostname   string
	Servername string
	Realname   string
	Password   string

	// RegistrationDelay is the gap between sending NICK and USER during
	// the handshake (spec.md §4.F.1: "emitted after short time offsets
	// (≈1-2s) to accommodate servers that race the welcome response").
	// Zero sends both immediately; implementations may always do so —
	// this is policy, not protocol.
	RegistrationDelay time.Duration

	// ISupportTimeout is a duration stored for embedders that run their
	// own timer around the ISUPPORT burst. Session does not read it: the
	// latch releases only on the first non-RPL_ISUPPORT command after a
	// burst, no timer trips it, and a server that never sends 005 never
	// produces rpl_isupport.
	ISupportTimeout time.Duration

	// CTCPVersionReply, CTCPSourceReply, CTCPUserinfoReply are the
	// strings (if any) this session replies with to CTCP
	// VERSION/SOURCE/USERINFO queries. Empty means "stay silent",
	// matching spec.md §4.F.4's defaults.
	CTCPVersionReply  string
	CTCPSourceReply   string
	CTCPUserinfoReply string

	// MaxConcurrentReceivers bounds the dispatch bus's fan-out pool; 0
	// selects dispatch.DefaultMaxConcurrentReceivers (500).
	MaxConcurrentReceivers int
}

// NewOptions returns an Options with sane defaults (UTF-8 is implicit:
// the core is byte-in/byte-out throughout, see SPEC_FULL.md §1) and a
// 1500ms registration delay, matching the teacher-adjacent convention of
// a short pause before USER to let slow ircds catch up.
func NewOptions(nick string) *Options {
	return &Options{
		Nick:              nick,
		Username:          nick,
		Realname:          nick,
		RegistrationDelay: 1500 * time.Millisecond,
	}
}

func (o *Options) WithAltnick(n string) *Options    { o.Altnick = n; return o }
func (o *Options) WithUsername(u string) *Options   { o.Username = u; return o }
func (o *Options) WithHostname(h string) *Options    { o.Hostname = h; return o }
func (o *Options) WithServername(s string) *Options { o.Servername = s; return o }
func (o *Options) WithRealname(r string) *Options   { o.Realname = r; return o }
func (o *Options) WithPassword(p string) *Options   { o.Password = p; return o }

func (o *Options) WithRegistrationDelay(d time.Duration) *Options {
	o.RegistrationDelay = d
	return o
}

func (o *Options) WithISupportTimeout(d time.Duration) *Options {
	o.ISupportTimeout = d
	return o
}

func (o *Options) WithCTCPReplies(version, source, userinfo string) *Options {
	o.CTCPVersionReply = version
	o.CTCPSourceReply = source
	o.CTCPUserinfoReply = userinfo
	return o
}

func (o *Options) WithMaxConcurrentReceivers(n int) *Options {
	o.MaxConcurrentReceivers = n
	return o
}
