package dispatch

// Canonical kebab-case signal names, as catalogued in spec.md §6. The
// session package emits payload structs (also defined in session) under
// these names; application code connects receivers with Bus.Signal(name).
const (
	OnConnected    = "on-connected"
	OnDisconnected = "on-disconnected"
	OnQuited       = "on-quited"
	OnSignedOn     = "on-signed-on"

	OnPrivmsg = "on-privmsg"
	OnChanmsg = "on-chanmsg"
	OnNotice  = "on-notice"
	OnAction  = "on-action"

	OnJoined     = "on-joined"
	OnLeft       = "on-left"
	OnUserJoined = "on-user-joined"
	OnUserLeft   = "on-user-left"
	OnUserQuit   = "on-user-quit"

	OnNickChanged  = "on-nick-changed"
	OnUserRenamed  = "on-user-renamed"
	OnKicked       = "on-kicked"
	OnUserKicked   = "on-user-kicked"
	OnBanned       = "on-banned"
	OnUserBanned   = "on-user-banned"
	OnModeChanged  = "on-mode-changed"
	OnTopicChanged = "on-topic-changed"
	OnMOTD         = "on-motd"

	OnRplWelcome       = "on-rpl-welcome"
	OnRplCreated       = "on-rpl-created"
	OnRplYourhost      = "on-rpl-yourhost"
	OnRplMyinfo        = "on-rpl-myinfo"
	OnRplBounce        = "on-rpl-bounce"
	OnRplISupport      = "on-rpl-isupport"
	OnRplLuserclient   = "on-rpl-luserclient"
	OnRplLuserop       = "on-rpl-luserop"
	OnRplLuserchannels = "on-rpl-luserchannels"
	OnRplLuserme       = "on-rpl-luserme"
	OnRplTopic         = "on-rpl-topic"
	OnRplNotopic       = "on-rpl-notopic"
	OnRplNamreply      = "on-rpl-namreply"
	OnRplEndofnames    = "on-rpl-endofnames"
	OnRplList          = "on-rpl-list"
	OnRplListend       = "on-rpl-listend"

	OnNicknameInUse     = "on-nickname-in-use"
	OnErroneousNickname = "on-erroneous-nickname"
	OnPasswordMismatch  = "on-password-mismatch"

	OnCTCPQueryPing     = "on-ctcp-query-ping"
	OnCTCPQueryFinger   = "on-ctcp-query-finger"
	OnCTCPQueryVersion  = "on-ctcp-query-version"
	OnCTCPQuerySource   = "on-ctcp-query-source"
	OnCTCPQueryUserinfo = "on-ctcp-query-userinfo"
	OnPong              = "on-pong"
)
