package session

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeWriter is a concurrency-safe in-memory Writer, standing in for a
// real socket the way the teacher's bot tests stand in for net.Conn
// with hand-rolled fakes (bot/server_test.go).
type fakeWriter struct {
	mu    sync.Mutex
	lines []string
}

func (w *fakeWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines = append(w.lines, string(p))
	return len(p), nil
}

func (w *fakeWriter) all() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.lines))
	copy(out, w.lines)
	return out
}

func newTestSession() (*Session, *fakeWriter) {
	w := &fakeWriter{}
	s := New(w, NewOptions("tester"))
	return s, w
}

func feedLines(s *Session, lines ...string) {
	s.Feed([]byte(bytes.Join(stringsToBytes(lines), nil)))
}

func stringsToBytes(lines []string) [][]byte {
	out := make([][]byte, len(lines))
	for i, l := range lines {
		out[i] = []byte(l + "\r\n")
	}
	return out
}

func TestRegister_SendsPassNickUser(t *testing.T) {
	s, w := newTestSession()
	s.opts.RegistrationDelay = 0
	s.opts.Password = "secret"

	s.Register()

	lines := w.all()
	require.Len(t, lines, 3)
	require.Equal(t, "PASS secret\r\n", lines[0])
	require.Equal(t, "NICK tester\r\n", lines[1])
	require.Contains(t, lines[2], "USER tester")
}

func TestWelcome_MarksRegisteredAndEmitsSignedOn(t *testing.T) {
	s, _ := newTestSession()
	var signedOn bool
	s.Bus().Signal("on-signed-on").Connect("t", "", func(sender string, payload any) {
		signedOn = true
	}, true)

	feedLines(s, ":irc.example.org 001 tester :Welcome to the network")

	require.True(t, s.IsRegistered())
	require.Equal(t, "tester", s.CurrentNick())
	require.True(t, signedOn)
}

func TestNicknameInUse_TriesAltnick(t *testing.T) {
	s, w := newTestSession()
	s.opts.Altnick = "tester2"

	feedLines(s, ":irc.example.org 433 * tester :Nickname is already in use.")

	lines := w.all()
	require.Contains(t, lines, "NICK tester2\r\n")
}

func TestISupportLatch_FiresOnceBeforeNextCommand(t *testing.T) {
	s, _ := newTestSession()
	var fired int
	var gotChanTypes string
	s.Bus().Signal("on-rpl-isupport").Connect("t", "", func(sender string, payload any) {
		fired++
		gotChanTypes = payload.(*ISupportEvent).Store.ChanTypes()
	}, true)

	feedLines(s,
		":irc.example.org 005 tester CHANTYPES=# NICKLEN=30 :are supported by this server",
		":irc.example.org 005 tester PREFIX=(ov)@+ :are supported by this server",
		":irc.example.org 001 tester :Welcome",
	)

	require.Equal(t, 1, fired)
	require.Equal(t, "#", gotChanTypes)
}

func TestPrivmsg_ChannelVsDirect(t *testing.T) {
	s, _ := newTestSession()
	var chanMsg, privMsg int
	s.Bus().Signal("on-chanmsg").Connect("c", "", func(sender string, payload any) { chanMsg++ }, true)
	s.Bus().Signal("on-privmsg").Connect("p", "", func(sender string, payload any) { privMsg++ }, true)

	feedLines(s,
		":alice!a@host PRIVMSG #room :hello room",
		":alice!a@host PRIVMSG tester :hello you",
	)

	require.Equal(t, 1, chanMsg)
	require.Equal(t, 1, privMsg)
}

func TestCTCPAction_EmitsActionEvent(t *testing.T) {
	s, _ := newTestSession()
	var got *ActionEvent
	s.Bus().Signal("on-action").Connect("a", "", func(sender string, payload any) {
		got = payload.(*ActionEvent)
	}, true)

	feedLines(s, ":alice!a@host PRIVMSG #room :\x01ACTION waves\x01")

	require.NotNil(t, got)
	require.Equal(t, "waves", got.Data)
	require.Equal(t, "#room", got.Channel)
}

func TestMode_ChannelUsesNegotiatedParamModes(t *testing.T) {
	s, _ := newTestSession()
	feedLines(s, ":irc.example.org 005 tester CHANMODES=b,k,l,imnpst PREFIX=(ov)@+ :are supported by this server")
	// release the latch with a throwaway command
	feedLines(s, ":irc.example.org 372 tester :-")

	var changes []*ModeChangedEvent
	s.Bus().Signal("on-mode-changed").Connect("m", "", func(sender string, payload any) {
		changes = append(changes, payload.(*ModeChangedEvent))
	}, true)

	feedLines(s, ":op!o@host MODE #room +ov alice bob")

	require.Len(t, changes, 2)
	require.Equal(t, "o", changes[0].Modes)
	require.Equal(t, []string{"alice"}, changes[0].Args)
	require.Equal(t, "v", changes[1].Modes)
	require.Equal(t, []string{"bob"}, changes[1].Args)
}

func TestPing_PongAutoReply(t *testing.T) {
	s, w := newTestSession()
	feedLines(s, "PING :abc123")
	require.Contains(t, w.all(), "PONG abc123\r\n")
}

func TestCTCPPing_RoundTrip(t *testing.T) {
	s, w := newTestSession()
	key, err := s.Ping("bob")
	require.NoError(t, err)

	var pong *PongEvent
	s.Bus().Signal("on-pong").Connect("p", "", func(sender string, payload any) {
		pong = payload.(*PongEvent)
	}, true)

	feedLines(s, ":bob!b@host NOTICE tester :\x01PING "+key+"\x01")

	require.NotNil(t, pong)
	require.Contains(t, w.all()[0], "PRIVMSG bob")
}

func TestMsg_SplitsLongLines(t *testing.T) {
	s, w := newTestSession()
	long := ""
	for i := 0; i < 40; i++ {
		long += "word "
	}
	require.NoError(t, s.Msg("#room", 40, long))

	lines := w.all()
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		require.LessOrEqual(t, len(l), 40)
		require.Contains(t, l, "PRIVMSG #room :")
	}
}

func TestMsg_RejectsTooSmallLength(t *testing.T) {
	s, _ := newTestSession()
	err := s.Msg("#room", 5, "hi")
	require.Error(t, err)
	var invalid *InvalidArgument
	require.ErrorAs(t, err, &invalid)
}

func TestKick_SelfDetectionIsCaseInsensitive(t *testing.T) {
	s, _ := newTestSession()
	s.currentNick = "nick"

	var kicked *KickedEvent
	var userKicked *UserKickedEvent
	s.Bus().Signal("on-kicked").Connect("k", "", func(sender string, payload any) {
		kicked = payload.(*KickedEvent)
	}, true)
	s.Bus().Signal("on-user-kicked").Connect("u", "", func(sender string, payload any) {
		userKicked = payload.(*UserKickedEvent)
	}, true)

	feedLines(s, ":op!o@host KICK #c NiCk :bye")

	require.NotNil(t, kicked)
	require.Nil(t, userKicked)
	require.Equal(t, "#c", kicked.Channel)
	require.Equal(t, "bye", kicked.Reason)
}

func TestKick_OtherNickEmitsUserKicked(t *testing.T) {
	s, _ := newTestSession()
	s.currentNick = "nick"

	var kicked *KickedEvent
	var userKicked *UserKickedEvent
	s.Bus().Signal("on-kicked").Connect("k", "", func(sender string, payload any) {
		kicked = payload.(*KickedEvent)
	}, true)
	s.Bus().Signal("on-user-kicked").Connect("u", "", func(sender string, payload any) {
		userKicked = payload.(*UserKickedEvent)
	}, true)

	feedLines(s, ":op!o@host KICK #c bob :bye")

	require.Nil(t, kicked)
	require.NotNil(t, userKicked)
	require.Equal(t, "bob", userKicked.Who)
}

func TestBannedFromChan_SelfEmitsBanned(t *testing.T) {
	s, _ := newTestSession()
	s.currentNick = "nick"

	var banned *BannedEvent
	var userBanned *UserBannedEvent
	s.Bus().Signal("on-banned").Connect("b", "", func(sender string, payload any) {
		banned = payload.(*BannedEvent)
	}, true)
	s.Bus().Signal("on-user-banned").Connect("ub", "", func(sender string, payload any) {
		userBanned = payload.(*UserBannedEvent)
	}, true)

	feedLines(s, ":irc.example.org 474 nick #c :Cannot join channel (+b)")

	require.NotNil(t, banned)
	require.Nil(t, userBanned)
	require.Equal(t, "#c", banned.Channel)
}

func TestBannedFromChan_OtherNickEmitsUserBanned(t *testing.T) {
	s, _ := newTestSession()
	s.currentNick = "nick"

	var banned *BannedEvent
	var userBanned *UserBannedEvent
	s.Bus().Signal("on-banned").Connect("b", "", func(sender string, payload any) {
		banned = payload.(*BannedEvent)
	}, true)
	s.Bus().Signal("on-user-banned").Connect("ub", "", func(sender string, payload any) {
		userBanned = payload.(*UserBannedEvent)
	}, true)

	feedLines(s, ":irc.example.org 474 bob #c :Cannot join channel (+b)")

	require.Nil(t, banned)
	require.NotNil(t, userBanned)
	require.Equal(t, "bob", userBanned.Who)
	require.Equal(t, "#c", userBanned.Channel)
}

func TestCTCPQuery_UnknownTagRepliesERRMSG(t *testing.T) {
	s, w := newTestSession()
	feedLines(s, ":alice!a@host PRIVMSG tester :\x01FOO bar\x01")

	lines := w.all()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "NOTICE alice :\x01ERRMSG FOO :unknown query\x01")
}

func TestJoin_PrependsChannelPrefixAndSendsKey(t *testing.T) {
	s, w := newTestSession()
	require.NoError(t, s.Join("room", "secret"))
	require.Equal(t, []string{"JOIN #room secret\r\n"}, w.all())
}

func TestJoin_LeavesExistingPrefixAlone(t *testing.T) {
	s, w := newTestSession()
	require.NoError(t, s.Join("#room", ""))
	require.Equal(t, []string{"JOIN #room\r\n"}, w.all())
}

func TestSay_PrependsChannelPrefix(t *testing.T) {
	s, w := newTestSession()
	require.NoError(t, s.Say("room", "hi"))
	require.Equal(t, []string{"PRIVMSG #room :hi\r\n"}, w.all())
}
