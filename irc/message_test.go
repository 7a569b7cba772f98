package irc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeLine_PrefixCommandParams(t *testing.T) {
	msg, err := DecodeLine(":alice!a@host PRIVMSG #room :hello there")
	require.NoError(t, err)
	require.Equal(t, "alice!a@host", msg.Prefix)
	require.Equal(t, PRIVMSG, msg.Command)
	require.Equal(t, []string{"#room", "hello there"}, msg.Params)
	require.Equal(t, "alice", msg.Nick())
	require.Equal(t, "#room", msg.Target())
	require.Equal(t, "hello there", msg.Trailing())
}

func TestDecodeLine_NoPrefix(t *testing.T) {
	msg, err := DecodeLine("PING :abc123")
	require.NoError(t, err)
	require.Empty(t, msg.Prefix)
	require.Equal(t, PING, msg.Command)
	require.Equal(t, []string{"abc123"}, msg.Params)
}

func TestDecodeLine_NumericTranslation(t *testing.T) {
	msg, err := DecodeLine(":irc.example.org 001 tester :Welcome")
	require.NoError(t, err)
	require.Equal(t, RPL_WELCOME, msg.Command)
}

func TestDecodeLine_UnknownNumericKeptVerbatim(t *testing.T) {
	msg, err := DecodeLine(":irc.example.org 999 tester :mystery")
	require.NoError(t, err)
	require.Equal(t, "999", msg.Command)
}

func TestDecodeLine_Errors(t *testing.T) {
	_, err := DecodeLine("")
	require.Error(t, err)

	_, err = DecodeLine(":onlyprefix")
	require.Error(t, err)
	var bad *BadMessage
	require.ErrorAs(t, err, &bad)
}

func TestEncode(t *testing.T) {
	line := Encode(PRIVMSG, "#room", ":hello")
	require.Equal(t, "PRIVMSG #room :hello\r\n", string(line))
}

func TestMessage_IsCTCP(t *testing.T) {
	msg, err := DecodeLine(":alice!a@host PRIVMSG tester :\x01VERSION\x01")
	require.NoError(t, err)
	require.True(t, msg.IsCTCP())

	plain, err := DecodeLine(":alice!a@host PRIVMSG tester :hello")
	require.NoError(t, err)
	require.False(t, plain.IsCTCP())
}
