package irc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLowQuoteDequote_RoundTrip(t *testing.T) {
	raw := "a\x00b\nc\rd\x10e"
	quoted := LowQuote(raw)
	require.NotContains(t, quoted, "\x00")
	require.Equal(t, raw, LowDequote(quoted))
}

func TestQuoteDequote_RoundTrip(t *testing.T) {
	raw := "tag \x01with\\stuff"
	quoted := Quote(raw)
	require.NotContains(t, quoted, "\x01")
	require.Equal(t, raw, Dequote(quoted))
}

func TestCTCPExtract_MixedNormalAndExtended(t *testing.T) {
	payload := "hello \x01ACTION waves\x01 world"
	ex := CTCPExtract(payload)

	require.Equal(t, []string{"hello ", " world"}, ex.Normal)
	require.Len(t, ex.Extended, 1)
	require.Equal(t, "ACTION", ex.Extended[0].Tag)
	require.Equal(t, "waves", ex.Extended[0].Data)
	require.True(t, ex.Extended[0].HasData)
}

func TestCTCPExtract_BareTagNoData(t *testing.T) {
	ex := CTCPExtract("\x01VERSION\x01")
	require.Len(t, ex.Extended, 1)
	require.Equal(t, "VERSION", ex.Extended[0].Tag)
	require.False(t, ex.Extended[0].HasData)
}

func TestCTCPPack_RoundTripsThroughExtract(t *testing.T) {
	packed := CTCPPack("PING", "123abc")
	ex := CTCPExtract(packed)
	require.Len(t, ex.Extended, 1)
	require.Equal(t, "PING", ex.Extended[0].Tag)
	require.Equal(t, "123abc", ex.Extended[0].Data)
}

func TestCTCPStringify_MultipleTags(t *testing.T) {
	s := CTCPStringify(CTCPTag{Tag: "VERSION"}, CTCPTag{Tag: "PING", Data: "1", HasData: true})
	require.Equal(t, "\x01VERSION\x01\x01PING 1\x01", s)
}
