package irc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFramer_SplitsCompleteLines(t *testing.T) {
	var f Framer
	lines, err := f.Feed([]byte("PING :1\r\nPING :2\r\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"PING :1", "PING :2"}, lines)
}

func TestFramer_RetainsPartialLine(t *testing.T) {
	var f Framer
	lines, err := f.Feed([]byte("PING :1\r\nPAR"))
	require.NoError(t, err)
	require.Equal(t, []string{"PING :1"}, lines)

	lines, err = f.Feed([]byte("T #room\r\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"PART #room"}, lines)
}

func TestFramer_OverlongLineWithoutTerminator(t *testing.T) {
	var f Framer
	_, err := f.Feed([]byte(strings.Repeat("x", MaxCommandLength+1)))
	require.Error(t, err)
	var bad *BadMessage
	require.ErrorAs(t, err, &bad)
}

func TestFramer_Reset(t *testing.T) {
	var f Framer
	f.Feed([]byte("PAR"))
	f.Reset()
	lines, err := f.Feed([]byte("TIAL :data\r\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"TIAL :data"}, lines)
}
