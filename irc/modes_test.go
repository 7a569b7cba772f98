package irc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseModes_MixedAddRemove(t *testing.T) {
	pm := ParamModes{On: "ovb", Off: "o"}
	added, removed, err := ParseModes("+o-v+b", []string{"alice", "*!*@banned"}, pm)
	require.NoError(t, err)
	require.Equal(t, []ModeChange{{Letter: 'o', Arg: "alice", HasArg: true}}, added[:1])
	require.Equal(t, ModeChange{Letter: 'b', Arg: "*!*@banned", HasArg: true}, added[1])
	require.Equal(t, []ModeChange{{Letter: 'v', Arg: "", HasArg: false}}, removed)
}

func TestParseModes_NoParamFlags(t *testing.T) {
	added, removed, err := ParseModes("+im-s", nil, ParamModes{})
	require.NoError(t, err)
	require.Equal(t, []ModeChange{{Letter: 'i'}, {Letter: 'm'}}, added)
	require.Equal(t, []ModeChange{{Letter: 's'}}, removed)
}

func TestParseModes_Errors(t *testing.T) {
	_, _, err := ParseModes("", nil, ParamModes{})
	require.Error(t, err)

	_, _, err = ParseModes("x", nil, ParamModes{})
	require.Error(t, err)

	_, _, err = ParseModes("+o", nil, ParamModes{On: "o"})
	require.Error(t, err)

	_, _, err = ParseModes("+i", []string{"extra"}, ParamModes{})
	require.Error(t, err)
}
