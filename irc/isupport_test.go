package irc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_PrefixAndChanModes(t *testing.T) {
	s := NewStore()
	s.Parse("PREFIX=(ov)@+")
	s.Parse("CHANMODES=b,k,l,imnpst")
	s.Parse("CHANTYPES=#&")

	require.Equal(t, "@+", s.PrefixSymbols())
	e, ok := s.PrefixEntry('o')
	require.True(t, ok)
	require.Equal(t, byte('@'), e.Symbol)

	cm := s.ChanModes()
	require.Equal(t, "b", cm.AddressModes)
	require.Equal(t, "l", cm.SetParam)
	require.Equal(t, "k", cm.Param)
	require.Equal(t, "imnpst", cm.NoParam)

	require.True(t, s.IsChannel("#room"))
	require.False(t, s.IsChannel("room"))
}

func TestStore_SetParamModes_UnionsPrefixAndChanModes(t *testing.T) {
	s := NewStore()
	s.Parse("PREFIX=(ov)@+")
	s.Parse("CHANMODES=b,k,l,imnpst")

	pm := s.SetParamModes()
	require.Contains(t, pm.On, "o")
	require.Contains(t, pm.On, "v")
	require.Contains(t, pm.On, "b")
	require.Contains(t, pm.On, "k")
	require.Contains(t, pm.On, "l")
	require.Contains(t, pm.Off, "b")
	require.NotContains(t, pm.Off, "l")
}

func TestStore_IntAndUnescapeAndRemove(t *testing.T) {
	s := NewStore()
	s.Parse("NICKLEN=30")
	require.Equal(t, 30, s.Int("NICKLEN", -1))

	s.Parse("NETWORK=Freenode\\x20IRC")
	require.Equal(t, "Freenode IRC", s.Str("NETWORK", ""))

	s.Parse("-NICKLEN")
	require.Equal(t, -1, s.Int("NICKLEN", -1))
	require.False(t, s.Has("NICKLEN"))
}

func TestStore_MaxChannelsCrossSeedsFromChanLimit(t *testing.T) {
	s := NewStore()
	s.Parse("CHANLIMIT=#&+:10")
	require.Equal(t, 10, s.Int("MAXCHANNELS", 0))
}

func TestStore_MaxChannelsSeedsChanLimitWithFixedPrefixes(t *testing.T) {
	s := NewStore()
	s.Parse("MAXCHANNELS=5")
	require.Equal(t, []ChanLimit{
		{Prefix: '#', Limit: 5},
		{Prefix: '+', Limit: 5},
		{Prefix: '&', Limit: 5},
	}, s.ChanLimit())
}

func TestStore_Clone_IsIndependent(t *testing.T) {
	s := NewStore()
	s.Parse("NICKLEN=30")
	clone := s.Clone()
	s.Parse("NICKLEN=10")
	require.Equal(t, 10, s.Int("NICKLEN", -1))
	require.Equal(t, 30, clone.Int("NICKLEN", -1))
}
