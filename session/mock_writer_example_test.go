package session

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// TestSay_WritesThroughMockTransport exercises the command surface
// against a gomock.Controller-backed Writer instead of the hand-rolled
// fakeWriter, the way the teacher's pack tests a store dependency via
// NewMockStore (sandia-minimega-minimega/phenix).
func TestSay_WritesThroughMockTransport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := NewMockWriter(ctrl)
	w.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		require.Equal(t, "PRIVMSG #room :hi there\r\n", string(p))
		return len(p), nil
	})

	s := New(w, NewOptions("tester"))
	require.NoError(t, s.Say("#room", "hi there"))
}
