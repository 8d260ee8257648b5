package mailbox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReply_deliver_once(t *testing.T) {
	r := newReply[int]()
	require.True(t, r.deliver(1))
	require.False(t, r.deliver(2))
	r.abandon()

	v, err := r.Receive(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, v)

	_, err = r.Receive(t.Context())
	require.ErrorIs(t, err, ErrReplyClosed)
}

func TestReply_discarded(t *testing.T) {
	r := newReply[int]()
	r.Discard()
	require.False(t, r.deliver(1))

	_, err := r.Receive(t.Context())
	require.ErrorIs(t, err, ErrNoReply)

	require.False(t, newDiscardedReply[int]().deliver(1))
}

func TestReply_abandon(t *testing.T) {
	r := newReply[string]()
	r.abandon()
	r.abandon()
	require.False(t, r.deliver("late"))

	_, err := r.Receive(t.Context())
	require.ErrorIs(t, err, ErrNoReply)
}
