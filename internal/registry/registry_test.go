package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinRejectsEmptyUsername(t *testing.T) {
	r := New()

	_, err := r.Join("c1", "")
	require.ErrorIs(t, err, ErrEmptyUsername)

	_, err = r.Join("c1", "   ")
	require.ErrorIs(t, err, ErrEmptyUsername)

	assert.Empty(t, r.Snapshot())
}

func TestJoinTrimsAndReturnsRecord(t *testing.T) {
	r := New()

	u, err := r.Join("c1", "  alice  ")
	require.NoError(t, err)
	assert.Equal(t, "c1", u.ID)
	assert.Equal(t, "alice", u.Username)
}

func TestSnapshotOrderIsInsertionOrder(t *testing.T) {
	r := New()

	_, err := r.Join("c1", "alice")
	require.NoError(t, err)
	_, err = r.Join("c2", "bob")
	require.NoError(t, err)
	_, err = r.Join("c3", "carol")
	require.NoError(t, err)

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "alice", snap[0].Username)
	assert.Equal(t, "bob", snap[1].Username)
	assert.Equal(t, "carol", snap[2].Username)
}

func TestRejoinOverwritesInPlace(t *testing.T) {
	r := New()

	_, err := r.Join("c1", "alice")
	require.NoError(t, err)
	_, err = r.Join("c2", "bob")
	require.NoError(t, err)
	_, err = r.Join("c1", "alicia")
	require.NoError(t, err)

	snap := r.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "alicia", snap[0].Username)
	assert.Equal(t, "bob", snap[1].Username)
}

func TestRemoveClearsUserAndTyping(t *testing.T) {
	r := New()

	_, err := r.Join("c1", "alice")
	require.NoError(t, err)
	require.True(t, r.SetTyping("c1", true))

	u, existed := r.Remove("c1")
	assert.True(t, existed)
	assert.Equal(t, "alice", u.Username)
	assert.Empty(t, r.Snapshot())
	assert.Empty(t, r.TypingUsernames())

	_, existed = r.Remove("c1")
	assert.False(t, existed)
}

func TestSetTypingRequiresRegisteredUser(t *testing.T) {
	r := New()

	assert.False(t, r.SetTyping("ghost", true))
	assert.Empty(t, r.TypingUsernames())

	_, err := r.Join("c1", "alice")
	require.NoError(t, err)

	require.True(t, r.SetTyping("c1", true))
	assert.Equal(t, []string{"alice"}, r.TypingUsernames())

	require.True(t, r.SetTyping("c1", false))
	assert.Empty(t, r.TypingUsernames())
}

func TestTypingUsernamesFollowSnapshotOrder(t *testing.T) {
	r := New()

	for _, u := range []struct{ id, name string }{
		{"c1", "alice"}, {"c2", "bob"}, {"c3", "carol"},
	} {
		_, err := r.Join(u.id, u.name)
		require.NoError(t, err)
	}

	r.SetTyping("c3", true)
	r.SetTyping("c1", true)

	assert.Equal(t, []string{"alice", "carol"}, r.TypingUsernames())
}
