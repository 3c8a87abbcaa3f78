package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaychat/relay/internal/domain"
)

func TestDefaultRoomAlwaysPresentAndFirst(t *testing.T) {
	x := NewIndex()

	assert.Equal(t, []string{domain.DefaultRoom}, x.RoomNames())

	x.Ensure("games")
	x.Ensure("music")
	assert.Equal(t, []string{domain.DefaultRoom, "games", "music"}, x.RoomNames())
}

func TestEnsureValidatesAndDeduplicates(t *testing.T) {
	x := NewIndex()

	assert.False(t, x.Ensure(""))
	assert.False(t, x.Ensure("   "))
	assert.True(t, x.Ensure("games"))
	assert.False(t, x.Ensure("games"))
	assert.False(t, x.Ensure(domain.DefaultRoom))
}

func TestTrackPlacesConnectionInDefaultRoom(t *testing.T) {
	x := NewIndex()

	x.Track("c1")
	assert.Equal(t, "", x.Joined("c1"))
	assert.Equal(t, []string{"c1"}, x.MembersOf(domain.DefaultRoom))
}

func TestSwitchIsAtomicLeaveThenJoin(t *testing.T) {
	x := NewIndex()
	x.Track("c1")

	x.Switch("c1", "a")
	assert.Equal(t, "a", x.Joined("c1"))

	x.Switch("c1", "b")
	assert.Equal(t, "b", x.Joined("c1"))
	assert.Empty(t, x.MembersOf("a"))
	assert.Equal(t, []string{"c1"}, x.MembersOf("b"))
	assert.Empty(t, x.MembersOf(domain.DefaultRoom))
}

func TestSwitchToDefaultClearsJoinedRoom(t *testing.T) {
	x := NewIndex()
	x.Track("c1")

	x.Switch("c1", "a")
	x.Switch("c1", domain.DefaultRoom)
	assert.Equal(t, "", x.Joined("c1"))
	assert.Equal(t, []string{"c1"}, x.MembersOf(domain.DefaultRoom))
}

func TestSwitchIgnoresUntrackedConnections(t *testing.T) {
	x := NewIndex()

	x.Switch("ghost", "a")
	assert.Empty(t, x.MembersOf("a"))
	assert.False(t, x.Tracked("ghost"))
}

func TestLeaveReassignsToDefault(t *testing.T) {
	x := NewIndex()
	x.Track("c1")
	x.Switch("c1", "a")

	assert.True(t, x.Leave("c1", "a"))
	assert.Equal(t, "", x.Joined("c1"))

	// Leaving a room the connection is not in is a no-op.
	assert.False(t, x.Leave("c1", "a"))
	assert.False(t, x.Leave("c1", "b"))
}

func TestMembersOfResolvesExactMatches(t *testing.T) {
	x := NewIndex()
	for _, id := range []string{"c1", "c2", "c3"} {
		x.Track(id)
	}
	x.Switch("c1", "a")
	x.Switch("c2", "a")

	assert.ElementsMatch(t, []string{"c1", "c2"}, x.MembersOf("a"))
	assert.Equal(t, []string{"c3"}, x.MembersOf(domain.DefaultRoom))
	assert.Empty(t, x.MembersOf("empty-room"))
}

func TestForgetRemovesFromAllMembership(t *testing.T) {
	x := NewIndex()
	x.Track("c1")
	x.Switch("c1", "a")

	x.Forget("c1")
	require.False(t, x.Tracked("c1"))
	assert.Empty(t, x.MembersOf("a"))
	assert.Empty(t, x.MembersOf(domain.DefaultRoom))

	// Rooms persist even when empty.
	assert.Contains(t, x.RoomNames(), "a")
}
