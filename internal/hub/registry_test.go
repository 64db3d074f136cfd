package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilerooms/internal/game"
)

func TestRegistryAddAndFind(t *testing.T) {
	reg := NewRegistry()
	c := newFakeConn()
	reg.Add("r1", "p1", c)

	assert.True(t, reg.IsConnected("r1", c))
	id, err := reg.Find("r1", c)
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	roomID, ok := reg.RoomOf(c)
	require.True(t, ok)
	assert.Equal(t, "r1", roomID)
}

func TestRegistryFindUnknownSocket(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Find("r1", newFakeConn())
	assert.ErrorIs(t, err, game.ErrNotAssociated)
}

func TestRegistryRemoveFromRoom(t *testing.T) {
	reg := NewRegistry()
	c1, c2 := newFakeConn(), newFakeConn()
	reg.Add("r1", "p1", c1)
	reg.Add("r1", "p2", c2)

	reg.Remove(c1, "r1")
	assert.False(t, reg.IsConnected("r1", c1))
	assert.True(t, reg.IsConnected("r1", c2))
}

func TestRegistryRemoveEverywhere(t *testing.T) {
	reg := NewRegistry()
	c := newFakeConn()
	reg.Add("r1", "p1", c)

	reg.Remove(c, "")
	assert.False(t, reg.IsConnected("r1", c))
	_, ok := reg.RoomOf(c)
	assert.False(t, ok)
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	reg := NewRegistry()
	c1, c2 := newFakeConn(), newFakeConn()
	reg.Add("r1", "p1", c1)
	reg.Add("r1", "p2", c2)

	snap := reg.Snapshot("r1")
	require.Len(t, snap, 2)
	reg.Remove(c1, "r1")
	assert.Len(t, snap, 2, "snapshot is unaffected by later removals")
}

func TestRegistryFindTarget(t *testing.T) {
	reg := NewRegistry()
	c := newFakeConn()
	reg.Add("r1", "p1", c)

	target, ok := reg.FindTarget("r1", "p1")
	require.True(t, ok)
	assert.Equal(t, "p1", target.PlayerID)
	assert.Same(t, c, target.Conn.(*fakeConn))

	_, ok = reg.FindTarget("r1", "p2")
	assert.False(t, ok)
}
