package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomAddRemove(t *testing.T) {
	room := NewRoom("r1", "Room r1")

	a := newFakeConn("a")
	require.True(t, room.Add(a), "first add should report newly added")
	require.False(t, room.Add(a), "second add of same connection is a no-op")
	assert.Equal(t, 1, room.Len())

	require.True(t, room.Remove("a"))
	require.False(t, room.Remove("a"), "re-remove is a no-op")
	assert.True(t, room.Empty())
}

func TestRoomSnapshotIsCopy(t *testing.T) {
	room := NewRoom("r1", "Room r1")
	room.Add(newFakeConn("a"))
	room.Add(newFakeConn("b"))

	snapshot := room.Snapshot()
	require.Len(t, snapshot, 2)

	// Mutating the room after the snapshot must not affect it.
	room.Remove("a")
	room.Remove("b")
	assert.Len(t, snapshot, 2)
	assert.Equal(t, 0, room.Len())
}

func TestRoomConcurrentMembershipAccounting(t *testing.T) {
	room := NewRoom("r1", "Room r1")

	const joiners = 64
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c := newFakeConn(fmt.Sprintf("conn-%d", n))
			room.Add(c)
			if n%2 == 0 {
				room.Remove(c.ID())
				room.Remove(c.ID()) // idempotent re-leave
			}
		}(i)
	}
	wg.Wait()

	// Half the joiners left again; the count must equal joins minus leaves.
	assert.Equal(t, joiners/2, room.Len())
}
