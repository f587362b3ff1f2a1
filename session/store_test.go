package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestStore_Starts_Unauthenticated(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	_, active := store.Current()
	req.False(active)
}

func TestStore_Set_And_Clear_Notify_Subscribers(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	var events []bool
	unsubscribe := store.OnChange(func(_ Identity, active bool) {
		events = append(events, active)
	})
	defer unsubscribe()

	identity := Identity{UserID: uuid.New(), Username: "alice"}
	store.Set(identity)

	current, active := store.Current()
	req.True(active)
	req.Equal(identity, current)

	store.Clear()
	_, active = store.Current()
	req.False(active)

	req.Equal([]bool{true, false}, events)
}

func TestStore_Unsubscribed_Listener_Is_Not_Called(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	calls := 0
	unsubscribe := store.OnChange(func(Identity, bool) { calls++ })

	store.Set(Identity{UserID: uuid.New(), Username: "alice"})
	req.Equal(1, calls)

	// When the owning view is torn down
	unsubscribe()

	// Then further changes no longer reach it
	store.Clear()
	req.Equal(1, calls)
}

func TestStore_Multiple_Independent_Subscribers(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	first, second := 0, 0
	unsub1 := store.OnChange(func(Identity, bool) { first++ })
	unsub2 := store.OnChange(func(Identity, bool) { second++ })
	defer unsub2()

	store.Set(Identity{UserID: uuid.New()})
	unsub1()
	store.Clear()

	req.Equal(1, first)
	req.Equal(2, second)
}
