package runtime

import (
	"context"
	"sync"
	"team-chat/domain"
	"team-chat/domain/event"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	id     string
	userID string
	mu     sync.Mutex
	events []event.Event
}

func newConn(userID string) *recordingConn {
	return &recordingConn{id: uuid.NewString(), userID: userID}
}

func (c *recordingConn) ID() string     { return c.id }
func (c *recordingConn) UserID() string { return c.userID }

func (c *recordingConn) Consume(_ context.Context, e event.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *recordingConn) Names() []event.Name {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]event.Name, 0, len(c.events))
	for _, e := range c.events {
		names = append(names, e.Name)
	}
	return names
}

func TestRegistry_Register_LastConnectionWins(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(domain.NamespaceDM)
	first, second := newConn("U1"), newConn("U1")

	// Given a user connects twice
	registry.Register("U1", first)
	registry.Register("U1", second)

	// Then only the last connection is mapped
	conn, ok := registry.Lookup("U1")
	req.True(ok)
	req.Equal(second.ID(), conn.ID())
	req.Equal(1, registry.Count())

	// When the stale connection is released, the newer mapping survives
	req.False(registry.Release("U1", first.ID()))
	_, ok = registry.Lookup("U1")
	req.True(ok)

	// When the current one is released the user is offline
	req.True(registry.Release("U1", second.ID()))
	_, ok = registry.Lookup("U1")
	req.False(ok)
}

func TestRegistry_Unregister_IsNoOpWhenAbsent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(domain.NamespaceFriends)

	registry.Unregister("ghost")
	registry.Register("U1", newConn("U1"))
	registry.Unregister("U1")

	req.Zero(registry.Count())
}

func TestRegistry_Track_ConcurrentJoinsAreIdempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(domain.NamespaceChannels)

	// When the same join is fired concurrently
	var wg sync.WaitGroup
	added := make(chan bool, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			added <- registry.Track("C1", "U1")
		}()
	}
	wg.Wait()
	close(added)

	// Then exactly one entry exists and exactly one call added it
	req.Equal([]string{"U1"}, registry.Tracked("C1"))
	count := 0
	for a := range added {
		if a {
			count++
		}
	}
	req.Equal(1, count)
}

func TestRegistry_Rooms(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(domain.NamespaceChannels)
	c1, c2 := newConn("U1"), newConn("U2")

	registry.JoinRoom("C1", c1)
	registry.JoinRoom("C1", c2)
	registry.JoinRoom("C1", c2)
	req.Len(registry.RoomMembers("C1"), 2)

	registry.LeaveRoom("C1", c1.ID())
	req.Len(registry.RoomMembers("C1"), 1)

	registry.LeaveRoom("C1", c2.ID())
	req.Nil(registry.RoomMembers("C1"))
}

func TestRegistry_Disconnect_CleansEverySet(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(domain.NamespaceChannels)
	conn := newConn("U1")
	other := newConn("U2")

	// Given U1 joined two channels and U2 shares one of them
	registry.Register("U1", conn)
	registry.Register("U2", other)
	for _, ch := range []string{"C1", "C2"} {
		registry.Track(ch, "U1")
		registry.JoinRoom(ch, conn)
	}
	registry.Track("C1", "U2")
	registry.JoinRoom("C1", other)

	// When U1 disconnects
	left := registry.Disconnect("U1", conn.ID())

	// Then every trace of U1 is gone
	req.ElementsMatch([]string{"C1", "C2"}, left)
	_, ok := registry.Lookup("U1")
	req.False(ok)
	req.Equal([]string{"U2"}, registry.Tracked("C1"))
	req.Empty(registry.Tracked("C2"))
	req.Len(registry.RoomMembers("C1"), 1)
	req.Nil(registry.RoomMembers("C2"))
	req.Empty(registry.ChannelsOf("U1"))
	req.Equal([]string{"C1"}, registry.ChannelsOf("U2"))
}

func TestRegistry_Online_ExcludesCaller(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(domain.NamespaceFriends)
	registry.Register("U1", newConn("U1"))
	registry.Register("U2", newConn("U2"))
	registry.Register("U3", newConn("U3"))

	online := registry.Online("U1")

	req.Len(online, 2)
	for _, c := range online {
		req.NotEqual("U1", c.UserID())
	}
}

func TestHub_OneRegistryPerNamespace(t *testing.T) {
	req := require.New(t)
	hub := NewHub()

	// A user may be connected to several namespaces at once
	hub.DM.Register("U1", newConn("U1"))
	hub.Friends.Register("U1", newConn("U1"))

	req.Equal(map[domain.Namespace]int{
		domain.NamespaceDM:       1,
		domain.NamespaceChannels: 0,
		domain.NamespaceFriends:  1,
	}, hub.Counts())

	reg, ok := hub.Registry(domain.NamespaceChannels)
	req.True(ok)
	req.Same(hub.Channels, reg)
	_, ok = hub.Registry("unknown")
	req.False(ok)
}

func TestRegistry_Disconnect_StaleConnectionKeepsTracking(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(domain.NamespaceChannels)
	first := newConn("U1")
	second := newConn("U1")

	// Given U1 reconnected and joined C1 with the new connection
	registry.Register("U1", first)
	registry.JoinRoom("C1", first)
	registry.Register("U1", second)
	registry.Track("C1", "U1")
	registry.JoinRoom("C1", second)

	// When the old connection finally closes
	left := registry.Disconnect("U1", first.ID())

	// Then the new session is untouched
	req.Nil(left)
	current, ok := registry.Lookup("U1")
	req.True(ok)
	req.Equal(second.ID(), current.ID())
	req.True(registry.IsTracked("C1", "U1"))
	req.Len(registry.RoomMembers("C1"), 1)
}
