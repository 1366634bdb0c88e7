package runtime

import (
	"sync"
	"team-chat/contract"
	"team-chat/domain"

	"github.com/samber/lo"
)

type Set map[string]struct{}

func (s Set) Keys() []string { return lo.Keys(s) }

// Registry maps users to their live connection inside one namespace.
// It also tracks which users joined which channel and, for public channels,
// which connections sit in the channel room.
type Registry struct {
	mu        sync.RWMutex
	namespace domain.Namespace
	sessions  map[string]contract.Connection            // user -> live connection
	tracked   map[string]Set                            // channel -> users
	rooms     map[string]map[string]contract.Connection // channel -> connection id -> connection
}

func NewRegistry(namespace domain.Namespace) *Registry {
	return &Registry{
		namespace: namespace,
		sessions:  make(map[string]contract.Connection),
		tracked:   make(map[string]Set),
		rooms:     make(map[string]map[string]contract.Connection),
	}
}

func (r *Registry) Namespace() domain.Namespace { return r.namespace }

// Register maps userID to conn. A previous connection of the same user is
// replaced but not closed: the last connection wins.
func (r *Registry) Register(userID string, conn contract.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = conn
}

// Unregister removes the mapping of userID. No-op if absent.
func (r *Registry) Unregister(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// Release removes the mapping only if it still points at connID, so a stale
// connection closing after a reconnect does not evict the newer one.
func (r *Registry) Release(userID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.sessions[userID]
	if !ok || current.ID() != connID {
		return false
	}
	delete(r.sessions, userID)
	return true
}

func (r *Registry) Lookup(userID string) (contract.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.sessions[userID]
	return conn, ok
}

// Track records userID as a member of channelID. It reports whether the user
// was added, so concurrent joins never produce duplicates.
func (r *Registry) Track(channelID, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.tracked[channelID]
	if !ok {
		members = make(Set)
		r.tracked[channelID] = members
	}
	if _, exists := members[userID]; exists {
		return false
	}
	members[userID] = struct{}{}
	return true
}

func (r *Registry) Untrack(channelID, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.untrack(channelID, userID)
}

func (r *Registry) untrack(channelID, userID string) bool {
	members, ok := r.tracked[channelID]
	if !ok {
		return false
	}
	if _, exists := members[userID]; !exists {
		return false
	}
	delete(members, userID)
	// If no one is left in the channel, remove the entry entirely
	if len(members) == 0 {
		delete(r.tracked, channelID)
	}
	return true
}

// Tracked returns the users currently tracked in channelID.
func (r *Registry) Tracked(channelID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tracked[channelID].Keys()
}

func (r *Registry) IsTracked(channelID, userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tracked[channelID][userID]
	return ok
}

// JoinRoom puts conn in the room of a public channel.
func (r *Registry) JoinRoom(channelID string, conn contract.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[channelID]
	if !ok {
		room = make(map[string]contract.Connection)
		r.rooms[channelID] = room
	}
	room[conn.ID()] = conn
}

func (r *Registry) LeaveRoom(channelID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveRoom(channelID, connID)
}

func (r *Registry) leaveRoom(channelID, connID string) {
	room, ok := r.rooms[channelID]
	if !ok {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, channelID)
	}
}

// RoomMembers returns every connection in the room of channelID.
// Returns nil if the room doesn't exist.
func (r *Registry) RoomMembers(channelID string) []contract.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[channelID]
	if !ok {
		return nil
	}
	return lo.Values(room)
}

// Disconnect drops every trace of a closing connection: its mapping, its room
// seats and the channel tracking of its user.
// It returns the channels the user was tracked in, for notification.
// A stale connection (the user reconnected since) only loses its room seats.
func (r *Registry) Disconnect(userID, connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for channelID := range r.rooms {
		r.leaveRoom(channelID, connID)
	}
	if current, ok := r.sessions[userID]; ok {
		if current.ID() != connID {
			return nil
		}
		delete(r.sessions, userID)
	}
	var left []string
	for channelID := range r.tracked {
		if r.untrack(channelID, userID) {
			left = append(left, channelID)
		}
	}
	return left
}

// ChannelsOf returns the channels userID is tracked in.
func (r *Registry) ChannelsOf(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Filter(lo.Keys(r.tracked), func(channelID string, _ int) bool {
		_, ok := r.tracked[channelID][userID]
		return ok
	})
}

// Online returns every live connection except the one of excludeUserID.
func (r *Registry) Online(excludeUserID string) []contract.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]contract.Connection, 0, len(r.sessions))
	for userID, conn := range r.sessions {
		if userID == excludeUserID {
			continue
		}
		conns = append(conns, conn)
	}
	return conns
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Hub owns one registry per namespace. It is built once per process and shared by reference.
type Hub struct {
	DM       *Registry
	Channels *Registry
	Friends  *Registry
}

func NewHub() *Hub {
	return &Hub{
		DM:       NewRegistry(domain.NamespaceDM),
		Channels: NewRegistry(domain.NamespaceChannels),
		Friends:  NewRegistry(domain.NamespaceFriends),
	}
}

func (h *Hub) Registry(namespace domain.Namespace) (*Registry, bool) {
	switch namespace {
	case domain.NamespaceDM:
		return h.DM, true
	case domain.NamespaceChannels:
		return h.Channels, true
	case domain.NamespaceFriends:
		return h.Friends, true
	default:
		return nil, false
	}
}

// Counts reports live connections per namespace.
func (h *Hub) Counts() map[domain.Namespace]int {
	return map[domain.Namespace]int{
		domain.NamespaceDM:       h.DM.Count(),
		domain.NamespaceChannels: h.Channels.Count(),
		domain.NamespaceFriends:  h.Friends.Count(),
	}
}
