package services

import (
	"context"
	"log/slog"
	"sync"
	"team-chat/domain"
	"team-chat/domain/event"
	"team-chat/infrastructure/storage"
	"team-chat/moderation"
	"team-chat/runtime"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// recordingConn is a live connection that keeps everything it receives.
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

// Received returns the events of the given name, in arrival order.
func (c *recordingConn) Received(name event.Name) []event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []event.Event
	for _, e := range c.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func (c *recordingConn) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

type fixture struct {
	log         *slog.Logger
	hub         *runtime.Hub
	channelsOut *runtime.Dispatcher
	dmOut       *runtime.Dispatcher
	friendsOut  *runtime.Dispatcher
	users       storage.IUserRepository
	workspaces  *storage.WorkspaceRepository
	channels    *storage.ChannelRepository
	messages    *storage.MessageRepository
	dms         *storage.DirectMessageRepository
	friendships *storage.FriendshipRepository
	index       *storage.MessageIndex
	media       *storage.DiskMediaStore
	screener    *moderation.Screener

	channelService   *ChannelService
	workspaceService *WorkspaceService
	dmService        *DirectMessageService
	friendService    *FriendService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	req.NoError(err)
	t.Cleanup(func() { _ = writer.Close() })
	media, err := storage.NewDiskMediaStore(t.TempDir(), "http://localhost/media", 1<<20)
	req.NoError(err)
	screener, err := moderation.NewScreenerFromDictionary('*', log)
	req.NoError(err)

	hub := runtime.NewHub()
	f := &fixture{
		log:         log,
		hub:         hub,
		channelsOut: runtime.NewDispatcher(log, hub.Channels, time.Second),
		dmOut:       runtime.NewDispatcher(log, hub.DM, time.Second),
		friendsOut:  runtime.NewDispatcher(log, hub.Friends, time.Second),
		users:       storage.NewUserRepository(db),
		workspaces:  storage.NewWorkspaceRepository(db),
		channels:    storage.NewChannelRepository(db),
		messages:    storage.NewMessageRepository(db, log, nil),
		dms:         storage.NewDirectMessageRepository(db),
		friendships: storage.NewFriendshipRepository(db),
		index:       storage.NewMessageIndex(writer),
		media:       media,
		screener:    screener,
	}
	f.channelService = NewChannelService(log, f.channelsOut, f.users, f.workspaces, f.channels, f.messages, f.index, f.media, f.screener)
	f.workspaceService = NewWorkspaceService(log, f.channelsOut, f.users, f.workspaces, f.channels)
	f.dmService = NewDirectMessageService(log, f.dmOut, f.users, f.dms, f.friendships, f.screener)
	f.friendService = NewFriendService(log, f.friendsOut, f.users, f.friendships)
	return f
}

// user creates an account and returns its id.
func (f *fixture) user(t *testing.T, name string) string {
	t.Helper()
	id, err := f.users.CreateUser(name, name+"@example.com", "$argon2id$unused")
	require.NoError(t, err)
	return id
}

// connect registers a new live connection of userID in registry.
func connect(registry *runtime.Registry, userID string) *recordingConn {
	conn := newConn(userID)
	registry.Register(userID, conn)
	return conn
}

func (f *fixture) workspace(t *testing.T, ownerID string) domain.Workspace {
	t.Helper()
	ws, err := f.workspaceService.CreateWorkspace(ownerID, domain.CreateWorkspaceCommand{Name: "acme"})
	require.NoError(t, err)
	return ws
}

func (f *fixture) channel(t *testing.T, workspaceID, ownerID, name string, private bool, allowed ...string) domain.Channel {
	t.Helper()
	ch, err := f.workspaceService.CreateChannel(ownerID, domain.CreateChannelCommand{
		WorkspaceID:  workspaceID,
		Name:         name,
		IsPrivate:    private,
		AllowedUsers: allowed,
	})
	require.NoError(t, err)
	return ch
}
