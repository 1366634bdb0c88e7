//go:generate go run go.uber.org/mock/mockgen -source=channel_repository.go -destination=../../mocks/mock_channel_repository.go -package=mocks
package storage

import (
	"fmt"
	"strings"
	"team-chat/domain"
	"team-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type IChannelRepository interface {
	Save(channel domain.Channel) error
	FindByID(id string) (domain.Channel, error)
	FindByWorkspace(workspaceID string) ([]domain.Channel, error)
	UpdateAllowedUsers(id string, fn func(channel *domain.Channel) error) (domain.Channel, error)
}

// maxConflictRetries bounds how many times a read-modify-write is replayed after badger
// reports a conflicting transaction.
const maxConflictRetries = 10

type ChannelRepository struct {
	db *badger.DB
}

func NewChannelRepository(db *badger.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func channelKey(workspaceID, id string) []byte {
	return []byte(fmt.Sprintf("channel:%s:%s", workspaceID, id))
}

func channelIDKey(id string) []byte { return []byte("idx:channel:id:" + id) }

func channelNameKey(workspaceID, name string) []byte {
	return []byte(fmt.Sprintf("idx:channel:name:%s:%s", workspaceID, strings.ToLower(strings.TrimSpace(name))))
}

// Save inserts or updates a channel. (workspace, name) is unique across the workspace,
// renaming releases the previous name.
func (c ChannelRepository) Save(channel domain.Channel) error {
	return c.db.Update(func(txn *badger.Txn) error {
		nameKey := channelNameKey(channel.WorkspaceID, channel.Name)
		owner, err := getRef(txn, nameKey, nil)
		if err != nil {
			return err
		}
		if owner != nil && string(owner) != channel.ID {
			return fmt.Errorf("%w: %s", errors.ErrChannelNameTaken, channel.Name)
		}

		var previous domain.Channel
		primary, err := getRef(txn, channelIDKey(channel.ID), nil)
		if err != nil {
			return err
		}
		if primary != nil {
			if err := get(txn, primary, &previous, errors.ErrChannelNotFound); err != nil {
				return err
			}
			if previous.WorkspaceID != channel.WorkspaceID {
				return fmt.Errorf("%w: channel cannot move between workspaces", errors.ErrInvalidPayload)
			}
			oldName := channelNameKey(previous.WorkspaceID, previous.Name)
			if string(oldName) != string(nameKey) {
				if err := txn.Delete(oldName); err != nil {
					return err
				}
			}
		}

		key := channelKey(channel.WorkspaceID, channel.ID)
		if err := txn.Set(nameKey, []byte(channel.ID)); err != nil {
			return err
		}
		if err := txn.Set(channelIDKey(channel.ID), key); err != nil {
			return err
		}
		return set(txn, key, channel)
	})
}

func (c ChannelRepository) FindByID(id string) (domain.Channel, error) {
	var channel domain.Channel
	notFound := fmt.Errorf("%w: %s", errors.ErrChannelNotFound, id)
	err := c.db.View(func(txn *badger.Txn) error {
		key, err := getRef(txn, channelIDKey(id), notFound)
		if err != nil {
			return err
		}
		return get(txn, key, &channel, notFound)
	})
	return channel, err
}

// UpdateAllowedUsers reads the channel, applies fn and writes it back in the same
// transaction, so overlapping membership changes never overwrite each other.
// An error from fn aborts the update and is returned as is.
func (c ChannelRepository) UpdateAllowedUsers(id string, fn func(channel *domain.Channel) error) (domain.Channel, error) {
	notFound := fmt.Errorf("%w: %s", errors.ErrChannelNotFound, id)
	var updated domain.Channel
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = c.db.Update(func(txn *badger.Txn) error {
			key, err := getRef(txn, channelIDKey(id), notFound)
			if err != nil {
				return err
			}
			var channel domain.Channel
			if err := get(txn, key, &channel, notFound); err != nil {
				return err
			}
			if err := fn(&channel); err != nil {
				return err
			}
			updated = channel
			return set(txn, key, channel)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return domain.Channel{}, err
	}
	return updated, nil
}

func (c ChannelRepository) FindByWorkspace(workspaceID string) ([]domain.Channel, error) {
	var channels []domain.Channel
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		channels, err = scan[domain.Channel](txn, []byte(fmt.Sprintf("channel:%s:", workspaceID)))
		return err
	})
	return channels, err
}
