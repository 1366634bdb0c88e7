//go:generate go run go.uber.org/mock/mockgen -source=message_repository.go -destination=../../mocks/mock_message_repository.go -package=mocks
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"team-chat/domain"
	"team-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	FindByID(id string) (domain.Message, error)
	UpdateReactions(id string, reactions []domain.Reaction) (domain.Message, error)
	DeleteMessage(id string) error
	GetMessages(channelID string, cursor *string) ([]domain.Message, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) *MessageRepository {
	return &MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// messageKey is formatted as "msg:{channel}:{timestamp_padded}:{id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the id as a collision breaker if two messages
//     arrive at the same nanosecond.
func messageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", message.ChannelID, message.CreatedAt.UnixNano(), message.ID))
}

func messageIDKey(id string) []byte { return []byte("idx:msg:" + id) }

func (m MessageRepository) StoreMessage(message domain.Message) error {
	key := messageKey(message)
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(messageIDKey(message.ID), key); err != nil {
			return err
		}
		return set(txn, key, message)
	})
}

func (m MessageRepository) FindByID(id string) (domain.Message, error) {
	var message domain.Message
	notFound := fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	err := m.db.View(func(txn *badger.Txn) error {
		key, err := getRef(txn, messageIDKey(id), notFound)
		if err != nil {
			return err
		}
		return get(txn, key, &message, notFound)
	})
	return message, err
}

// UpdateReactions replaces the reaction list in the same transaction that reads it.
func (m MessageRepository) UpdateReactions(id string, reactions []domain.Reaction) (domain.Message, error) {
	var message domain.Message
	notFound := fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	err := m.db.Update(func(txn *badger.Txn) error {
		key, err := getRef(txn, messageIDKey(id), notFound)
		if err != nil {
			return err
		}
		if err := get(txn, key, &message, notFound); err != nil {
			return err
		}
		message.Reactions = reactions
		return set(txn, key, message)
	})
	return message, err
}

// DeleteMessage removes the message and its index. Channel messages are not soft deleted.
func (m MessageRepository) DeleteMessage(id string) error {
	notFound := fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	return m.db.Update(func(txn *badger.Txn) error {
		key, err := getRef(txn, messageIDKey(id), notFound)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(messageIDKey(id))
	})
}

// GetMessages retrieves messages of a channel using a reverse prefix scan, newest first.
// Thanks to the padded timestamp in the key, messages are naturally sorted by time.
// It stops collecting messages once the configured limitMessages is reached and
// returns the cursor to resume from.
func (m MessageRepository) GetMessages(channelID string, cursor *string) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", channelID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append(prefix, []byte(newestCursor)...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[prefixLen:]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			var message domain.Message
			if err := item.Value(func(value []byte) error {
				return json.Unmarshal(value, &message)
			}); err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if lastKey == "" {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}
