//go:generate go run go.uber.org/mock/mockgen -source=direct_message_repository.go -destination=../../mocks/mock_direct_message_repository.go -package=mocks
package storage

import (
	"encoding/json"
	"fmt"
	"team-chat/domain"
	"team-chat/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IDirectMessageRepository interface {
	StoreDirectMessage(message domain.DirectMessage) error
	FindByID(id string) (domain.DirectMessage, error)
	SoftDelete(id string) (domain.DirectMessage, error)
	MarkAsRead(senderID, readerID string, at time.Time) (int, error)
	Conversation(userA, userB string) ([]domain.DirectMessage, error)
}

type DirectMessageRepository struct {
	db *badger.DB
}

func NewDirectMessageRepository(db *badger.DB) *DirectMessageRepository {
	return &DirectMessageRepository{db: db}
}

func conversationPrefix(a, b string) []byte {
	return []byte(fmt.Sprintf("dm:%s:", domain.PairKey(a, b)))
}

func directMessageKey(message domain.DirectMessage) []byte {
	return append(conversationPrefix(message.SenderID, message.ReceiverID),
		[]byte(fmt.Sprintf("%019d:%s", message.CreatedAt.UnixNano(), message.ID))...)
}

func directMessageIDKey(id string) []byte { return []byte("idx:dm:" + id) }

func (d DirectMessageRepository) StoreDirectMessage(message domain.DirectMessage) error {
	key := directMessageKey(message)
	return d.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(directMessageIDKey(message.ID), key); err != nil {
			return err
		}
		return set(txn, key, message)
	})
}

func (d DirectMessageRepository) FindByID(id string) (domain.DirectMessage, error) {
	var message domain.DirectMessage
	notFound := fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	err := d.db.View(func(txn *badger.Txn) error {
		key, err := getRef(txn, directMessageIDKey(id), notFound)
		if err != nil {
			return err
		}
		return get(txn, key, &message, notFound)
	})
	return message, err
}

// SoftDelete flags the message as deleted and keeps the row.
// Deleting an already deleted message is reported as not found.
func (d DirectMessageRepository) SoftDelete(id string) (domain.DirectMessage, error) {
	var message domain.DirectMessage
	notFound := fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	err := d.db.Update(func(txn *badger.Txn) error {
		key, err := getRef(txn, directMessageIDKey(id), notFound)
		if err != nil {
			return err
		}
		if err := get(txn, key, &message, notFound); err != nil {
			return err
		}
		if message.IsDeleted {
			return notFound
		}
		message.IsDeleted = true
		return set(txn, key, message)
	})
	return message, err
}

// MarkAsRead sets ReadAt on every unread message sent by senderID to readerID,
// deleted ones included so the read state stays consistent. It returns how many rows changed.
func (d DirectMessageRepository) MarkAsRead(senderID, readerID string, at time.Time) (int, error) {
	updated := 0
	err := d.db.Update(func(txn *badger.Txn) error {
		type pending struct {
			key     []byte
			message domain.DirectMessage
		}
		var unread []pending
		collect := func() error {
			prefix := conversationPrefix(senderID, readerID)
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				item := it.Item()
				var message domain.DirectMessage
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &message)
				}); err != nil {
					return err
				}
				if message.SenderID != senderID || message.ReadAt != nil {
					continue
				}
				message.ReadAt = lo.ToPtr(at)
				unread = append(unread, pending{key: item.KeyCopy(nil), message: message})
			}
			return nil
		}
		if err := collect(); err != nil {
			return err
		}
		for _, p := range unread {
			if err := set(txn, p.key, p.message); err != nil {
				return err
			}
		}
		updated = len(unread)
		return nil
	})
	return updated, err
}

// Conversation returns the messages exchanged by the pair, oldest first, without deleted ones.
func (d DirectMessageRepository) Conversation(userA, userB string) ([]domain.DirectMessage, error) {
	var messages []domain.DirectMessage
	err := d.db.View(func(txn *badger.Txn) error {
		all, err := scan[domain.DirectMessage](txn, conversationPrefix(userA, userB))
		if err != nil {
			return err
		}
		messages = lo.Reject(all, func(m domain.DirectMessage, _ int) bool { return m.IsDeleted })
		return nil
	})
	return messages, err
}
