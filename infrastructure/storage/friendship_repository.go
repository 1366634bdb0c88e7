package storage

import (
	"fmt"
	"team-chat/domain"
	"team-chat/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IFriendshipRepository interface {
	Create(friendship domain.Friendship) error
	Find(userA, userB string) (domain.Friendship, error)
	UpdateStatus(userA, userB string, status domain.FriendshipStatus) (domain.Friendship, error)
	ListByStatus(userID string, status domain.FriendshipStatus) ([]domain.Friendship, error)
}

type FriendshipRepository struct {
	db *badger.DB
}

func NewFriendshipRepository(db *badger.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

func friendshipKey(userID, friendID string) []byte {
	return []byte(fmt.Sprintf("friend:%s:%s", userID, friendID))
}

func friendshipReverseKey(friendID, userID string) []byte {
	return []byte(fmt.Sprintf("idx:friend:%s:%s", friendID, userID))
}

// locate returns the primary key of the edge between a and b, whichever way it was stored.
func locate(txn *badger.Txn, a, b string) ([]byte, error) {
	for _, key := range [][]byte{friendshipKey(a, b), friendshipKey(b, a)} {
		found, err := exists(txn, key)
		if err != nil {
			return nil, err
		}
		if found {
			return key, nil
		}
	}
	return nil, fmt.Errorf("%w: %s and %s", errors.ErrFriendshipNotFound, a, b)
}

// Create stores a directed edge. Any existing edge between the pair, in either direction, is a conflict.
func (f FriendshipRepository) Create(friendship domain.Friendship) error {
	return f.db.Update(func(txn *badger.Txn) error {
		if _, err := locate(txn, friendship.UserID, friendship.FriendID); err == nil {
			return errors.ErrFriendshipExists
		} else if !errors.Is(err, errors.ErrFriendshipNotFound) {
			return err
		}
		key := friendshipKey(friendship.UserID, friendship.FriendID)
		if err := txn.Set(friendshipReverseKey(friendship.FriendID, friendship.UserID), key); err != nil {
			return err
		}
		return set(txn, key, friendship)
	})
}

func (f FriendshipRepository) Find(userA, userB string) (domain.Friendship, error) {
	var friendship domain.Friendship
	err := f.db.View(func(txn *badger.Txn) error {
		key, err := locate(txn, userA, userB)
		if err != nil {
			return err
		}
		return get(txn, key, &friendship, errors.ErrFriendshipNotFound)
	})
	return friendship, err
}

func (f FriendshipRepository) UpdateStatus(userA, userB string, status domain.FriendshipStatus) (domain.Friendship, error) {
	var friendship domain.Friendship
	err := f.db.Update(func(txn *badger.Txn) error {
		key, err := locate(txn, userA, userB)
		if err != nil {
			return err
		}
		if err := get(txn, key, &friendship, errors.ErrFriendshipNotFound); err != nil {
			return err
		}
		friendship.Status = status
		friendship.UpdatedAt = time.Now().UTC()
		return set(txn, key, friendship)
	})
	return friendship, err
}

// ListByStatus returns the edges touching userID in both directions.
func (f FriendshipRepository) ListByStatus(userID string, status domain.FriendshipStatus) ([]domain.Friendship, error) {
	var result []domain.Friendship
	err := f.db.View(func(txn *badger.Txn) error {
		outgoing, err := scan[domain.Friendship](txn, []byte(fmt.Sprintf("friend:%s:", userID)))
		if err != nil {
			return err
		}
		incomingKeys, err := scanKeys(txn, []byte(fmt.Sprintf("idx:friend:%s:", userID)))
		if err != nil {
			return err
		}
		incoming := make([]domain.Friendship, 0, len(incomingKeys))
		for _, key := range incomingKeys {
			var friendship domain.Friendship
			if err := get(txn, key, &friendship, errors.ErrFriendshipNotFound); err != nil {
				return err
			}
			incoming = append(incoming, friendship)
		}
		for _, friendship := range append(outgoing, incoming...) {
			if friendship.Status == status {
				result = append(result, friendship)
			}
		}
		return nil
	})
	return result, err
}

// scanKeys returns the values of an index prefix, which are primary keys.
func scanKeys(txn *badger.Txn, prefix []byte) ([][]byte, error) {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
