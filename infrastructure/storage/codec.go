package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Key layout, all values JSON encoded:
//
//	user:{id}                               -> domain.User
//	idx:user:email:{email}                  -> user id
//	workspace:{id}                          -> domain.Workspace
//	channel:{workspace}:{id}                -> domain.Channel
//	idx:channel:id:{id}                     -> channel key
//	idx:channel:name:{workspace}:{name}     -> channel id
//	msg:{channel}:{unix nano %019d}:{id}    -> domain.Message
//	idx:msg:{id}                            -> message key
//	dm:{pair}:{unix nano %019d}:{id}        -> domain.DirectMessage
//	idx:dm:{id}                             -> direct message key
//	friend:{user}:{friend}                  -> domain.Friendship
//	idx:friend:{friend}:{user}              -> friendship key
const (
	newestCursor = "9999999999999999999"
)

func encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal failed: %w", err)
	}
	return b, nil
}

// get loads key into v. A missing key is reported as notFound.
func get(txn *badger.Txn, key []byte, v any, notFound error) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return notFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// getRef follows a secondary index entry to the primary key it stores.
func getRef(txn *badger.Txn, indexKey []byte, notFound error) ([]byte, error) {
	item, err := txn.Get(indexKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func set(txn *badger.Txn, key []byte, v any) error {
	b, err := encode(v)
	if err != nil {
		return err
	}
	return txn.Set(key, b)
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// scan decodes every value under prefix, in key order.
func scan[T any](txn *badger.Txn, prefix []byte) ([]T, error) {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	var out []T
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		}); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
