package spork

import (
	"encoding/binary"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// ErrSporkNotFound is returned if no message was stored for a spork.
var ErrSporkNotFound = ierrors.New("spork not found")

/*
   Spork Database

   Key:
       ID (big endian)
          4 bytes

   Value:
       Message.Bytes()
       ID + Value + TimeSigned + SignatureLength + Signature
*/

// Store persists the latest accepted message of every spork.
type Store struct {
	store     kvstore.KVStore
	storeLock syncutils.RWMutex
}

func NewStore(store kvstore.KVStore) *Store {
	return &Store{
		store: store,
	}
}

func sporkKey(id ID) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(id))
}

// Put overwrites the message of its spork.
func (s *Store) Put(message *Message) error {
	s.storeLock.Lock()
	defer s.storeLock.Unlock()

	if err := s.store.Set(sporkKey(message.ID), message.Bytes()); err != nil {
		return ierrors.Wrapf(err, "failed to store %s", message)
	}

	return nil
}

func (s *Store) Get(id ID) (*Message, error) {
	s.storeLock.RLock()
	defer s.storeLock.RUnlock()

	value, err := s.store.Get(sporkKey(id))
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ierrors.Wrapf(ErrSporkNotFound, "spork %s", id)
		}

		return nil, ierrors.Wrapf(err, "failed to load spork %s", id)
	}

	return MessageFromBytes(value)
}

func (s *Store) Exists(id ID) (bool, error) {
	s.storeLock.RLock()
	defer s.storeLock.RUnlock()

	return s.store.Has(sporkKey(id))
}

// ForEach iterates over all stored messages.
func (s *Store) ForEach(consumer func(message *Message) bool) error {
	s.storeLock.RLock()
	defer s.storeLock.RUnlock()

	var innerErr error
	if err := s.store.Iterate(kvstore.EmptyPrefix, func(_ kvstore.Key, value kvstore.Value) bool {
		message, err := MessageFromBytes(value)
		if err != nil {
			innerErr = err

			return false
		}

		return consumer(message)
	}); err != nil {
		return err
	}

	return innerErr
}

// Wipe removes all stored messages.
func (s *Store) Wipe() (err error) {
	s.storeLock.Lock()
	defer s.storeLock.Unlock()

	defer func() {
		if errFlush := s.store.Flush(); err == nil && errFlush != nil {
			err = errFlush
		}
	}()

	return s.store.Clear()
}
