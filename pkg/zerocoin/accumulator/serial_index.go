package accumulator

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/hive.go/serializer/v2/marshalutil"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

// ErrSerialAlreadySpent is returned if a serial is revealed a second time.
var ErrSerialAlreadySpent = ierrors.New("serial already spent")

// SerialRecord references the transaction that revealed a serial.
type SerialRecord struct {
	SerialHash model.Identifier
	TxID       model.Identifier
	Height     model.Height
}

func serialKey(serialHash model.Identifier) []byte {
	return append([]byte{StoreKeyPrefixSerial}, serialHash[:]...)
}

func (r *SerialRecord) KVStorableKey() []byte {
	return serialKey(r.SerialHash)
}

func (r *SerialRecord) KVStorableValue() []byte {
	ms := marshalutil.New(model.IdentifierLength + model.HeightLength)
	ms.WriteBytes(r.TxID[:])
	ms.WriteUint32(uint32(r.Height))

	return ms.Bytes()
}

func (r *SerialRecord) kvStorableLoad(key []byte, value []byte) (err error) {
	if r.SerialHash, _, err = model.IdentifierFromBytes(key[1:]); err != nil {
		return ierrors.Wrap(err, "failed to parse serial hash")
	}

	ms := marshalutil.New(value)
	if r.TxID, err = zerocoin.ReadIdentifier(ms); err != nil {
		return ierrors.Wrap(err, "failed to parse transaction id")
	}

	height, err := ms.ReadUint32()
	if err != nil {
		return ierrors.Wrap(err, "failed to parse height")
	}
	r.Height = model.Height(height)

	return nil
}

// SerialIndex keeps track of all serials revealed on chain.
type SerialIndex struct {
	store     kvstore.KVStore
	storeLock syncutils.RWMutex
}

func NewSerialIndex(store kvstore.KVStore) *SerialIndex {
	return &SerialIndex{
		store: store,
	}
}

func (i *SerialIndex) IsSpent(serialHash model.Identifier) (bool, error) {
	i.storeLock.RLock()
	defer i.storeLock.RUnlock()

	return i.store.Has(serialKey(serialHash))
}

// Spend returns the record of a spent serial.
func (i *SerialIndex) Spend(serialHash model.Identifier) (*SerialRecord, error) {
	i.storeLock.RLock()
	defer i.storeLock.RUnlock()

	key := serialKey(serialHash)

	value, err := i.store.Get(key)
	if err != nil {
		return nil, err
	}

	record := new(SerialRecord)
	if err := record.kvStorableLoad(key, value); err != nil {
		return nil, err
	}

	return record, nil
}

// AddSpend records a serial revealed by a transaction confirmed at the given height.
func (i *SerialIndex) AddSpend(serialHash model.Identifier, txID model.Identifier, height model.Height) error {
	i.storeLock.Lock()
	defer i.storeLock.Unlock()

	record := &SerialRecord{
		SerialHash: serialHash,
		TxID:       txID,
		Height:     height,
	}

	if has, err := i.store.Has(record.KVStorableKey()); err != nil {
		return ierrors.Wrap(err, "failed to check serial")
	} else if has {
		return ierrors.Wrapf(ErrSerialAlreadySpent, "serial hash %s", serialHash.Alias())
	}

	return i.store.Set(record.KVStorableKey(), record.KVStorableValue())
}

// RemoveSpend forgets a serial, used when the revealing block is disconnected.
func (i *SerialIndex) RemoveSpend(serialHash model.Identifier) error {
	i.storeLock.Lock()
	defer i.storeLock.Unlock()

	return i.store.Delete(serialKey(serialHash))
}

// ForEachSpend iterates over all spent serials.
func (i *SerialIndex) ForEachSpend(consumer func(record *SerialRecord) bool) error {
	i.storeLock.RLock()
	defer i.storeLock.RUnlock()

	var innerErr error
	if err := i.store.Iterate([]byte{StoreKeyPrefixSerial}, func(key kvstore.Key, value kvstore.Value) bool {
		record := new(SerialRecord)
		if innerErr = record.kvStorableLoad(key, value); innerErr != nil {
			return false
		}

		return consumer(record)
	}); err != nil {
		return err
	}

	return innerErr
}

// Wipe removes all spent serials.
func (i *SerialIndex) Wipe() (err error) {
	i.storeLock.Lock()
	defer i.storeLock.Unlock()

	defer func() {
		if errFlush := i.store.Flush(); err == nil && errFlush != nil {
			err = errFlush
		}
	}()

	return i.store.Clear()
}
