package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	hivedb "github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/zerostake/pkg/storage"
	"github.com/iotaledger/zerostake/pkg/storage/database"
)

func newStorage(t *testing.T) *storage.Storage {
	instance, err := storage.New(t.TempDir(), 1, func(err error) {
		t.Error(err)
	}, storage.WithDBEngine(hivedb.EngineMapDB))
	require.NoError(t, err)

	t.Cleanup(instance.Shutdown)

	return instance
}

func TestStorage_RealmsAreSeparated(t *testing.T) {
	instance := newStorage(t)

	key := []byte("key")
	require.NoError(t, instance.Sporks().Set(key, []byte("spork")))
	require.NoError(t, instance.MintLedger().Set(key, []byte("mint")))

	for _, store := range []kvstore.KVStore{instance.Accumulator(), instance.Serials()} {
		has, err := store.Has(key)
		require.NoError(t, err)
		require.False(t, has)
	}

	value, err := instance.Sporks().Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("spork"), value)

	value, err = instance.MintLedger().Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("mint"), value)

	require.NoError(t, instance.Sporks(1).Set(key, []byte("nested")))
	value, err = instance.Sporks().Get(append([]byte{1}, key...))
	require.NoError(t, err)
	require.Equal(t, []byte("nested"), value)

	require.Zero(t, instance.Size())
	instance.Flush()
}

func TestCheckVersion(t *testing.T) {
	instance := newStorage(t)
	store := instance.Accumulator(9)

	require.NoError(t, database.CheckVersion(store, 3))
	require.NoError(t, database.CheckVersion(store, 3))
	require.ErrorIs(t, database.CheckVersion(store, 4), database.ErrIncompatibleVersion)
}

func TestStorage_AllowedEngines(t *testing.T) {
	engine, err := hivedb.EngineFromStringAllowed("auto", database.AllowedEnginesStorageAuto)
	require.NoError(t, err)
	require.Equal(t, hivedb.EngineAuto, engine)

	_, err = hivedb.EngineFromStringAllowed("auto", database.AllowedEnginesStorage)
	require.Error(t, err)

	_, err = hivedb.EngineFromStringAllowed("pebble", database.AllowedEnginesStorageAuto)
	require.Error(t, err)

	instance, err := storage.New(t.TempDir(), 1, func(err error) {
		t.Error(err)
	}, storage.WithDBEngine(hivedb.EngineMapDB), storage.WithAllowedDBEngines(database.AllowedEnginesStorageAuto))
	require.NoError(t, err)
	instance.Shutdown()
}
