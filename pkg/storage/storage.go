package storage

import (
	"os"
	"sync"

	hivedb "github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/runtime/ioutils"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/zerostake/pkg/storage/database"
)

const (
	storePrefixHealth byte = 255
)

const (
	settingsPrefix byte = iota
	sporksPrefix
	mintLedgerPrefix
	accumulatorPrefix
	serialsPrefix
)

// Storage is an abstraction around the storage layer of the node. Every subsystem gets its own realm
// of a single database.
type Storage struct {
	directory    string
	instance     *database.DBInstance
	errorHandler func(error)

	settings    kvstore.KVStore
	sporks      kvstore.KVStore
	mintLedger  kvstore.KVStore
	accumulator kvstore.KVStore
	serials     kvstore.KVStore

	shutdownOnce sync.Once

	optsDBEngine         hivedb.Engine
	optsAllowedDBEngines []hivedb.Engine
}

// New opens the database with the given schema version in the given directory.
func New(directory string, dbVersion byte, errorHandler func(error), opts ...options.Option[Storage]) (*Storage, error) {
	s := options.Apply(&Storage{
		directory:    directory,
		errorHandler: errorHandler,
		optsDBEngine: hivedb.EngineRocksDB,
	}, opts)

	if s.optsDBEngine != hivedb.EngineMapDB {
		if err := os.MkdirAll(directory, 0o700); err != nil {
			return nil, ierrors.Wrapf(err, "failed to create database directory %s", directory)
		}
	}

	instance, err := database.NewDBInstance(database.Config{
		Engine:       s.optsDBEngine,
		Directory:    directory,
		Version:      dbVersion,
		PrefixHealth: []byte{storePrefixHealth},
	}, s.optsAllowedDBEngines...)
	if err != nil {
		return nil, err
	}
	s.instance = instance

	store := instance.KVStore()
	s.settings = lo.PanicOnErr(store.WithExtendedRealm(kvstore.Realm{settingsPrefix}))
	s.sporks = lo.PanicOnErr(store.WithExtendedRealm(kvstore.Realm{sporksPrefix}))
	s.mintLedger = lo.PanicOnErr(store.WithExtendedRealm(kvstore.Realm{mintLedgerPrefix}))
	s.accumulator = lo.PanicOnErr(store.WithExtendedRealm(kvstore.Realm{accumulatorPrefix}))
	s.serials = lo.PanicOnErr(store.WithExtendedRealm(kvstore.Realm{serialsPrefix}))

	if err := database.CheckVersion(s.settings, database.Version(dbVersion)); err != nil {
		return nil, ierrors.Join(err, instance.Close())
	}

	return s, nil
}

func (s *Storage) Directory() string {
	return s.directory
}

// Sporks returns the spork storage (or a specialized sub-storage if a realm is provided).
func (s *Storage) Sporks(optRealm ...byte) kvstore.KVStore {
	return withOptionalRealm(s.sporks, optRealm)
}

// MintLedger returns the storage of the locally owned mints.
func (s *Storage) MintLedger(optRealm ...byte) kvstore.KVStore {
	return withOptionalRealm(s.mintLedger, optRealm)
}

// Accumulator returns the storage of the accumulator members and checkpoints.
func (s *Storage) Accumulator(optRealm ...byte) kvstore.KVStore {
	return withOptionalRealm(s.accumulator, optRealm)
}

// Serials returns the storage of the serials revealed on chain.
func (s *Storage) Serials(optRealm ...byte) kvstore.KVStore {
	return withOptionalRealm(s.serials, optRealm)
}

func withOptionalRealm(store kvstore.KVStore, optRealm []byte) kvstore.KVStore {
	if len(optRealm) == 0 {
		return store
	}

	return lo.PanicOnErr(store.WithExtendedRealm(optRealm))
}

// Size returns the size of the database files.
func (s *Storage) Size() int64 {
	if s.instance.Config().Engine == hivedb.EngineMapDB {
		return 0
	}

	size, err := ioutils.FolderSize(s.directory)
	if err != nil {
		s.errorHandler(ierrors.Wrapf(err, "dbDirectorySize failed for %s", s.directory))

		return 0
	}

	return size
}

func (s *Storage) Flush() {
	if err := s.instance.KVStore().Flush(); err != nil {
		s.errorHandler(err)
	}
}

// Shutdown marks the database healthy and closes it.
func (s *Storage) Shutdown() {
	s.shutdownOnce.Do(func() {
		if err := s.instance.Close(); err != nil {
			s.errorHandler(err)
		}
	})
}
