package database

import (
	hivedb "github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// DBInstance is a database whose health is tracked. It is marked corrupted while it is open and
// healthy after a clean shutdown.
type DBInstance struct {
	store         kvstore.KVStore
	healthTracker *kvstore.StoreHealthTracker
	dbConfig      Config

	closeMutex syncutils.Mutex
	closed     bool
}

func NewDBInstance(dbConfig Config, allowedEngines ...hivedb.Engine) (*DBInstance, error) {
	db, err := StoreWithDefaultSettings(dbConfig.Directory, true, dbConfig.Engine, allowedEngines...)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to open database in %s", dbConfig.Directory)
	}

	storeHealthTracker, err := kvstore.NewStoreHealthTracker(db, dbConfig.PrefixHealth, dbConfig.Version, nil)
	if err != nil {
		return nil, ierrors.Wrapf(err, "database in %s is corrupted, delete database and resync node", dbConfig.Directory)
	}

	corrupted, err := storeHealthTracker.IsCorrupted()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to check database health")
	}
	if corrupted {
		return nil, ierrors.Errorf("database in %s was not shut down cleanly, delete database and resync node", dbConfig.Directory)
	}

	if err = storeHealthTracker.MarkCorrupted(); err != nil {
		return nil, err
	}

	return &DBInstance{
		store:         db,
		healthTracker: storeHealthTracker,
		dbConfig:      dbConfig,
	}, nil
}

// Close marks the database healthy, flushes and closes it.
func (d *DBInstance) Close() error {
	d.closeMutex.Lock()
	defer d.closeMutex.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if err := d.healthTracker.MarkHealthy(); err != nil {
		return err
	}

	return FlushAndClose(d.store)
}

func (d *DBInstance) KVStore() kvstore.KVStore {
	return d.store
}

func (d *DBInstance) Config() Config {
	return d.dbConfig
}
