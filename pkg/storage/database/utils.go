package database

import (
	"runtime"

	hivedb "github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/hive.go/kvstore/rocksdb"
)

var (
	AllowedEnginesDefault = []hivedb.Engine{
		hivedb.EngineAuto,
		hivedb.EngineMapDB,
		hivedb.EngineRocksDB,
	}

	// AllowedEnginesStorage are the engines the node storage can be configured with.
	AllowedEnginesStorage = []hivedb.Engine{
		hivedb.EngineRocksDB,
		hivedb.EngineMapDB,
	}

	AllowedEnginesStorageAuto = append(append([]hivedb.Engine{}, AllowedEnginesStorage...), hivedb.EngineAuto)
)

// NewRocksDB creates a new RocksDB instance.
func NewRocksDB(path string) (*rocksdb.RocksDB, error) {
	opts := []rocksdb.Option{
		rocksdb.IncreaseParallelism(runtime.NumCPU() - 1),
		rocksdb.Custom([]string{
			"periodic_compaction_seconds=43200",
			"level_compaction_dynamic_level_bytes=true",
			"keep_log_file_num=2",
			"max_log_file_size=50000000", // 50MB per log file
		}),
	}

	return rocksdb.CreateDB(path, opts...)
}

// StoreWithDefaultSettings opens the database in path with the given engine, or with the engine the
// database was created with if the engine is EngineAuto.
func StoreWithDefaultSettings(path string, createDatabaseIfNotExists bool, dbEngine hivedb.Engine, allowedEngines ...hivedb.Engine) (kvstore.KVStore, error) {
	if len(allowedEngines) == 0 {
		allowedEngines = AllowedEnginesDefault
	}

	targetEngine, err := hivedb.CheckEngine(path, createDatabaseIfNotExists, dbEngine, allowedEngines)
	if err != nil {
		return nil, err
	}

	switch targetEngine {
	case hivedb.EngineRocksDB:
		db, err := NewRocksDB(path)
		if err != nil {
			return nil, err
		}

		return rocksdb.New(db), nil

	case hivedb.EngineMapDB:
		return mapdb.NewMapDB(), nil

	default:
		return nil, ierrors.Errorf("unknown database engine: %s, supported engines: rocksdb/mapdb", dbEngine)
	}
}

func FlushAndClose(store kvstore.KVStore) error {
	if err := store.Flush(); err != nil {
		return err
	}

	return store.Close()
}
