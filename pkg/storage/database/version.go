package database

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
)

// ErrIncompatibleVersion is returned if a database was written with another schema version.
var ErrIncompatibleVersion = ierrors.New("incompatible database version")

type Version byte

func (v Version) Bytes() []byte {
	return []byte{byte(v)}
}

func VersionFromBytes(bytes []byte) (Version, error) {
	if len(bytes) == 0 {
		return 0, ierrors.New("no database version was persisted")
	}

	return Version(bytes[0]), nil
}

var dbVersionKey = []byte("db_version")

// CheckVersion checks whether the database is compatible with the current schema version.
// The version is stored if the database is new.
func CheckVersion(db kvstore.KVStore, version Version) error {
	entry, err := db.Get(dbVersionKey)
	if ierrors.Is(err, kvstore.ErrKeyNotFound) {
		return db.Set(dbVersionKey, version.Bytes())
	}
	if err != nil {
		return ierrors.Wrap(err, "failed to load database version")
	}

	storedVersion, err := VersionFromBytes(entry)
	if err != nil {
		return err
	}
	if storedVersion != version {
		return ierrors.Wrapf(ErrIncompatibleVersion, "supported version: %d, version of database: %d", version, storedVersion)
	}

	return nil
}
