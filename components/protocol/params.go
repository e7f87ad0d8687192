package protocol

import (
	"github.com/iotaledger/hive.go/app"
)

// ParametersProtocol contains the consensus parameters of the shielded subsystem and the staking kernel.
type ParametersProtocol struct {
	// TimeOffset is added to the local clock to get the network adjusted time.
	TimeOffset int64 `default:"0" usage:"the offset in seconds that is added to the local clock to get the network adjusted time"`

	Shielded struct {
		MaxSpendsPerTransaction   int    `default:"7" usage:"the maximum number of coin spends in a single transaction"`
		MintRequiredConfirmations uint32 `default:"20" usage:"the number of confirmations a mint needs before it can be spent"`
		CheckpointInterval        uint32 `default:"10" usage:"the distance in blocks between two accumulator checkpoints"`
		MaxCheckpointAge          uint32 `default:"10000" usage:"the maximum age in blocks of a checkpoint a spend may reference"`
	}

	Stake struct {
		MinDepth         uint32 `default:"200" usage:"the depth an input needs before it is eligible for staking"`
		ModifierInterval int64  `default:"3600" usage:"the time in seconds after the source block of an input until its stake modifier is selected"`
	}
}

// ParametersDatabase contains the definition of configuration parameters used by the storage layer.
type ParametersDatabase struct {
	// Engine defines the used database engine (rocksdb/mapdb/auto).
	Engine string `default:"rocksdb" usage:"the used database engine (rocksdb/mapdb/auto)"`
	// Directory defines the directory of the database.
	Directory string `default:"db" usage:"path to the database directory"`
	// Version is the schema version of the database.
	Version byte `default:"1" usage:"the database schema version"`
}

// ParamsProtocol contains the configuration parameters of the protocol.
var ParamsProtocol = &ParametersProtocol{}

// ParamsDatabase contains configuration parameters used by Database.
var ParamsDatabase = &ParametersDatabase{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"protocol": ParamsProtocol,
		"database": ParamsDatabase,
	},
}
