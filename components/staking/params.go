package staking

import (
	"time"

	"github.com/iotaledger/hive.go/app"
)

// ParametersStaking contains the definition of the parameters used by the staking component.
type ParametersStaking struct {
	// Enabled defines whether the node searches for stake kernels.
	Enabled bool `default:"false" usage:"whether the node searches for stake kernels"`
	// Workers is the number of parallel kernel checks, 0 uses one worker per CPU.
	Workers int `default:"0" usage:"the number of parallel kernel checks (0 = number of CPUs)"`
	// SearchInterval is the time between two kernel searches.
	SearchInterval time.Duration `default:"1s" usage:"the time between two kernel searches"`
}

// ParamsStaking contains the configuration used by the staking component.
var ParamsStaking = &ParametersStaking{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"staking": ParamsStaking,
	},
}
