package shielded

import (
	"github.com/iotaledger/hive.go/app"
)

// ParametersShielded contains the definition of the parameters used by the shielded component.
type ParametersShielded struct {
	// Locked starts the wallet locked, spends and mints are rejected until it is unlocked.
	Locked bool `default:"false" usage:"whether the wallet starts locked"`
	// Rescan re-derives the heights and spent flags of the local mints from the chain on startup.
	Rescan bool `default:"false" usage:"whether to rescan the local mints against the chain on startup"`
}

// ParamsShielded contains the configuration used by the shielded component.
var ParamsShielded = &ParametersShielded{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"shielded": ParamsShielded,
	},
}
