package sporks

import (
	"github.com/iotaledger/hive.go/app"
)

// ParametersSporks contains the definition of the parameters used by the sporks component.
type ParametersSporks struct {
	// PublicKeys are the hex encoded secp256k1 public keys whose spork signatures are accepted.
	PublicKeys []string `default:"" usage:"the hex encoded public keys whose spork signatures are accepted"`
	// SigningKey is the hex encoded secp256k1 private key used to sign spork updates.
	SigningKey string `default:"" usage:"the hex encoded private key used to sign spork updates (empty disables updates)"`
	// Reindex rebuilds the spork cache from the database and drops stored messages with an invalid signature.
	Reindex bool `default:"false" usage:"whether to drop stored sporks that are not signed by an accepted key"`
}

// ParamsSporks contains the configuration used by the sporks component.
var ParamsSporks = &ParametersSporks{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"sporks": ParamsSporks,
	},
	Masked: []string{"sporks.signingKey"},
}
