package sporks

import (
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/spork"
	"github.com/iotaledger/zerostake/pkg/storage"
)

func init() {
	Component = &app.Component{
		Name:      "Sporks",
		DepsFunc:  func(cDeps dependencies) { deps = cDeps },
		Params:    params,
		Provide:   provide,
		Configure: configure,
	}
}

var (
	Component *app.Component
	deps      dependencies
)

type dependencies struct {
	dig.In

	SporkManager *spork.Manager
}

func provide(c *dig.Container) error {
	return c.Provide(func(s *storage.Storage, index *chain.Index) (*spork.Manager, error) {
		publicKeys, err := spork.ParsePublicKeys(ParamsSporks.PublicKeys)
		if err != nil {
			return nil, ierrors.Wrap(err, "failed to parse spork public keys")
		}

		opts := []options.Option[spork.Manager]{spork.WithPublicKeys(publicKeys...)}
		if ParamsSporks.SigningKey != "" {
			signer, err := spork.SignerFromHex(ParamsSporks.SigningKey)
			if err != nil {
				return nil, ierrors.Wrap(err, "failed to parse spork signing key")
			}
			opts = append(opts, spork.WithSigner(signer))
		}

		return spork.NewManager(Component.Logger, spork.NewStore(s.Sporks()), index, opts...), nil
	})
}

func configure() error {
	if ParamsSporks.Reindex {
		Component.LogInfo("Reindexing sporks ...")
		if err := deps.SporkManager.Reindex(); err != nil {
			return ierrors.Wrap(err, "failed to reindex sporks")
		}
		Component.LogInfo("Reindexing sporks ... done")
	} else if err := deps.SporkManager.Load(); err != nil {
		return ierrors.Wrap(err, "failed to load sporks")
	}

	deps.SporkManager.Events.SporkAccepted.Hook(func(message *spork.Message) {
		Component.LogInfof("SporkAccepted: %s", message)
	})

	for _, message := range deps.SporkManager.Messages() {
		Component.LogInfof("Loaded %s", message)
	}

	return nil
}
