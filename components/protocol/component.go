package protocol

import (
	"context"
	"time"

	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/app"
	hivedb "github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/daemon"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/stake"
	"github.com/iotaledger/zerostake/pkg/storage"
	"github.com/iotaledger/zerostake/pkg/storage/database"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/accumulator"
)

func init() {
	Component = &app.Component{
		Name:      "Protocol",
		DepsFunc:  func(cDeps dependencies) { deps = cDeps },
		Params:    params,
		Provide:   provide,
		Configure: configure,
		Run:       run,
	}
}

var (
	Component *app.Component
	deps      dependencies
)

type dependencies struct {
	dig.In

	Storage    *storage.Storage
	ChainIndex *chain.Index
}

func provide(c *dig.Container) error {
	if err := c.Provide(func() (*storage.Storage, error) {
		engine, err := hivedb.EngineFromStringAllowed(ParamsDatabase.Engine, database.AllowedEnginesStorageAuto)
		if err != nil {
			return nil, err
		}

		return storage.New(ParamsDatabase.Directory, ParamsDatabase.Version, func(err error) {
			Component.LogErrorf("Error in Storage: %s", err)
		}, storage.WithDBEngine(engine), storage.WithAllowedDBEngines(database.AllowedEnginesStorageAuto))
	}); err != nil {
		return err
	}

	if err := c.Provide(func() *zerocoin.Parameters {
		return zerocoin.NewParameters(
			zerocoin.WithMaxSpendsPerTransaction(ParamsProtocol.Shielded.MaxSpendsPerTransaction),
			zerocoin.WithMintRequiredConfirmations(model.Height(ParamsProtocol.Shielded.MintRequiredConfirmations)),
			zerocoin.WithCheckpointInterval(model.Height(ParamsProtocol.Shielded.CheckpointInterval)),
			zerocoin.WithMaxCheckpointAge(model.Height(ParamsProtocol.Shielded.MaxCheckpointAge)),
			zerocoin.WithStakeMinDepth(model.Height(ParamsProtocol.Stake.MinDepth)),
			zerocoin.WithStakeModifierInterval(ParamsProtocol.Stake.ModifierInterval),
		)
	}); err != nil {
		return err
	}

	if err := c.Provide(func() *chain.Index {
		index := chain.NewIndex()
		index.SetTimeOffset(time.Duration(ParamsProtocol.TimeOffset) * time.Second)

		return index
	}); err != nil {
		return err
	}

	if err := c.Provide(func(s *storage.Storage, params *zerocoin.Parameters) *accumulator.Store {
		return accumulator.NewStore(s.Accumulator(), params, zerocoin.DefaultAccumulatorParams)
	}); err != nil {
		return err
	}

	if err := c.Provide(func(s *storage.Storage) *accumulator.SerialIndex {
		return accumulator.NewSerialIndex(s.Serials())
	}); err != nil {
		return err
	}

	if err := c.Provide(func(store *accumulator.Store, index *chain.Index) *accumulator.Verifier {
		return accumulator.NewVerifier(store, func() model.Height {
			return chain.TipHeight(index)
		})
	}); err != nil {
		return err
	}

	if err := c.Provide(func(index *chain.Index, params *zerocoin.Parameters) *stake.Kernel {
		return stake.NewKernel(index, params)
	}); err != nil {
		return err
	}

	return c.Provide(func(kernel *stake.Kernel, checkpoints *accumulator.Store) *stake.Validator {
		return stake.NewValidator(kernel, checkpoints)
	})
}

func configure() error {
	deps.ChainIndex.Events.TipChanged.Hook(func(tip *chain.BlockIndex) {
		Component.LogDebugf("TipChanged: %s", tip)
	})

	return nil
}

func run() error {
	return Component.Daemon().BackgroundWorker("Close database", func(ctx context.Context) {
		<-ctx.Done()

		Component.LogInfo("Syncing databases to disk ...")
		deps.Storage.Shutdown()
		Component.LogInfo("Syncing databases to disk ... done")
	}, daemon.PriorityCloseDatabase)
}
