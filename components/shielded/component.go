package shielded

import (
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/blockhandler"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/spork"
	"github.com/iotaledger/zerostake/pkg/stake"
	"github.com/iotaledger/zerostake/pkg/storage"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/accumulator"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger"
	"github.com/iotaledger/zerostake/pkg/zerocoin/spend"
)

func init() {
	Component = &app.Component{
		Name:      "Shielded",
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

	ChainIndex  *chain.Index
	MintLedger  *mintledger.Manager
	Checkpoints *accumulator.Store
	Serials     *accumulator.SerialIndex
	Wallet      *Wallet
	SpendEngine *spend.Engine
	MintEngine  *spend.MintEngine

	BlockHandler *blockhandler.BlockHandler
}

func provide(c *dig.Container) error {
	if err := c.Provide(func(s *storage.Storage, params *zerocoin.Parameters) *mintledger.Manager {
		return mintledger.New(s.MintLedger(), params)
	}); err != nil {
		return err
	}

	if err := c.Provide(func() *Wallet {
		return NewWallet(ParamsShielded.Locked)
	}); err != nil {
		return err
	}

	type engineDeps struct {
		dig.In

		MintLedger   *mintledger.Manager
		Checkpoints  *accumulator.Store
		Serials      *accumulator.SerialIndex
		Verifier     *accumulator.Verifier
		SporkManager *spork.Manager
		Wallet       *Wallet
	}

	if err := c.Provide(func(d engineDeps) *spend.Engine {
		return spend.NewEngine(Component.Logger, d.MintLedger, d.Checkpoints, d.Serials, d.Verifier, d.SporkManager, d.Wallet)
	}); err != nil {
		return err
	}

	if err := c.Provide(func(d engineDeps) *spend.MintEngine {
		return spend.NewMintEngine(Component.Logger, d.MintLedger, d.SporkManager, d.Wallet)
	}); err != nil {
		return err
	}

	if err := c.Provide(func(d engineDeps) *spend.CoinSpendValidator {
		return spend.NewCoinSpendValidator(d.SporkManager, d.Serials, d.Verifier)
	}); err != nil {
		return err
	}

	if err := c.Provide(spend.NewStakeWallet); err != nil {
		return err
	}

	type handlerDeps struct {
		dig.In

		ChainIndex         *chain.Index
		Parameters         *zerocoin.Parameters
		MintLedger         *mintledger.Manager
		Checkpoints        *accumulator.Store
		Serials            *accumulator.SerialIndex
		CoinSpendValidator *spend.CoinSpendValidator
		StakeValidator     *stake.Validator
		SporkManager       *spork.Manager
	}

	if err := c.Provide(func(d handlerDeps) *blockhandler.BlockHandler {
		return blockhandler.New(Component.Logger, d.ChainIndex, d.Parameters, d.Checkpoints, d.Serials, d.MintLedger, d.CoinSpendValidator, d.StakeValidator, d.SporkManager)
	}); err != nil {
		return err
	}

	return c.Provide(func(handler *blockhandler.BlockHandler) blockhandler.Ingest {
		return handler
	})
}

func configure() error {
	if ParamsShielded.Rescan {
		if err := rescan(); err != nil {
			return err
		}
	}

	deps.ChainIndex.Events.TipChanged.Hook(func(tip *chain.BlockIndex) {
		if err := deps.MintLedger.StoreTipHeight(tip.Height); err != nil {
			Component.LogErrorf("failed to store tip height of the mint ledger: %s", err)
		}
	})

	deps.BlockHandler.Events.BlockRejected.Hook(func(block *blockhandler.Block, err error) {
		Component.LogInfof("BlockRejected: %s, %s", block.Index, err)
	})

	deps.SpendEngine.Events.SpendAttempted.Hook(func(receipt *spend.Receipt) {
		Component.LogDebugf("SpendAttempted: %s", receipt)
	})

	deps.Wallet.Events.TransactionCommitted.Hook(func(transaction *spend.Transaction) {
		Component.LogInfof("TransactionCommitted: %s (%d coin spends, %d mints)", transaction.ID, len(transaction.CoinSpends), len(transaction.Mints))
	})

	return nil
}

func rescan() error {
	Component.LogInfo("Rescanning mints ...")

	updatedMints, err := deps.MintLedger.ResetMints(deps.Checkpoints)
	if err != nil {
		return ierrors.Wrap(err, "failed to reset mints")
	}

	updatedSpends, err := deps.MintLedger.ResetSpent(deps.Serials)
	if err != nil {
		return ierrors.Wrap(err, "failed to reset spent flags")
	}

	Component.LogInfof("Rescanning mints ... done, updated %d heights and %d spent flags", updatedMints, updatedSpends)

	return nil
}
