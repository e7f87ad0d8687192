package staking

import (
	"context"
	"time"

	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/runtime/event"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/zerostake/components/shielded"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/daemon"
	"github.com/iotaledger/zerostake/pkg/spork"
	"github.com/iotaledger/zerostake/pkg/stake"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger"
)

func init() {
	Component = &app.Component{
		Name:     "Staking",
		DepsFunc: func(cDeps dependencies) { deps = cDeps },
		Params:   params,
		Provide:  provide,
		Run:      run,
		IsEnabled: func(_ *dig.Container) bool {
			return ParamsStaking.Enabled
		},
	}
}

var (
	Component *app.Component
	deps      dependencies

	// Events contains the events of the stake search.
	Events = &SearchEvents{
		SearchFinished: event.New1[*SearchOutcome](),
	}
)

// SearchEvents contains the events of the stake search.
type SearchEvents struct {
	SearchFinished *event.Event1[*SearchOutcome]
}

// SearchOutcome describes a finished kernel search.
type SearchOutcome struct {
	Candidates int
	Result     *stake.Result
	Cancelled  bool
	Err        error
	Duration   time.Duration
}

// Label returns a short name of the outcome.
func (o *SearchOutcome) Label() string {
	switch {
	case o.Result != nil:
		return "found"
	case o.Cancelled:
		return "cancelled"
	case o.Err != nil && !ierrors.Is(o.Err, stake.ErrNoKernelFound):
		return "failed"
	default:
		return "not_found"
	}
}

type dependencies struct {
	dig.In

	ChainIndex   *chain.Index
	Parameters   *zerocoin.Parameters
	MintLedger   *mintledger.Manager
	SporkManager *spork.Manager
	Wallet       *shielded.Wallet
	Searcher     *stake.Searcher
}

func provide(c *dig.Container) error {
	return c.Provide(func(kernel *stake.Kernel) *stake.Searcher {
		var opts []options.Option[stake.Searcher]
		if ParamsStaking.Workers > 0 {
			opts = append(opts, stake.WithWorkers(ParamsStaking.Workers))
		}

		return stake.NewSearcher(kernel, opts...)
	})
}

func run() error {
	return Component.Daemon().BackgroundWorker(Component.Name, func(ctx context.Context) {
		Component.LogInfo("Starting stake search ... done")

		ticker := time.NewTicker(ParamsStaking.SearchInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				Component.LogInfo("Stopping stake search ... done")

				return
			case <-ticker.C:
				if err := search(ctx); err != nil {
					Component.LogWarnf("stake search failed: %s", err)
				}
			}
		}
	}, daemon.PriorityStaking)
}

// search checks all eligible coins against the current tip. A new tip cancels the search.
func search(ctx context.Context) error {
	tip := deps.ChainIndex.Tip()
	if tip == nil || deps.Wallet.IsLocked() || deps.SporkManager.ShieldedMaintenance() {
		return nil
	}

	mints, err := deps.MintLedger.ListSpendable(deps.Parameters.StakeMinDepth)
	if err != nil {
		return ierrors.Wrap(err, "failed to list stakeable mints")
	}
	if len(mints) == 0 {
		return nil
	}

	candidates := lo.Map(mints, func(mint *zerocoin.Mint) stake.Input {
		return stake.NewShieldedCandidate(mint, deps.Parameters)
	})

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	hook := deps.ChainIndex.Events.TipChanged.Hook(func(_ *chain.BlockIndex) {
		cancel()
	})
	defer hook.Unhook()

	start := time.Now()
	result, err := deps.Searcher.Search(searchCtx, candidates, tip.Bits, deps.ChainIndex.AdjustedTime())

	outcome := &SearchOutcome{
		Candidates: len(candidates),
		Result:     result,
		Cancelled:  ierrors.Is(err, context.Canceled),
		Err:        err,
		Duration:   time.Since(start),
	}
	Events.SearchFinished.Trigger(outcome)

	switch {
	case err == nil:
		Component.LogInfof("Found stake kernel %s on top of %s", result.KernelHash.Alias(), tip)
	case ierrors.Is(err, stake.ErrNoKernelFound):
		Component.LogDebugf("No stake kernel among %d candidates", len(candidates))
	case outcome.Cancelled:
		Component.LogDebug("Stake search cancelled by a new tip")
	default:
		return err
	}

	return nil
}
