package metrics

// Metrics naming follows https://prometheus.io/docs/practices/naming/:
// base units only, a suffix describing the unit and 'total' for accumulating counters.

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/components/metrics/collector"
	"github.com/iotaledger/zerostake/components/shielded"
	"github.com/iotaledger/zerostake/components/staking"
	"github.com/iotaledger/zerostake/pkg/blockhandler"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/daemon"
	"github.com/iotaledger/zerostake/pkg/spork"
	"github.com/iotaledger/zerostake/pkg/storage"
	"github.com/iotaledger/zerostake/pkg/zerocoin/accumulator"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger"
	"github.com/iotaledger/zerostake/pkg/zerocoin/spend"
)

func init() {
	Component = &app.Component{
		Name:      "Metrics",
		DepsFunc:  func(cDeps dependencies) { deps = cDeps },
		Params:    params,
		Configure: configure,
		Run:       run,
		IsEnabled: func(container *dig.Container) bool {
			if err := container.Provide(collector.New); err != nil {
				panic(ierrors.Wrap(err, "failed to provide collector"))
			}

			return ParamsMetrics.Enabled
		},
	}
}

var (
	Component *app.Component
	deps      dependencies

	server *http.Server
)

type dependencies struct {
	dig.In

	Storage      *storage.Storage
	ChainIndex   *chain.Index
	Checkpoints  *accumulator.Store
	MintLedger   *mintledger.Manager
	SporkManager *spork.Manager
	SpendEngine  *spend.Engine
	Wallet       *shielded.Wallet
	BlockHandler *blockhandler.BlockHandler

	Collector *collector.Collector
}

func configure() error {
	for _, collection := range []*collector.Collection{InfoMetrics, ChainMetrics, DBMetrics, SporkMetrics, ShieldedMetrics, StakingMetrics} {
		if err := deps.Collector.RegisterCollection(collection); err != nil {
			return err
		}
	}

	deps.SpendEngine.Events.SpendAttempted.Hook(func(receipt *spend.Receipt) {
		logError(deps.Collector.Increment(shieldedNamespace, spendAttempts, receipt.Status().String()))
	})

	deps.Wallet.Events.TransactionCommitted.Hook(func(_ *spend.Transaction) {
		logError(deps.Collector.Increment(shieldedNamespace, transactionsCommitted))
	})

	deps.BlockHandler.Events.BlockConnected.Hook(func(_ *blockhandler.Block) {
		logError(deps.Collector.Increment(chainNamespace, blocks, "connected"))
	})

	deps.BlockHandler.Events.BlockDisconnected.Hook(func(_ *blockhandler.Block) {
		logError(deps.Collector.Increment(chainNamespace, blocks, "disconnected"))
	})

	deps.BlockHandler.Events.BlockRejected.Hook(func(_ *blockhandler.Block, _ error) {
		logError(deps.Collector.Increment(chainNamespace, blocks, "rejected"))
	})

	staking.Events.SearchFinished.Hook(func(outcome *staking.SearchOutcome) {
		logError(deps.Collector.Increment(stakingNamespace, searches, outcome.Label()))
		logError(deps.Collector.Update(stakingNamespace, candidates, float64(outcome.Candidates)))
		logError(deps.Collector.Update(stakingNamespace, searchDuration, outcome.Duration.Seconds()))
	})

	return nil
}

func run() error {
	Component.LogInfo("Starting Prometheus exporter ...")

	if ParamsMetrics.GoMetrics {
		deps.Collector.Registry.MustRegister(collectors.NewGoCollector())
	}
	if ParamsMetrics.ProcessMetrics {
		deps.Collector.Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return Component.Daemon().BackgroundWorker("Prometheus exporter", func(ctx context.Context) {
		Component.LogInfo("Starting Prometheus exporter ... done")

		engine := echo.New()
		engine.Use(middleware.Recover())

		engine.GET("/metrics", func(c echo.Context) error {
			logError(deps.Collector.Collect())

			handler := promhttp.HandlerFor(
				deps.Collector.Registry,
				promhttp.HandlerOpts{
					EnableOpenMetrics: true,
				},
			)
			if ParamsMetrics.PromhttpMetrics {
				handler = promhttp.InstrumentMetricHandler(deps.Collector.Registry, handler)
			}
			handler.ServeHTTP(c.Response().Writer, c.Request())

			return nil
		})
		bindAddr := ParamsMetrics.BindAddress
		server = &http.Server{Addr: bindAddr, Handler: engine, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}

		go func() {
			Component.LogInfof("You can now access the Prometheus exporter using: http://%s/metrics", bindAddr)
			if err := server.ListenAndServe(); err != nil && !ierrors.Is(err, http.ErrServerClosed) {
				Component.LogError("Stopping Prometheus exporter due to an error ... done")
			}
		}()

		<-ctx.Done()
		Component.LogInfo("Stopping Prometheus exporter ...")

		if server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := server.Shutdown(ctx); err != nil {
				Component.LogError(err.Error())
			}
			cancel()
		}
		Component.LogInfo("Stopping Prometheus exporter ... done")
	}, daemon.PriorityMetrics)
}

func logError(err error) {
	if err != nil {
		Component.LogWarnf("failed to update metrics: %s", err)
	}
}
