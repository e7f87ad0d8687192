package metrics

import (
	"github.com/iotaledger/zerostake/components/metrics/collector"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger"
)

const (
	shieldedNamespace = "shielded"

	mintsCount            = "mints"
	balanceValue          = "balance_base_units"
	spendAttempts         = "spend_attempts_total"
	transactionsCommitted = "transactions_committed_total"
)

var ShieldedMetrics = collector.NewCollection(shieldedNamespace,
	collector.WithMetric(collector.NewMetric(mintsCount,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Number of unspent mints per denomination and maturity."),
		collector.WithLabels("denomination", "state"),
		collector.WithResetBeforeCollecting(true),
		collector.WithCollectFunc(func() []collector.Sample {
			balance, err := deps.MintLedger.BalanceByDenomination()
			if err != nil {
				return nil
			}

			samples := make([]collector.Sample, 0, 3*len(zerocoin.Denominations))
			for _, denomination := range zerocoin.Denominations {
				bucket := balance.ByDenomination[denomination]
				samples = append(samples,
					collector.Sample{Value: float64(bucket.Confirmed), LabelValues: []string{denomination.String(), "confirmed"}},
					collector.Sample{Value: float64(bucket.Unconfirmed), LabelValues: []string{denomination.String(), "unconfirmed"}},
					collector.Sample{Value: float64(bucket.Immature), LabelValues: []string{denomination.String(), "immature"}},
				)
			}

			return samples
		}),
	)),
	collector.WithMetric(collector.NewMetric(balanceValue,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Value of the unspent mints per maturity."),
		collector.WithLabels("state"),
		collector.WithResetBeforeCollecting(true),
		collector.WithCollectFunc(func() []collector.Sample {
			balance, err := deps.MintLedger.BalanceByDenomination()
			if err != nil {
				return nil
			}

			return balanceSamples(balance)
		}),
	)),
	collector.WithMetric(collector.NewMetric(spendAttempts,
		collector.WithType(collector.Counter),
		collector.WithHelp("Number of spend attempts per resulting status."),
		collector.WithLabels("status"),
	)),
	collector.WithMetric(collector.NewMetric(transactionsCommitted,
		collector.WithType(collector.Counter),
		collector.WithHelp("Number of transactions committed by the wallet."),
	)),
)

func balanceSamples(balance *mintledger.Balance) []collector.Sample {
	return []collector.Sample{
		{Value: float64(balance.ConfirmedValue), LabelValues: []string{"confirmed"}},
		{Value: float64(balance.UnconfirmedValue), LabelValues: []string{"unconfirmed"}},
		{Value: float64(balance.ImmatureValue), LabelValues: []string{"immature"}},
	}
}
