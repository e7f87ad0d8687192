package metrics

import (
	"github.com/iotaledger/zerostake/components/metrics/collector"
)

const (
	stakingNamespace = "staking"

	searches       = "searches_total"
	candidates     = "candidates"
	searchDuration = "search_duration_seconds"
)

var StakingMetrics = collector.NewCollection(stakingNamespace,
	collector.WithMetric(collector.NewMetric(searches,
		collector.WithType(collector.Counter),
		collector.WithHelp("Number of kernel searches per outcome."),
		collector.WithLabels("outcome"),
	)),
	collector.WithMetric(collector.NewMetric(candidates,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Number of coins checked in the last kernel search."),
	)),
	collector.WithMetric(collector.NewMetric(searchDuration,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Duration of the last kernel search."),
	)),
)
