package metrics

import (
	"github.com/iotaledger/zerostake/components/metrics/collector"
)

const (
	chainNamespace = "chain"

	tipHeight        = "tip_height"
	tipTime          = "tip_time_seconds"
	adjustedTime     = "adjusted_time_seconds"
	checkpointHeight = "accumulator_checkpoint_height"
	blocks           = "blocks_total"
)

var ChainMetrics = collector.NewCollection(chainNamespace,
	collector.WithMetric(collector.NewMetric(tipHeight,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Height of the current chain tip."),
		collector.WithCollectFunc(collector.SingleValue(func() float64 {
			if tip := deps.ChainIndex.Tip(); tip != nil {
				return float64(tip.Height)
			}

			return 0
		})),
	)),
	collector.WithMetric(collector.NewMetric(tipTime,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Timestamp of the current chain tip."),
		collector.WithCollectFunc(collector.SingleValue(func() float64 {
			if tip := deps.ChainIndex.Tip(); tip != nil {
				return float64(tip.Time)
			}

			return 0
		})),
	)),
	collector.WithMetric(collector.NewMetric(adjustedTime,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Network adjusted time of the node."),
		collector.WithCollectFunc(collector.SingleValue(func() float64 {
			return float64(deps.ChainIndex.AdjustedTime())
		})),
	)),
	collector.WithMetric(collector.NewMetric(checkpointHeight,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Height of the latest accumulator checkpoint."),
		collector.WithCollectFunc(collector.SingleValue(func() float64 {
			height, err := deps.Checkpoints.LatestCheckpointHeight()
			if err != nil {
				return 0
			}

			return float64(height)
		})),
	)),
	collector.WithMetric(collector.NewMetric(blocks,
		collector.WithType(collector.Counter),
		collector.WithHelp("Number of blocks processed by the block handler per outcome."),
		collector.WithLabels("outcome"),
	)),
)
