package metrics

import (
	"github.com/iotaledger/zerostake/components/metrics/collector"
	"github.com/iotaledger/zerostake/pkg/spork"
)

const (
	sporkNamespace = "sporks"

	sporkMessages = "messages_total"
	sporkActive   = "active"
	sporkValue    = "value"
)

var SporkMetrics = collector.NewCollection(sporkNamespace,
	collector.WithMetric(collector.NewMetric(sporkMessages,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Number of processed spork messages per verdict."),
		collector.WithLabels("verdict"),
		collector.WithCollectFunc(func() []collector.Sample {
			return []collector.Sample{
				{Value: float64(deps.SporkManager.AcceptedCount()), LabelValues: []string{"accepted"}},
				{Value: float64(deps.SporkManager.StaleCount()), LabelValues: []string{"stale"}},
				{Value: float64(deps.SporkManager.InvalidSignatureCount()), LabelValues: []string{"invalid_signature"}},
			}
		}),
	)),
	collector.WithMetric(collector.NewMetric(sporkActive,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Whether a spork is active."),
		collector.WithLabels("spork"),
		collector.WithCollectFunc(func() []collector.Sample {
			return sporkSamples(func(id spork.ID) float64 {
				if deps.SporkManager.IsActive(id) {
					return 1
				}

				return 0
			})
		}),
	)),
	collector.WithMetric(collector.NewMetric(sporkValue,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Current value of a spork."),
		collector.WithLabels("spork"),
		collector.WithCollectFunc(func() []collector.Sample {
			return sporkSamples(func(id spork.ID) float64 {
				return float64(deps.SporkManager.Value(id))
			})
		}),
	)),
)

func sporkSamples(valueFunc func(id spork.ID) float64) []collector.Sample {
	ids := spork.IDs()
	samples := make([]collector.Sample, 0, len(ids))
	for _, id := range ids {
		samples = append(samples, collector.Sample{Value: valueFunc(id), LabelValues: []string{id.String()}})
	}

	return samples
}
