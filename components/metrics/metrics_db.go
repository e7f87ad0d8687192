package metrics

import (
	"github.com/iotaledger/zerostake/components/metrics/collector"
)

const (
	dbNamespace = "db"

	sizeBytes = "size_bytes"
)

var DBMetrics = collector.NewCollection(dbNamespace,
	collector.WithMetric(collector.NewMetric(sizeBytes,
		collector.WithType(collector.Gauge),
		collector.WithHelp("DB size in bytes."),
		collector.WithCollectFunc(collector.SingleValue(func() float64 {
			return float64(deps.Storage.Size())
		})),
	)),
)
