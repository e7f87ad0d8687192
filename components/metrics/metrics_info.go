package metrics

import (
	"runtime"
	"strconv"

	"github.com/iotaledger/zerostake/components/metrics/collector"
)

const (
	infoNamespace = "info"

	nodeOS   = "node_os"
	memUsage = "memory_usage_bytes"
)

var InfoMetrics = collector.NewCollection(infoNamespace,
	collector.WithMetric(collector.NewMetric(nodeOS,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Node OS data."),
		collector.WithLabels("OS", "ARCH", "NUM_CPU"),
		collector.WithCollectFunc(func() []collector.Sample {
			return []collector.Sample{{
				Value:       1,
				LabelValues: []string{runtime.GOOS, runtime.GOARCH, strconv.Itoa(runtime.GOMAXPROCS(0))},
			}}
		}),
	)),
	collector.WithMetric(collector.NewMetric(memUsage,
		collector.WithType(collector.Gauge),
		collector.WithHelp("The memory usage in bytes of allocated heap objects"),
		collector.WithCollectFunc(collector.SingleValue(func() float64 {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			return float64(m.Alloc)
		})),
	)),
)
