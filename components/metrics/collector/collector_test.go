package collector_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/zerostake/components/metrics/collector"
)

func TestCollector(t *testing.T) {
	value := 3.0

	c := collector.New()
	require.NoError(t, c.RegisterCollection(collector.NewCollection("test",
		collector.WithMetric(collector.NewMetric("value",
			collector.WithType(collector.Gauge),
			collector.WithHelp("A value."),
			collector.WithCollectFunc(collector.SingleValue(func() float64 { return value })),
		)),
		collector.WithMetric(collector.NewMetric("events_total",
			collector.WithType(collector.Counter),
			collector.WithLabels("kind"),
			collector.WithHelp("Number of events."),
		)),
	)))

	require.NoError(t, c.Collect())
	count, err := testutil.GatherAndCount(c.Registry, "test_value")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	families, err := c.Registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.Equal(t, 3.0, families[0].GetMetric()[0].GetGauge().GetValue())

	require.NoError(t, c.Increment("test", "events_total", "a"))
	require.NoError(t, c.Increment("test", "events_total", "a"))
	require.NoError(t, c.Update("test", "events_total", 5, "b"))
	count, err = testutil.GatherAndCount(c.Registry, "test_events_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.ErrorIs(t, c.Increment("test", "events_total"), collector.ErrLabelMismatch)
	require.ErrorIs(t, c.Increment("test", "missing"), collector.ErrUnknownMetric)
	require.ErrorIs(t, c.Increment("other", "events_total", "a"), collector.ErrUnknownMetric)
}
