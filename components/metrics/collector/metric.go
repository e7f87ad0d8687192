package collector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
)

// ErrLabelMismatch is returned if the number of label values does not match the labels of a metric.
var ErrLabelMismatch = ierrors.New("label values do not match the labels of the metric")

type MetricType uint8

const (
	// Gauge is set to the collected value.
	Gauge MetricType = iota
	// Counter is increased by the collected value.
	Counter
)

// CollectFunc returns the current value of a metric. A metric with labels returns one sample per label set.
type CollectFunc func() []Sample

// Sample is a single value of a metric.
type Sample struct {
	Value       float64
	LabelValues []string
}

// Metric is registered to the prometheus registry and collected on every scrape with its collect func,
// or updated from events via the collector.
type Metric struct {
	Name      string
	Type      MetricType
	Namespace string

	help         string
	labels       []string
	collectFunc  CollectFunc
	resetEnabled bool

	promMetric prometheus.Collector
}

func NewMetric(name string, opts ...options.Option[Metric]) *Metric {
	return options.Apply(&Metric{
		Name: name,
	}, opts)
}

func (m *Metric) initPromMetric() {
	if m.promMetric != nil {
		return
	}

	switch m.Type {
	case Gauge:
		opts := prometheus.GaugeOpts{Namespace: m.Namespace, Name: m.Name, Help: m.help}
		if len(m.labels) > 0 {
			m.promMetric = prometheus.NewGaugeVec(opts, m.labels)
		} else {
			m.promMetric = prometheus.NewGauge(opts)
		}
	case Counter:
		opts := prometheus.CounterOpts{Namespace: m.Namespace, Name: m.Name, Help: m.help}
		if len(m.labels) > 0 {
			m.promMetric = prometheus.NewCounterVec(opts, m.labels)
		} else {
			m.promMetric = prometheus.NewCounter(opts)
		}
	}
}

func (m *Metric) collect() error {
	if m.collectFunc == nil {
		return nil
	}

	if m.resetEnabled {
		m.reset()
	}

	for _, sample := range m.collectFunc() {
		if err := m.update(sample.Value, sample.LabelValues...); err != nil {
			return err
		}
	}

	return nil
}

func (m *Metric) update(value float64, labelValues ...string) error {
	if len(labelValues) != len(m.labels) {
		return ierrors.Wrapf(ErrLabelMismatch, "metric %s_%s expects %d labels, got %d", m.Namespace, m.Name, len(m.labels), len(labelValues))
	}

	switch metric := m.promMetric.(type) {
	case prometheus.Gauge:
		metric.Set(value)
	case *prometheus.GaugeVec:
		metric.WithLabelValues(labelValues...).Set(value)
	case prometheus.Counter:
		metric.Add(value)
	case *prometheus.CounterVec:
		metric.WithLabelValues(labelValues...).Add(value)
	}

	return nil
}

func (m *Metric) increment(labelValues ...string) error {
	if len(labelValues) != len(m.labels) {
		return ierrors.Wrapf(ErrLabelMismatch, "metric %s_%s expects %d labels, got %d", m.Namespace, m.Name, len(m.labels), len(labelValues))
	}

	switch metric := m.promMetric.(type) {
	case prometheus.Gauge:
		metric.Inc()
	case *prometheus.GaugeVec:
		metric.WithLabelValues(labelValues...).Inc()
	case prometheus.Counter:
		metric.Inc()
	case *prometheus.CounterVec:
		metric.WithLabelValues(labelValues...).Inc()
	}

	return nil
}

func (m *Metric) reset() {
	switch metric := m.promMetric.(type) {
	case prometheus.Gauge:
		metric.Set(0)
	case *prometheus.GaugeVec:
		metric.Reset()
	case *prometheus.CounterVec:
		metric.Reset()
	}
}

func WithType(t MetricType) options.Option[Metric] {
	return func(m *Metric) {
		m.Type = t
	}
}

func WithHelp(help string) options.Option[Metric] {
	return func(m *Metric) {
		m.help = help
	}
}

// WithLabels defines the labels of the metric, label values are passed in the same order.
func WithLabels(labels ...string) options.Option[Metric] {
	return func(m *Metric) {
		m.labels = labels
	}
}

// WithResetBeforeCollecting drops all label sets before each collection, so label sets that are not
// collected anymore disappear.
func WithResetBeforeCollecting(resetEnabled bool) options.Option[Metric] {
	return func(m *Metric) {
		m.resetEnabled = resetEnabled
	}
}

// WithCollectFunc sets the function that is called on every scrape.
func WithCollectFunc(collectFunc CollectFunc) options.Option[Metric] {
	return func(m *Metric) {
		m.collectFunc = collectFunc
	}
}

// SingleValue wraps a value function of a metric without labels.
func SingleValue(valueFunc func() float64) CollectFunc {
	return func() []Sample {
		return []Sample{{Value: valueFunc()}}
	}
}
