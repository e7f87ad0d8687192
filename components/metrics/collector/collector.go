package collector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// ErrUnknownMetric is returned if a metric is updated that was never registered.
var ErrUnknownMetric = ierrors.New("unknown metric")

// Collector creates and collects the metrics of the node in its own prometheus registry.
type Collector struct {
	Registry *prometheus.Registry

	collections map[string]*Collection
	mutex       syncutils.RWMutex
}

func New() *Collector {
	return &Collector{
		Registry:    prometheus.NewRegistry(),
		collections: make(map[string]*Collection),
	}
}

func (c *Collector) RegisterCollection(collection *Collection) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, m := range collection.metrics {
		if err := c.Registry.Register(m.promMetric); err != nil {
			return ierrors.Wrapf(err, "failed to register metric %s_%s", collection.CollectionName, m.Name)
		}
	}

	c.collections[collection.CollectionName] = collection

	return nil
}

// Collect updates all metrics that have a collect func.
func (c *Collector) Collect() error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var err error
	for _, collection := range c.collections {
		for _, metric := range collection.metrics {
			err = ierrors.Join(err, metric.collect())
		}
	}

	return err
}

// Update sets a gauge or adds to a counter.
func (c *Collector) Update(namespace string, metricName string, value float64, labelValues ...string) error {
	m, err := c.metric(namespace, metricName)
	if err != nil {
		return err
	}

	return m.update(value, labelValues...)
}

func (c *Collector) Increment(namespace string, metricName string, labelValues ...string) error {
	m, err := c.metric(namespace, metricName)
	if err != nil {
		return err
	}

	return m.increment(labelValues...)
}

func (c *Collector) metric(namespace string, metricName string) (*Metric, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	collection, exists := c.collections[namespace]
	if !exists {
		return nil, ierrors.Wrapf(ErrUnknownMetric, "namespace %s", namespace)
	}

	m := collection.GetMetric(metricName)
	if m == nil {
		return nil, ierrors.Wrapf(ErrUnknownMetric, "%s_%s", namespace, metricName)
	}

	return m, nil
}
