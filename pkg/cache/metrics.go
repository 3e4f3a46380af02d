package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ensure Metrics implements the prometheus Collector interface
var _ prometheus.Collector = Metrics{}

var entriesDesc = prometheus.NewDesc(
	"vrfctl_cache_entries",
	"Number of live entries in the resource cache",
	[]string{"kind", "fabric"}, nil,
)

// Metrics exposes the live content of a Store as prometheus metrics.
type Metrics struct {
	store *Store
}

func NewMetrics(store *Store) Metrics {
	return Metrics{store: store}
}

// Describe is implemented with DescribeByCollect, which is possible because
// Collect always emits metrics for the same single descriptor.
func (m Metrics) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(m, ch)
}

// Collect dumps the store and emits one gauge per (kind, fabric) pair with
// the count of live entries. Completeness markers are not counted.
func (m Metrics) Collect(ch chan<- prometheus.Metric) {
	type group struct {
		kind   Kind
		fabric string
	}

	counts := map[group]int{}
	for k := range m.store.Items() {
		key := NewKeyFromString(k)
		if key.Identifier == bulkMarker {
			continue
		}
		counts[group{key.Kind, key.Fabric}]++
	}

	for g, n := range counts {
		ch <- prometheus.MustNewConstMetric(
			entriesDesc,
			prometheus.GaugeValue,
			float64(n),
			string(g.kind), g.fabric,
		)
	}
}
