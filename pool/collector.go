/*
NAME
  collector.go

DESCRIPTION
  collector.go exports pool accounting counters as Prometheus metrics.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package pool

import "github.com/prometheus/client_golang/prometheus"

// Statser is implemented by anything that reports pool statistics.
type Statser interface {
	Stats() Stats
}

type collector struct {
	src       Statser
	rented    *prometheus.Desc
	returned  *prometheus.Desc
	allocated *prometheus.Desc
	dropped   *prometheus.Desc
	inUse     *prometheus.Desc
}

// NewCollector returns a prometheus.Collector reporting the statistics of s.
// Metric names are prefixed with readbuf_pool and labelled with name.
func NewCollector(name string, s Statser) prometheus.Collector {
	labels := prometheus.Labels{"pool": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("readbuf", "pool", metric), help, nil, labels)
	}
	return &collector{
		src:       s,
		rented:    desc("rented_total", "Arrays rented from the pool."),
		returned:  desc("returned_total", "Arrays returned to the pool."),
		allocated: desc("allocated_total", "Rents served by a fresh allocation."),
		dropped:   desc("dropped_total", "Returned arrays not kept for reuse."),
		inUse:     desc("in_use", "Arrays currently rented."),
	}
}

// Describe implements prometheus.Collector.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rented
	ch <- c.returned
	ch <- c.allocated
	ch <- c.dropped
	ch <- c.inUse
}

// Collect implements prometheus.Collector.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.rented, prometheus.CounterValue, float64(s.Rented))
	ch <- prometheus.MustNewConstMetric(c.returned, prometheus.CounterValue, float64(s.Returned))
	ch <- prometheus.MustNewConstMetric(c.allocated, prometheus.CounterValue, float64(s.Allocated))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.Dropped))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse()))
}
