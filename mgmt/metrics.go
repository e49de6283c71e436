/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"time"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/fw"
	"github.com/prometheus/client_golang/prometheus"
)

// metricsTimeout bounds how long a scrape waits for the forwarding thread.
const metricsTimeout = time.Second

type statusMetric struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
	value     func(status *GeneralStatus) uint64
}

func newStatusMetric(name string, help string, valueType prometheus.ValueType, value func(*GeneralStatus) uint64) statusMetric {
	return statusMetric{
		desc:      prometheus.NewDesc(prometheus.BuildFQName("ndnfw", "", name), help, nil, nil),
		valueType: valueType,
		value:     value,
	}
}

// MetricsCollector exports the forwarder status to Prometheus. Every scrape reads the status on the
// forwarding thread, so the forwarder must be running.
type MetricsCollector struct {
	forwarder *fw.Forwarder
	metrics   []statusMetric
}

// NewMetricsCollector creates a collector for the forwarder.
func NewMetricsCollector(forwarder *fw.Forwarder) *MetricsCollector {
	c := &MetricsCollector{forwarder: forwarder}
	gauge := func(name string, help string, value func(*GeneralStatus) uint64) {
		c.metrics = append(c.metrics, newStatusMetric(name, help, prometheus.GaugeValue, value))
	}
	counter := func(name string, help string, value func(*GeneralStatus) uint64) {
		c.metrics = append(c.metrics, newStatusMetric(name, help, prometheus.CounterValue, value))
	}

	gauge("faces", "Number of faces.", func(s *GeneralStatus) uint64 { return s.NFaces })
	gauge("fib_entries", "Number of FIB entries.", func(s *GeneralStatus) uint64 { return s.NFibEntries })
	gauge("pit_entries", "Number of pending Interests.", func(s *GeneralStatus) uint64 { return s.NPitEntries })
	gauge("measurements_entries", "Number of measurements entries.", func(s *GeneralStatus) uint64 { return s.NMeasurementsEntries })
	gauge("strategy_choices", "Number of namespaces with a chosen strategy.", func(s *GeneralStatus) uint64 { return s.NStrategyChoices })
	gauge("dead_nonces", "Number of dead nonces.", func(s *GeneralStatus) uint64 { return s.NDeadNonces })
	counter("in_interests_total", "Interests received.", func(s *GeneralStatus) uint64 { return s.NInInterests })
	counter("in_data_total", "Data packets received.", func(s *GeneralStatus) uint64 { return s.NInData })
	counter("in_nacks_total", "Nacks received.", func(s *GeneralStatus) uint64 { return s.NInNacks })
	counter("out_interests_total", "Interests sent.", func(s *GeneralStatus) uint64 { return s.NOutInterests })
	counter("out_data_total", "Data packets sent.", func(s *GeneralStatus) uint64 { return s.NOutData })
	counter("out_nacks_total", "Nacks sent.", func(s *GeneralStatus) uint64 { return s.NOutNacks })
	counter("satisfied_interests_total", "Interests satisfied by Data.", func(s *GeneralStatus) uint64 { return s.NSatisfiedInterests })
	counter("unsatisfied_interests_total", "Interests that expired or were rejected.", func(s *GeneralStatus) uint64 { return s.NUnsatisfiedInterests })
	return c
}

func (c *MetricsCollector) String() string {
	return "MetricsCollector"
}

// Describe implements prometheus.Collector.
func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, metric := range c.metrics {
		ch <- metric.desc
	}
}

// Collect implements prometheus.Collector. Nothing is collected if the forwarding thread does not
// answer in time.
func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	status := c.snapshot()
	if status == nil {
		return
	}
	for _, metric := range c.metrics {
		ch <- prometheus.MustNewConstMetric(metric.desc, metric.valueType, float64(metric.value(status)))
	}
}

func (c *MetricsCollector) snapshot() *GeneralStatus {
	result := make(chan *GeneralStatus, 1)
	if !c.forwarder.Post(func() { result <- readStatus(c.forwarder) }) {
		return nil
	}

	select {
	case status := <-result:
		return status
	case <-time.After(metricsTimeout):
		core.LogWarn(c, "Forwarding thread did not report status within ", metricsTimeout)
		return nil
	}
}
