// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics wraps the prometheus client so that components only
// depend on the aliases and constructors defined here.
package metrics

import (
	"net/http"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewCounter(opts CounterOpts) Counter {
	return prometheus.NewCounter(opts)
}

func NewCounterVec(opts CounterOpts, names []string) CounterMetricVector {
	return prometheus.NewCounterVec(opts, names)
}

func NewGauge(opts GaugeOpts) Gauge {
	return prometheus.NewGauge(opts)
}

func NewHistogram(opts HistogramOpts) Histogram {
	return prometheus.NewHistogram(opts)
}

func NewRegistry() MetricsRegistererGatherer {
	return prometheus.NewRegistry()
}

func NewGoCollector() Collector {
	return collectors.NewGoCollector()
}

func NewProcessCollector(opts ProcessCollectorOpts) Collector {
	return collectors.NewProcessCollector(opts)
}

func InstrumentMetricHandler(reg MetricsRegistererGatherer, handler http.Handler) http.Handler {
	return promhttp.InstrumentMetricHandler(reg, handler)
}

func HandlerFor(reg MetricsRegistererGatherer, opts HandlerOpts) http.Handler {
	return promhttp.HandlerFor(reg, opts)
}

// PrometheusCollectorsFromFields returns all initialized exported fields of
// the struct i, or of the struct i points to, that implement
// prometheus.Collector.
func PrometheusCollectorsFromFields(i any) (cs []Collector) {
	v := reflect.Indirect(reflect.ValueOf(i))
	if v.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < v.NumField(); i++ {
		if !v.Field(i).CanInterface() {
			continue
		}
		if u, ok := v.Field(i).Interface().(Collector); ok {
			if reflect.ValueOf(u).IsZero() {
				continue
			}
			cs = append(cs, u)
		}
	}
	return cs
}

// Register adds the collectors of every component to the registry.
func Register(reg MetricsRegistererGatherer, components ...MetricsCollector) error {
	for _, c := range components {
		for _, col := range c.Metrics() {
			if err := reg.Register(col); err != nil {
				return err
			}
		}
	}
	return nil
}
