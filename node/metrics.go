// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	framesIn          prometheus.Counter
	framesOut         prometheus.Counter
	castsExternalized prometheus.Counter
	invalidCasts      prometheus.Counter
	peers             prometheus.Gauge
	clients           prometheus.Gauge

	// sendLatency observes the delay between a send and its
	// externalization, in seconds.
	sendLatency prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		framesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frost_frames_in",
			Help: "inbound transport frames",
		}),
		framesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frost_frames_out",
			Help: "protocol frames fanned out to transports",
		}),
		castsExternalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frost_casts_externalized",
			Help: "casts adopted through externalization",
		}),
		invalidCasts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frost_invalid_casts",
			Help: "externalized values dropped for failing verification",
		}),
		peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "frost_peers",
			Help: "registered outbound peers",
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "frost_clients",
			Help: "accepted inbound clients",
		}),
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "frost_send_latency_seconds",
			Help:    "delay between a send and its externalization",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{
			m.framesIn,
			m.framesOut,
			m.castsExternalized,
			m.invalidCasts,
			m.peers,
			m.clients,
			m.sendLatency,
		} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("registering metrics: %w", err)
			}
		}
	}
	return m, nil
}
