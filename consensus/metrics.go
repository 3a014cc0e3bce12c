// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	blocksCommitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "juria",
			Subsystem: "consensus",
			Name:      "blocks_total",
			Help:      "Committed blocks",
		},
	)
	blockTxs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "juria",
			Subsystem: "consensus",
			Name:      "block_txs",
			Help:      "Transaction count of committed blocks",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	blockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "juria",
			Subsystem: "consensus",
			Name:      "block_height",
			Help:      "Height of the last committed block",
		},
	)
)

func init() {
	prometheus.MustRegister(blocksCommitted, blockTxs, blockHeight)
}
