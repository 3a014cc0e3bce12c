// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package txpool

import (
	"github.com/prometheus/client_golang/prometheus"
)

// submit results
const (
	resultAccepted  = "accepted"
	resultDuplicate = "duplicate"
	resultRejected  = "rejected"
)

var (
	txsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "juria",
			Subsystem: "txpool",
			Name:      "submitted_total",
			Help:      "Submitted transactions by result",
		},
		[]string{"result"},
	)
	txsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "juria",
			Subsystem: "txpool",
			Name:      "expired_total",
			Help:      "Queued transactions dropped after expiration",
		},
	)
)

func init() {
	prometheus.MustRegister(txsSubmitted, txsExpired)
}
