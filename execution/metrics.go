// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"github.com/prometheus/client_golang/prometheus"
)

// action kinds
const (
	kindRegular     = "regular"
	kindContextFree = "contextfree"
	kindDeploy      = "deploy"
)

var (
	actionsExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "juria",
			Subsystem: "execution",
			Name:      "actions_total",
			Help:      "Executed actions by kind and result",
		},
		[]string{"kind", "result"},
	)
	txDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "juria",
			Subsystem: "execution",
			Name:      "tx_duration_seconds",
			Help:      "Execution time of a transaction",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)
	consoleLines = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "juria",
			Subsystem: "execution",
			Name:      "console_lines_total",
			Help:      "Lines printed by chaincodes",
		},
	)
)

func init() {
	prometheus.MustRegister(actionsExecuted, txDuration, consoleLines)
}

func observeAction(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	actionsExecuted.WithLabelValues(kind, result).Inc()
}
