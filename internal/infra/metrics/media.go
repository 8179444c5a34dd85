package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		downloadsTotal,
		lookTransfersTotal,
		lookTransferSeconds,
	)
}

var (
	downloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "downloads_total",
			Help: "Link downloads by kind (video/audio) and success.",
		},
		[]string{"kind", "success"},
	)

	lookTransfersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "look_transfers_total",
			Help: "Look transfer runs by outcome (ok/failed/too_large).",
		},
		[]string{"outcome"},
	)

	lookTransferSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "look_transfer_seconds",
			Help:    "End-to-end look transfer duration in seconds.",
			Buckets: []float64{1, 2, 5, 10, 20, 40, 80, 160, 320},
		},
	)
)

func IncDownload(kind string, success bool) {
	downloadsTotal.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
}

func ObserveLookTransfer(outcome string, seconds float64) {
	lookTransfersTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		lookTransferSeconds.Observe(seconds)
	}
}
