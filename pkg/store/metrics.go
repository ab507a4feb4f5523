package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreHits counts Get calls that returned an entry
	StoreHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sporthive_store_hits_total",
			Help: "Total number of published collections read back from the store",
		},
	)

	// StoreMisses counts Get calls on missing or expired keys
	StoreMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sporthive_store_misses_total",
			Help: "Total number of store lookups that found nothing",
		},
	)

	// StoreSize tracks bytes moved through the store
	StoreSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sporthive_store_size_bytes",
			Help: "Bytes of published collections written to or read from the store",
		},
	)

	// StoreErrors tracks store operation errors
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sporthive_store_errors_total",
			Help: "Total number of store operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
