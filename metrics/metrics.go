package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsTotal counts booking attempts by kind and outcome
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travel",
			Name:      "bookings_total",
			Help:      "The total number of booking attempts",
		},
		[]string{"kind", "outcome"},
	)

	BookingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travel",
			Name:      "booking_duration_seconds",
			Help:      "Time spent reserving units on a resource",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	ListingCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travel",
			Name:      "listing_cache_total",
			Help:      "Listing cache lookups by result",
		},
		[]string{"kind", "result"},
	)

	AuditEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travel",
			Name:      "audit_events_total",
			Help:      "Booking audit events published or consumed",
		},
		[]string{"direction", "result"},
	)
)
