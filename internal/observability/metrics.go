package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "petwalk", Name: "bookings_created_total", Help: "Total bookings created"})

	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "petwalk", Name: "booking_transitions_total", Help: "Booking lifecycle transitions applied"},
		[]string{"action"},
	)

	MatchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "petwalk", Name: "match_latency_seconds", Help: "Walker matching latency in seconds"})

	WalkersRanked = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "petwalk", Name: "walkers_ranked", Help: "Number of walkers returned per matching query",
		Buckets: prometheus.LinearBuckets(0, 5, 10)})

	WalkDistanceKm = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "petwalk", Name: "walk_distance_km", Help: "Recorded distance of completed walks in kilometers",
		Buckets: prometheus.DefBuckets})
)
