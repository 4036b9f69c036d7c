// Package metrics holds the prometheus counters of the booking service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking outcomes.
const (
	BookingAccepted = "accepted"
	BookingConflict = "conflict"
	BookingInvalid  = "invalid"
)

var (
	once sync.Once

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinebook",
			Name:      "bookings_total",
			Help:      "Count of booking attempts by result.",
		},
		[]string{"result"},
	)

	signups = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cinebook",
			Name:      "signups_total",
			Help:      "Count of accounts created.",
		},
	)

	notificationsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cinebook",
			Name:      "notifications_failed_total",
			Help:      "Count of booking notifications that could not be delivered.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookings, signups, notificationsFailed)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func IncBooking(result string) {
	bookings.WithLabelValues(result).Inc()
}

func IncSignup() {
	signups.Inc()
}

func IncNotificationFailed() {
	notificationsFailed.Inc()
}
