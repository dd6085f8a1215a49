// Package telemetry exposes Prometheus counters for the poll loops.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Checks counts completed check cycles per check.
	Checks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_checks_total",
		Help: "Number of check cycles run",
	}, []string{"check"})

	// ScrapeFailures counts cycles whose data source returned an error.
	ScrapeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_scrape_failures_total",
		Help: "Number of failed scrapes",
	}, []string{"check"})

	// NotificationsSent counts messages delivered to a chat.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_notifications_sent_total",
		Help: "Number of notifications delivered",
	}, []string{"check"})

	// SendFailures counts messages the chat platform rejected.
	SendFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_send_failures_total",
		Help: "Number of notifications that failed to send",
	}, []string{"check"})

	// DestinationUnavailable counts cycles skipped because the channel could not be resolved.
	DestinationUnavailable = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_destination_unavailable_total",
		Help: "Number of cycles skipped because the target chat was unavailable",
	}, []string{"check"})

	// AnnouncedShows is the size of the announced-shows set.
	AnnouncedShows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notifier_announced_shows",
		Help: "Number of distinct upcoming shows announced since start",
	})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
