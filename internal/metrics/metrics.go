package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odinbook_http_requests_total",
		Help: "Total number of HTTP requests by path and status class",
	}, []string{"path", "status"})

	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odinbook_posts_created_total",
		Help: "Total number of posts created",
	})

	TogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odinbook_toggles_total",
		Help: "Total number of toggle mutations by verb and direction",
	}, []string{"verb", "state"})

	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odinbook_notifications_created_total",
		Help: "Total number of notifications fanned out by type",
	}, []string{"type"})

	BroadcastsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odinbook_realtime_broadcasts_sent_total",
		Help: "Total number of realtime frames delivered to client buffers",
	}, []string{"event"})

	BroadcastsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odinbook_realtime_broadcasts_dropped_total",
		Help: "Total number of realtime frames dropped on slow clients",
	}, []string{"event"})
)

// Serve exposes /metrics on its own listener; scrape traffic stays off the
// API port. Runs until the process exits.
func Serve(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logrus.WithField("port", port).Info("metrics server listening")
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logrus.WithError(err).Error("metrics server stopped")
	}
}
