package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProfileTransitions counts approval-dimension transitions by outcome status.
	ProfileTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vendorhub",
		Subsystem: "moderation",
		Name:      "profile_transitions_total",
		Help:      "Profile approval transitions by resulting status.",
	}, []string{"to_status"})

	// ClaimConflicts counts claims lost to another moderator.
	ClaimConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vendorhub",
		Subsystem: "moderation",
		Name:      "claim_conflicts_total",
		Help:      "Task claims rejected because another moderator won the race.",
	}, []string{"category"})

	// NotificationDeliveries counts outbox delivery attempts by result.
	NotificationDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vendorhub",
		Subsystem: "notifications",
		Name:      "deliveries_total",
		Help:      "Notification delivery attempts by result.",
	}, []string{"result"})

	// RiskProviderRequests observes scoring provider call latency by outcome.
	RiskProviderRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vendorhub",
		Subsystem: "risk",
		Name:      "provider_request_seconds",
		Help:      "Risk provider request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
)

// Handler returns the /metrics endpoint handler
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
