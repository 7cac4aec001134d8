package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the delivery pipeline. Push failures are deliberately
// invisible to users, so these are the only place they surface.
var (
	EventsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_events_received_total",
		Help: "Events consumed from the pub/sub topic.",
	})
	EventsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_events_duplicate_total",
		Help: "Events skipped by the dedup check.",
	})
	NotificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Notification rows persisted to the backlog.",
	})
	PushesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pushes_sent_total",
		Help: "Device tokens a push was accepted for.",
	})
	PushesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pushes_failed_total",
		Help: "Device tokens the gateway rejected.",
	})
	RegisterFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "push_register_failures_total",
		Help: "Failed device token registrations.",
	})
)
