package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(webhookEvents)
}

var webhookEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stripe_webhook_events_total",
		Help: "Stripe webhook events by decoded type.",
	},
	[]string{"type"}, // checkout_completed | subscription_updated | subscription_deleted | ignored | invalid
)

func IncWebhookEvent(eventType string) {
	webhookEvents.WithLabelValues(eventType).Inc()
}
