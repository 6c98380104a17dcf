package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		entitlementResolved,
		quotaVerdicts,
	)
}

var (
	entitlementResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_resolved_total",
			Help: "Entitlement resolutions per precedence source and plan.",
		},
		[]string{"source", "plan"},
	)

	quotaVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quota_verdicts_total",
			Help: "Quota check verdicts.",
		},
		[]string{"verdict"}, // allowed | allowed_unlimited | denied | error
	)
)

func IncEntitlementResolved(source, plan string) {
	entitlementResolved.WithLabelValues(source, plan).Inc()
}

func IncQuotaVerdict(verdict string) {
	quotaVerdicts.WithLabelValues(verdict).Inc()
}
