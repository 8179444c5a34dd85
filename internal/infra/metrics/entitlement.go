package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		entitlementPlansTotal,
		referralsAppliedTotal,
		adsShownTotal,
		paymentsTotal,
	)
}

var (
	entitlementPlansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_plans_total",
			Help: "Plan decisions by outcome (premium/free/credit/denied).",
		},
		[]string{"outcome"},
	)

	referralsAppliedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referrals_applied_total",
			Help: "Referrals that were newly applied.",
		},
	)

	adsShownTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ads_shown_total",
			Help: "Sponsored messages interleaved after successes.",
		},
	)

	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Successful Stars payments by product.",
		},
		[]string{"product"},
	)
)

func IncPlanOutcome(outcome string) {
	entitlementPlansTotal.WithLabelValues(outcome).Inc()
}

func IncReferralApplied() { referralsAppliedTotal.Inc() }

func IncAdShown() { adsShownTotal.Inc() }

func IncPayment(product string) {
	paymentsTotal.WithLabelValues(product).Inc()
}
