package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		ordersTotal,
		paymentsTotal,
		paymentsRevenueTotal,
		signatureFailuresTotal,
	)
}

var (
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders created, labeled by provider.",
		},
		[]string{"provider"},
	)

	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Order transitions by outcome (paid/failed).",
		},
		[]string{"status"},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "The total monetary value of successful payments, labeled by currency.",
		},
		[]string{"currency"},
	)

	signatureFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_signature_failures_total",
			Help: "Callback verifications rejected for a hash mismatch.",
		},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncOrderCreated(provider string) {
	ordersTotal.WithLabelValues(norm(provider)).Inc()
}

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func AddPaymentRevenue(currency string, amountCents int64) {
	paymentsRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amountCents))
}

func IncSignatureFailure() {
	signatureFailuresTotal.Inc()
}
