package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChargesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "charges_total",
			Help: "PIX charge initiations by result",
		},
		[]string{"result"}, // ok|conflict|error
	)

	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Inbound gateway events by kind and outcome",
		},
		[]string{"event", "outcome"}, // processed|duplicate|unknown|ignored
	)

	WithdrawalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "withdrawals_total",
			Help: "Wallet withdrawals by result",
		},
		[]string{"result"}, // ok|conflict|gateway_error|error
	)

	WalletCreditsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_credits_failed_total",
			Help: "Best-effort wallet credits that failed and need reconciliation",
		},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current notification worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(ChargesTotal)
	prometheus.MustRegister(WebhookEventsTotal)
	prometheus.MustRegister(WithdrawalsTotal)
	prometheus.MustRegister(WalletCreditsFailed)
	prometheus.MustRegister(WorkerQueueDepth)
}
