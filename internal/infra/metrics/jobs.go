package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsProcessedTotal) }

var jobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "broadcast_jobs_processed_total",
		Help: "Broadcast jobs observed by the poller, labeled by outcome (sent/skipped/claim_lost).",
	},
	[]string{"outcome"},
)

func IncJobProcessed(outcome string) {
	jobsProcessedTotal.WithLabelValues(norm(outcome)).Inc()
}
