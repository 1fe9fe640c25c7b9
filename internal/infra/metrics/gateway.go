package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(updatesTotal, challengesIssuedTotal, challengeAttemptsTotal)
}

var updatesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gateway_updates_total",
		Help: "Inbound bot updates by outcome (processed/duplicate/banned/throttled/error).",
	},
	[]string{"outcome"},
)

var challengesIssuedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "gateway_challenges_issued_total",
		Help: "Total verification challenges issued.",
	},
)

var challengeAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gateway_challenge_attempts_total",
		Help: "Challenge validation attempts by result (accepted/rejected/expired).",
	},
	[]string{"result"},
)

func IncUpdate(outcome string) {
	updatesTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncChallengeIssued() {
	challengesIssuedTotal.Inc()
}

func IncChallengeAttempt(result string) {
	challengeAttemptsTotal.WithLabelValues(norm(result)).Inc()
}
