package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(messagesSentTotal, deliveryFailuresTotal, invitesTotal)
}

var messagesSentTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "delivery_messages_sent_total",
		Help: "Outbound messages by kind (text/media/media_group/actions).",
	},
	[]string{"kind"},
)

var deliveryFailuresTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "delivery_failures_total",
		Help: "Per-recipient delivery failures.",
	},
)

var invitesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "delivery_invites_total",
		Help: "Invite grant resolutions by result (minted/cache_hit/failed).",
	},
	[]string{"result"},
)

func IncMessageSent(kind string) {
	messagesSentTotal.WithLabelValues(norm(kind)).Inc()
}

func IncDeliveryFailure() {
	deliveryFailuresTotal.Inc()
}

func IncInvite(result string) {
	invitesTotal.WithLabelValues(norm(result)).Inc()
}
