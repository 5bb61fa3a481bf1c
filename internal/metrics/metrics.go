package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActiveConnections tracks the number of registered connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chatsocket_active_connections",
		Help: "Number of currently registered websocket connections.",
	})

	// ActiveRooms tracks the number of rooms in the directory.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chatsocket_active_rooms",
		Help: "Number of rooms currently in the directory.",
	})

	// BroadcastsTotal counts envelopes fanned out to rooms.
	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatsocket_broadcasts_total",
		Help: "Total number of envelopes broadcast to a room.",
	})

	// SendFailuresTotal counts per-recipient delivery failures.
	SendFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatsocket_send_failures_total",
		Help: "Total number of failed sends that pruned a connection.",
	})

	// ConnectionsRejectedTotal counts connects refused at the capacity ceiling.
	ConnectionsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatsocket_connections_rejected_total",
		Help: "Total number of connections refused because the server was full.",
	})
)

// Handler exposes Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
