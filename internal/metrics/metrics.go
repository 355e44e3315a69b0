package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BidsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servisplus_bids_created_total",
		Help: "Total number of bids successfully published.",
	})

	BidsClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servisplus_bids_closed_total",
		Help: "Total number of bids closed by customers.",
	})

	ResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servisplus_bid_responses_total",
		Help: "Total number of courier responses accepted.",
	})

	MessagesStoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "servisplus_chat_messages_stored_total",
		Help: "Total number of chat messages persisted, by kind.",
	},
		[]string{"kind"},
	)

	RelayDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servisplus_relay_delivered_total",
		Help: "Total number of live relay pushes that reached a connected recipient.",
	})

	RelayMissedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servisplus_relay_missed_total",
		Help: "Total number of live relay pushes skipped because the recipient was offline.",
	})

	RelayConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "servisplus_relay_connections",
		Help: "Current number of live websocket connections.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "servisplus_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
