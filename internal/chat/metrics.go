package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dice_chat_ws_connections",
			Help: "Current number of active websocket sessions.",
		},
	)
	wsRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dice_chat_ws_rooms",
			Help: "Current number of known chat rooms.",
		},
	)
	wsMessagesDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dice_chat_ws_messages_delivered_total",
			Help: "Total websocket messages delivered to clients.",
		},
	)
	diceRolls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dice_chat_dice_rolls_total",
			Help: "Total dice expressions evaluated.",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsRooms, wsMessagesDelivered, diceRolls)
}

func incConnections() {
	wsConnections.Inc()
}

func decConnections() {
	wsConnections.Dec()
}

func setRooms(count int) {
	wsRooms.Set(float64(count))
}

func addDelivered(count int) {
	wsMessagesDelivered.Add(float64(count))
}

func incDiceRolls() {
	diceRolls.Inc()
}
