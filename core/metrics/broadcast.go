package metrics

import "github.com/prometheus/client_golang/prometheus"

// BroadcastMetrics records broadcaster activity. It satisfies broadcast.Observer.
type BroadcastMetrics struct {
	Subscribers       prometheus.Gauge
	MessagesPublished prometheus.Counter
	MessagesDelivered prometheus.Counter
	MessagesDropped   prometheus.Counter
}

// NewBroadcastMetrics creates and registers broadcaster metrics on the given registry.
func NewBroadcastMetrics(reg prometheus.Registerer) *BroadcastMetrics {
	m := &BroadcastMetrics{
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "subscribers",
			Help:      "Number of active stream subscribers.",
		}),
		MessagesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "messages_published_total",
			Help:      "Total number of messages published.",
		}),
		MessagesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "messages_delivered_total",
			Help:      "Total number of messages enqueued to subscribers.",
		}),
		MessagesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "messages_dropped_total",
			Help:      "Total number of messages dropped because a subscriber queue was full.",
		}),
	}

	reg.MustRegister(m.Subscribers, m.MessagesPublished, m.MessagesDelivered, m.MessagesDropped)
	return m
}

func (m *BroadcastMetrics) SubscriberAdded()   { m.Subscribers.Inc() }
func (m *BroadcastMetrics) SubscriberRemoved() { m.Subscribers.Dec() }
func (m *BroadcastMetrics) MessageDropped()    { m.MessagesDropped.Inc() }

func (m *BroadcastMetrics) MessagePublished(delivered int) {
	m.MessagesPublished.Inc()
	m.MessagesDelivered.Add(float64(delivered))
}
