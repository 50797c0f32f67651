package metrics

import "jobrelay/internal/bus"

// BindEventBus subscribes the pre-defined counters to the router's
// observability events so the pipeline stays unaware of metrics.
func BindEventBus(eb *bus.EventBus) {
	counters := map[string]*Counter{
		bus.EventMessageReceived: MessagesReceived,
		bus.EventMessageSkipped:  MessagesSkipped,
		bus.EventTextMatched:     TextMatched,
		bus.EventTextUnmatched:   TextUnmatched,
		bus.EventMediaAdmitted:   MediaAdmitted,
		bus.EventMediaRejected:   MediaRejected,
		bus.EventRelayDelivered:  RelayDelivered,
		bus.EventRelayFailed:     RelayFailures,
	}
	for eventType, counter := range counters {
		ctr := counter
		eb.On(eventType, func(bus.Event) { ctr.Inc() })
	}
}
