package domain

// MessageBus routes inbound message events from channels to the router.
type MessageBus interface {
	Publish(msg MessageEvent)
	Subscribe() <-chan MessageEvent
	Close()
}
