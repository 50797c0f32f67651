package bus

import (
	"log/slog"
	"sync"
	"time"

	"jobrelay/internal/domain"
)

const publishTimeout = 10 * time.Second

// InMemoryBus is a Go-channel based message bus carrying inbound message
// events from the platform channel to the router.
type InMemoryBus struct {
	inbound chan domain.MessageEvent
	mu      sync.RWMutex
	closed  bool
	logger  *slog.Logger
}

// New creates a new InMemoryBus with the given buffer size.
func New(bufferSize int, logger *slog.Logger) *InMemoryBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &InMemoryBus{
		inbound: make(chan domain.MessageEvent, bufferSize),
		logger:  logger,
	}
}

// Blocks up to 10 seconds if the bus is full instead of dropping.
func (b *InMemoryBus) Publish(msg domain.MessageEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.logger.Warn("attempted to publish to closed bus")
		return
	}

	select {
	case b.inbound <- msg:
	default:
		// Bus full — wait with timeout instead of dropping
		b.logger.Warn("inbound bus full, waiting...", "chat_id", msg.ChatID, "message_id", msg.MessageID)
		timer := time.NewTimer(publishTimeout)
		defer timer.Stop()
		select {
		case b.inbound <- msg:
			b.logger.Info("message delivered after wait", "message_id", msg.MessageID)
		case <-timer.C:
			b.logger.Error("message dropped: bus full for 10s",
				"chat_id", msg.ChatID,
				"message_id", msg.MessageID,
			)
		}
	}
}

func (b *InMemoryBus) Subscribe() <-chan domain.MessageEvent {
	return b.inbound
}

func (b *InMemoryBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.inbound)
	}
}
