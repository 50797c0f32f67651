package bus

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"jobrelay/internal/domain"
)

func testBusLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestInMemoryBus_PublishSubscribe(t *testing.T) {
	b := New(10, testBusLogger())

	b.Publish(domain.MessageEvent{MessageID: 1, Text: "hello"})
	b.Publish(domain.MessageEvent{MessageID: 2, Text: "world"})

	got := <-b.Subscribe()
	if got.MessageID != 1 {
		t.Errorf("expected message 1 first, got %d", got.MessageID)
	}
	got = <-b.Subscribe()
	if got.MessageID != 2 {
		t.Errorf("expected message 2 second, got %d", got.MessageID)
	}
}

func TestInMemoryBus_CloseStopsSubscribers(t *testing.T) {
	b := New(10, testBusLogger())
	b.Close()

	select {
	case _, ok := <-b.Subscribe():
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("subscribe did not observe close")
	}
}

func TestInMemoryBus_PublishAfterCloseDropped(t *testing.T) {
	b := New(10, testBusLogger())
	b.Close()

	// Must not panic on a closed bus.
	b.Publish(domain.MessageEvent{MessageID: 3})
}

func TestInMemoryBus_DoubleCloseSafe(t *testing.T) {
	b := New(10, testBusLogger())
	b.Close()
	b.Close()
}

func TestInMemoryBus_DefaultBufferSize(t *testing.T) {
	b := New(0, testBusLogger())
	if cap(b.inbound) != 100 {
		t.Errorf("expected default buffer 100, got %d", cap(b.inbound))
	}
}
