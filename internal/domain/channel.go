package domain

import "context"

// Channel is the interface for an inbound message source (Telegram).
type Channel interface {
	Name() string
	Start(ctx context.Context, bus MessageBus) error
	Stop() error
}

// Downloader fetches a message attachment into dir and returns the local
// path. Implemented by the platform channel; injected into the router so it
// can be faked in tests.
type Downloader interface {
	Download(ctx context.Context, media MediaRef, dir string) (string, error)
}
