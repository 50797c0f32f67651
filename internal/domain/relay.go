package domain

import "context"

// Result is the outcome of one relay delivery attempt. Failure is a value,
// not an error: the caller logs it and moves on, it never propagates.
type Result struct {
	Delivered bool
	Status    int    // HTTP status code, 0 when the request never completed
	Reason    string // failure detail, empty on success
}

// Relay delivers relevant content to the downstream bridge. Both operations
// are single-attempt, best-effort: any network error, timeout, or non-2xx
// status is reported through the Result.
type Relay interface {
	SendText(ctx context.Context, text string) Result
	SendFile(ctx context.Context, path, filename string) Result
}
