package domain

import "time"

// MessageEvent is one inbound message from the platform. It is consumed
// synchronously by the router and discarded afterwards; nothing outlives the
// processing of the event that produced it.
type MessageEvent struct {
	ChatID       int64
	ChatTitle    string
	ChatUserName string // public @username without the prefix, when the chat has one
	MessageID    int
	Text         string
	Media        *MediaRef
	Timestamp    time.Time
}

// MediaRef describes an attachment declared on a message. FileName and
// MimeType are what the platform reported and may be empty.
type MediaRef struct {
	FileID   string
	FileName string
	MimeType string
	Size     int64
}
