// Package router drives per-message processing: target-chat filtering, text
// classification, attachment gating, and delivery to the bridge.
package router

import (
	"context"
	"log/slog"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"jobrelay/internal/bus"
	"jobrelay/internal/classify"
	"jobrelay/internal/domain"
	"jobrelay/internal/gate"
)

// placeholderName stands in when the platform declared media without a
// filename.
const placeholderName = "file"

// Config wires the router's collaborators. All of them are required except
// Events, which may be nil when no observer is interested.
type Config struct {
	TargetChat  string // chat title or decimal chat ID
	DownloadDir string
	Classifier  *classify.Classifier
	Relay       domain.Relay
	Downloader  domain.Downloader
	Bus         domain.MessageBus
	Events      *bus.EventBus
	Logger      *slog.Logger
}

// Router consumes inbound message events and processes each one to
// completion before taking the next. It keeps no state across events.
type Router struct {
	target      string
	downloadDir string
	classifier  *classify.Classifier
	relay       domain.Relay
	downloader  domain.Downloader
	bus         domain.MessageBus
	events      *bus.EventBus
	logger      *slog.Logger
}

// New creates a Router from the given config.
func New(cfg Config) *Router {
	return &Router{
		target:      cfg.TargetChat,
		downloadDir: cfg.DownloadDir,
		classifier:  cfg.Classifier,
		relay:       cfg.Relay,
		downloader:  cfg.Downloader,
		bus:         cfg.Bus,
		events:      cfg.Events,
		logger:      cfg.Logger,
	}
}

// Run consumes the message bus until the context is cancelled or the bus is
// closed. Each event is handled synchronously; a failure in one event never
// affects the next.
func (r *Router) Run(ctx context.Context) {
	events := r.bus.Subscribe()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("router stopping")
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			r.Handle(ctx, msg)
		}
	}
}

// Handle processes one message event. Panics anywhere in per-event
// processing are caught here so a malformed event cannot take down the loop.
func (r *Router) Handle(ctx context.Context, msg domain.MessageEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic while processing message",
				"message_id", msg.MessageID, "panic", rec)
		}
	}()

	r.logger.Debug("message received",
		"chat_id", msg.ChatID,
		"chat_title", msg.ChatTitle,
		"message_id", msg.MessageID,
	)
	r.emit(bus.EventMessageReceived, map[string]any{"message_id": msg.MessageID})

	if !r.matchesTarget(msg) {
		r.logger.Debug("skipping message from non-target chat",
			"chat_id", msg.ChatID, "chat_title", msg.ChatTitle, "target", r.target)
		r.emit(bus.EventMessageSkipped, map[string]any{"chat_id": msg.ChatID})
		return
	}

	r.processText(ctx, msg)

	if msg.Media != nil {
		r.processMedia(ctx, msg)
	}
}

// matchesTarget compares the event's chat identity against the configured
// target: an exact title match, the chat's @username, or the decimal form of
// the numeric chat ID.
func (r *Router) matchesTarget(msg domain.MessageEvent) bool {
	if msg.ChatTitle != "" && msg.ChatTitle == r.target {
		return true
	}
	if msg.ChatUserName != "" && "@"+msg.ChatUserName == r.target {
		return true
	}
	return strconv.FormatInt(msg.ChatID, 10) == r.target
}

// processText runs the classifier over the message body and relays the text
// when it matches. The outcome is always logged.
func (r *Router) processText(ctx context.Context, msg domain.MessageEvent) {
	text := msg.Text
	if !r.classifier.Relevant(text) {
		r.logger.Info("no keywords matched", "message_id", msg.MessageID, "preview", preview(text))
		r.emit(bus.EventTextUnmatched, map[string]any{"message_id": msg.MessageID})
		return
	}

	r.logger.Info("job text matched", "message_id", msg.MessageID, "preview", preview(text))
	r.emit(bus.EventTextMatched, map[string]any{"message_id": msg.MessageID})

	res := r.relay.SendText(ctx, text)
	r.logDelivery("text", msg.MessageID, res)
}

// processMedia gates the attachment and, when admitted, downloads it and
// relays the resulting path. A rejected attachment is never downloaded.
func (r *Router) processMedia(ctx context.Context, msg domain.MessageEvent) {
	media := *msg.Media

	filename := media.FileName
	if filename == "" {
		filename = placeholderName
	}

	mimeHint := media.MimeType
	if mimeHint == "" {
		mimeHint = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}

	if !gate.Admit(mimeHint, filename) {
		r.logger.Info("skipped unsupported media",
			"message_id", msg.MessageID, "filename", filename, "mime", mimeHint)
		r.emit(bus.EventMediaRejected, map[string]any{"filename": filename})
		return
	}

	r.emit(bus.EventMediaAdmitted, map[string]any{"filename": filename})

	path, err := r.downloader.Download(ctx, media, r.downloadDir)
	if err != nil {
		r.logger.Error("media download failed",
			"message_id", msg.MessageID, "filename", filename, "err", err)
		return
	}
	r.logger.Info("media downloaded", "path", path)

	res := r.relay.SendFile(ctx, path, filepath.Base(path))
	r.logDelivery("file", msg.MessageID, res)
}

// logDelivery surfaces the relay outcome. Failures are logged and swallowed;
// the ingestion pipeline never learns delivery failed.
func (r *Router) logDelivery(kind string, messageID int, res domain.Result) {
	if res.Delivered {
		r.logger.Info("relay delivered", "kind", kind, "message_id", messageID, "status", res.Status)
		r.emit(bus.EventRelayDelivered, map[string]any{"kind": kind})
		return
	}
	r.logger.Warn("relay failed", "kind", kind, "message_id", messageID,
		"status", res.Status, "reason", res.Reason)
	r.emit(bus.EventRelayFailed, map[string]any{"kind": kind, "reason": res.Reason})
}

func (r *Router) emit(eventType string, payload map[string]any) {
	if r.events == nil {
		return
	}
	r.events.Emit(bus.Event{Type: eventType, Source: "router", Payload: payload})
}

// preview truncates message text for log output, cutting on a rune boundary
// so multi-byte text is never split mid-character.
func preview(text string) string {
	const max = 120
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
