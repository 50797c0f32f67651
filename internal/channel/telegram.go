package channel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jobrelay/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	telegramPollTimeout     = 30 // seconds, long-poll
	telegramDownloadTimeout = 60 * time.Second
)

// Telegram implements domain.Channel for a Telegram account's message
// stream, and domain.Downloader for fetching attachments.
type Telegram struct {
	token  string
	target string // chat title, @username, or decimal chat ID

	bot    *tgbotapi.BotAPI
	bus    domain.MessageBus
	logger *slog.Logger
	client *http.Client
}

type TelegramConfig struct {
	Token      string
	TargetChat string
	Logger     *slog.Logger
}

func NewTelegram(cfg TelegramConfig) *Telegram {
	return &Telegram{
		token:  cfg.Token,
		target: cfg.TargetChat,
		logger: cfg.Logger,
		client: &http.Client{Timeout: telegramDownloadTimeout},
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Start connects to Telegram and begins polling for updates. Every message
// update is published to the bus; target-chat filtering happens in the
// router, so a failed precise resolution only costs efficiency.
func (t *Telegram) Start(ctx context.Context, bus domain.MessageBus) error {
	t.bus = bus

	bot, err := tgbotapi.NewBotAPI(t.token)
	if err != nil {
		return fmt.Errorf("telegram bot init: %w", err)
	}
	t.bot = bot
	t.logger.Info("telegram bot connected",
		"username", bot.Self.UserName,
		"id", bot.Self.ID,
	)

	t.resolveTarget()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = telegramPollTimeout
	updates := bot.GetUpdatesChan(u)

	t.logger.Info("telegram polling started", "target", t.target)

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("telegram channel stopping")
			bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(update)
		}
	}
}

// Stop shuts down the Telegram channel.
// Note: StopReceivingUpdates is already called when ctx is cancelled in
// Start(). Calling it twice panics, so Stop() is a no-op.
func (t *Telegram) Stop() error {
	return nil
}

// resolveTarget verifies the configured target against the Bot API when it is
// addressable (a numeric ID or an @username). Failure is non-fatal: the
// router filters every event by chat identity anyway, so an unresolved
// target only means we listen globally and filter ourselves.
func (t *Telegram) resolveTarget() {
	var cfg tgbotapi.ChatInfoConfig
	switch {
	case strings.HasPrefix(t.target, "@"):
		cfg.SuperGroupUsername = t.target
	default:
		id, err := strconv.ParseInt(t.target, 10, 64)
		if err != nil {
			t.logger.Warn("target chat is a bare title, cannot resolve precisely; filtering by title",
				"target", t.target)
			return
		}
		cfg.ChatID = id
	}

	chat, err := t.bot.GetChat(cfg)
	if err != nil {
		t.logger.Warn("could not resolve target chat, listening globally and filtering",
			"target", t.target, "err", err)
		return
	}
	t.logger.Info("listening to chat", "id", chat.ID, "title", chat.Title)
}

func (t *Telegram) handleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	t.bus.Publish(eventFromMessage(msg))
}

// eventFromMessage extracts the fields the pipeline cares about from a
// Telegram message: chat identity, body text (caption for media posts), and
// an attachment descriptor when one is declared.
func eventFromMessage(msg *tgbotapi.Message) domain.MessageEvent {
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	return domain.MessageEvent{
		ChatID:       msg.Chat.ID,
		ChatTitle:    msg.Chat.Title,
		ChatUserName: msg.Chat.UserName,
		MessageID:    msg.MessageID,
		Text:         text,
		Media:        mediaFromMessage(msg),
		Timestamp:    time.Unix(int64(msg.Date), 0),
	}
}

// mediaFromMessage maps whichever attachment kind the message carries to a
// MediaRef. Photos have no filename; the gate rejects them via the MIME hint.
func mediaFromMessage(msg *tgbotapi.Message) *domain.MediaRef {
	switch {
	case msg.Document != nil:
		return &domain.MediaRef{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			MimeType: msg.Document.MimeType,
			Size:     int64(msg.Document.FileSize),
		}
	case msg.Video != nil:
		return &domain.MediaRef{
			FileID:   msg.Video.FileID,
			FileName: msg.Video.FileName,
			MimeType: msg.Video.MimeType,
			Size:     int64(msg.Video.FileSize),
		}
	case msg.Audio != nil:
		return &domain.MediaRef{
			FileID:   msg.Audio.FileID,
			FileName: msg.Audio.FileName,
			MimeType: msg.Audio.MimeType,
			Size:     int64(msg.Audio.FileSize),
		}
	case msg.Voice != nil:
		return &domain.MediaRef{
			FileID:   msg.Voice.FileID,
			MimeType: msg.Voice.MimeType,
			Size:     int64(msg.Voice.FileSize),
		}
	case len(msg.Photo) > 0:
		largest := msg.Photo[len(msg.Photo)-1]
		return &domain.MediaRef{
			FileID:   largest.FileID,
			MimeType: "image/jpeg",
			Size:     int64(largest.FileSize),
		}
	}
	return nil
}

// downloadFilename picks the stored name for an attachment: the declared
// filename, falling back to the basename of Telegram's storage path, then the
// file ID. The declared name is remote input and may carry path separators,
// so it is reduced to its base name to keep writes inside the download dir.
func downloadFilename(media domain.MediaRef, storagePath string) string {
	name := filepath.Base(media.FileName)
	if name == "" || name == "." || name == ".." || name == "/" {
		name = filepath.Base(storagePath)
	}
	if name == "" || name == "." || name == ".." || name == "/" {
		name = media.FileID
	}
	return name
}

// Download fetches the attachment into dir and returns the local path. The
// stored filename is the platform-declared one, falling back to the basename
// of Telegram's storage path.
func (t *Telegram) Download(ctx context.Context, media domain.MediaRef, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	file, err := t.bot.GetFile(tgbotapi.FileConfig{FileID: media.FileID})
	if err != nil {
		return "", fmt.Errorf("resolve file: %w", err)
	}

	filename := downloadFilename(media, file.FilePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(t.token), nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}

	path := filepath.Join(dir, filename)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	return path, nil
}
