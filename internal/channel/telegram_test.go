package channel

import (
	"testing"

	"jobrelay/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func testChat() *tgbotapi.Chat {
	return &tgbotapi.Chat{ID: -100123, Title: "Job Group"}
}

func TestEventFromMessage_Text(t *testing.T) {
	msg := &tgbotapi.Message{
		MessageID: 42,
		Chat:      testChat(),
		Text:      "We are hiring",
		Date:      1700000000,
	}

	ev := eventFromMessage(msg)
	if ev.ChatID != -100123 || ev.ChatTitle != "Job Group" {
		t.Errorf("unexpected chat identity: %d %q", ev.ChatID, ev.ChatTitle)
	}
	if ev.Text != "We are hiring" {
		t.Errorf("unexpected text: %q", ev.Text)
	}
	if ev.Media != nil {
		t.Error("text-only message should carry no media")
	}
	if ev.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestEventFromMessage_CaptionFallsBackToText(t *testing.T) {
	msg := &tgbotapi.Message{
		MessageID: 43,
		Chat:      testChat(),
		Caption:   "shortlist attached",
		Document:  &tgbotapi.Document{FileID: "doc1", FileName: "shortlist.xlsx"},
	}

	ev := eventFromMessage(msg)
	if ev.Text != "shortlist attached" {
		t.Errorf("expected caption as body text, got %q", ev.Text)
	}
}

func TestMediaFromMessage_Document(t *testing.T) {
	msg := &tgbotapi.Message{
		Chat: testChat(),
		Document: &tgbotapi.Document{
			FileID:   "doc1",
			FileName: "candidates.xlsx",
			MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			FileSize: 2048,
		},
	}

	media := mediaFromMessage(msg)
	if media == nil {
		t.Fatal("expected media descriptor")
	}
	if media.FileName != "candidates.xlsx" {
		t.Errorf("unexpected filename: %q", media.FileName)
	}
	if media.Size != 2048 {
		t.Errorf("unexpected size: %d", media.Size)
	}
}

func TestMediaFromMessage_PhotoHasNoFilename(t *testing.T) {
	msg := &tgbotapi.Message{
		Chat: testChat(),
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", FileSize: 100},
			{FileID: "large", FileSize: 900},
		},
	}

	media := mediaFromMessage(msg)
	if media == nil {
		t.Fatal("expected media descriptor")
	}
	if media.FileID != "large" {
		t.Errorf("expected largest photo size, got %q", media.FileID)
	}
	if media.FileName != "" {
		t.Errorf("photos carry no filename, got %q", media.FileName)
	}
	if media.MimeType != "image/jpeg" {
		t.Errorf("unexpected mime: %q", media.MimeType)
	}
}

func TestMediaFromMessage_None(t *testing.T) {
	msg := &tgbotapi.Message{Chat: testChat(), Text: "plain text"}
	if media := mediaFromMessage(msg); media != nil {
		t.Errorf("expected nil media, got %+v", media)
	}
}

func TestEventFromMessage_ChatUsername(t *testing.T) {
	msg := &tgbotapi.Message{
		MessageID: 44,
		Chat:      &tgbotapi.Chat{ID: -100123, Title: "Job Group", UserName: "jobgroup"},
		Text:      "vacancy",
	}

	ev := eventFromMessage(msg)
	if ev.ChatUserName != "jobgroup" {
		t.Errorf("expected chat username carried, got %q", ev.ChatUserName)
	}
}

func TestDownloadFilename_Declared(t *testing.T) {
	got := downloadFilename(domain.MediaRef{FileID: "f1", FileName: "candidates.xlsx"}, "documents/file_1.xlsx")
	if got != "candidates.xlsx" {
		t.Errorf("expected declared name, got %q", got)
	}
}

func TestDownloadFilename_TraversalConfined(t *testing.T) {
	cases := map[string]string{
		"../../../home/user/.bashrc": ".bashrc",
		"../../x":                    "x",
		"..":                         "file_1.bin", // base collapses to .., fall through
		"/etc/passwd":                "passwd",
	}
	for declared, want := range cases {
		got := downloadFilename(domain.MediaRef{FileID: "f1", FileName: declared}, "documents/file_1.bin")
		if got != want {
			t.Errorf("declared %q: expected %q, got %q", declared, want, got)
		}
	}
}

func TestDownloadFilename_Fallbacks(t *testing.T) {
	got := downloadFilename(domain.MediaRef{FileID: "f1"}, "documents/file_7.pdf")
	if got != "file_7.pdf" {
		t.Errorf("expected storage path basename, got %q", got)
	}

	got = downloadFilename(domain.MediaRef{FileID: "f1"}, "")
	if got != "f1" {
		t.Errorf("expected file ID fallback, got %q", got)
	}
}

func TestMediaFromMessage_Voice(t *testing.T) {
	msg := &tgbotapi.Message{
		Chat:  testChat(),
		Voice: &tgbotapi.Voice{FileID: "v1", MimeType: "audio/ogg", FileSize: 5000},
	}

	media := mediaFromMessage(msg)
	if media == nil {
		t.Fatal("expected media descriptor")
	}
	if media.MimeType != "audio/ogg" {
		t.Errorf("unexpected mime: %q", media.MimeType)
	}
}
