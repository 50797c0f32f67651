package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newTestClient(textURL, fileURL string) *Client {
	return NewClient(Config{
		TextURL: textURL,
		FileURL: fileURL,
		Logger:  testLogger(),
	})
}

func TestSendText_Success(t *testing.T) {
	var got textPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	res := c.SendText(context.Background(), "We have a new hiring opening")

	if !res.Delivered {
		t.Fatalf("expected delivered, got %+v", res)
	}
	if res.Status != http.StatusOK {
		t.Errorf("expected 200, got %d", res.Status)
	}
	if got.Text != "We have a new hiring opening" {
		t.Errorf("unexpected payload text: %q", got.Text)
	}
}

func TestSendText_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bridge down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	res := c.SendText(context.Background(), "hello")

	if res.Delivered {
		t.Fatal("expected failure for 502")
	}
	if res.Status != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", res.Status)
	}
	if res.Reason == "" {
		t.Error("expected failure reason")
	}
}

func TestSendText_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	c := newTestClient(srv.URL, srv.URL)
	res := c.SendText(context.Background(), "hello")

	if res.Delivered {
		t.Fatal("expected failure for refused connection")
	}
	if res.Reason == "" {
		t.Error("expected failure reason")
	}
}

func TestSendFile_Success(t *testing.T) {
	var got filePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	res := c.SendFile(context.Background(), "downloads/candidates.xlsx", "candidates.xlsx")

	if !res.Delivered {
		t.Fatalf("expected delivered, got %+v", res)
	}
	if got.Filename != "candidates.xlsx" {
		t.Errorf("unexpected filename: %q", got.Filename)
	}
	if !filepath.IsAbs(got.Path) {
		t.Errorf("expected absolute path, got %q", got.Path)
	}
}

func TestSendFile_AcceptsAny2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	res := c.SendFile(context.Background(), "/tmp/f.pdf", "f.pdf")
	if !res.Delivered {
		t.Errorf("202 should count as delivered, got %+v", res)
	}
}

func TestNewClient_DefaultTimeouts(t *testing.T) {
	c := NewClient(Config{TextURL: "http://localhost", FileURL: "http://localhost", Logger: testLogger()})
	if c.textClient.Timeout != DefaultTextTimeout {
		t.Errorf("expected text timeout %v, got %v", DefaultTextTimeout, c.textClient.Timeout)
	}
	if c.fileClient.Timeout != DefaultFileTimeout {
		t.Errorf("expected file timeout %v, got %v", DefaultFileTimeout, c.fileClient.Timeout)
	}
	if c.textClient.Timeout >= c.fileClient.Timeout {
		t.Error("file timeout should be longer than text timeout")
	}
}
