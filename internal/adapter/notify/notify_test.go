package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	testhelpers "github.com/quangND1998/app-p2p/internal/test"
)

func TestDiscordSendMessage(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		received = payload["content"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sink := NewDiscordSink(server.URL)
	if err := sink.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received != "hello" {
		t.Fatalf("unexpected content: %q", received)
	}
}

func TestDiscordSendPhoto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("content"); got != "caption" {
			t.Errorf("unexpected caption: %q", got)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else {
			data, _ := io.ReadAll(file)
			if string(data) != "png" {
				t.Errorf("unexpected image bytes: %q", data)
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewDiscordSink(server.URL)
	if err := sink.SendPhoto(context.Background(), []byte("png"), "caption"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDiscordErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	sink := NewDiscordSink(server.URL)
	if err := sink.SendMessage(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for rejected webhook")
	}
}

func TestTelegramSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("chat_id") != "42" || r.PostForm.Get("text") != "hello" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		if r.PostForm.Get("parse_mode") != "html" {
			t.Errorf("expected html parse mode, got %q", r.PostForm.Get("parse_mode"))
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	sink := NewTelegramSink(server.URL, "token", "42")
	if err := sink.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTelegramSendPhoto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken/sendPhoto" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("caption") != "caption" || r.FormValue("chat_id") != "42" {
			t.Errorf("unexpected form values")
		}
		if _, _, err := r.FormFile("photo"); err != nil {
			t.Errorf("missing photo part: %v", err)
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	sink := NewTelegramSink(server.URL, "token", "42")
	if err := sink.SendPhoto(context.Background(), []byte("png"), "caption"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTelegramAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"description":"chat not found"}`)
	}))
	defer server.Close()

	sink := NewTelegramSink(server.URL, "token", "42")
	err := sink.SendMessage(context.Background(), "hello")
	if err == nil || err.Error() != "telegram api: chat not found" {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestFanoutDeliversToAllSinks(t *testing.T) {
	first := &testhelpers.SinkStub{}
	second := &testhelpers.SinkStub{}
	fanout := NewFanout(testhelpers.NewLogger(), first, second)

	if err := fanout.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Messages) != 1 || len(second.Messages) != 1 {
		t.Fatal("expected delivery to every sink")
	}
}

func TestFanoutContinuesPastFailures(t *testing.T) {
	failing := &testhelpers.SinkStub{MessageErr: errors.New("down")}
	healthy := &testhelpers.SinkStub{}
	fanout := NewFanout(testhelpers.NewLogger(), failing, healthy)

	err := fanout.SendMessage(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected joined delivery error")
	}
	if len(healthy.Messages) != 1 {
		t.Fatal("healthy sink must still receive the message")
	}
}

func TestFanoutNoSinks(t *testing.T) {
	fanout := NewFanout(testhelpers.NewLogger())
	if err := fanout.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fanout.SendPhoto(context.Background(), []byte("png"), "caption"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
