package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTelegram_SendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram("test-token", WithBaseURL(srv.URL), WithClient(srv.Client()))

	err := tg.SendMessage(context.Background(), "chat-1", "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/bottest-token/") {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotBody["chat_id"] != "chat-1" || gotBody["text"] != "hello" {
		t.Errorf("unexpected payload: %v", gotBody)
	}
}

func TestTelegram_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	tg := NewTelegram("test-token", WithBaseURL(srv.URL), WithClient(srv.Client()))

	if err := tg.SendMessage(context.Background(), "chat-1", "hello"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestTelegram_DisabledWithoutToken(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer srv.Close()

	tg := NewTelegram("", WithBaseURL(srv.URL), WithClient(srv.Client()))

	if tg.Enabled() {
		t.Error("sender without token should report disabled")
	}
	if err := tg.SendMessage(context.Background(), "chat-1", "hello"); err != nil {
		t.Fatalf("disabled sender should no-op, got %v", err)
	}
	if called {
		t.Error("disabled sender must not hit the API")
	}
}

func TestFanout(t *testing.T) {
	var events []string
	s1 := sinkFunc(func(e Event) { events = append(events, "a:"+e.Type) })
	s2 := sinkFunc(func(e Event) { events = append(events, "b:"+e.Type) })

	Fanout{s1, s2}.Publish(context.Background(), Event{Type: EventChatMessage})

	if len(events) != 2 || events[0] != "a:chat_message" || events[1] != "b:chat_message" {
		t.Errorf("unexpected fanout order: %v", events)
	}
}

type sinkFunc func(Event)

func (f sinkFunc) Publish(_ context.Context, e Event) { f(e) }
