package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pfrederiksen/dieliga/internal/league"
)

// fakeAPI mimics the sendMessage endpoint and records the payloads.
func fakeAPI(t *testing.T, respond func(w http.ResponseWriter)) (*httptest.Server, *[]map[string]interface{}) {
	t.Helper()
	var payloads []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		payloads = append(payloads, payload)
		respond(w)
	}))
	t.Cleanup(server.Close)
	return server, &payloads
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient("test-token", "12345", WithAPIBaseURL(server.URL+"/bot"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient("", "1"); err == nil {
		t.Error("expected error without bot token")
	}
	if _, err := NewClient("token", ""); err == nil {
		t.Error("expected error without chat ID")
	}
}

func TestSendMessage_Success(t *testing.T) {
	server, payloads := fakeAPI(t, func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":123}}`))
	})

	if err := newTestClient(t, server).SendMessage(context.Background(), "Test message"); err != nil {
		t.Fatalf("SendMessage() unexpected error: %v", err)
	}

	if len(*payloads) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*payloads))
	}
	p := (*payloads)[0]
	if p["chat_id"] != "12345" || p["text"] != "Test message" || p["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", p)
	}
}

func TestSendMessage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		respond func(w http.ResponseWriter)
		want    string
	}{
		{
			name: "api error",
			respond: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
			},
			want: "chat not found",
		},
		{
			name: "http status",
			respond: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"ok":false}`))
			},
			want: "status 401",
		},
		{
			name: "invalid json",
			respond: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte(`not json`))
			},
			want: "parsing response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := fakeAPI(t, tt.respond)
			err := newTestClient(t, server).SendMessage(context.Background(), "hello")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("SendMessage() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestSendMessage_EmptyText(t *testing.T) {
	client, _ := NewClient("token", "1")
	if err := client.SendMessage(context.Background(), ""); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("line of text\n", 500)
	got := truncate(long, maxMessageLength)
	if len(got) > maxMessageLength {
		t.Errorf("truncate() length = %d, want <= %d", len(got), maxMessageLength)
	}
	if !strings.HasSuffix(got, "\n…") {
		t.Errorf("truncate() should end with an ellipsis")
	}
}

func TestFormatMatchDay(t *testing.T) {
	msg := FormatMatchDay("A & B", []league.Game{
		{Number: "7", Time: "?", TeamAName: "A & B", TeamBName: "<C>"},
	})

	for _, want := range []string{"Match day for A &amp; B!", "00:00  A &amp; B vs &lt;C&gt;", "Game 7"} {
		if !strings.Contains(msg, want) {
			t.Errorf("FormatMatchDay() missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatChanges(t *testing.T) {
	game := league.Game{Number: "12", Date: "2026-03-01", NewDate: "2026-03-08", Time: "18:00", TeamAName: "Team 1", TeamBName: "Team 2"}
	msg := FormatChanges([]*league.GameChange{
		{GameNumber: "12", ChangeType: league.ChangeDate, OldValue: "2026-03-01", NewValue: "2026-03-08", Game: game},
		{GameNumber: "12", ChangeType: league.ChangeNew, Game: game},
	})

	for _, want := range []string{"Schedule update</b> (2)", "Team 1 vs Team 2</b> (game 12)", "Moved from 2026-03-01 to 2026-03-08", "New game on 2026-03-08 at 18:00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("FormatChanges() missing %q:\n%s", want, msg)
		}
	}
}

func TestNotifier(t *testing.T) {
	server, payloads := fakeAPI(t, func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	n := NewNotifier(newTestClient(t, server))
	ctx := context.Background()

	// Nothing to say means no request.
	if err := n.NotifyMatchDay(ctx, "Team 1", nil); err != nil {
		t.Fatal(err)
	}
	if err := n.NotifyChanges(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if len(*payloads) != 0 {
		t.Fatalf("expected no requests, got %d", len(*payloads))
	}

	if err := n.NotifyMatchDay(ctx, "Team 1", []league.Game{{Number: "1", Time: "18:00", TeamAName: "Team 1", TeamBName: "Team 2"}}); err != nil {
		t.Fatal(err)
	}
	if len(*payloads) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*payloads))
	}
}
