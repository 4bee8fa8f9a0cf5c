package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"lingo-shooter/internal/app"
	"lingo-shooter/internal/domain"
	"lingo-shooter/internal/identity"
	"lingo-shooter/internal/infra/memory"
)

func TestWebSocketAnswerFlow(t *testing.T) {
	server := newTestServer(t, map[string][]domain.Question{"main": sampleBank()})
	defer server.Close()

	conn := dial(t, server, "")
	defer conn.Close()

	// Expect identity event first.
	_, payload := readNext(conn, t, "identity")
	userID, _ := payload["userId"].(string)
	if !identity.Valid(userID) {
		t.Fatalf("expected a generated user id, got %q", userID)
	}
	if _, payload := readNext(conn, t, "screen"); payload["screen"] != string(domain.ScreenStart) {
		t.Fatalf("expected start screen, got %v", payload)
	}

	send(t, conn, map[string]any{"type": "start"})
	question := readUntil(conn, t, "question")
	if question["prompt"] != "Where is the station?" {
		t.Fatalf("unexpected prompt %v", question["prompt"])
	}
	slot := correctSlot(t, question, 2)

	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"index": slot}})
	choice := readUntil(conn, t, "choice")
	if choice["correct"] != true || int(choice["slot"].(float64)) != slot {
		t.Fatalf("expected correct mark on slot %d, got %v", slot, choice)
	}
	// The award shrinks as the enemy approaches, so only its range is fixed.
	stats := readUntil(conn, t, "stats")
	score, _ := stats["score"].(float64)
	text, _ := stats["scoreText"].(string)
	if score < 90 || score > 100 || len(text) != 6 || !strings.HasPrefix(text, "000") {
		t.Fatalf("expected an award close to 100, got %v", stats)
	}

	send(t, conn, map[string]any{"type": "mute"})
	if muted := readUntil(conn, t, "muted"); muted["muted"] != true {
		t.Fatalf("expected muted, got %v", muted)
	}
}

func TestWebSocketKeepsValidUserID(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.Close()

	conn := dial(t, server, "u0123abcde")
	defer conn.Close()

	if _, payload := readNext(conn, t, "identity"); payload["userId"] != "u0123abcde" {
		t.Fatalf("expected user id to be kept, got %v", payload["userId"])
	}
}

func TestWebSocketRejectsBadMessages(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.Close()

	conn := dial(t, server, "")
	defer conn.Close()
	readNext(conn, t, "identity")

	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{}})
	if errMsg := readUntil(conn, t, "error"); errMsg["message"] != "invalid answer payload" {
		t.Fatalf("unexpected error %v", errMsg)
	}

	send(t, conn, map[string]any{"type": "dance"})
	if errMsg := readUntil(conn, t, "error"); errMsg["message"] != "unsupported message type" {
		t.Fatalf("unexpected error %v", errMsg)
	}
}

func TestWebSocketEmptyBankShowsError(t *testing.T) {
	server := newTestServer(t, map[string][]domain.Question{"main": {}})
	defer server.Close()

	conn := dial(t, server, "")
	defer conn.Close()
	readNext(conn, t, "identity")

	send(t, conn, map[string]any{"type": "start"})
	if errMsg := readUntil(conn, t, "error"); errMsg["message"] != "Error: No missions available." {
		t.Fatalf("unexpected error %v", errMsg)
	}
}

func newTestServer(t *testing.T, banks map[string][]domain.Question) *httptest.Server {
	t.Helper()
	store := memory.NewSessionStore()
	questions := memory.NewQuestionRepository(memory.NewStaticBankLoader(banks), time.Minute)
	service := app.NewGameService(store, questions, memory.NewScoreBoard(), nil, app.ServiceConfig{BankID: "main"})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(service).ServeWS)
	return httptest.NewServer(mux)
}

func dial(t *testing.T, server *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	if userID != "" {
		u += "?userId=" + userID
	}
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %v: %v", msg["type"], err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

// readUntil skips frame updates and other traffic until a message of the given type arrives.
func readUntil(conn *websocket.Conn, t *testing.T, expect string) map[string]any {
	t.Helper()
	for i := 0; i < 1000; i++ {
		typ, payload := readNext(conn, t, "")
		if typ == expect {
			return payload
		}
	}
	t.Fatalf("no %s message received", expect)
	return nil
}

func correctSlot(t *testing.T, question map[string]any, answer int) int {
	t.Helper()
	choices, _ := question["choices"].([]any)
	for slot, raw := range choices {
		choice, _ := raw.(map[string]any)
		if idx, ok := choice["originalIndex"].(float64); ok && int(idx) == answer {
			return slot
		}
	}
	t.Fatalf("answer %d not among choices %v", answer, choices)
	return -1
}

func sampleBank() []domain.Question {
	return []domain.Question{{
		ID:       "q_0101",
		Question: "Where is the station?",
		Choices:  []string{"It's Monday.", "I'm fine.", "Go straight.", "Yes, please."},
		Answer:   2,
	}}
}
