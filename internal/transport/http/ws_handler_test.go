package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"logic-quiz-service/internal/app"
	"logic-quiz-service/internal/bank"
	"logic-quiz-service/internal/infra/memory"
)

func TestWebSocketPlayFlow(t *testing.T) {
	b := sampleBank(t)
	store := memory.NewResultStore()
	service := app.NewQuizServiceWithClock(memory.NewSessionStore(), b, store, app.NewSeededShuffler(3), time.Now)
	server := httptest.NewServer(http.HandlerFunc(NewWSHandler(service).ServeWS))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var view app.View
	readNext(t, conn, "state", &view)
	if view.State != app.StateNaming {
		t.Fatalf("expected NAMING, got %s", view.State)
	}

	send(t, conn, "start", map[string]string{"name": "Al"})
	readNext(t, conn, "error", nil)

	send(t, conn, "start", map[string]string{"name": "Maria"})
	readNext(t, conn, "state", &view)
	if view.State != app.StateAwaitingAnswer || view.Question == nil {
		t.Fatalf("expected first question, got %+v", view)
	}

	send(t, conn, "ack", nil)
	readNext(t, conn, "error", nil)

	answerCurrent(t, conn, b, view, true)
	readNext(t, conn, "state", &view)
	answerCurrent(t, conn, b, view, false)
	readNext(t, conn, "finished", &view)

	if view.Tally.BaseCorrect != 1 || view.Tally.FinalPoints != 1 || view.Tally.MaxStreak != 1 || view.Tally.PercentLive != 50 {
		t.Fatalf("unexpected final tally %+v", view.Tally)
	}
	if !view.Saved {
		t.Fatalf("expected attempt saved")
	}

	send(t, conn, "dance", nil)
	readNext(t, conn, "error", nil)
}

func TestWebSocketStartsFromQuery(t *testing.T) {
	service := app.NewQuizService(memory.NewSessionStore(), sampleBank(t), memory.NewResultStore())
	server := httptest.NewServer(http.HandlerFunc(NewWSHandler(service).ServeWS))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws?name=Maria", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var view app.View
	readNext(t, conn, "state", &view)
	if view.StudentName != "Maria" || view.State != app.StateAwaitingAnswer {
		t.Fatalf("expected started session, got %+v", view)
	}

	send(t, conn, "switch", nil)
	readNext(t, conn, "state", &view)
	if view.State != app.StateNaming {
		t.Fatalf("expected NAMING after switch, got %s", view.State)
	}
}

func answerCurrent(t *testing.T, conn *websocket.Conn, b *bank.Bank, view app.View, correct bool) {
	t.Helper()
	q, _ := b.Lookup(view.Question.ID)
	choice := q.Answer
	if !correct {
		choice = "null"
	}
	send(t, conn, "answer", map[string]string{"questionId": q.ID, "choice": choice})
	var answered answerResponse
	readNext(t, conn, "feedback", &answered)
	if answered.Feedback.Correct != correct || answered.Feedback.QuestionID != q.ID {
		t.Fatalf("unexpected feedback %+v", answered.Feedback)
	}
	send(t, conn, "ack", nil)
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	msg := map[string]any{"type": typ, "payload": payload}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn, expect string, into any) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%s)", expect, msg.Type, msg.Payload)
	}
	if into != nil {
		if err := json.Unmarshal(msg.Payload, into); err != nil {
			t.Fatalf("decode %s payload: %v", expect, err)
		}
	}
}
