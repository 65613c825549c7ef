package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"logic-quiz-service/internal/app"
	"logic-quiz-service/internal/domain"
)

// WSHandler plays one quiz session per connection. The session lives as long as the socket.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and runs the play loop. An optional ?name= starts the quiz at once.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	session := h.service.NewSession()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	// single writer; gorilla connections do not support concurrent writes.
	// After a failed write the channel is still drained so the read loop never blocks.
	go func() {
		defer close(writerDone)
		failed := false
		for msg := range send {
			if failed {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				failed = true
				_ = conn.Close()
			}
		}
	}()

	sendView := func(view app.View) {
		typ := "state"
		if view.State == app.StateFinished {
			typ = "finished"
		}
		send <- outboundMessage[any]{Type: typ, Payload: view}
	}
	sendError := func(err error) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
	}

	if name := r.URL.Query().Get("name"); name != "" {
		view, err := session.Start(ctx, name)
		if err != nil {
			sendError(err)
		}
		sendView(view)
	} else {
		sendView(session.View())
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendError(errBadRequest)
				continue
			}
			view, err := session.Start(ctx, payload.Name)
			if err != nil {
				sendError(err)
				if view.State == app.StateNaming {
					continue
				}
			}
			sendView(view)
		case "answer":
			var payload domain.AnswerSubmission
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendError(errBadRequest)
				continue
			}
			fb, err := app.SubmitTo(ctx, session, payload)
			if err != nil {
				sendError(err)
				continue
			}
			send <- outboundMessage[any]{Type: "feedback", Payload: answerResponse{Feedback: fb, Session: session.View()}}
		case "ack":
			view, err := session.Acknowledge(ctx)
			if err != nil {
				sendError(err)
				if view.State != app.StateFinished {
					continue
				}
			}
			sendView(view)
		case "restart":
			view, err := session.Restart(ctx)
			if err != nil {
				sendError(err)
				continue
			}
			sendView(view)
		case "switch":
			sendView(session.SwitchLearner())
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
}
