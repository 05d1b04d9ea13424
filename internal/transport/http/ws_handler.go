package http

import (
	"encoding/json"
	"log"
	"net/http"

	"quiz-roulette/internal/app"

	"github.com/gorilla/websocket"
)

// GameHandler exposes the session state machine to the wheel and
// presentation surfaces over a websocket.
type GameHandler struct {
	session  *app.Session
	upgrader websocket.Upgrader
}

func NewGameHandler(session *app.Session) *GameHandler {
	return &GameHandler{
		session: session,
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

type choicePayload struct {
	ChoiceIndex int `json:"choiceIndex"`
}

type visibilityPayload struct {
	Visible bool `json:"visible"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and wires the connection into the session:
// snapshots flow out after every transition, operator actions flow in.
func (h *GameHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				sendOrDone(send, writerDone, outboundMessage[any]{Type: "snapshot", Payload: snap})
				if snap.LastOutcome != nil {
					// Timeouts and abandons resolve without an inbound
					// answer; the result still goes out.
					sendOrDone(send, writerDone, outboundMessage[any]{Type: "answerResult", Payload: *snap.LastOutcome})
				}
			case <-closeSignals:
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "spin":
			if _, err := h.session.Spin(ctx); err != nil {
				sendOrDone(send, writerDone, errorMessage(err))
			}
		case "begin":
			if _, err := h.session.Begin(ctx); err != nil {
				sendOrDone(send, writerDone, errorMessage(err))
			}
		case "select":
			var payload choicePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendOrDone(send, writerDone, errorMessage(err))
				continue
			}
			if _, err := h.session.SelectChoice(ctx, payload.ChoiceIndex); err != nil {
				sendOrDone(send, writerDone, errorMessage(err))
			}
		case "answer":
			var payload choicePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendOrDone(send, writerDone, errorMessage(err))
				continue
			}
			// The result rides the resolution snapshot broadcast.
			if _, _, err := h.session.Submit(ctx, payload.ChoiceIndex); err != nil {
				sendOrDone(send, writerDone, errorMessage(err))
			}
		case "leave":
			if _, err := h.session.Abandon(ctx); err != nil {
				sendOrDone(send, writerDone, errorMessage(err))
			}
		case "newRound":
			if _, err := h.session.NewRound(ctx); err != nil {
				sendOrDone(send, writerDone, errorMessage(err))
			}
		case "visibility":
			var payload visibilityPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendOrDone(send, writerDone, errorMessage(err))
				continue
			}
			h.session.SetVisible(payload.Visible)
		default:
			sendOrDone(send, writerDone, outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}

// sendOrDone queues msg unless the writer goroutine has already exited.
// A half-broken connection can keep reads succeeding after writes fail;
// senders must never block on a queue nobody drains.
func sendOrDone(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) {
	select {
	case send <- msg:
	case <-writerDone:
	}
}
