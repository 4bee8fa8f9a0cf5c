package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"lingo-shooter/internal/app"
	"lingo-shooter/internal/domain"
	"lingo-shooter/internal/identity"
)

const sendBuffer = 64

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
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

type answerPayload struct {
	Index *int `json:"index"`
}

// ServeWS upgrades HTTP requests to websockets and runs one game session per connection.
// userId is optional; a fresh id is issued (and sent back) when it is missing or malformed.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if !identity.Valid(userID) {
		userID = identity.NewUserID()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c := newClient(sendBuffer)
	session := h.service.NewGame(userID, app.Ports{Presenter: c, Sound: c, Narrator: c})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-c.send:
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					c.stop()
					// Unblock the reader so the session is torn down.
					_ = conn.Close()
					return
				}
			case <-c.done:
				return
			}
		}
	}()

	c.emit("identity", identityPayload{UserID: userID, SessionID: session.ID()})
	c.ShowScreen(domain.ScreenStart)

	ctx := r.Context()
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(ctx, c, session.ID(), inbound)
	}

	c.stop()
	h.service.Close(context.Background(), session.ID())
	<-writerDone
}

func (h *WSHandler) dispatch(ctx context.Context, c *client, sessionID string, inbound inboundMessage) {
	switch inbound.Type {
	case "start", "retry":
		if err := h.service.Start(ctx, sessionID); err != nil && !shownBySession(err) {
			c.ShowError(err.Error())
		}
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Index == nil {
			c.ShowError("invalid answer payload")
			return
		}
		if _, err := h.service.SubmitAnswer(ctx, sessionID, *payload.Index); err != nil {
			c.ShowError(err.Error())
		}
	case "mute":
		c.toggleMute()
	default:
		c.ShowError("unsupported message type")
	}
}

// shownBySession reports start errors the session already displayed to the player.
func shownBySession(err error) bool {
	return errors.Is(err, domain.ErrEmptyBank) || errors.Is(err, domain.ErrInvalidQuestion)
}
