package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/isdelr/emote-panel-be/internal/auth"
	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/services"
	ws "github.com/isdelr/emote-panel-be/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/encoding/json"
)

// WebSocketHandler upgrades panel connections and routes incoming actions.
type WebSocketHandler struct {
	hub      *ws.Hub
	dispatch services.DispatchServiceProvider
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. Origins are checked
// against allowedOrigins; a "*" entry allows any origin.
func NewWebSocketHandler(hub *ws.Hub, dispatch services.DispatchServiceProvider, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		dispatch: dispatch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Serve handles the WebSocket connection request. Admin sessions join the
// admin topic and also receive stats and dispatch activity.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFrom(r.Context())
	if claims == nil {
		http.Error(w, "Missing session", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	topic := ws.TopicAll
	if claims.IsAdmin() {
		topic = ws.TopicAdmin
	}

	client := ws.NewClient(h.hub, conn, topic)
	h.hub.Join(client)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		client.ReadPump(func(c *ws.Client, message []byte) {
			h.handleIncomingWSMessage(c, claims.SessionID, message)
		})
		// WritePump exits once the hub closes Send.
		h.hub.Leave(client)
	}()

	go func() {
		wg.Wait()
		log.Debug().Str("session_id", claims.SessionID).Msg("Websocket session finished")
	}()
}

// handleIncomingWSMessage processes messages received from a websocket client.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, sessionID string, message []byte) {
	var msg struct {
		Action  string          `json:"action"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Error().Err(err).Bytes("message", message).Msg("Error decoding websocket message")
		client.Reply(ws.NewErrorMessage("Invalid message"))
		return
	}

	switch msg.Action {
	case ws.ActionPing:
		client.Reply(ws.NewMessage(ws.ActionPong, nil))

	case ws.ActionSendEmote:
		var req models.DispatchRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			client.Reply(ws.NewErrorMessage("Invalid payload for emote.send"))
			return
		}
		result := h.dispatch.SendEmote(context.Background(), sessionID, req)
		client.Reply(ws.NewMessage(ws.ActionDispatchResult, result))

	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		client.Reply(ws.NewErrorMessage("Unknown action: " + msg.Action))
	}
}
