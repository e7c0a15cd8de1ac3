package websocket

import "github.com/segmentio/encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// Actions pushed to connected panels.
const (
	ActionSettingsUpdated = "settings.updated"
	ActionServersUpdated  = "servers.updated"
	ActionEmotesUpdated   = "emotes.updated"
	ActionStatsUpdated    = "stats.updated"
	ActionDispatchStatus  = "dispatch.status"
	ActionDispatchResult  = "dispatch.result"
	ActionError           = "error"
)

// Actions a connected panel may send.
const (
	ActionSendEmote = "emote.send"
	ActionPing      = "ping"
	ActionPong      = "pong"
)

// NewMessage builds an encoded message for a single client.
func NewMessage(action string, payload interface{}) []byte {
	b, _ := json.Marshal(Message{Action: action, Payload: payload})
	return b
}

// NewErrorMessage builds an encoded error message for a single client.
func NewErrorMessage(msg string) []byte {
	return NewMessage(ActionError, msg)
}
