package models

// UIDKeys are the fixed target slots, in the order they are sent.
var UIDKeys = [6]string{"uid1", "uid2", "uid3", "uid4", "uid5", "uid6"}

// DispatchRequest is what the user panel submits when an emote is pressed.
type DispatchRequest struct {
	ServerID string            `json:"serverId"`
	TeamCode string            `json:"teamCode"`
	UIDs     map[string]string `json:"uids"`
	EmoteID  string            `json:"emoteId"`
}

// DispatchStatus is the outcome of a dispatch. A sent status only means the
// request left this process, never that the game acted on it.
type DispatchStatus string

const (
	DispatchNoTarget       DispatchStatus = "no_target"
	DispatchSent           DispatchStatus = "sent"
	DispatchTransportError DispatchStatus = "transport_error"
	DispatchBusy           DispatchStatus = "busy"
)

// DispatchResult is returned to the panel after a dispatch attempt.
type DispatchResult struct {
	Status  DispatchStatus `json:"status"`
	Message string         `json:"message"`
	URL     string         `json:"url,omitempty"`
}
