package models

// Emote is a catalog entry pairing a display image with the id sent to a server.
type Emote struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl"`
	EmoteID  string `json:"emoteId"` // The actual ID sent to the API
}

// EmoteDraft is the admin-submitted form for a new emote.
type EmoteDraft struct {
	Category string `json:"category"`
	ImageURL string `json:"imageUrl"`
	EmoteID  string `json:"emoteId,omitempty"`
}
