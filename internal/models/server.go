package models

// DefaultCommand is the dispatch path segment used when a server has none.
const DefaultCommand = "join"

// Server is a configured dispatch target.
type Server struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	APIURL  string `json:"apiUrl"` // Base URL, trailing slash tolerated
	Order   int    `json:"order"`
	Command string `json:"command,omitempty"` // e.g. "join", "kick"
}

// EffectiveCommand returns the command sent to the server, falling back to "join".
func (s Server) EffectiveCommand() string {
	if s.Command == "" {
		return DefaultCommand
	}
	return s.Command
}

// ServerDraft is the admin-submitted form for a new server.
type ServerDraft struct {
	Name    string `json:"name"`
	APIURL  string `json:"apiUrl"`
	Order   *int   `json:"order,omitempty"`
	Command string `json:"command,omitempty"`
}
