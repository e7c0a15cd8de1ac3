package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/encoding/json"
)

// loginErrorClearAfterMs tells the panel how long to show a login error.
const loginErrorClearAfterMs = 2000

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
