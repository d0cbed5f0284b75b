// Helper functions for sending standardized JSON responses.

package api

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("Failed to marshal response: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a standardized JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithErrors writes a validation failure carrying every message.
func RespondWithErrors(w http.ResponseWriter, code int, messages []string) {
	first := ""
	if len(messages) > 0 {
		first = messages[0]
	}
	RespondWithJSON(w, code, map[string]any{"error": first, "errors": messages})
}
