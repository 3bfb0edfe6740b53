package utils

import (
	"encoding/json"
	"net/http"
)

type M map[string]any

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondWithData wraps a successful result in the API envelope.
func RespondWithData(w http.ResponseWriter, statusCode int, data interface{}) {
	RespondWithJSON(w, statusCode, M{"success": true, "data": data})
}

// RespondWithError wraps a failure in the API envelope.
func RespondWithError(w http.ResponseWriter, statusCode int, msg string) {
	RespondWithJSON(w, statusCode, M{"success": false, "error": msg})
}
