package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

// respondJSONError writes the same error envelope the handlers use
// (success/error/message/timestamp), so responses produced by middleware
// are indistinguishable in shape from handler responses. Request details
// such as the path are logged server-side, never echoed in the body.
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	_ = json.NewEncoder(w).Encode(response)
}
