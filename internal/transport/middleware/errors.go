package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the API error envelope. It mirrors the REST layer's
// format so clients see one shape regardless of which layer rejected them.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
