package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON encodes v as the body of a code response. Vault responses carry
// tokens or secrets, so none of them may be cached.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a {"message": msg} body.
func WriteMessage(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, struct {
		Message string `json:"message"`
	}{msg})
}

// NoCache forbids caching of the response at every hop.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
