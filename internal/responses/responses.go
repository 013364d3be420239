package responses

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AddJSONContentType prepares HTTP response writer for JSON content-type.
func AddJSONContentType(w http.ResponseWriter) {
	w.Header().Add("content-type", "application/json; charset=utf-8")
}

// WriteJSON writes out a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	AddJSONContentType(w)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteError writes out a JSON error body with the given status code.
func WriteError(w http.ResponseWriter, status int, summary, details string) {
	WriteJSON(w, status, ErrorResponse{Error: summary, Details: details})
}
