// Package render writes JSON responses for the chi handlers.
package render

import (
	"encoding/json"
	"net/http"
)

type errResponse struct {
	Error string `json:"error"`
}

// ChiJSON writes v as the response body. Encoding happens before the status
// line so an unencodable value becomes a 500 instead of a truncated body.
func ChiJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errResponse{Error: "encode response: " + err.Error()})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// ChiErr writes {"error": ...}, falling back to the status text when err is nil.
func ChiErr(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	ChiJSON(w, r, status, errResponse{Error: msg})
}
