package api

import (
	"encoding/json"
	"net/http"
)

// errorBody is the wire shape of every error response. Clients expect
// the {"detail": ...} convention.
type errorBody struct {
	Detail string `json:"detail"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes an error response with the given status and detail message
func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, errorBody{Detail: detail})
}

// writeBadRequest writes a 400 Bad Request response
func writeBadRequest(w http.ResponseWriter, detail string) {
	writeDetail(w, http.StatusBadRequest, detail)
}

// writeNotFound writes a 404 Not Found response
func writeNotFound(w http.ResponseWriter, detail string) {
	writeDetail(w, http.StatusNotFound, detail)
}

// writeInternalError writes a 500 Internal Server Error response
func writeInternalError(w http.ResponseWriter, detail string) {
	writeDetail(w, http.StatusInternalServerError, detail)
}
