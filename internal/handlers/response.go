package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"melodix/internal/apperrors"
)

const (
	maxBodyBytes = 1 << 20

	msgInvalidBody     = "invalid request body"
	msgServerError     = "server error"
	msgUnauthenticated = "user not authenticated"
)

var errEmptyBody = errors.New("empty body")

// decodeJSON reads a single JSON object from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errEmptyBody
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithMessage writes {"message": ...}, the shape used outside /api/auth.
func respondWithMessage(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"message": message})
}

// respondWithAppError maps err to its status and writes {"message": ...}.
// Internal faults get the generic text.
func respondWithAppError(w http.ResponseWriter, err error) {
	respondWithMessage(w, apperrors.HTTPStatus(err), apperrors.Message(err, msgServerError))
}
