package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/eventmate/eventmate-go/internal/apperror"
)

func writeError(w http.ResponseWriter, err error) {
	status, resp, _ := apperror.Resolve(err)
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
