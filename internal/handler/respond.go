package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/eventmate/eventmate-go/internal/apperror"
)

const maxBodyBytes = 1 << 20 // 1MB

var (
	errInvalidBody  = apperror.NewValidationError("invalid request body", nil)
	errBodyTooLarge = apperror.NewValidationError("request body too large", nil)
	errInvalidID    = apperror.NewValidationError("invalid id", nil)
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders err as {"message": ...}. Internal errors are logged with
// their cause and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp, internal := apperror.Resolve(err)
	if internal {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	if errors.Is(err, errBodyTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON body of at most maxBodyBytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return errInvalidBody
	}
	return nil
}

// idParam parses the positive integer path parameter name.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
