package handler

import (
	"net/http"

	"github.com/eventmate/eventmate-go/internal/middleware"
	"github.com/eventmate/eventmate-go/internal/model"
	"github.com/eventmate/eventmate-go/internal/service"
)

// RegistrationHandler handles HTTP requests for event registrations.
type RegistrationHandler struct {
	service *service.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(svc *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: svc}
}

// HandleRegister handles POST /events/{id}/register requests.
func (h *RegistrationHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, middleware.ErrMissingToken)
		return
	}

	eventID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Register(r.Context(), claims.UserID, eventID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{OK: true, Message: "registered for event"})
}

// HandleCancel handles DELETE /user/events/{id}/cancel requests.
func (h *RegistrationHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, middleware.ErrMissingToken)
		return
	}

	eventID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Cancel(r.Context(), claims.UserID, eventID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{OK: true, Message: "registration cancelled"})
}

// HandleUserEvents handles GET /user/events requests.
func (h *RegistrationHandler) HandleUserEvents(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, middleware.ErrMissingToken)
		return
	}

	events, err := h.service.ListForUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.EventsResponse{Events: events})
}

// HandleEventRegistrations handles GET /events/{id}/registrations requests.
// Admin only.
func (h *RegistrationHandler) HandleEventRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	registrants, err := h.service.ListForEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.RegistrantsResponse{Registrations: registrants})
}
