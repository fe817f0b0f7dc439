package handler

import (
	"net/http"

	"github.com/eventmate/eventmate-go/internal/model"
	"github.com/eventmate/eventmate-go/internal/service"
)

// EventHandler handles HTTP requests for the event directory.
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{service: svc}
}

// HandleList handles GET /events requests.
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.EventsResponse{Events: events})
}

// HandleGet handles GET /events/{id} requests.
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.EventResponse{Event: event})
}

// HandleCreate handles POST /events requests. Admin only.
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.EventInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.EventResponse{Message: "event created", Event: event})
}

// HandleUpdate handles PUT /events/{id} requests. Admin only.
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in model.EventInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.EventResponse{Message: "event updated", Event: event})
}

// HandleDelete handles DELETE /events/{id} requests. Admin only.
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{OK: true, Message: "event deleted"})
}
