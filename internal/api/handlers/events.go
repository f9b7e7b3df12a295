package handlers

import (
	"campus-activity-service/internal/api/dto"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/services"
	"errors"
	"log"
	"net/http"
	"strings"
)

// EventHandler exposes CRUD over the event store at /api/events.
type EventHandler struct {
	Service *services.EventService
}

func (h *EventHandler) Events(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.List(r.Context())
	if err != nil {
		log.Printf("list events failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to fetch events")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListEventsResponse{Events: dto.FromEvents(events)})
}

func (h *EventHandler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEventRequest(w, r)
	if !ok {
		return
	}

	e, err := h.Service.Create(r.Context(), patchFromRequest(req))
	if err != nil {
		writeEventError(w, r, err, "Failed to create event")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.EventMessageResponse{
		Message: "Event created successfully",
		Event:   dto.FromEvent(e),
	})
}

func (h *EventHandler) update(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEventRequest(w, r)
	if !ok {
		return
	}

	e, err := h.Service.Update(r.Context(), req.ID, patchFromRequest(req))
	if err != nil {
		writeEventError(w, r, err, "Failed to update event")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.EventMessageResponse{
		Message: "Event updated successfully",
		Event:   dto.FromEvent(e),
	})
}

func (h *EventHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "Event ID is required")
		return
	}

	e, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		writeEventError(w, r, err, "Failed to delete event")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.EventMessageResponse{
		Message: "Event deleted successfully",
		Event:   dto.FromEvent(e),
	})
}

func decodeEventRequest(w http.ResponseWriter, r *http.Request) (dto.EventRequest, bool) {
	var req dto.EventRequest
	if !decodeJSON(w, r, &req) {
		return dto.EventRequest{}, false
	}
	return req, true
}

func patchFromRequest(req dto.EventRequest) services.EventPatch {
	p := services.EventPatch{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Capacity:    req.Capacity,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Attendees:   req.Attendees,
	}
	if req.Type != nil {
		c := domain.Category(strings.ToLower(strings.TrimSpace(*req.Type)))
		p.Type = &c
	}
	if req.Geometry != nil {
		p.Geometry = &domain.Coordinate{Lat: req.Geometry.Location.Lat, Lng: req.Geometry.Location.Lng}
	}
	return p
}

func writeEventError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, domain.ErrEventNotFound):
		writeError(w, r, http.StatusNotFound, "Event not found")
	default:
		log.Printf("event request failed: method=%s err=%v", r.Method, err)
		writeError(w, r, http.StatusInternalServerError, fallback)
	}
}
