package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/daylog/daylog-backend/internal/api/respond"
	"github.com/daylog/daylog-backend/internal/api/validate"
	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/services"
)

type EventHandler struct {
	svc *services.EventService
}

func NewEventHandler(svc *services.EventService) *EventHandler { return &EventHandler{svc: svc} }

type eventRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	AllDay      bool      `json:"allDay"`
	Color       *string   `json:"color"`
	CategoryID  *int64    `json:"categoryId"`
}

func (req *eventRequest) validate() error {
	if err := validate.NonEmpty("title", req.Title); err != nil {
		return err
	}
	if err := validate.MaxLen("title", req.Title, 200); err != nil {
		return err
	}
	if req.Color != nil {
		return validate.Color(*req.Color)
	}
	return nil
}

// Create POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Create(r.Context(), &model.CalendarEvent{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		AllDay:      req.AllDay,
		Color:       req.Color,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// Get GET /api/events/{eventId}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	eventID, err := pathID(r, "eventId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Get(r.Context(), userID, eventID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// List GET /api/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	out, err := h.svc.List(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": out, "count": len(out)})
}

// Update PUT /api/events/{eventId}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	eventID, err := pathID(r, "eventId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Update(r.Context(), &model.CalendarEvent{
		ID:          eventID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		AllDay:      req.AllDay,
		Color:       req.Color,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Delete DELETE /api/events/{eventId}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	eventID, err := pathID(r, "eventId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.svc.Delete(r.Context(), userID, eventID); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
