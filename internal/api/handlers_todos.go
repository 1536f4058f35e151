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

type TodoHandler struct {
	svc *services.TodoService
}

func NewTodoHandler(svc *services.TodoService) *TodoHandler { return &TodoHandler{svc: svc} }

type todoRequest struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Progress       int        `json:"progress"`
	Completed      bool       `json:"completed"`
	ShowInCalendar bool       `json:"showInCalendar"`
	DueDate        *time.Time `json:"dueDate"`
	Color          *string    `json:"color"`
	CategoryID     *int64     `json:"categoryId"`
}

func (req *todoRequest) validate() error {
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

func (req *todoRequest) toModel(userID, todoID int64) *model.Todo {
	return &model.Todo{
		ID:             todoID,
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Progress:       req.Progress,
		Completed:      req.Completed,
		ShowInCalendar: req.ShowInCalendar,
		DueDate:        req.DueDate,
		Color:          req.Color,
		CategoryID:     req.CategoryID,
	}
}

// Create POST /api/todos
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Create(r.Context(), req.toModel(userID, 0))
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// Get GET /api/todos/{todoId}
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	todoID, err := pathID(r, "todoId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Get(r.Context(), userID, todoID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// List GET /api/todos
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	out, err := h.svc.List(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"todos": out, "count": len(out)})
}

// Update PUT /api/todos/{todoId}
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	todoID, err := pathID(r, "todoId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Update(r.Context(), req.toModel(userID, todoID))
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateProgress PATCH /api/todos/{todoId}/progress
func (h *TodoHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	todoID, err := pathID(r, "todoId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	var req struct {
		Progress int `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.svc.UpdateProgress(r.Context(), userID, todoID, req.Progress)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Delete DELETE /api/todos/{todoId}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	todoID, err := pathID(r, "todoId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.svc.Delete(r.Context(), userID, todoID); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
