package api

import (
	"encoding/json"
	"net/http"

	"github.com/daylog/daylog-backend/internal/api/respond"
	"github.com/daylog/daylog-backend/internal/api/validate"
	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/services"
)

type CategoryHandler struct {
	svc *services.CategoryService
	vis *services.VisibilityService
}

func NewCategoryHandler(svc *services.CategoryService, vis *services.VisibilityService) *CategoryHandler {
	return &CategoryHandler{svc: svc, vis: vis}
}

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (req *categoryRequest) validate() error {
	if err := validate.NonEmpty("name", req.Name); err != nil {
		return err
	}
	if err := validate.MaxLen("name", req.Name, 100); err != nil {
		return err
	}
	return validate.Color(req.Color)
}

// Create POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Create(r.Context(), &model.Category{UserID: userID, Name: req.Name, Color: req.Color})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// List GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	out, err := h.svc.List(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": out, "count": len(out)})
}

// Update PUT /api/categories/{categoryId}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Update(r.Context(), &model.Category{ID: categoryID, UserID: userID, Name: req.Name, Color: req.Color})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Delete DELETE /api/categories/{categoryId}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.svc.Delete(r.Context(), userID, categoryID); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVisibility GET /api/categories/visibility
func (h *CategoryHandler) ListVisibility(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	out, err := h.vis.List(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"visibility": out, "count": len(out)})
}

// SetVisibility PUT /api/categories/{categoryId}/visibility
func (h *CategoryHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	var req struct {
		Visible bool `json:"visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.vis.Set(r.Context(), userID, categoryID, req.Visible)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
