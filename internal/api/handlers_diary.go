package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/daylog/daylog-backend/internal/api/respond"
	"github.com/daylog/daylog-backend/internal/assets"
	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/services"
)

// maxImageBytes caps a single image upload. maxFormBytes bounds the whole
// request body, leaving slack for the text fields that ride in the same
// multipart payload.
const (
	maxImageBytes = 10 << 20
	maxFormBytes  = maxImageBytes + (1 << 20)
)

// DiaryHandler is a thin HTTP transport over DiaryService. Writes arrive as
// multipart forms so an image can ride along with the entry fields.
type DiaryHandler struct {
	svc *services.DiaryService
}

func NewDiaryHandler(svc *services.DiaryService) *DiaryHandler { return &DiaryHandler{svc: svc} }

// Create POST /api/diaries
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	in, err := parseDiaryForm(w, r)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Create(r.Context(), userID, *in)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// Update PUT /api/diaries/{diaryId}
func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	diaryID, err := pathID(r, "diaryId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	in, err := parseDiaryForm(w, r)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Update(r.Context(), userID, diaryID, *in)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Get GET /api/diaries/{diaryId}
func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	diaryID, err := pathID(r, "diaryId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Get(r.Context(), userID, diaryID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// List GET /api/diaries?date=2026-05-20
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	if d := r.URL.Query().Get("date"); d != "" {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			respond.WriteBadRequest(w, "date must be YYYY-MM-DD")
			return
		}
		out, err := h.svc.ListByDate(r.Context(), userID, day)
		if err != nil {
			respond.WriteServiceError(w, err)
			return
		}
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"diaries": out, "count": len(out)})
		return
	}

	out, err := h.svc.List(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"diaries": out, "count": len(out)})
}

// Delete DELETE /api/diaries/{diaryId}
func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	diaryID, err := pathID(r, "diaryId")
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.svc.Delete(r.Context(), userID, diaryID); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseDiaryForm(w http.ResponseWriter, r *http.Request) (*services.DiaryInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil {
		return nil, err
	}
	in := &services.DiaryInput{
		Title:       r.FormValue("title"),
		Content:     r.FormValue("content"),
		RemoveImage: r.FormValue("removeImage") == "true",
	}

	if d := r.FormValue("date"); d != "" {
		ts, err := time.Parse(time.RFC3339, d)
		if err != nil {
			return nil, err
		}
		in.Date = &ts
	}

	var err error
	if in.EventIDs, err = parseIDList(r.Form["relatedEvents"]); err != nil {
		return nil, err
	}
	if in.TodoIDs, err = parseIDList(r.Form["relatedTodos"]); err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("image")
	switch err {
	case nil:
		defer func() { _ = file.Close() }()
		// read one byte past the cap so truncation is detectable
		data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
		if err != nil {
			return nil, err
		}
		if len(data) > maxImageBytes {
			return nil, model.NewValidationError("image", "image exceeds the 10 MiB limit")
		}
		in.Image = &assets.Upload{Filename: header.Filename, Data: data}
	case http.ErrMissingFile:
		// no image in this request
	default:
		return nil, err
	}
	return in, nil
}

// parseIDList accepts both repeated form values and comma-joined values, as
// different multipart clients encode arrays differently.
func parseIDList(values []string) ([]int64, error) {
	var out []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
	}
	return out, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
