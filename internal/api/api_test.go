package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog-backend/internal/assets"
	"github.com/daylog/daylog-backend/internal/auth"
	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/services"
	"github.com/daylog/daylog-backend/internal/store/sqlite"
)

const testToken = "test-token"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := sqlite.New(filepath.Join(t.TempDir(), "daylog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	am, err := assets.New(t.TempDir())
	require.NoError(t, err)

	_, err = st.Users().Create(context.Background(), &model.User{Email: "api@example.com"})
	require.NoError(t, err)

	az := auth.NewStaticAuthorizer(map[string]string{testToken: "api@example.com"})
	diarySvc := services.NewDiaryService(st, am, zerolog.Nop())

	srv := httptest.NewServer(NewRouter(st, am, az, st, diarySvc, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, payload interface{}) *http.Response {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAPI_HealthIsPublic(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/health/db")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_RequiresToken(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/diaries")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_EventCRUD(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, "POST", srv.URL+"/api/events", map[string]interface{}{
		"title":     "standup",
		"startTime": "2026-06-01T09:00:00Z",
		"endTime":   "2026-06-01T09:15:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var ev model.CalendarEvent
	decode(t, resp, &ev)
	require.NotZero(t, ev.ID)

	resp = doJSON(t, "PUT", fmt.Sprintf("%s/api/events/%d", srv.URL, ev.ID), map[string]interface{}{
		"title":     "standup moved",
		"startTime": "2026-06-01T10:00:00Z",
		"endTime":   "2026-06-01T10:15:00Z",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated model.CalendarEvent
	decode(t, resp, &updated)
	assert.Equal(t, "standup moved", updated.Title)

	// invalid time range is rejected by the service
	resp = doJSON(t, "POST", srv.URL+"/api/events", map[string]interface{}{
		"title":     "backwards",
		"startTime": "2026-06-01T10:00:00Z",
		"endTime":   "2026-06-01T09:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, "DELETE", fmt.Sprintf("%s/api/events/%d", srv.URL, ev.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, "GET", fmt.Sprintf("%s/api/events/%d", srv.URL, ev.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAPI_DiaryMultipartWithImageAndRelations(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, "POST", srv.URL+"/api/todos", map[string]interface{}{"title": "pack"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var td model.Todo
	decode(t, resp, &td)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "trip day"))
	require.NoError(t, mw.WriteField("content", "packed and left"))
	require.NoError(t, mw.WriteField("date", "2026-06-02T08:00:00Z"))
	require.NoError(t, mw.WriteField("relatedTodos", fmt.Sprintf("%d", td.ID)))
	fw, err := mw.CreateFormFile("image", "trip.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest("POST", srv.URL+"/api/diaries", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)
	httpResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, httpResp.StatusCode)

	var view struct {
		ID           int64         `json:"id"`
		Title        string        `json:"title"`
		ImageURL     *string       `json:"imageUrl"`
		RelatedTodos []*model.Todo `json:"relatedTodos"`
	}
	decode(t, httpResp, &view)
	require.NotNil(t, view.ImageURL)
	require.Len(t, view.RelatedTodos, 1)
	assert.Equal(t, td.ID, view.RelatedTodos[0].ID)

	// the stored image is served back as a static file
	imgResp, err := http.Get(srv.URL + *view.ImageURL)
	require.NoError(t, err)
	defer func() { _ = imgResp.Body.Close() }()
	assert.Equal(t, http.StatusOK, imgResp.StatusCode)

	// day filter finds the entry
	resp = doJSON(t, "GET", srv.URL+"/api/diaries?date=2026-06-02", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing struct {
		Count int `json:"count"`
	}
	decode(t, resp, &listing)
	assert.Equal(t, 1, listing.Count)
}

func TestAPI_DiaryRejectsOversizeImage(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "too big"))
	require.NoError(t, mw.WriteField("content", "x"))
	fw, err := mw.CreateFormFile("image", "big.png")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0xAB}, maxImageBytes+1))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest("POST", srv.URL+"/api/diaries", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "oversize image must be rejected, not truncated")

	// nothing may have been stored
	listResp := doJSON(t, "GET", srv.URL+"/api/diaries", nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var listing struct {
		Count int `json:"count"`
	}
	decode(t, listResp, &listing)
	assert.Equal(t, 0, listing.Count)
}

func TestAPI_TodoProgressPatch(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, "POST", srv.URL+"/api/todos", map[string]interface{}{"title": "ship"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var td model.Todo
	decode(t, resp, &td)

	resp = doJSON(t, "PATCH", fmt.Sprintf("%s/api/todos/%d/progress", srv.URL, td.ID), map[string]interface{}{"progress": 250})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated model.Todo
	decode(t, resp, &updated)
	assert.Equal(t, 100, updated.Progress)
	assert.True(t, updated.Completed)
}

func TestAPI_CategoriesAndVisibility(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, "POST", srv.URL+"/api/categories", map[string]interface{}{"name": "Work", "color": "#112233"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cat model.Category
	decode(t, resp, &cat)

	resp = doJSON(t, "GET", srv.URL+"/api/categories/visibility", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var vis struct {
		Visibility []*model.CategoryVisibility `json:"visibility"`
	}
	decode(t, resp, &vis)
	require.Len(t, vis.Visibility, 1)
	assert.True(t, vis.Visibility[0].Visible)

	resp = doJSON(t, "PUT", fmt.Sprintf("%s/api/categories/%d/visibility", srv.URL, cat.ID), map[string]interface{}{"visible": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var flag model.CategoryVisibility
	decode(t, resp, &flag)
	assert.False(t, flag.Visible)

	// bad color is rejected before reaching the service
	resp = doJSON(t, "POST", srv.URL+"/api/categories", map[string]interface{}{"name": "Bad", "color": "red"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAPI_RegisterIsPublic(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(map[string]string{"email": "new@example.com"}))
	resp, err := http.Post(srv.URL+"/api/users", "application/json", &body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
