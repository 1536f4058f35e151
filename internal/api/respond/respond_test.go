package respond

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog-backend/internal/model"
)

func serviceErrorResponse(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	WriteServiceError(rr, err)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr.Code, body
}

func TestWriteServiceError_Mapping(t *testing.T) {
	code, body := serviceErrorResponse(t, model.NewValidationError("title", "title is required"))
	assert.Equal(t, 400, code)
	assert.Contains(t, body.Message, "title is required")

	code, body = serviceErrorResponse(t, model.NewNotFoundError("diary", 7))
	assert.Equal(t, 404, code)
	assert.Contains(t, body.Message, "diary")
}

func TestWriteServiceError_HidesInternalDetail(t *testing.T) {
	code, body := serviceErrorResponse(t, errors.New("pq: connection refused on host db-internal:5432"))
	assert.Equal(t, 500, code)
	assert.Equal(t, "internal error", body.Message)
	assert.NotContains(t, body.Message, "db-internal")
}
