package response

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccessAndErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, map[string]string{"foo": "bar"}, "ok")
	require.Equal(t, 200, w.Code)
	body := decode(t, w)
	require.Equal(t, "success", body["status"])
	require.Equal(t, "ok", body["message"])
	require.Contains(t, body, "data")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Error(c, 400, "bad request", "BAD_REQ")
	require.Equal(t, 400, w.Code)
	bodyErr := decode(t, w)
	require.Equal(t, "bad request", bodyErr["error"])
	require.Equal(t, "BAD_REQ", bodyErr["code"])
}

func TestFromErrorMapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.NotFound("Report not found"), http.StatusNotFound, "NOT_FOUND"},
		{apperrors.Forbidden("no access"), http.StatusForbidden, "FORBIDDEN"},
		{apperrors.InvalidTransition("already processed"), http.StatusConflict, "INVALID_TRANSITION"},
		{apperrors.Unauthorized("login required"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{apperrors.Dependency("storage down", stderrors.New("dial tcp")), http.StatusServiceUnavailable, "DEPENDENCY_FAILURE"},
		{stderrors.New("pq: connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		FromError(c, tc.err)
		require.Equal(t, tc.status, w.Code)
		body := decode(t, w)
		require.Equal(t, tc.code, body["code"])
		require.NotContains(t, body["error"], "pq:")
	}
}

func TestFromErrorIncludesFieldDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, apperrors.Validation("Validation failed", apperrors.FieldError{Field: "detail", Message: "must be at least 50 characters"}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	fields := body["fields"].([]any)
	require.Len(t, fields, 1)
	require.Equal(t, "detail", fields[0].(map[string]any)["field"])
}

func TestDegradedResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Degraded(c, http.StatusOK, gin.H{"id": 1}, "Report processed", []string{"notification dispatch failed"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, "partial_success", body["status"])
	require.Len(t, body["warnings"], 1)
}

func TestPaginatedResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	items := []map[string]any{{"id": 1}, {"id": 2}}
	Paginated(c, items, map[string]any{"total": 2, "per_page": 10, "current_page": 1})

	require.Equal(t, 200, w.Code)
	body := decode(t, w)
	require.Len(t, body["data"], 2)
	meta := body["meta"].(map[string]any)
	require.Equal(t, float64(2), meta["total"])
}
