package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/whistleblow/internal/access"
	idToken "github.com/xyz-asif/whistleblow/internal/pkg/jwt"
	"github.com/xyz-asif/whistleblow/internal/pkg/validator"
	"github.com/xyz-asif/whistleblow/internal/testutil"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) (*gin.Engine, *Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.RegisterCustom())

	db := testutil.NewDB(t, &User{})
	repo := NewRepository(db)

	r := gin.New()
	api := r.Group("/api/v1")
	noLimit := func(c *gin.Context) { c.Next() }
	RegisterRoutes(api, repo, idToken.DefaultConfig(testSecret), NewAuthMiddleware(repo, testSecret), noLimit)

	admin := api.Group("/admin-only", NewAuthMiddleware(repo, testSecret), RequireRoles(access.RoleAdmin, access.RoleSuperAdmin))
	admin.GET("", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	return r, repo
}

func doJSON(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func tokenFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	data := decode(t, w)["data"].(map[string]any)
	return data["access_token"].(string)
}

func TestRegisterLoginMe(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name": "Budi Santoso", "email": "Budi@Example.com", "password": "rahasia1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "budi@example.com", user["email"])
	assert.NotContains(t, user, "password")

	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "budi@example.com", "password": "rahasia1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := tokenFrom(t, w)

	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Budi Santoso", decode(t, w)["data"].(map[string]any)["name"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setupRouter(t)
	payload := map[string]any{"name": "Siti Aminah", "email": "siti@example.com", "password": "rahasia1"}

	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/api/v1/auth/register", "", payload).Code)
	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", payload)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decode(t, w)["code"])
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name": "Al", "email": "not-an-email", "password": "123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.Len(t, body["fields"], 3)
}

func TestLoginWrongPassword(t *testing.T) {
	r, repo := setupRouter(t)
	hashed, err := HashPassword("benar123")
	require.NoError(t, err)
	require.NoError(t, repo.Create(t.Context(), &User{Name: "Rina", Email: "rina@example.com", Password: hashed, Role: access.RoleUser}))

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "rina@example.com", "password": "salah123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdatePassword(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name": "Dewi Lestari", "email": "dewi@example.com", "password": "lama1234",
	})
	token := tokenFrom(t, w)

	w = doJSON(r, http.MethodPut, "/api/v1/auth/password", token, map[string]any{"current_password": "keliru", "new_password": "baru12345"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/api/v1/auth/password", token, map[string]any{"current_password": "lama1234", "new_password": "baru12345"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "dewi@example.com", "password": "baru12345"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authorization header required", decode(t, w)["error"])

	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", decode(t, w)["code"])
}

func TestRequireRoles(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name": "Pelapor Biasa", "email": "pelapor@example.com", "password": "pelapor123",
	})
	token := tokenFrom(t, w)

	w = doJSON(r, http.MethodGet, "/api/v1/admin-only", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRepositorySummariesAndAdminIDs(t *testing.T) {
	_, repo := setupRouter(t)
	ctx := t.Context()

	admin := &User{Name: "Admin", Email: "admin@example.com", Password: "x", Role: access.RoleAdmin}
	super := &User{Name: "Super", Email: "super@example.com", Password: "x", Role: access.RoleSuperAdmin}
	reporter := &User{Name: "Reporter", Email: "rep@example.com", Password: "x", Role: access.RoleUser}
	for _, u := range []*User{admin, super, reporter} {
		require.NoError(t, repo.Create(ctx, u))
	}

	ids, err := repo.AdminIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{admin.ID, super.ID}, ids)

	summaries, err := repo.Summaries(ctx, []uint{admin.ID, reporter.ID, 999})
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, "Reporter", summaries[reporter.ID].Name)
	assert.Equal(t, access.RoleAdmin, summaries[admin.ID].Role)

	n, err := repo.CountByRole(ctx, access.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
