package notifications

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	idToken "github.com/xyz-asif/whistleblow/internal/pkg/jwt"
	"github.com/xyz-asif/whistleblow/internal/pkg/validator"
	"github.com/xyz-asif/whistleblow/internal/testutil"
)

const testSecret = "test-secret"

type fixture struct {
	router *gin.Engine
	repo   *Repository
	users  *auth.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.RegisterCustom())

	db := testutil.NewDB(t, &auth.User{}, &Notification{})
	users := auth.NewRepository(db)
	repo := NewRepository(db)

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), repo, auth.NewAuthMiddleware(users, testSecret))
	return &fixture{router: r, repo: repo, users: users}
}

func (f *fixture) user(t *testing.T, email string) (*auth.User, string) {
	t.Helper()
	u := &auth.User{Name: "User " + email, Email: email, Password: "x", Role: access.RoleUser}
	require.NoError(t, f.users.Create(t.Context(), u))
	token, err := idToken.GenerateToken(u.ID, u.Email, string(u.Role), idToken.DefaultConfig(testSecret))
	require.NoError(t, err)
	return u, token
}

func (f *fixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestListNotificationsWithMeta(t *testing.T) {
	f := newFixture(t)
	u, token := f.user(t, "a@example.com")

	var batch []Notification
	for i := 0; i < 12; i++ {
		batch = append(batch, Notification{UserID: u.ID, Type: TypeChatMessage, Message: fmt.Sprintf("pesan %d", i), IsRead: i < 2})
	}
	require.NoError(t, f.repo.CreateMany(t.Context(), batch))

	w := f.do(http.MethodGet, "/api/v1/notifications?per_page=5&page=2", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data []Notification `json:"data"`
		Meta ListMeta       `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 5)
	assert.Equal(t, int64(10), body.Meta.UnreadCount)
	assert.Equal(t, 2, body.Meta.CurrentPage)
	assert.Equal(t, 3, body.Meta.TotalPages)

	w = f.do(http.MethodGet, "/api/v1/notifications?is_read=true", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)

	w = f.do(http.MethodGet, "/api/v1/notifications?is_read=maybe", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkAsReadIsOwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner, ownerToken := f.user(t, "owner@example.com")
	_, otherToken := f.user(t, "other@example.com")

	n := []Notification{{UserID: owner.ID, Type: TypeReportProcessed, Message: "diproses"}}
	require.NoError(t, f.repo.CreateMany(t.Context(), n))
	path := fmt.Sprintf("/api/v1/notifications/%d/read", n[0].ID)

	w := f.do(http.MethodPut, path, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodPut, path, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)

	count, err := f.repo.CountUnread(t.Context(), owner.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	w = f.do(http.MethodPut, "/api/v1/notifications/abc/read", ownerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkAllAndUnreadCount(t *testing.T) {
	f := newFixture(t)
	u, token := f.user(t, "all@example.com")
	require.NoError(t, f.repo.CreateMany(t.Context(), []Notification{
		{UserID: u.ID, Type: TypeChatMessage, Message: "1"},
		{UserID: u.ID, Type: TypeChatMessage, Message: "2"},
	}))

	w := f.do(http.MethodGet, "/api/v1/notifications/unread-count", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread_count":2`)

	w = f.do(http.MethodPut, "/api/v1/notifications/read-all", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"marked_count":2`)
}
