package chats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/features/notifications"
	"github.com/xyz-asif/whistleblow/internal/features/reports"
	idToken "github.com/xyz-asif/whistleblow/internal/pkg/jwt"
	"github.com/xyz-asif/whistleblow/internal/pkg/validator"
	"github.com/xyz-asif/whistleblow/internal/testutil"
)

const testSecret = "test-secret"

type fixture struct {
	router  *gin.Engine
	users   *auth.Repository
	reports *reports.Repository
	notes   *notifications.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.RegisterCustom())

	db := testutil.NewDB(t, &auth.User{}, &reports.Report{}, &reports.ReportFile{}, &Chat{}, &notifications.Notification{})
	users := auth.NewRepository(db)
	reportRepo := reports.NewRepository(db)
	notes := notifications.NewRepository(db)
	svc := NewService(NewRepository(db), reportRepo, users, notifications.NewDispatcher(notes, users))

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), svc, auth.NewAuthMiddleware(users, testSecret), nil)
	return &fixture{router: r, users: users, reports: reportRepo, notes: notes}
}

func (f *fixture) user(t *testing.T, email string, role access.Role) (*auth.User, string) {
	t.Helper()
	u := &auth.User{Name: "Akun " + email, Email: email, Password: "x", Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	token, err := idToken.GenerateToken(u.ID, u.Email, string(u.Role), idToken.DefaultConfig(testSecret))
	require.NoError(t, err)
	return u, token
}

func (f *fixture) report(t *testing.T, owner *uint, handler *uint) *reports.Report {
	t.Helper()
	r := &reports.Report{
		Title:        "Penyalahgunaan kendaraan dinas",
		Violation:    "penyalahgunaan aset",
		Location:     "Garasi kantor",
		IncidentDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Actors:       "Sopir",
		Detail:       "Kendaraan dinas dipakai untuk keperluan pribadi setiap akhir pekan.",
		IsAnonymous:  owner == nil,
		Status:       reports.StatusPending,
		UserID:       owner,
		AdminID:      handler,
	}
	require.NoError(t, f.reports.Create(context.Background(), r))
	return r
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
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
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) inbox(t *testing.T, userID uint) []notifications.Notification {
	t.Helper()
	items, _, err := f.notes.ListByUser(context.Background(), userID, nil, 0, 100)
	require.NoError(t, err)
	return items
}

func TestThreadBetweenOwnerAndHandler(t *testing.T) {
	f := newFixture(t)
	owner, ownerToken := f.user(t, "owner@example.com", access.RoleUser)
	admin, adminToken := f.user(t, "admin@example.com", access.RoleAdmin)
	r := f.report(t, &owner.ID, &admin.ID)
	path := fmt.Sprintf("/api/v1/reports/%d/chats", r.ID)

	w := f.do(http.MethodPost, path, ownerToken, SendMessageRequest{Message: "Apakah ada perkembangan?"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = f.do(http.MethodPost, path, adminToken, SendMessageRequest{Message: "Sedang kami telusuri."})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodGet, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Apakah ada perkembangan?", body.Data[0].Message)
	assert.Equal(t, owner.ID, body.Data[0].User.ID)
	assert.Equal(t, access.RoleAdmin, body.Data[1].User.Role)

	toAdmin := f.inbox(t, admin.ID)
	require.Len(t, toAdmin, 1)
	assert.Equal(t, `Pesan baru dari Akun owner@example.com terkait laporan "Penyalahgunaan kendaraan dinas"`, toAdmin[0].Message)
	require.Len(t, f.inbox(t, owner.ID), 1)
}

func TestOutsiderCannotReadOrWrite(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.user(t, "owner@example.com", access.RoleUser)
	_, otherToken := f.user(t, "other@example.com", access.RoleUser)
	r := f.report(t, &owner.ID, nil)
	path := fmt.Sprintf("/api/v1/reports/%d/chats", r.ID)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, path, otherToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, path, otherToken, SendMessageRequest{Message: "halo"}).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/v1/reports/999/chats", otherToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, path, "", nil).Code)
}

func TestOwnerMessageWithoutHandlerNotifiesNobody(t *testing.T) {
	f := newFixture(t)
	owner, ownerToken := f.user(t, "owner@example.com", access.RoleUser)
	admin, _ := f.user(t, "admin@example.com", access.RoleAdmin)
	r := f.report(t, &owner.ID, nil)

	w := f.do(http.MethodPost, fmt.Sprintf("/api/v1/reports/%d/chats", r.ID), ownerToken, SendMessageRequest{Message: "Tambahan informasi"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, f.inbox(t, admin.ID))
}

func TestAnonymousThreadByCode(t *testing.T) {
	f := newFixture(t)
	admin, adminToken := f.user(t, "admin@example.com", access.RoleAdmin)
	r := f.report(t, nil, &admin.ID)
	code := *r.UniqueCode

	w := f.do(http.MethodPost, "/api/v1/reports/anonymous/"+code+"/chats", "", SendMessageRequest{Message: "Saya punya bukti tambahan"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"user":null`)

	w = f.do(http.MethodPost, fmt.Sprintf("/api/v1/reports/%d/chats", r.ID), adminToken, SendMessageRequest{Message: "Silakan unggah"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(http.MethodGet, "/api/v1/reports/anonymous/"+code+"/chats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Nil(t, body.Data[0].User)

	toAdmin := f.inbox(t, admin.ID)
	require.Len(t, toAdmin, 1)
	assert.Contains(t, toAdmin[0].Message, "Pelapor anonim")

	w = f.do(http.MethodGet, "/api/v1/reports/anonymous/ffffffffffffffff/chats", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessageLength(t *testing.T) {
	f := newFixture(t)
	owner, token := f.user(t, "owner@example.com", access.RoleUser)
	r := f.report(t, &owner.ID, nil)
	path := fmt.Sprintf("/api/v1/reports/%d/chats", r.ID)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, path, token, SendMessageRequest{Message: "   "}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, path, token, SendMessageRequest{Message: strings.Repeat("a", 2001)}).Code)
	assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, path, token, SendMessageRequest{Message: strings.Repeat("é", 2000)}).Code)
}
