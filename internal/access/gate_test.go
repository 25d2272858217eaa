package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

func uintPtr(v uint) *uint { return &v }

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("super-admin")
	require.True(t, ok)
	assert.True(t, r.IsAdmin())

	_, ok = ParseRole("root")
	assert.False(t, ok)
	assert.False(t, RoleUser.IsAdmin())
}

func TestCheckOwnedReport(t *testing.T) {
	subject := Subject{OwnerID: uintPtr(1)}
	owner := Actor{UserID: 1, Role: RoleUser}
	stranger := Actor{UserID: 2, Role: RoleUser}
	admin := Actor{UserID: 3, Role: RoleAdmin}

	for _, action := range []Action{ReadReport, ReadChat, WriteChat, DownloadFile} {
		assert.NoError(t, Check(owner, action, subject), action.String())
		assert.NoError(t, Check(admin, action, subject), action.String())
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(Check(stranger, action, subject)), action.String())
		assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(Check(Actor{}, action, subject)), action.String())
	}
}

func TestCheckAnonymousReport(t *testing.T) {
	subject := Subject{Anonymous: true, UniqueCode: "a1b2c3d4e5f60718"}

	assert.NoError(t, Check(Anonymous("a1b2c3d4e5f60718"), ReadReport, subject))
	assert.NoError(t, Check(Anonymous("a1b2c3d4e5f60718"), WriteChat, subject))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(Check(Anonymous("ffffffffffffffff"), ReadReport, subject)))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(Check(Actor{UserID: 9, Role: RoleUser}, ReadReport, subject)))
	assert.NoError(t, Check(Actor{UserID: 3, Role: RoleSuperAdmin}, ReadChat, subject))
}

func TestCheckTransitionRequiresAdmin(t *testing.T) {
	subject := Subject{OwnerID: uintPtr(1)}

	assert.NoError(t, Check(Actor{UserID: 2, Role: RoleAdmin}, TransitionReport, subject))
	assert.NoError(t, Check(Actor{UserID: 4, Role: RoleSuperAdmin}, TransitionReport, subject))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(Check(Actor{UserID: 1, Role: RoleUser}, TransitionReport, subject)))
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(Check(Anonymous("code"), TransitionReport, subject)))
}

func TestCanManageAdmins(t *testing.T) {
	assert.NoError(t, CanManageAdmins(Actor{UserID: 1, Role: RoleSuperAdmin}))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(CanManageAdmins(Actor{UserID: 2, Role: RoleAdmin})))
}

func TestFileBelongs(t *testing.T) {
	assert.NoError(t, FileBelongs(5, 5))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(FileBelongs(5, 6)))
}
