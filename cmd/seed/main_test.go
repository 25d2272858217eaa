package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/testutil"
)

func TestSeedAccountsIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t, &auth.User{})
	users := auth.NewRepository(db)
	ctx := context.Background()
	accounts := defaultAccounts("Root@Example.com", "rahasia-super")

	created, err := seedAccounts(ctx, users, accounts)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = seedAccounts(ctx, users, accounts)
	require.NoError(t, err)
	assert.Zero(t, created)

	super, err := users.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, super)
	assert.Equal(t, access.RoleSuperAdmin, super.Role)
	assert.True(t, auth.CheckPassword(super.Password, "rahasia-super"))

	n, err := users.CountByRole(ctx, access.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRunRejectsUnknownFlags(t *testing.T) {
	assert.Error(t, run([]string{"--bogus"}))
}
