package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskforge-api/internal/auth"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/testutil"
	"github.com/yukikurage/taskforge-api/internal/utils"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice@example.com", nil)
	testutil.CreateUser(t, f.db, "bob@example.com", func(u *models.User) { u.Username = strPtr("bob") })

	_, err := f.userService.UpdateProfile(f.ctx, alice, UpdateProfileInput{Email: strPtr("bob@example.com")})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	_, err = f.userService.UpdateProfile(f.ctx, alice, UpdateProfileInput{Username: utils.NullableOf("bob")})
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)

	_, err = f.userService.UpdateProfile(f.ctx, alice, UpdateProfileInput{Password: utils.NullableOf("weak")})
	assert.ErrorIs(t, err, auth.ErrWeakPassword)

	updated, err := f.userService.UpdateProfile(f.ctx, alice, UpdateProfileInput{
		Email:    strPtr("alice@example.com"),
		Username: utils.NullableOf("alice"),
		Password: utils.NullableOf("Ab1!abcd"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Username)
	assert.Equal(t, "alice", *updated.Username)
	assert.True(t, updated.HasPassword())

	_, err = f.authService.Login(f.ctx, "alice@example.com", "Ab1!abcd")
	require.NoError(t, err)

	updated, err = f.userService.UpdateProfile(f.ctx, alice, UpdateProfileInput{
		Username: utils.Null[string](),
		Password: utils.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Username)
	assert.False(t, updated.HasPassword())

	_, err = f.authService.Login(f.ctx, "alice@example.com", "Ab1!abcd")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestDeleteAccount_TokenStopsResolving(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice@example.com", nil)

	token, err := f.tokens.Issue(alice.ID, 0)
	require.NoError(t, err)

	require.NoError(t, f.userService.DeleteAccount(f.ctx, alice))

	_, err = f.resolver.Authenticate(f.ctx, token)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestAdminUpdateUser(t *testing.T) {
	f := newFixture(t)
	admin := testutil.CreateUser(t, f.db, "admin@example.com", func(u *models.User) { u.SystemRole = models.SystemRoleAdmin })
	carol := testutil.CreateUser(t, f.db, "carol@example.com", nil)

	token, err := f.tokens.Issue(carol.ID, 0)
	require.NoError(t, err)

	inactive := false
	updated, err := f.userService.AdminUpdateUser(f.ctx, admin, carol.ID, AdminUpdateInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	// A still-valid token of a deactivated user is rejected as inactive.
	_, err = f.resolver.Authenticate(f.ctx, token)
	assert.ErrorIs(t, err, auth.ErrAccountInactive)

	promote := models.SystemRoleAdmin
	updated, err = f.userService.AdminUpdateUser(f.ctx, admin, carol.ID, AdminUpdateInput{SystemRole: &promote})
	require.NoError(t, err)
	assert.Equal(t, models.SystemRoleAdmin, updated.SystemRole)

	demote := models.SystemRoleUser
	_, err = f.userService.AdminUpdateUser(f.ctx, admin, admin.ID, AdminUpdateInput{SystemRole: &demote})
	assert.ErrorIs(t, err, ErrCannotModifySelf)
	_, err = f.userService.AdminUpdateUser(f.ctx, admin, admin.ID, AdminUpdateInput{IsActive: &inactive})
	assert.ErrorIs(t, err, ErrCannotModifySelf)

	_, err = f.userService.AdminUpdateUser(f.ctx, admin, uuid.New(), AdminUpdateInput{IsActive: &inactive})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@example.com", nil)
	gone := testutil.CreateUser(t, f.db, "b@example.com", nil)
	require.NoError(t, f.users.SoftDelete(f.ctx, gone))

	users, total, err := f.userService.ListUsers(f.ctx, utils.NewPaginationParams(1, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, users, 1)
}
