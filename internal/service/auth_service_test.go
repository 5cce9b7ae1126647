package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bizdesk-api/internal/model"
	"bizdesk-api/pkg/jwt"
)

func newAuth(t *testing.T, env *testEnv) (AuthService, TenantService) {
	t.Helper()
	tokens := jwt.NewManager("auth-secret", time.Hour, "bizdesk-test")
	auth := NewAuthService(env.users, tokens, zap.NewNop())
	tenants := NewTenantService(env.db, env.companies, env.perms, env.roles, env.users, zap.NewNop())
	return auth, tenants
}

func TestAuth_LoginAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	auth, tenants := newAuth(t, env)

	company, owner, err := tenants.CreateCompany(&CreateCompanyRequest{
		CompanyName: "Acme", OwnerName: "Olive", OwnerEmail: "Olive@Acme.test", OwnerPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, company.ID, owner.CompanyID)

	_, err = auth.Login(&LoginRequest{Email: "olive@acme.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(&LoginRequest{Email: "nobody@acme.test", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(&LoginRequest{Email: "not-an-email", Password: "x"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "email")

	resp, err := auth.Login(&LoginRequest{Email: "olive@acme.test", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, resp.Permissions, model.PermissionCode("branches", model.ActionCreate))
	require.NotNil(t, resp.User.Role)
	assert.Equal(t, model.OwnerRoleTitle, resp.User.Role.Name)

	user, err := auth.Authenticate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, user.ID)
	assert.True(t, user.HasPermission(model.PermissionCode("company", model.ActionUpdate)))

	_, _, err = tenants.CreateCompany(&CreateCompanyRequest{CompanyName: "Other", OwnerEmail: "olive@acme.test", OwnerPassword: "secret1"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuth_ChangePasswordEndsOtherSessions(t *testing.T) {
	env := newTestEnv(t)
	auth, tenants := newAuth(t, env)
	_, owner, err := tenants.CreateCompany(&CreateCompanyRequest{CompanyName: "Acme", OwnerEmail: "olive@acme.test", OwnerPassword: "secret1"})
	require.NoError(t, err)

	resp, err := auth.Login(&LoginRequest{Email: "olive@acme.test", Password: "secret1"})
	require.NoError(t, err)

	err = auth.ChangePassword(owner.ID, &ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "secret2"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "current_password")

	require.NoError(t, auth.ChangePassword(owner.ID, &ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret2"}))

	_, err = auth.Authenticate(resp.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = auth.Login(&LoginRequest{Email: "olive@acme.test", Password: "secret2"})
	assert.NoError(t, err)
}

func TestAuth_InactiveAndReset(t *testing.T) {
	env := newTestEnv(t)
	auth, tenants := newAuth(t, env)
	_, owner, err := tenants.CreateCompany(&CreateCompanyRequest{CompanyName: "Acme", OwnerEmail: "olive@acme.test", OwnerPassword: "secret1"})
	require.NoError(t, err)

	require.NoError(t, tenants.ResetPassword("olive@acme.test", "recovered"))
	_, err = auth.Login(&LoginRequest{Email: "olive@acme.test", Password: "recovered"})
	require.NoError(t, err)
	assert.ErrorIs(t, tenants.ResetPassword("ghost@acme.test", "recovered"), ErrUserNotFound)

	require.NoError(t, env.db.Model(&model.Staff{}).Where("id = ?", owner.ID).Update("active_status", model.Inactive).Error)
	_, err = auth.Login(&LoginRequest{Email: "olive@acme.test", Password: "recovered"})
	assert.ErrorIs(t, err, ErrUserInactive)
}
