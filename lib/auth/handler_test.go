package authhandler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"permit-workflow-backend/config"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	"permit-workflow-backend/lib/rbac"
	userstore "permit-workflow-backend/lib/users/store"
	authutils "permit-workflow-backend/lib/utils/auth-utils"
	"permit-workflow-backend/models"
	authapimodels "permit-workflow-backend/models/api/auth"
	dbmodels "permit-workflow-backend/models/db"
)

type fakeUserStore struct {
	userstore.Provider
	users   map[string]dbmodels.User
	updates map[string]map[string]interface{}
}

func (f *fakeUserStore) GetByID(id string) (*dbmodels.User, error) {
	rec, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeUserStore) GetByUsername(username string) (*dbmodels.User, error) {
	for _, rec := range f.users {
		if rec.Username == username {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Update(id string, updMap map[string]interface{}) error {
	f.updates[id] = updMap
	return nil
}

type fakeActivityLogger struct {
	activityloghandler.Provider
	saved []dbmodels.ActivityLog
}

func (f *fakeActivityLogger) Save(rec dbmodels.ActivityLog) {
	f.saved = append(f.saved, rec)
}

func newTestImpl(t *testing.T) (impl, *fakeUserStore, *fakeActivityLogger) {
	config.Conf = &config.Configuration{}
	config.Conf.Auth.JWTSecret = "test-secret"
	config.Conf.Auth.JWTExpireInSec = 60
	config.Conf.Auth.JWTRefreshExpireInSec = 120

	hash, err := authutils.HashPassword("secret-pass")
	require.NoError(t, err)
	users := &fakeUserStore{
		users: map[string]dbmodels.User{
			"u1": {BaseModel: dbmodels.BaseModel{ID: "u1"}, Username: "officer", Password: hash,
				UserType: models.PermittingOfficerRole, IsActive: true},
			"u2": {BaseModel: dbmodels.BaseModel{ID: "u2"}, Username: "retired", Password: hash,
				UserType: models.ChairpersonRole, IsActive: false},
		},
		updates: map[string]map[string]interface{}{},
	}
	logger := &fakeActivityLogger{}
	rbac.NewHandler(rbac.AllowFunc())
	return impl{
		userStore:      users,
		activityLogger: logger,
		rbac:           rbac.Instance,
	}, users, logger
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		i, users, logger := newTestImpl(t)
		resp, hMsg, err := i.Login(models.Actor{IPAddress: "10.0.0.1"}, authapimodels.LoginRequest{Username: "officer", Password: "secret-pass"})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.NotEmpty(t, resp.Token)
		require.NotEmpty(t, resp.RefreshToken)
		require.Equal(t, "u1", resp.User.ID)
		require.Contains(t, users.updates["u1"], "last_login")
		require.Len(t, logger.saved, 1)
		require.Equal(t, models.ActionUserLogin, logger.saved[0].Action)
		require.Equal(t, "10.0.0.1", logger.saved[0].IPAddress)
		require.Equal(t, models.PermittingOfficerRole, logger.saved[0].UserType)
	})
	t.Run("wrong password", func(t *testing.T) {
		i, _, logger := newTestImpl(t)
		_, hMsg, err := i.Login(models.Actor{}, authapimodels.LoginRequest{Username: "officer", Password: "nope-nope"})
		require.NoError(t, err)
		require.Equal(t, invalidCredentials, hMsg)
		require.Empty(t, logger.saved)
	})
	t.Run("unknown user", func(t *testing.T) {
		i, _, _ := newTestImpl(t)
		_, hMsg, err := i.Login(models.Actor{}, authapimodels.LoginRequest{Username: "ghost", Password: "secret-pass"})
		require.NoError(t, err)
		require.Equal(t, invalidCredentials, hMsg)
	})
	t.Run("inactive user", func(t *testing.T) {
		i, _, _ := newTestImpl(t)
		_, hMsg, err := i.Login(models.Actor{}, authapimodels.LoginRequest{Username: "retired", Password: "secret-pass"})
		require.NoError(t, err)
		require.Equal(t, "user account is disabled", hMsg)
	})
}

func TestRefreshToken(t *testing.T) {
	i, _, _ := newTestImpl(t)
	t.Run("valid refresh token", func(t *testing.T) {
		refresh, err := authutils.GetRefreshToken("u1", "officer")
		require.NoError(t, err)
		resp, hMsg, err := i.RefreshToken(refresh)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.NotEmpty(t, resp.Token)
	})
	t.Run("access token is not accepted", func(t *testing.T) {
		access, err := authutils.GetToken("u1", "officer", models.PermittingOfficerRole)
		require.NoError(t, err)
		_, hMsg, err := i.RefreshToken(access)
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
	t.Run("inactive user", func(t *testing.T) {
		refresh, err := authutils.GetRefreshToken("u2", "retired")
		require.NoError(t, err)
		_, hMsg, err := i.RefreshToken(refresh)
		require.NoError(t, err)
		require.Equal(t, "user account is disabled", hMsg)
	})
}

func TestChangePassword(t *testing.T) {
	actor := models.Actor{UserID: "u1", Role: models.PermittingOfficerRole, Username: "officer"}
	t.Run("wrong current password", func(t *testing.T) {
		i, users, _ := newTestImpl(t)
		hMsg, err := i.ChangePassword(actor, authapimodels.PasswordChange{CurrentPassword: "bad-pass", NewPassword: "another-pass"})
		require.NoError(t, err)
		require.Equal(t, "current password is incorrect", hMsg)
		require.Empty(t, users.updates)
	})
	t.Run("password is replaced", func(t *testing.T) {
		i, users, logger := newTestImpl(t)
		hMsg, err := i.ChangePassword(actor, authapimodels.PasswordChange{CurrentPassword: "secret-pass", NewPassword: "another-pass"})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		hash := users.updates["u1"]["password"].(string)
		require.True(t, authutils.CheckPassword(hash, "another-pass"))
		require.Equal(t, models.ActionPasswordChanged, logger.saved[0].Action)
	})
}
