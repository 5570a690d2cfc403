package usershandler

import (
	"testing"

	"github.com/stretchr/testify/require"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	userstore "permit-workflow-backend/lib/users/store"
	"permit-workflow-backend/models"
	userapimodels "permit-workflow-backend/models/api/user"
	dbmodels "permit-workflow-backend/models/db"
)

type fakeUserStore struct {
	userstore.Provider
	users   map[string]dbmodels.User
	created []dbmodels.User
	updates map[string]map[string]interface{}
	deleted []string
}

func (f *fakeUserStore) Create(rec dbmodels.User) (string, error) {
	f.created = append(f.created, rec)
	return "new-user", nil
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

func (f *fakeUserStore) Delete(id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeActivityLogger struct {
	activityloghandler.Provider
	saved []dbmodels.ActivityLog
}

func (f *fakeActivityLogger) Save(rec dbmodels.ActivityLog) {
	f.saved = append(f.saved, rec)
}

var (
	ict     = models.Actor{UserID: "u-ict", Role: models.IctRole, Username: "admin"}
	manager = models.Actor{UserID: "u-mgr", Role: models.CatchmentManagerRole, Username: "manager"}
)

func newTestImpl() (impl, *fakeUserStore, *fakeActivityLogger) {
	store := &fakeUserStore{
		users: map[string]dbmodels.User{
			"u-ict": {BaseModel: dbmodels.BaseModel{ID: "u-ict"}, Username: "admin", UserType: models.IctRole, IsActive: true},
			"u-mgr": {BaseModel: dbmodels.BaseModel{ID: "u-mgr"}, Username: "manager", Email: "m@x.zw",
				UserType: models.CatchmentManagerRole, IsActive: true},
		},
		updates: map[string]map[string]interface{}{},
	}
	logger := &fakeActivityLogger{}
	return impl{store: store, activityLogger: logger}, store, logger
}

func TestCreate(t *testing.T) {
	data := userapimodels.CreateUser{Username: "newchair", Password: "long-password", UserType: models.ChairpersonRole}
	t.Run("ict only", func(t *testing.T) {
		i, store, _ := newTestImpl()
		_, hMsg, err := i.Create(manager, data)
		require.NoError(t, err)
		require.Equal(t, "only ICT may manage users", hMsg)
		require.Empty(t, store.created)
	})
	t.Run("duplicate username", func(t *testing.T) {
		i, _, _ := newTestImpl()
		dup := data
		dup.Username = "manager"
		_, hMsg, err := i.Create(ict, dup)
		require.NoError(t, err)
		require.Equal(t, "username is already taken", hMsg)
	})
	t.Run("created active with hashed password", func(t *testing.T) {
		i, store, logger := newTestImpl()
		id, hMsg, err := i.Create(ict, data)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, "new-user", id)
		require.True(t, store.created[0].IsActive)
		require.NotEqual(t, data.Password, store.created[0].Password)
		require.Equal(t, models.ActionUserCreated, logger.saved[0].Action)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("cannot deactivate self", func(t *testing.T) {
		i, store, _ := newTestImpl()
		inactive := false
		hMsg, err := i.Update(ict, "u-ict", userapimodels.UpdateUser{IsActive: &inactive})
		require.NoError(t, err)
		require.Equal(t, "you cannot deactivate your own account", hMsg)
		require.Empty(t, store.updates)
	})
	t.Run("only changed fields are written", func(t *testing.T) {
		i, store, logger := newTestImpl()
		email := "m@x.zw"
		role := models.ChairpersonRole
		hMsg, err := i.Update(ict, "u-mgr", userapimodels.UpdateUser{Email: &email, UserType: &role})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, map[string]interface{}{"user_type": models.ChairpersonRole}, store.updates["u-mgr"])
		require.Len(t, logger.saved[0].Changes.Data, 1)
	})
	t.Run("nothing changed", func(t *testing.T) {
		i, store, logger := newTestImpl()
		hMsg, err := i.Update(ict, "u-mgr", userapimodels.UpdateUser{})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Empty(t, store.updates)
		require.Empty(t, logger.saved)
	})
}

func TestDelete(t *testing.T) {
	t.Run("cannot delete self", func(t *testing.T) {
		i, store, _ := newTestImpl()
		hMsg, err := i.Delete(ict, "u-ict")
		require.NoError(t, err)
		require.Equal(t, "you cannot delete your own account", hMsg)
		require.Empty(t, store.deleted)
	})
	t.Run("not found", func(t *testing.T) {
		i, _, _ := newTestImpl()
		hMsg, err := i.Delete(ict, "missing")
		require.NoError(t, err)
		require.Equal(t, "user not found", hMsg)
	})
	t.Run("deleted and logged", func(t *testing.T) {
		i, store, logger := newTestImpl()
		hMsg, err := i.Delete(ict, "u-mgr")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, []string{"u-mgr"}, store.deleted)
		require.Equal(t, models.ActionUserDeleted, logger.saved[0].Action)
	})
}
