package usershandler

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"permit-workflow-backend/db"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	userstore "permit-workflow-backend/lib/users/store"
	authutils "permit-workflow-backend/lib/utils/auth-utils"
	initchecker "permit-workflow-backend/lib/utils/init-checker"
	"permit-workflow-backend/models"
	apimodels "permit-workflow-backend/models/api"
	userapimodels "permit-workflow-backend/models/api/user"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Create(actor models.Actor, data userapimodels.CreateUser) (id string, hMsg string, err error)
	Get(id string) (user userapimodels.UserView, hMsg string, err error)
	List(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error)
	Update(actor models.Actor, id string, data userapimodels.UpdateUser) (hMsg string, err error)
	ResetPassword(actor models.Actor, id string, data userapimodels.ResetPassword) (hMsg string, err error)
	Delete(actor models.Actor, id string) (hMsg string, err error)
	// Recipients lists active users a message can be addressed to.
	Recipients() (list []userapimodels.UserView, err error)
}

var Instance Provider

const recipientsLimit = 100

func NewHandler() {
	instance := impl{
		store:          userstore.NewInstance(db.DB),
		activityLogger: activityloghandler.Instance,
	}
	initchecker.CheckInit(
		"activityLogger", instance.activityLogger,
	)
	Instance = instance
}

type impl struct {
	store          userstore.Provider
	activityLogger activityloghandler.Provider
}

func (i impl) Create(actor models.Actor, data userapimodels.CreateUser) (id string, hMsg string, err error) {
	if !actor.IsIct() {
		return "", "only ICT may manage users", nil
	}
	username := strings.TrimSpace(data.Username)
	exist, err := i.store.GetByUsername(username)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to check username")
	}
	if exist != nil {
		return "", "username is already taken", nil
	}
	hash, err := authutils.HashPassword(data.Password)
	if err != nil {
		return "", "", err
	}
	rec := dbmodels.User{
		Username:  username,
		Email:     strings.TrimSpace(data.Email),
		Password:  hash,
		UserType:  data.UserType,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		IsActive:  true,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to create user")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionUserCreated,
		fmt.Sprintf("Created user %v (%v)", username, data.UserType.ToHuman())))
	return id, "", nil
}

func (i impl) Get(id string) (user userapimodels.UserView, hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return userapimodels.UserView{}, "", errors.Wrap(err, "failed to get user")
	}
	if rec == nil {
		return userapimodels.UserView{}, "user not found", nil
	}
	return rec.ToModel(), "", nil
}

func (i impl) List(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []userapimodels.UserView{}, rowCount, nil
	}
	recList, err := i.store.List(filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]userapimodels.UserView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, rowCount, nil
}

func (i impl) Update(actor models.Actor, id string, data userapimodels.UpdateUser) (hMsg string, err error) {
	if !actor.IsIct() {
		return "only ICT may manage users", nil
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "failed to get user")
	}
	if rec == nil {
		return "user not found", nil
	}
	if id == actor.UserID {
		if data.IsActive != nil && !*data.IsActive {
			return "you cannot deactivate your own account", nil
		}
		if data.UserType != nil && *data.UserType != rec.UserType {
			return "you cannot change your own role", nil
		}
	}
	updMap := map[string]interface{}{}
	changes := dbmodels.EntityChanges{Description: fmt.Sprintf("user %v updated", rec.Username)}
	addChange := func(field string, oldValue, newValue interface{}) {
		if oldValue == newValue {
			return
		}
		updMap[field] = newValue
		changes.Data = append(changes.Data, dbmodels.FieldChanges{Field: field, OldValue: oldValue, NewValue: newValue})
	}
	if data.Email != nil {
		addChange("email", rec.Email, strings.TrimSpace(*data.Email))
	}
	if data.UserType != nil {
		addChange("user_type", rec.UserType, *data.UserType)
	}
	if data.FirstName != nil {
		addChange("first_name", rec.FirstName, *data.FirstName)
	}
	if data.LastName != nil {
		addChange("last_name", rec.LastName, *data.LastName)
	}
	if data.IsActive != nil {
		addChange("is_active", rec.IsActive, *data.IsActive)
	}
	if len(updMap) == 0 {
		return "", nil
	}
	if err = i.store.Update(id, updMap); err != nil {
		return "", errors.Wrap(err, "failed to update user")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionUserUpdated, fmt.Sprintf("Updated user %v", rec.Username)).
		WithChanges(changes))
	return "", nil
}

func (i impl) ResetPassword(actor models.Actor, id string, data userapimodels.ResetPassword) (hMsg string, err error) {
	if !actor.IsIct() {
		return "only ICT may manage users", nil
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "failed to get user")
	}
	if rec == nil {
		return "user not found", nil
	}
	hash, err := authutils.HashPassword(data.NewPassword)
	if err != nil {
		return "", err
	}
	if err = i.store.Update(id, map[string]interface{}{"password": hash}); err != nil {
		return "", errors.Wrap(err, "failed to reset password")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionPasswordChanged,
		fmt.Sprintf("Reset password of user %v", rec.Username)))
	return "", nil
}

func (i impl) Delete(actor models.Actor, id string) (hMsg string, err error) {
	if !actor.IsIct() {
		return "only ICT may manage users", nil
	}
	if id == actor.UserID {
		return "you cannot delete your own account", nil
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "failed to get user")
	}
	if rec == nil {
		return "user not found", nil
	}
	if err = i.store.Delete(id); err != nil {
		return "", errors.Wrap(err, "failed to delete user")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionUserDeleted,
		fmt.Sprintf("Deleted user %v (%v)", rec.Username, rec.UserType.ToHuman())))
	return "", nil
}

func (i impl) Recipients() (list []userapimodels.UserView, err error) {
	active := true
	recList, err := i.store.List(userapimodels.UserFilter{IsActive: &active, Pagination: apimodels.Pagination{Page: 1, Limit: recipientsLimit}})
	if err != nil {
		return nil, err
	}
	list = make([]userapimodels.UserView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, nil
}
