package authhandler

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"permit-workflow-backend/db"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	"permit-workflow-backend/lib/rbac"
	userstore "permit-workflow-backend/lib/users/store"
	authutils "permit-workflow-backend/lib/utils/auth-utils"
	initchecker "permit-workflow-backend/lib/utils/init-checker"
	"permit-workflow-backend/models"
	authapimodels "permit-workflow-backend/models/api/auth"
	userapimodels "permit-workflow-backend/models/api/user"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Login(actor models.Actor, request authapimodels.LoginRequest) (response authapimodels.JWTResponse, hMsg string, err error)
	RefreshToken(refreshToken string) (response authapimodels.JWTResponse, hMsg string, err error)
	Me(userID string) (user userapimodels.UserView, hMsg string, err error)
	ChangePassword(actor models.Actor, data authapimodels.PasswordChange) (hMsg string, err error)
	Permissions(role models.UserRole) authapimodels.PermissionsView
}

var Instance Provider

const invalidCredentials = "invalid username or password"

func NewHandler() {
	instance := impl{
		userStore:      userstore.NewInstance(db.DB),
		activityLogger: activityloghandler.Instance,
		rbac:           rbac.Instance,
	}
	initchecker.CheckInit(
		"activityLogger", instance.activityLogger,
		"rbac", instance.rbac,
	)
	Instance = instance
}

type impl struct {
	userStore      userstore.Provider
	activityLogger activityloghandler.Provider
	rbac           rbac.Provider
}

// Login expects actor to carry only the client address and user agent.
func (i impl) Login(actor models.Actor, request authapimodels.LoginRequest) (response authapimodels.JWTResponse, hMsg string, err error) {
	logger := log.WithField("username", request.Username)
	user, err := i.userStore.GetByUsername(request.Username)
	if err != nil {
		return authapimodels.JWTResponse{}, "", errors.Wrap(err, "failed to find user")
	}
	if user == nil || !authutils.CheckPassword(user.Password, request.Password) {
		logger.Debug("login refused")
		return authapimodels.JWTResponse{}, invalidCredentials, nil
	}
	if !user.IsActive {
		logger.Debug("login refused, user is inactive")
		return authapimodels.JWTResponse{}, "user account is disabled", nil
	}
	response, err = i.issueTokens(*user)
	if err != nil {
		return authapimodels.JWTResponse{}, "", err
	}
	err = i.userStore.Update(user.ID, map[string]interface{}{"last_login": time.Now()})
	if err != nil {
		logger.WithError(err).Error("failed to update last login")
	}
	actor.UserID = user.ID
	actor.Role = user.UserType
	actor.Username = user.Username
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionUserLogin, "User logged in"))
	return response, "", nil
}

func (i impl) RefreshToken(refreshToken string) (response authapimodels.JWTResponse, hMsg string, err error) {
	userID, err := authutils.ParseRefreshToken(refreshToken)
	if err != nil {
		log.WithError(err).Debug("refresh token rejected")
		return authapimodels.JWTResponse{}, "refresh token is invalid or expired", nil
	}
	user, err := i.userStore.GetByID(userID)
	if err != nil {
		return authapimodels.JWTResponse{}, "", errors.Wrap(err, "failed to get user")
	}
	if user == nil || !user.IsActive {
		return authapimodels.JWTResponse{}, "user account is disabled", nil
	}
	response, err = i.issueTokens(*user)
	if err != nil {
		return authapimodels.JWTResponse{}, "", err
	}
	return response, "", nil
}

func (i impl) Me(userID string) (user userapimodels.UserView, hMsg string, err error) {
	rec, err := i.userStore.GetByID(userID)
	if err != nil {
		return userapimodels.UserView{}, "", errors.Wrap(err, "failed to get user")
	}
	if rec == nil {
		return userapimodels.UserView{}, "user not found", nil
	}
	return rec.ToModel(), "", nil
}

func (i impl) ChangePassword(actor models.Actor, data authapimodels.PasswordChange) (hMsg string, err error) {
	rec, err := i.userStore.GetByID(actor.UserID)
	if err != nil {
		return "", errors.Wrap(err, "failed to get user")
	}
	if rec == nil {
		return "user not found", nil
	}
	if !authutils.CheckPassword(rec.Password, data.CurrentPassword) {
		return "current password is incorrect", nil
	}
	hash, err := authutils.HashPassword(data.NewPassword)
	if err != nil {
		return "", err
	}
	if err = i.userStore.Update(rec.ID, map[string]interface{}{"password": hash}); err != nil {
		return "", errors.Wrap(err, "failed to update password")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionPasswordChanged, "User changed own password"))
	return "", nil
}

func (i impl) Permissions(role models.UserRole) authapimodels.PermissionsView {
	result := authapimodels.PermissionsView{
		Role:        role,
		RoleHuman:   role.ToHuman(),
		Permissions: i.rbac.GetPermissions(role),
	}
	if result.Permissions == nil {
		result.Permissions = map[models.Module][]models.Permission{}
	}
	return result
}

func (i impl) issueTokens(user dbmodels.User) (authapimodels.JWTResponse, error) {
	token, err := authutils.GetToken(user.ID, user.GetFullName(), user.UserType)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "failed to generate access token")
	}
	refreshToken, err := authutils.GetRefreshToken(user.ID, user.GetFullName())
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "failed to generate refresh token")
	}
	view := user.ToModel()
	return authapimodels.JWTResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         &view,
	}, nil
}
