package db

import (
	"permit-workflow-backend/config"
	userstore "permit-workflow-backend/lib/users/store"
	authutils "permit-workflow-backend/lib/utils/auth-utils"
	"permit-workflow-backend/models"
	dbmodels "permit-workflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func InitPreload() {
	addIctAdmin()
}

func addIctAdmin() {
	if config.Conf.Admin.Password == "" {
		log.Warn("ict admin not created, ADMIN_PASSWORD is not set")
		return
	}
	created, err := ensureUser(dbmodels.User{
		Username:  config.Conf.Admin.Username,
		Email:     config.Conf.Admin.Email,
		UserType:  models.IctRole,
		FirstName: "ICT",
		LastName:  "Administrator",
		IsActive:  true,
	}, config.Conf.Admin.Password)
	if err != nil {
		log.WithError(err).Error("failed to create ict admin")
		return
	}
	if created {
		log.WithField("username", config.Conf.Admin.Username).Info("ict admin created")
	}
}

type demoUser struct {
	username  string
	email     string
	role      models.UserRole
	firstName string
	lastName  string
}

var demoUsers = []demoUser{
	{"supervisor", "supervisor@umscc.co.zw", models.PermitSupervisorRole, "Permit", "Supervisor"},
	{"officer", "officer@umscc.co.zw", models.PermittingOfficerRole, "Permitting", "Officer"},
	{"chairperson", "chairperson@umscc.co.zw", models.ChairpersonRole, "Council", "Chairperson"},
	{"manager", "manager@manyame.co.zw", models.CatchmentManagerRole, "Catchment", "Manager"},
	{"catchment_chairperson", "catchment.chair@manyame.co.zw", models.CatchmentChairpersonRole, "Catchment", "Chairperson"},
}

// SeedDemoUsers creates the ict admin and one account per workflow role.
func SeedDemoUsers(password string) error {
	if password == "" {
		return errors.New("seed password must not be empty")
	}
	addIctAdmin()
	for _, item := range demoUsers {
		created, err := ensureUser(dbmodels.User{
			Username:  item.username,
			Email:     item.email,
			UserType:  item.role,
			FirstName: item.firstName,
			LastName:  item.lastName,
			IsActive:  true,
		}, password)
		if err != nil {
			return errors.Wrapf(err, "failed to seed user %s", item.username)
		}
		logger := log.WithField("username", item.username).WithField("user_type", item.role)
		if created {
			logger.Info("demo user created")
		} else {
			logger.Info("demo user already exists")
		}
	}
	return nil
}

func ensureUser(rec dbmodels.User, password string) (created bool, err error) {
	store := userstore.NewInstance(DB)
	existed, err := store.GetByUsername(rec.Username)
	if err != nil {
		return false, err
	}
	if existed != nil {
		return false, nil
	}
	rec.Password, err = authutils.HashPassword(password)
	if err != nil {
		return false, err
	}
	if _, err = store.Create(rec); err != nil {
		return false, err
	}
	return true, nil
}
