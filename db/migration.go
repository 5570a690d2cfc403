package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "permit-workflow-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	tables := []struct {
		name  string
		model interface{}
	}{
		{"User", &dbmodels.User{}},
		{"Application", &dbmodels.Application{}},
		{"WorkflowComment", &dbmodels.WorkflowComment{}},
		{"Document", &dbmodels.Document{}},
		{"ActivityLog", &dbmodels.ActivityLog{}},
		{"Message", &dbmodels.Message{}},
		{"PushEvent", &dbmodels.PushEvent{}},
	}
	for _, table := range tables {
		if err := DB.AutoMigrate(table.model); err != nil {
			return errors.Wrapf(err, "failed to migrate %s", table.name)
		}
	}
	log.Info("migrations completed")
	return nil
}
