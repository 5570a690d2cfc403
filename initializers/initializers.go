package initializers

import (
	"context"
	"time"

	"permit-workflow-backend/config"
	"permit-workflow-backend/fiberlog"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	applicationshandler "permit-workflow-backend/lib/applications"
	authhandler "permit-workflow-backend/lib/auth"
	documentshandler "permit-workflow-backend/lib/documents"
	xlsexport "permit-workflow-backend/lib/export/xls"
	filestorage "permit-workflow-backend/lib/file-storage"
	messageshandler "permit-workflow-backend/lib/messages"
	"permit-workflow-backend/lib/notification"
	pushhandler "permit-workflow-backend/lib/push"
	"permit-workflow-backend/lib/rbac"
	reportshandler "permit-workflow-backend/lib/reports"
	usershandler "permit-workflow-backend/lib/users"
	workflowhandler "permit-workflow-backend/lib/workflow"
	commentshandler "permit-workflow-backend/lib/workflow-comments"
	expiryworker "permit-workflow-backend/lib/workflow/expiry-worker"
	reminderworker "permit-workflow-backend/lib/workflow/reminder-worker"
	connectionhub "permit-workflow-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

// InitStorage prepares config, logging and the database, enough for the migrate and seed commands.
func InitStorage(forceMigrate bool) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection(forceMigrate || *config.Conf.Database.MigrateOnStart)
}

func InitAllServices(ctx context.Context) {
	InitStorage(false)
	InitS3(ctx)
	InitSmtp()
	connectionhub.Init()
	filestorage.NewHandler()
	xlsexport.NewHandler()
	activityloghandler.NewHandler()
	pushhandler.NewHandler()
	notification.NewHandler()
	applicationshandler.NewHandler()
	rbac.NewHandler(applicationshandler.Instance.GetRbacCreatorAllow())
	authhandler.NewHandler()
	usershandler.NewHandler()
	workflowhandler.NewHandler()
	commentshandler.NewHandler()
	documentshandler.NewHandler()
	messageshandler.NewHandler()
	reportshandler.NewHandler()
	go initWorkers(ctx)
}

// workers start a few seconds apart to spread the first database load
func initWorkers(ctx context.Context) {
	// reminders for applications idle at a stage
	reminderworker.StartWorker(ctx)

	if makeTimeGap(ctx) {
		// notices for permits close to valid_until
		expiryworker.StartWorker(ctx)
	}
}

func makeTimeGap(ctx context.Context) (canRun bool) {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}
