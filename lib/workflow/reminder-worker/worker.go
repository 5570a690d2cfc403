package reminderworker

import (
	"context"
	"time"

	"permit-workflow-backend/config"
	"permit-workflow-backend/db"
	applicationstore "permit-workflow-backend/lib/applications/store"
	"permit-workflow-backend/lib/notification"
	pushhandler "permit-workflow-backend/lib/push"
	baseworker "permit-workflow-backend/lib/utils/base-worker"
	"permit-workflow-backend/lib/utils/helpers"
	"permit-workflow-backend/models"
)

const (
	defaultIdleHours = 72
	defaultInterval  = 60 * time.Minute
)

func StartWorker(ctx context.Context) {
	interval := defaultInterval
	if config.Conf.Workflow.ReminderIntervalMinute > 0 {
		interval = time.Duration(config.Conf.Workflow.ReminderIntervalMinute) * time.Minute
	}
	i := &impl{
		BaseImpl: *baseworker.NewInstance("ReminderWorker", 30*time.Second, interval),
		appStore: applicationstore.NewInstance(db.DB),
		notifier: notification.Instance,
		push:     pushhandler.Instance,
		now:      time.Now,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	appStore applicationstore.Provider
	notifier notification.Provider
	push     pushhandler.Provider
	now      func() time.Time
}

func idleThreshold() time.Duration {
	hours := defaultIdleHours
	if config.Conf != nil && config.Conf.Workflow.ReminderAfterHours > 0 {
		hours = config.Conf.Workflow.ReminderAfterHours
	}
	return time.Duration(hours) * time.Hour
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	now := i.now()
	list, err := i.appStore.ListIdle(now.Add(-idleThreshold()))
	if err != nil {
		logger.WithError(err).Error("failed to get idle applications")
		i.notifier.SystemAlert("reminder worker failed", err.Error())
		return
	}
	for _, app := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		appLogger := logger.WithField("application_id", app.ID)
		if err = i.notifier.Reminder(app, now.Sub(app.UpdatedAt)); err != nil {
			appLogger.WithError(err).Error("failed to send review reminder")
			continue
		}
		if role, ok := models.StageOwner(app.CurrentStage); ok {
			i.push.SendToRole(role, models.PushApplicationPending, app.ApplicationNumber, models.StageName(app.CurrentStage))
		}
		if err = i.appStore.MarkSent(app.ID, applicationstore.ReminderSentColumn, now); err != nil {
			appLogger.WithError(err).Error("failed to mark reminder as sent")
		}
	}
}
