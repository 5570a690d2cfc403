package expiryworker

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

const defaultNoticeDays = 30

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("PermitExpiryWorker", time.Minute, 12*time.Hour),
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

func noticeWindow() time.Duration {
	days := defaultNoticeDays
	if config.Conf != nil && config.Conf.Permit.ExpiryNoticeDays > 0 {
		days = config.Conf.Permit.ExpiryNoticeDays
	}
	return time.Duration(days) * 24 * time.Hour
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	now := i.now()
	list, err := i.appStore.ListExpiring(now.Add(noticeWindow()))
	if err != nil {
		logger.WithError(err).Error("failed to get expiring permits")
		i.notifier.SystemAlert("permit expiry worker failed", err.Error())
		return
	}
	for _, app := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		appLogger := logger.WithField("application_id", app.ID).WithField("permit_number", app.GetPermitNumber())
		if err = i.notifier.PermitExpiry(app); err != nil {
			appLogger.WithError(err).Error("failed to send permit expiry notice")
			continue
		}
		if app.CreatedBy != "" && app.ValidUntil != nil {
			i.push.SendNotification(app.CreatedBy, models.PushPermitExpiring,
				app.GetPermitNumber(), app.ApplicantName, app.ValidUntil.Format("02/01/2006"))
		}
		if err = i.appStore.MarkSent(app.ID, applicationstore.ExpiryNoticeSentColumn, now); err != nil {
			appLogger.WithError(err).Error("failed to mark expiry notice as sent")
		}
	}
}
