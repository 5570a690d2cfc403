package reminderworker

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	applicationstore "permit-workflow-backend/lib/applications/store"
	"permit-workflow-backend/lib/notification"
	pushhandler "permit-workflow-backend/lib/push"
	baseworker "permit-workflow-backend/lib/utils/base-worker"
	"permit-workflow-backend/models"
	dbmodels "permit-workflow-backend/models/db"
)

type fakeAppStore struct {
	applicationstore.Provider
	idle      []dbmodels.Application
	listErr   error
	idleSince time.Time
	marked    []string
}

func (f *fakeAppStore) ListIdle(idleSince time.Time) ([]dbmodels.Application, error) {
	f.idleSince = idleSince
	return f.idle, f.listErr
}

func (f *fakeAppStore) MarkSent(id, column string, at time.Time) error {
	f.marked = append(f.marked, id+":"+column)
	return nil
}

type fakeNotifier struct {
	notification.Provider
	reminders map[string]time.Duration
	alerts    []string
}

func (f *fakeNotifier) Reminder(app dbmodels.Application, idle time.Duration) error {
	f.reminders[app.ID] = idle
	return nil
}

func (f *fakeNotifier) SystemAlert(subject, details string) {
	f.alerts = append(f.alerts, subject)
}

type fakePush struct {
	pushhandler.Provider
	roles []models.UserRole
}

func (f *fakePush) SendToRole(role models.UserRole, code models.PushCode, args ...any) {
	f.roles = append(f.roles, role)
}

func TestHandle(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	newWorker := func(store *fakeAppStore) (impl, *fakeNotifier, *fakePush) {
		notifier := &fakeNotifier{reminders: map[string]time.Duration{}}
		push := &fakePush{}
		return impl{
			BaseImpl: *baseworker.NewInstance("test", 0, time.Hour),
			appStore: store,
			notifier: notifier,
			push:     push,
			now:      func() time.Time { return now },
		}, notifier, push
	}
	t.Run("idle applications are reminded once", func(t *testing.T) {
		store := &fakeAppStore{idle: []dbmodels.Application{
			{BaseModel: dbmodels.BaseModel{ID: "a1", UpdatedAt: now.Add(-80 * time.Hour)}, CurrentStage: models.StageChairperson},
			{BaseModel: dbmodels.BaseModel{ID: "a2", UpdatedAt: now.Add(-100 * time.Hour)}, CurrentStage: models.StageCatchmentManager},
		}}
		worker, notifier, push := newWorker(store)
		worker.handle(context.Background())
		require.Equal(t, now.Add(-72*time.Hour), store.idleSince)
		require.Equal(t, 80*time.Hour, notifier.reminders["a1"])
		require.Equal(t, []models.UserRole{models.ChairpersonRole, models.CatchmentManagerRole}, push.roles)
		require.Equal(t, []string{"a1:reminder_sent_at", "a2:reminder_sent_at"}, store.marked)
	})
	t.Run("store failure raises alert", func(t *testing.T) {
		store := &fakeAppStore{listErr: errors.New("db down")}
		worker, notifier, _ := newWorker(store)
		worker.handle(context.Background())
		require.Equal(t, []string{"reminder worker failed"}, notifier.alerts)
		require.Empty(t, store.marked)
	})
}
