package expiryworker

import (
	"context"
	"testing"
	"time"

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
	expiring []dbmodels.Application
	until    time.Time
	marked   []string
}

func (f *fakeAppStore) ListExpiring(until time.Time) ([]dbmodels.Application, error) {
	f.until = until
	return f.expiring, nil
}

func (f *fakeAppStore) MarkSent(id, column string, at time.Time) error {
	f.marked = append(f.marked, id+":"+column)
	return nil
}

type fakeNotifier struct {
	notification.Provider
	notified []string
}

func (f *fakeNotifier) PermitExpiry(app dbmodels.Application) error {
	f.notified = append(f.notified, app.ID)
	return nil
}

type fakePush struct {
	pushhandler.Provider
	users []string
	codes []models.PushCode
}

func (f *fakePush) SendNotification(userID string, code models.PushCode, args ...any) {
	f.users = append(f.users, userID)
	f.codes = append(f.codes, code)
}

func TestHandle(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	validUntil := now.AddDate(0, 0, 20)
	permitNumber := "WP-202105-0001"
	store := &fakeAppStore{expiring: []dbmodels.Application{
		{BaseModel: dbmodels.BaseModel{ID: "a1"}, CreatedBy: "u-off", PermitNumber: &permitNumber, ValidUntil: &validUntil},
	}}
	notifier := &fakeNotifier{}
	push := &fakePush{}
	worker := impl{
		BaseImpl: *baseworker.NewInstance("test", 0, time.Hour),
		appStore: store,
		notifier: notifier,
		push:     push,
		now:      func() time.Time { return now },
	}
	worker.handle(context.Background())
	require.Equal(t, now.Add(30*24*time.Hour), store.until)
	require.Equal(t, []string{"a1"}, notifier.notified)
	require.Equal(t, []string{"u-off"}, push.users)
	require.Equal(t, []models.PushCode{models.PushPermitExpiring}, push.codes)
	require.Equal(t, []string{"a1:expiry_notice_sent_at"}, store.marked)
}
