package workflowhandler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	activitylogstore "permit-workflow-backend/lib/activity-log/store"
	applicationstore "permit-workflow-backend/lib/applications/store"
	documentstore "permit-workflow-backend/lib/documents/store"
	"permit-workflow-backend/lib/notification"
	pushhandler "permit-workflow-backend/lib/push"
	commentstore "permit-workflow-backend/lib/workflow-comments/store"
	"permit-workflow-backend/models"
	workflowapimodels "permit-workflow-backend/models/api/workflow"
	dbmodels "permit-workflow-backend/models/db"
)

type fakeAppStore struct {
	applicationstore.Provider
	apps      map[string]dbmodels.Application
	maxSuffix int
	stale     bool
	updates   map[string]map[string]interface{}
}

func (f *fakeAppStore) GetByID(id string) (*dbmodels.Application, error) {
	rec, ok := f.apps[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeAppStore) MaxNumberSuffix(column, prefix string) (int, error) {
	return f.maxSuffix, nil
}

func (f *fakeAppStore) UpdateState(id string, stage int, status models.ApplicationStatus, updMap map[string]interface{}) (bool, error) {
	if f.stale {
		return false, nil
	}
	rec := f.apps[id]
	if rec.CurrentStage != stage || rec.Status != status {
		return false, nil
	}
	f.updates[id] = updMap
	return true, nil
}

type fakeDocStore struct {
	documentstore.Provider
	types []models.DocumentType
}

func (f *fakeDocStore) DocumentTypes(applicationID string) ([]models.DocumentType, error) {
	return f.types, nil
}

type fakeCommentStore struct {
	commentstore.Provider
	created []dbmodels.WorkflowComment
}

func (f *fakeCommentStore) Create(rec dbmodels.WorkflowComment) (string, error) {
	f.created = append(f.created, rec)
	return "c-1", nil
}

type fakeLogStore struct {
	activitylogstore.Provider
	created []dbmodels.ActivityLog
}

func (f *fakeLogStore) Create(rec dbmodels.ActivityLog) (string, error) {
	f.created = append(f.created, rec)
	return "l-1", nil
}

type fakeNotifier struct {
	notification.Provider
	calls []string
	pdf   []byte
}

func (f *fakeNotifier) ApplicationSubmitted(app dbmodels.Application, actor models.Actor) error {
	f.calls = append(f.calls, "submitted")
	return nil
}

func (f *fakeNotifier) PendingReview(app dbmodels.Application, actor models.Actor, stage int, comment string) error {
	f.calls = append(f.calls, "pending")
	return nil
}

func (f *fakeNotifier) ApplicationApproved(app dbmodels.Application, actor models.Actor, comment string, permitPDF []byte) error {
	f.calls = append(f.calls, "approved")
	f.pdf = permitPDF
	return nil
}

func (f *fakeNotifier) ApplicationRejected(app dbmodels.Application, actor models.Actor, reason string) error {
	f.calls = append(f.calls, "rejected")
	return nil
}

func (f *fakeNotifier) ApplicationReturned(app dbmodels.Application, actor models.Actor, reason string) error {
	f.calls = append(f.calls, "returned")
	return nil
}

type fakePush struct {
	pushhandler.Provider
	toRole []models.UserRole
	toUser []string
	codes  []models.PushCode
}

func (f *fakePush) SendToRole(role models.UserRole, code models.PushCode, args ...any) {
	f.toRole = append(f.toRole, role)
	f.codes = append(f.codes, code)
}

func (f *fakePush) SendNotification(userID string, code models.PushCode, args ...any) {
	f.toUser = append(f.toUser, userID)
	f.codes = append(f.codes, code)
}

type testEnv struct {
	handler  impl
	apps     *fakeAppStore
	docs     *fakeDocStore
	comments *fakeCommentStore
	logs     *fakeLogStore
	notifier *fakeNotifier
	push     *fakePush
}

var (
	officer  = models.Actor{UserID: "u-off", Role: models.PermittingOfficerRole, Username: "officer"}
	other    = models.Actor{UserID: "u-off2", Role: models.PermittingOfficerRole, Username: "officer2"}
	chair    = models.Actor{UserID: "u-chair", Role: models.ChairpersonRole, Username: "chair"}
	manager  = models.Actor{UserID: "u-mgr", Role: models.CatchmentManagerRole, Username: "manager"}
	cchair   = models.Actor{UserID: "u-cc", Role: models.CatchmentChairpersonRole, Username: "cchair"}
	ictActor = models.Actor{UserID: "u-ict", Role: models.IctRole, Username: "admin"}
)

func newTestEnv(stage int, status models.ApplicationStatus) testEnv {
	env := testEnv{
		apps: &fakeAppStore{
			apps: map[string]dbmodels.Application{
				"a1": {
					BaseModel:         dbmodels.BaseModel{ID: "a1"},
					ApplicationNumber: "MC2026-001",
					ApplicantName:     "Tendai Farms",
					PermitType:        models.PermitTypeIrrigation,
					WaterAllocation:   10000,
					NumberOfBoreholes: 2,
					Status:            status,
					CurrentStage:      stage,
					CreatedBy:         officer.UserID,
				},
			},
			updates: map[string]map[string]interface{}{},
		},
		docs:     &fakeDocStore{types: models.RequiredDocuments},
		comments: &fakeCommentStore{},
		logs:     &fakeLogStore{},
		notifier: &fakeNotifier{},
		push:     &fakePush{},
	}
	env.handler = impl{
		appStore: env.apps,
		docStore: env.docs,
		inTx: func(fn func(stores txStores) error) error {
			return fn(txStores{applications: env.apps, comments: env.comments, activityLogs: env.logs})
		},
		notifier:   env.notifier,
		push:       env.push,
		background: func(fn func()) { fn() },
	}
	return env
}

func request(comment string) workflowapimodels.TransitionRequest {
	return workflowapimodels.TransitionRequest{Comment: comment}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	t.Run("creator submits with required documents", func(t *testing.T) {
		env := newTestEnv(models.StageOfficer, models.AppStatusUnsubmitted)
		result, hMsg, err := env.handler.Submit(ctx, officer, "a1")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.StageChairperson, result.CurrentStage)
		require.Equal(t, models.AppStatusSubmitted, result.Status)
		upd := env.apps.updates["a1"]
		require.Contains(t, upd, "submitted_at")
		require.Len(t, env.logs.created, 1)
		require.Equal(t, models.ActionAppSubmitted, env.logs.created[0].Action)
		require.Empty(t, env.comments.created)
		require.Equal(t, []string{"submitted"}, env.notifier.calls)
		require.Equal(t, []models.UserRole{models.ChairpersonRole}, env.push.toRole)
	})
	t.Run("missing documents", func(t *testing.T) {
		env := newTestEnv(models.StageOfficer, models.AppStatusUnsubmitted)
		env.docs.types = []models.DocumentType{models.DocIDCopy}
		_, hMsg, err := env.handler.Submit(ctx, officer, "a1")
		require.NoError(t, err)
		require.Contains(t, hMsg, "Proof of Residence")
		require.Contains(t, hMsg, "Proof of Ownership")
		require.Empty(t, env.apps.updates)
		require.Empty(t, env.notifier.calls)
	})
	t.Run("other officer cannot submit", func(t *testing.T) {
		env := newTestEnv(models.StageOfficer, models.AppStatusUnsubmitted)
		_, hMsg, err := env.handler.Submit(ctx, other, "a1")
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
		require.Empty(t, env.apps.updates)
	})
	t.Run("ict submits on behalf", func(t *testing.T) {
		env := newTestEnv(models.StageOfficer, models.AppStatusUnsubmitted)
		_, hMsg, err := env.handler.Submit(ctx, ictActor, "a1")
		require.NoError(t, err)
		require.Empty(t, hMsg)
	})
	t.Run("already submitted", func(t *testing.T) {
		env := newTestEnv(models.StageChairperson, models.AppStatusSubmitted)
		_, hMsg, err := env.handler.Submit(ctx, officer, "a1")
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
	t.Run("missing application", func(t *testing.T) {
		env := newTestEnv(models.StageOfficer, models.AppStatusUnsubmitted)
		_, hMsg, err := env.handler.Submit(ctx, officer, "nope")
		require.NoError(t, err)
		require.Equal(t, "application not found", hMsg)
	})
}

func TestForwardAndReview(t *testing.T) {
	ctx := context.Background()
	t.Run("chairperson forwards with comment", func(t *testing.T) {
		env := newTestEnv(models.StageChairperson, models.AppStatusSubmitted)
		result, hMsg, err := env.handler.Forward(ctx, chair, "a1", request("  looks complete  "))
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.StageCatchmentManager, result.CurrentStage)
		require.Equal(t, models.AppStatusUnderReview, result.Status)
		require.Len(t, env.comments.created, 1)
		require.Equal(t, "looks complete", env.comments.created[0].Comment)
		require.Equal(t, models.StageChairperson, env.comments.created[0].Stage)
		require.Equal(t, models.ActionAppForwarded, env.logs.created[0].Action)
		require.Equal(t, []string{"pending"}, env.notifier.calls)
		require.Equal(t, []models.UserRole{models.CatchmentManagerRole}, env.push.toRole)
	})
	t.Run("wrong role", func(t *testing.T) {
		env := newTestEnv(models.StageChairperson, models.AppStatusSubmitted)
		_, hMsg, err := env.handler.Forward(ctx, manager, "a1", request(""))
		require.NoError(t, err)
		require.Contains(t, hMsg, "only")
		require.Empty(t, env.apps.updates)
	})
	t.Run("technical assessment is prefixed", func(t *testing.T) {
		env := newTestEnv(models.StageCatchmentManager, models.AppStatusUnderReview)
		result, hMsg, err := env.handler.TechnicalReview(ctx, manager, "a1", request("yield test within sustainable limits"))
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.StageCatchmentChairperson, result.CurrentStage)
		require.True(t, strings.HasPrefix(env.comments.created[0].Comment, technicalAssessmentPrefix))
	})
	t.Run("short assessment", func(t *testing.T) {
		env := newTestEnv(models.StageCatchmentManager, models.AppStatusUnderReview)
		_, hMsg, err := env.handler.TechnicalReview(ctx, manager, "a1", request("ok"))
		require.NoError(t, err)
		require.Contains(t, hMsg, "at least")
		require.Empty(t, env.apps.updates)
	})
	t.Run("assessment length counts characters", func(t *testing.T) {
		env := newTestEnv(models.StageCatchmentManager, models.AppStatusUnderReview)
		_, hMsg, err := env.handler.TechnicalReview(ctx, manager, "a1", request(strings.Repeat("é", 10)))
		require.NoError(t, err)
		require.Contains(t, hMsg, "at least")
		require.Empty(t, env.apps.updates)
	})
	t.Run("concurrent change is reported", func(t *testing.T) {
		env := newTestEnv(models.StageChairperson, models.AppStatusSubmitted)
		env.apps.stale = true
		_, hMsg, err := env.handler.Forward(ctx, chair, "a1", request(""))
		require.NoError(t, err)
		require.Equal(t, "application was changed by another user", hMsg)
		require.Empty(t, env.notifier.calls)
	})
}

func TestDecisions(t *testing.T) {
	ctx := context.Background()
	t.Run("approve assigns permit number", func(t *testing.T) {
		env := newTestEnv(models.StageCatchmentChairperson, models.AppStatusUnderReview)
		env.apps.maxSuffix = 41
		result, hMsg, err := env.handler.Approve(ctx, cchair, "a1", request(""))
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.AppStatusApproved, result.Status)
		require.Equal(t, models.StageCatchmentChairperson, result.CurrentStage)
		require.Equal(t, "WP-"+time.Now().Format("200601")+"-0042", result.PermitNumber)
		upd := env.apps.updates["a1"]
		require.Contains(t, upd, "approved_at")
		require.Contains(t, upd, "valid_until")
		require.Equal(t, defaultApprovalComment, env.comments.created[0].Comment)
		require.Equal(t, []string{"approved"}, env.notifier.calls)
		require.NotEmpty(t, env.notifier.pdf)
		require.Equal(t, []string{officer.UserID}, env.push.toUser)
		require.Equal(t, []models.PushCode{models.PushApplicationDecided}, env.push.codes)
	})
	t.Run("reject stores reason", func(t *testing.T) {
		env := newTestEnv(models.StageCatchmentChairperson, models.AppStatusUnderReview)
		result, hMsg, err := env.handler.Reject(ctx, cchair, "a1", request("over-allocated aquifer"))
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.AppStatusRejected, result.Status)
		require.True(t, env.comments.created[0].IsRejectionReason)
		require.Contains(t, env.apps.updates["a1"], "rejected_at")
		require.Equal(t, []string{"rejected"}, env.notifier.calls)
	})
	t.Run("reject without reason", func(t *testing.T) {
		env := newTestEnv(models.StageCatchmentChairperson, models.AppStatusUnderReview)
		_, hMsg, err := env.handler.Reject(ctx, cchair, "a1", request("   "))
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
		require.Empty(t, env.apps.updates)
	})
	t.Run("approved application is final", func(t *testing.T) {
		env := newTestEnv(models.StageCatchmentChairperson, models.AppStatusApproved)
		_, hMsg, err := env.handler.Reject(ctx, cchair, "a1", request("late change"))
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
	t.Run("non-ascii comment within limit", func(t *testing.T) {
		env := newTestEnv(models.StageCatchmentChairperson, models.AppStatusUnderReview)
		comment := strings.Repeat("é", 300)
		_, hMsg, err := env.handler.Approve(ctx, cchair, "a1", request(comment))
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, comment, env.comments.created[0].Comment)
	})
	t.Run("inconsistent stage and status", func(t *testing.T) {
		env := newTestEnv(models.StageCatchmentManager, models.AppStatusApproved)
		_, hMsg, err := env.handler.Reject(ctx, ictActor, "a1", request("late change"))
		require.NoError(t, err)
		require.Contains(t, hMsg, "inconsistent state")
		require.Empty(t, env.apps.updates)
		require.Empty(t, env.logs.created)
	})
	t.Run("long comment is refused", func(t *testing.T) {
		env := newTestEnv(models.StageCatchmentChairperson, models.AppStatusUnderReview)
		_, hMsg, err := env.handler.Approve(ctx, cchair, "a1", request(strings.Repeat("x", 501)))
		require.NoError(t, err)
		require.Contains(t, hMsg, "500")
	})
}

func TestReturn(t *testing.T) {
	ctx := context.Background()
	t.Run("manager returns to officer", func(t *testing.T) {
		env := newTestEnv(models.StageCatchmentManager, models.AppStatusUnderReview)
		result, hMsg, err := env.handler.Return(ctx, manager, "a1", request("site plan is unreadable"))
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.StageOfficer, result.CurrentStage)
		require.Equal(t, models.AppStatusUnsubmitted, result.Status)
		upd := env.apps.updates["a1"]
		require.Contains(t, upd, "submitted_at")
		require.Nil(t, upd["submitted_at"])
		require.Equal(t, models.ActionAppReturned, env.logs.created[0].Action)
		require.Equal(t, []string{"returned"}, env.notifier.calls)
		require.Equal(t, []models.PushCode{models.PushApplicationReturned}, env.push.codes)
	})
	t.Run("reason is required", func(t *testing.T) {
		env := newTestEnv(models.StageChairperson, models.AppStatusSubmitted)
		_, hMsg, err := env.handler.Return(ctx, chair, "a1", request(""))
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
	t.Run("draft cannot be returned", func(t *testing.T) {
		env := newTestEnv(models.StageOfficer, models.AppStatusUnsubmitted)
		_, hMsg, err := env.handler.Return(ctx, ictActor, "a1", request("why"))
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
}
