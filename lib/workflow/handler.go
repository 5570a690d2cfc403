package workflowhandler

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"permit-workflow-backend/config"
	"permit-workflow-backend/db"
	activitylogstore "permit-workflow-backend/lib/activity-log/store"
	applicationstore "permit-workflow-backend/lib/applications/store"
	documentstore "permit-workflow-backend/lib/documents/store"
	pdfexport "permit-workflow-backend/lib/export/pdf"
	"permit-workflow-backend/lib/notification"
	"permit-workflow-backend/lib/permit"
	pushhandler "permit-workflow-backend/lib/push"
	initchecker "permit-workflow-backend/lib/utils/init-checker"
	"permit-workflow-backend/lib/utils/lock"
	commentstore "permit-workflow-backend/lib/workflow-comments/store"
	"permit-workflow-backend/models"
	workflowapimodels "permit-workflow-backend/models/api/workflow"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Submit(ctx context.Context, actor models.Actor, id string) (result workflowapimodels.TransitionResult, hMsg string, err error)
	Forward(ctx context.Context, actor models.Actor, id string, data workflowapimodels.TransitionRequest) (result workflowapimodels.TransitionResult, hMsg string, err error)
	TechnicalReview(ctx context.Context, actor models.Actor, id string, data workflowapimodels.TransitionRequest) (result workflowapimodels.TransitionResult, hMsg string, err error)
	Approve(ctx context.Context, actor models.Actor, id string, data workflowapimodels.TransitionRequest) (result workflowapimodels.TransitionResult, hMsg string, err error)
	Reject(ctx context.Context, actor models.Actor, id string, data workflowapimodels.TransitionRequest) (result workflowapimodels.TransitionResult, hMsg string, err error)
	// Return sends the application back to the permitting officer.
	Return(ctx context.Context, actor models.Actor, id string, data workflowapimodels.TransitionRequest) (result workflowapimodels.TransitionResult, hMsg string, err error)
}

var Instance Provider

// ErrChangedMessage is returned when the application moved on while the action was prepared.
const ErrChangedMessage = "application was changed by another user"

var errChanged = errors.New(ErrChangedMessage)

const defaultLockWait = 5 * time.Second

func NewHandler() {
	instance := impl{
		appStore: applicationstore.NewInstance(db.DB),
		docStore: documentstore.NewInstance(db.DB),
		inTx:     gormTx,
		notifier: notification.Instance,
		push:     pushhandler.Instance,
		background: func(fn func()) {
			go fn()
		},
	}
	initchecker.CheckInit(
		"notifier", instance.notifier,
		"push", instance.push,
	)
	Instance = instance
}

// txStores are bound to one database transaction.
type txStores struct {
	applications applicationstore.Provider
	comments     commentstore.Provider
	activityLogs activitylogstore.Provider
}

func gormTx(fn func(stores txStores) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(txStores{
			applications: applicationstore.NewInstance(tx),
			comments:     commentstore.NewInstance(tx),
			activityLogs: activitylogstore.NewInstance(tx),
		})
	})
}

type impl struct {
	appStore   applicationstore.Provider
	docStore   documentstore.Provider
	inTx       func(fn func(stores txStores) error) error
	notifier   notification.Provider
	push       pushhandler.Provider
	background func(fn func())
}

func lockWait() time.Duration {
	if config.Conf != nil && config.Conf.Workflow.LockWaitSec > 0 {
		return time.Duration(config.Conf.Workflow.LockWaitSec) * time.Second
	}
	return defaultLockWait
}

func (i impl) Submit(ctx context.Context, actor models.Actor, id string) (workflowapimodels.TransitionResult, string, error) {
	return i.transit(ctx, actor, id, ActionSubmit, "")
}

func (i impl) Forward(ctx context.Context, actor models.Actor, id string, data workflowapimodels.TransitionRequest) (workflowapimodels.TransitionResult, string, error) {
	return i.transit(ctx, actor, id, ActionForward, data.Text())
}

func (i impl) TechnicalReview(ctx context.Context, actor models.Actor, id string, data workflowapimodels.TransitionRequest) (workflowapimodels.TransitionResult, string, error) {
	return i.transit(ctx, actor, id, ActionTechnicalReview, data.Text())
}

func (i impl) Approve(ctx context.Context, actor models.Actor, id string, data workflowapimodels.TransitionRequest) (workflowapimodels.TransitionResult, string, error) {
	return i.transit(ctx, actor, id, ActionApprove, data.Text())
}

func (i impl) Reject(ctx context.Context, actor models.Actor, id string, data workflowapimodels.TransitionRequest) (workflowapimodels.TransitionResult, string, error) {
	return i.transit(ctx, actor, id, ActionReject, data.Text())
}

func (i impl) Return(ctx context.Context, actor models.Actor, id string, data workflowapimodels.TransitionRequest) (workflowapimodels.TransitionResult, string, error) {
	return i.transit(ctx, actor, id, ActionReturn, data.Text())
}

type outcome struct {
	app     dbmodels.Application
	t       transition
	comment string
}

func (i impl) transit(ctx context.Context, actor models.Actor, id string, action Action, comment string) (result workflowapimodels.TransitionResult, hMsg string, err error) {
	var out outcome
	success, err := lock.WithDelay(ctx, lock.ApplicationKey(id), lockWait(), func() error {
		var applyErr error
		out, hMsg, applyErr = i.apply(ctx, actor, id, action, comment)
		return applyErr
	})
	if err != nil {
		if errors.Is(err, errChanged) {
			return workflowapimodels.TransitionResult{}, errChanged.Error(), nil
		}
		return workflowapimodels.TransitionResult{}, "", err
	}
	if !success {
		return workflowapimodels.TransitionResult{}, "application is being processed by another user, try again later", nil
	}
	if hMsg != "" {
		return workflowapimodels.TransitionResult{}, hMsg, nil
	}
	i.background(func() {
		i.afterCommit(actor, out)
	})
	return workflowapimodels.TransitionResult{
		ApplicationID: out.app.ID,
		Status:        out.app.Status,
		CurrentStage:  out.app.CurrentStage,
		PermitNumber:  out.app.GetPermitNumber(),
	}, "", nil
}

func (i impl) apply(ctx context.Context, actor models.Actor, id string, action Action, comment string) (out outcome, hMsg string, err error) {
	rec, err := i.appStore.GetByID(id)
	if err != nil {
		return outcome{}, "", errors.Wrap(err, "failed to get application")
	}
	if rec == nil {
		return outcome{}, "application not found", nil
	}
	if !rec.Status.ValidForStage(rec.CurrentStage) {
		log.WithField("application_id", id).
			WithField("status", rec.Status).
			WithField("current_stage", rec.CurrentStage).
			Warn("application stage and status are inconsistent")
		return outcome{}, fmt.Sprintf("application is in an inconsistent state: status %v at stage %d, contact ICT",
			rec.Status.ToHuman(), rec.CurrentStage), nil
	}
	t, ok := findTransition(action, rec.CurrentStage, rec.Status)
	if !ok {
		return outcome{}, fmt.Sprintf("cannot %v application in status %v at stage %d",
			strings.ReplaceAll(string(action), "_", " "), rec.Status.ToHuman(), rec.CurrentStage), nil
	}
	if !t.allowed(actor) {
		return outcome{}, fmt.Sprintf("only %v may %v this application",
			t.owner().ToHuman(), strings.ReplaceAll(string(action), "_", " ")), nil
	}
	hMsg, err = i.check(actor, *rec, t, comment)
	if err != nil || hMsg != "" {
		return outcome{}, hMsg, err
	}

	now := time.Now()
	updMap := map[string]interface{}{
		"current_stage":    t.toStage,
		"status":           t.toStatus,
		"reminder_sent_at": nil,
	}
	switch t.action {
	case ActionSubmit:
		updMap["submitted_at"] = now
	case ActionApprove:
		validUntil := permit.ValidUntil(now, rec.PermitType, rec.ValidityPeriod)
		updMap["approved_at"] = now
		updMap["valid_until"] = validUntil
	case ActionReject:
		updMap["rejected_at"] = now
	case ActionReturn:
		updMap["submitted_at"] = nil
	}
	commentText := commentFor(t.action, comment)
	logRec := dbmodels.NewActivityLog(actor, t.logAction, transitionDetails(*rec, t, actor, commentText)).
		ForApplication(rec.ID).
		WithChanges(dbmodels.EntityChanges{
			Description: string(t.action),
			Data: []dbmodels.FieldChanges{
				{Field: "status", OldValue: rec.Status, NewValue: t.toStatus},
				{Field: "current_stage", OldValue: rec.CurrentStage, NewValue: t.toStage},
			},
		})

	commit := func() error {
		return i.inTx(func(stores txStores) error {
			updated, err := stores.applications.UpdateState(rec.ID, rec.CurrentStage, rec.Status, updMap)
			if err != nil {
				return errors.Wrap(err, "failed to update application state")
			}
			if !updated {
				return errChanged
			}
			if commentText != "" {
				_, err = stores.comments.Create(dbmodels.WorkflowComment{
					ApplicationID:     rec.ID,
					UserID:            actor.UserID,
					UserType:          actor.Role,
					Comment:           commentText,
					Stage:             rec.CurrentStage,
					IsRejectionReason: t.action == ActionReject,
				})
				if err != nil {
					return errors.Wrap(err, "failed to save workflow comment")
				}
			}
			if _, err = stores.activityLogs.Create(logRec); err != nil {
				return errors.Wrap(err, "failed to save activity log")
			}
			return nil
		})
	}
	if t.action == ActionApprove {
		err = i.commitWithPermitNumber(ctx, now, updMap, commit)
	} else {
		err = commit()
	}
	if err != nil {
		return outcome{}, "", err
	}

	app := *rec
	app.CurrentStage = t.toStage
	app.Status = t.toStatus
	app.ReminderSentAt = nil
	switch t.action {
	case ActionSubmit:
		app.SubmittedAt = &now
	case ActionApprove:
		permitNumber := updMap["permit_number"].(string)
		validUntil := updMap["valid_until"].(time.Time)
		app.ApprovedAt = &now
		app.PermitNumber = &permitNumber
		app.ValidUntil = &validUntil
	case ActionReject:
		app.RejectedAt = &now
	case ActionReturn:
		app.SubmittedAt = nil
	}
	return outcome{app: app, t: t, comment: commentText}, "", nil
}

// commitWithPermitNumber assigns the next permit number of the month and commits while holding the number lock.
func (i impl) commitWithPermitNumber(ctx context.Context, now time.Time, updMap map[string]interface{}, commit func() error) error {
	success, err := lock.WithDelay(ctx, lock.PermitNumberKey, lockWait(), func() error {
		seq, err := i.appStore.MaxNumberSuffix(permit.PermitNumberColumn, permit.PermitNumberPrefix(now))
		if err != nil {
			return errors.Wrap(err, "failed to get permit sequence")
		}
		updMap["permit_number"] = permit.FormatPermitNumber(now, seq+1)
		return commit()
	})
	if err != nil {
		return err
	}
	if !success {
		return errors.New("failed to acquire permit number lock")
	}
	return nil
}

func (i impl) check(actor models.Actor, rec dbmodels.Application, t transition, comment string) (hMsg string, err error) {
	if utf8.RuneCountInString(comment) > workflowapimodels.MaxCommentLength {
		return fmt.Sprintf("comment must not exceed %v characters", workflowapimodels.MaxCommentLength), nil
	}
	switch t.action {
	case ActionSubmit:
		if !actor.IsIct() && !rec.IsCreator(actor.UserID) {
			return "you can only submit your own applications", nil
		}
		types, err := i.docStore.DocumentTypes(rec.ID)
		if err != nil {
			return "", errors.Wrap(err, "failed to get application documents")
		}
		if missing := missingDocuments(types); len(missing) > 0 {
			return "please upload all required documents: " + strings.Join(missing, ", "), nil
		}
	case ActionTechnicalReview:
		if utf8.RuneCountInString(comment) < workflowapimodels.MinTechnicalAssessmentLength {
			return fmt.Sprintf("technical assessment must be at least %v characters", workflowapimodels.MinTechnicalAssessmentLength), nil
		}
	case ActionReject:
		if comment == "" {
			return "a rejection reason is required", nil
		}
	case ActionReturn:
		if comment == "" {
			return "a reason for returning the application is required", nil
		}
	}
	return "", nil
}

func missingDocuments(uploaded []models.DocumentType) []string {
	present := map[models.DocumentType]bool{}
	for _, docType := range uploaded {
		present[docType] = true
	}
	missing := []string{}
	for _, required := range models.RequiredDocuments {
		if !present[required] {
			missing = append(missing, required.ToHuman())
		}
	}
	return missing
}

func commentFor(action Action, comment string) string {
	switch action {
	case ActionTechnicalReview:
		return technicalAssessmentPrefix + comment
	case ActionApprove:
		if comment == "" {
			return defaultApprovalComment
		}
	}
	return comment
}

func transitionDetails(rec dbmodels.Application, t transition, actor models.Actor, comment string) string {
	details := fmt.Sprintf("Application %v moved from stage %d (%v) to stage %d (%v) by %v",
		rec.ApplicationNumber, t.fromStage, t.fromStatus.ToHuman(), t.toStage, t.toStatus.ToHuman(), actor.Username)
	if comment != "" {
		details += ". Comment: " + comment
	}
	return details
}

func (i impl) afterCommit(actor models.Actor, out outcome) {
	app := out.app
	logger := log.WithField("application_id", app.ID).WithField("action", out.t.action)
	var err error
	switch out.t.action {
	case ActionSubmit:
		err = i.notifier.ApplicationSubmitted(app, actor)
		i.pushToStage(app)
	case ActionForward, ActionTechnicalReview:
		err = i.notifier.PendingReview(app, actor, app.CurrentStage, out.comment)
		i.pushToStage(app)
	case ActionApprove:
		pdf, pdfErr := pdfexport.GeneratePermit(permit.BuildPermit(app))
		if pdfErr != nil {
			logger.WithError(pdfErr).Error("failed to generate permit for notification")
		}
		err = i.notifier.ApplicationApproved(app, actor, out.comment, pdf)
		i.pushToCreator(app, actor, models.PushApplicationDecided, app.ApplicationNumber, "approved", actor.Username)
	case ActionReject:
		err = i.notifier.ApplicationRejected(app, actor, out.comment)
		i.pushToCreator(app, actor, models.PushApplicationDecided, app.ApplicationNumber, "rejected", actor.Username)
	case ActionReturn:
		err = i.notifier.ApplicationReturned(app, actor, out.comment)
		i.pushToCreator(app, actor, models.PushApplicationReturned, app.ApplicationNumber, actor.Username)
	}
	if err != nil {
		logger.WithError(err).Error("failed to send workflow notification")
	}
}

func (i impl) pushToStage(app dbmodels.Application) {
	role, ok := models.StageOwner(app.CurrentStage)
	if !ok {
		return
	}
	i.push.SendToRole(role, models.PushApplicationPending, app.ApplicationNumber, models.StageName(app.CurrentStage))
}

func (i impl) pushToCreator(app dbmodels.Application, actor models.Actor, code models.PushCode, args ...any) {
	if app.CreatedBy == "" || app.CreatedBy == actor.UserID {
		return
	}
	i.push.SendNotification(app.CreatedBy, code, args...)
}
