package commentshandler

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"permit-workflow-backend/db"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	applicationstore "permit-workflow-backend/lib/applications/store"
	pdfexport "permit-workflow-backend/lib/export/pdf"
	initchecker "permit-workflow-backend/lib/utils/init-checker"
	commentstore "permit-workflow-backend/lib/workflow-comments/store"
	"permit-workflow-backend/models"
	applicationapimodels "permit-workflow-backend/models/api/application"
	workflowapimodels "permit-workflow-backend/models/api/workflow"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	List(applicationID string) (list []applicationapimodels.CommentView, hMsg string, err error)
	Add(actor models.Actor, applicationID string, data workflowapimodels.CommentCreate) (id string, hMsg string, err error)
	Delete(actor models.Actor, applicationID, commentID string) (hMsg string, err error)
	// Print renders the comments of an application as PDF.
	Print(actor models.Actor, applicationID string) (body []byte, fileName string, hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store:          commentstore.NewInstance(db.DB),
		appStore:       applicationstore.NewInstance(db.DB),
		activityLogger: activityloghandler.Instance,
	}
	initchecker.CheckInit(
		"activityLogger", instance.activityLogger,
	)
	Instance = instance
}

type impl struct {
	store          commentstore.Provider
	appStore       applicationstore.Provider
	activityLogger activityloghandler.Provider
}

func (i impl) List(applicationID string) (list []applicationapimodels.CommentView, hMsg string, err error) {
	app, err := i.appStore.GetByID(applicationID)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to get application")
	}
	if app == nil {
		return nil, "application not found", nil
	}
	list, err = i.list(applicationID)
	if err != nil {
		return nil, "", err
	}
	return list, "", nil
}

func (i impl) list(applicationID string) ([]applicationapimodels.CommentView, error) {
	recList, err := i.store.ListByApplication(applicationID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get comments")
	}
	list := make([]applicationapimodels.CommentView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, nil
}

// canComment: the current stage owner, ict, and permit_supervisor as an observer.
func canComment(actor models.Actor, app dbmodels.Application) bool {
	if actor.Role.IsOverseer() {
		return true
	}
	owner, ok := models.StageOwner(app.CurrentStage)
	return ok && owner == actor.Role
}

func (i impl) Add(actor models.Actor, applicationID string, data workflowapimodels.CommentCreate) (id string, hMsg string, err error) {
	app, err := i.appStore.GetByID(applicationID)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to get application")
	}
	if app == nil {
		return "", "application not found", nil
	}
	if !canComment(actor, *app) {
		return "", "only the owner of the current stage may comment", nil
	}
	text := strings.TrimSpace(data.Comment)
	id, err = i.store.Create(dbmodels.WorkflowComment{
		ApplicationID: applicationID,
		UserID:        actor.UserID,
		UserType:      actor.Role,
		Comment:       text,
		Stage:         app.CurrentStage,
	})
	if err != nil {
		return "", "", errors.Wrap(err, "failed to create comment")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionCommentAdded,
		fmt.Sprintf("Comment added to application %v at stage %d", app.ApplicationNumber, app.CurrentStage)).
		ForApplication(applicationID))
	return id, "", nil
}

func (i impl) Delete(actor models.Actor, applicationID, commentID string) (hMsg string, err error) {
	if !actor.IsIct() {
		return "only ICT may delete comments", nil
	}
	rec, err := i.store.GetByID(commentID)
	if err != nil {
		return "", errors.Wrap(err, "failed to get comment")
	}
	if rec == nil || rec.ApplicationID != applicationID {
		return "comment not found", nil
	}
	if err = i.store.Delete(commentID); err != nil {
		return "", errors.Wrap(err, "failed to delete comment")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionCommentDeleted,
		fmt.Sprintf("Deleted comment made at stage %d: %v", rec.Stage, rec.Comment)).
		ForApplication(applicationID).
		WithChanges(dbmodels.EntityChanges{
			Description: "comment deleted",
			Data: []dbmodels.FieldChanges{
				{Field: "comment", OldValue: rec.Comment, NewValue: nil},
			},
		}))
	return "", nil
}

func (i impl) Print(actor models.Actor, applicationID string) (body []byte, fileName string, hMsg string, err error) {
	app, err := i.appStore.GetByID(applicationID)
	if err != nil {
		return nil, "", "", errors.Wrap(err, "failed to get application")
	}
	if app == nil {
		return nil, "", "application not found", nil
	}
	list, err := i.list(applicationID)
	if err != nil {
		return nil, "", "", err
	}
	body, err = pdfexport.GenerateComments(app.ToModel(), list)
	if err != nil {
		return nil, "", "", errors.Wrap(err, "failed to generate comments report")
	}
	return body, fmt.Sprintf("comments_%v.pdf", app.ApplicationNumber), "", nil
}
