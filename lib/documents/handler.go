package documentshandler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"permit-workflow-backend/config"
	"permit-workflow-backend/db"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	applicationstore "permit-workflow-backend/lib/applications/store"
	documentstore "permit-workflow-backend/lib/documents/store"
	filestorage "permit-workflow-backend/lib/file-storage"
	initchecker "permit-workflow-backend/lib/utils/init-checker"
	"permit-workflow-backend/models"
	activitylogapimodels "permit-workflow-backend/models/api/activitylog"
	applicationapimodels "permit-workflow-backend/models/api/application"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Upload(ctx context.Context, actor models.Actor, applicationID string, docType models.DocumentType, fileName string, body []byte) (id string, hMsg string, err error)
	List(applicationID string) (list []applicationapimodels.DocumentView, hMsg string, err error)
	Download(ctx context.Context, actor models.Actor, id string) (body []byte, doc applicationapimodels.DocumentView, hMsg string, err error)
	Delete(ctx context.Context, actor models.Actor, id string) (hMsg string, err error)
	History(id string) (list []activitylogapimodels.ActivityLogView, hMsg string, err error)
}

var Instance Provider

const defaultMaxFileSizeMB = 10

func NewHandler() {
	instance := impl{
		store:          documentstore.NewInstance(db.DB),
		appStore:       applicationstore.NewInstance(db.DB),
		fileStorage:    filestorage.Instance,
		activityLogger: activityloghandler.Instance,
	}
	initchecker.CheckInit(
		"fileStorage", instance.fileStorage,
		"activityLogger", instance.activityLogger,
	)
	Instance = instance
}

type impl struct {
	store          documentstore.Provider
	appStore       applicationstore.Provider
	fileStorage    filestorage.Provider
	activityLogger activityloghandler.Provider
}

func maxFileSize() int64 {
	sizeMB := int64(defaultMaxFileSizeMB)
	if config.Conf != nil && config.Conf.Upload.MaxFileSizeMB > 0 {
		sizeMB = config.Conf.Upload.MaxFileSizeMB
	}
	return sizeMB * 1024 * 1024
}

// canUpload: officers while the application is a draft, overseers any time, reviewers at their own stage.
func canUpload(actor models.Actor, app dbmodels.Application) bool {
	if actor.Role.IsOverseer() {
		return true
	}
	if actor.Role == models.PermittingOfficerRole {
		return app.Status == models.AppStatusUnsubmitted
	}
	owner, ok := models.StageOwner(app.CurrentStage)
	return ok && owner == actor.Role && !app.Status.IsTerminal()
}

func (i impl) Upload(ctx context.Context, actor models.Actor, applicationID string, docType models.DocumentType, fileName string, body []byte) (id string, hMsg string, err error) {
	if !docType.IsValid() {
		return "", fmt.Sprintf("unknown document type: %v", docType), nil
	}
	fileName = filepath.Base(strings.TrimSpace(fileName))
	contentType, ok := models.FileContentType(fileName)
	if !ok {
		return "", "file type is not allowed, use pdf, jpg, jpeg, png, doc or docx", nil
	}
	if len(body) == 0 {
		return "", "file is empty", nil
	}
	if int64(len(body)) > maxFileSize() {
		return "", fmt.Sprintf("file exceeds the %d MB limit", maxFileSize()/1024/1024), nil
	}
	app, err := i.appStore.GetByID(applicationID)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to get application")
	}
	if app == nil {
		return "", "application not found", nil
	}
	if !canUpload(actor, *app) {
		return "", "you cannot upload documents to this application at its current stage", nil
	}
	hash := sha256.Sum256(body)
	fileHash := hex.EncodeToString(hash[:])
	exists, err := i.store.ExistsByHash(applicationID, fileHash)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to check document hash")
	}
	if exists {
		return "", "this file has already been uploaded to the application", nil
	}
	objectKey, err := i.fileStorage.UploadDocument(ctx, applicationID, fileName, contentType, body)
	if err != nil {
		return "", "", err
	}
	id, err = i.store.Create(dbmodels.Document{
		ApplicationID: applicationID,
		FileName:      fileName,
		FileType:      contentType,
		FileSize:      int64(len(body)),
		DocumentType:  docType,
		ObjectKey:     objectKey,
		FileHash:      fileHash,
		UploadedBy:    actor.UserID,
	})
	if err != nil {
		if delErr := i.fileStorage.DeleteFile(ctx, objectKey); delErr != nil {
			log.WithError(delErr).WithField("object_key", objectKey).Error("failed to remove orphaned file")
		}
		return "", "", errors.Wrap(err, "failed to save document")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionDocumentUploaded,
		fmt.Sprintf("Uploaded %v (%v) to application %v", fileName, docType.ToHuman(), app.ApplicationNumber)).
		ForApplication(applicationID).
		ForDocument(id))
	return id, "", nil
}

func (i impl) List(applicationID string) (list []applicationapimodels.DocumentView, hMsg string, err error) {
	app, err := i.appStore.GetByID(applicationID)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to get application")
	}
	if app == nil {
		return nil, "application not found", nil
	}
	recList, err := i.store.ListByApplication(applicationID)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to get documents")
	}
	list = make([]applicationapimodels.DocumentView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, "", nil
}

func (i impl) Download(ctx context.Context, actor models.Actor, id string) (body []byte, doc applicationapimodels.DocumentView, hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, doc, "", errors.Wrap(err, "failed to get document")
	}
	if rec == nil {
		return nil, doc, "document not found", nil
	}
	body, err = i.fileStorage.GetFile(ctx, rec.ObjectKey)
	if err != nil {
		if errors.Is(err, filestorage.ErrFileNotFound) {
			return nil, doc, "document file is missing from storage", nil
		}
		return nil, doc, "", err
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionDocumentViewed,
		fmt.Sprintf("Viewed %v (%v)", rec.FileName, rec.DocumentType.ToHuman())).
		ForApplication(rec.ApplicationID).
		ForDocument(rec.ID))
	return body, rec.ToModel(), "", nil
}

func canDelete(actor models.Actor, app dbmodels.Application) bool {
	if actor.Role.IsOverseer() {
		return true
	}
	return app.IsCreator(actor.UserID) && app.Status == models.AppStatusUnsubmitted
}

func (i impl) Delete(ctx context.Context, actor models.Actor, id string) (hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "failed to get document")
	}
	if rec == nil {
		return "document not found", nil
	}
	app, err := i.appStore.GetByID(rec.ApplicationID)
	if err != nil {
		return "", errors.Wrap(err, "failed to get application")
	}
	if app == nil {
		return "application not found", nil
	}
	if !canDelete(actor, *app) {
		return "you cannot delete documents of this application", nil
	}
	if err = i.store.Delete(id); err != nil {
		return "", errors.Wrap(err, "failed to delete document")
	}
	if err = i.fileStorage.DeleteFile(ctx, rec.ObjectKey); err != nil {
		log.WithError(err).WithField("object_key", rec.ObjectKey).Error("failed to delete document file")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionDocumentDeleted,
		fmt.Sprintf("Deleted %v (%v) from application %v", rec.FileName, rec.DocumentType.ToHuman(), app.ApplicationNumber)).
		ForApplication(rec.ApplicationID).
		ForDocument(rec.ID))
	return "", nil
}

func (i impl) History(id string) (list []activitylogapimodels.ActivityLogView, hMsg string, err error) {
	list, err = i.activityLogger.DocumentHistory(id)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to get document history")
	}
	return list, "", nil
}
