package applicationshandler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"permit-workflow-backend/config"
	"permit-workflow-backend/db"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	applicationstore "permit-workflow-backend/lib/applications/store"
	filestorage "permit-workflow-backend/lib/file-storage"
	"permit-workflow-backend/lib/permit"
	initchecker "permit-workflow-backend/lib/utils/init-checker"
	"permit-workflow-backend/lib/utils/lock"
	"permit-workflow-backend/models"
	applicationapimodels "permit-workflow-backend/models/api/application"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Create(ctx context.Context, actor models.Actor, data applicationapimodels.ApplicationData) (id string, hMsg string, err error)
	Get(id string) (item applicationapimodels.ApplicationDetailView, hMsg string, err error)
	List(filter applicationapimodels.ApplicationFilter) (list []applicationapimodels.ApplicationView, rowCount int64, err error)
	// Queue lists the applications waiting for the caller's role.
	Queue(actor models.Actor, filter applicationapimodels.ApplicationFilter) (list []applicationapimodels.ApplicationView, rowCount int64, err error)
	Update(actor models.Actor, id string, data applicationapimodels.ApplicationData) (hMsg string, err error)
	Delete(ctx context.Context, actor models.Actor, id string) (hMsg string, err error)
	PrintPermit(actor models.Actor, id string) (body []byte, fileName string, hMsg string, err error)
	GetRbacCreatorAllow() models.RbacFunc
}

var Instance Provider

const defaultLockWait = 5 * time.Second

func NewHandler() {
	instance := impl{
		store:          applicationstore.NewInstance(db.DB),
		activityLogger: activityloghandler.Instance,
		fileStorage:    filestorage.Instance,
	}
	initchecker.CheckInit(
		"activityLogger", instance.activityLogger,
		"fileStorage", instance.fileStorage,
	)
	Instance = instance
}

type impl struct {
	store          applicationstore.Provider
	activityLogger activityloghandler.Provider
	fileStorage    filestorage.Provider
}

func lockWait() time.Duration {
	if config.Conf != nil && config.Conf.Workflow.LockWaitSec > 0 {
		return time.Duration(config.Conf.Workflow.LockWaitSec) * time.Second
	}
	return defaultLockWait
}

func (i impl) Create(ctx context.Context, actor models.Actor, data applicationapimodels.ApplicationData) (id string, hMsg string, err error) {
	if actor.Role != models.PermittingOfficerRole && !actor.IsIct() {
		return "", "only a permitting officer may create applications", nil
	}
	rec := dbmodels.Application{
		Status:       models.AppStatusUnsubmitted,
		CurrentStage: models.StageOfficer,
		CreatedBy:    actor.UserID,
	}
	applyData(&rec, data)
	success, err := lock.WithDelay(ctx, lock.ApplicationNumberKey, lockWait(), func() error {
		now := time.Now()
		seq, err := i.store.MaxNumberSuffix(permit.ApplicationNumberColumn, permit.ApplicationNumberPrefix(now))
		if err != nil {
			return errors.Wrap(err, "failed to get application sequence")
		}
		rec.ApplicationNumber = permit.FormatApplicationNumber(now, seq+1)
		id, err = i.store.Create(rec)
		if err != nil {
			return errors.Wrap(err, "failed to create application")
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	if !success {
		return "", "server is busy, try again later", nil
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionAppCreated,
		fmt.Sprintf("Created application %v for %v", rec.ApplicationNumber, rec.ApplicantName)).
		ForApplication(id))
	return id, "", nil
}

func applyData(rec *dbmodels.Application, data applicationapimodels.ApplicationData) {
	rec.ApplicantName = strings.TrimSpace(data.ApplicantName)
	rec.PhysicalAddress = strings.TrimSpace(data.PhysicalAddress)
	rec.PostalAddress = strings.TrimSpace(data.PostalAddress)
	rec.CustomerAccountNumber = strings.TrimSpace(data.CustomerAccountNumber)
	rec.CellularNumber = strings.TrimSpace(data.CellularNumber)
	rec.NumberOfBoreholes = data.NumberOfBoreholes
	rec.LandSize = data.LandSize
	rec.GpsLatitude = data.GpsLatitude
	rec.GpsLongitude = data.GpsLongitude
	rec.WaterSource = data.WaterSource
	rec.WaterSourceDetails = data.WaterSourceDetails
	rec.PermitType = data.PermitType
	rec.IntendedUse = strings.TrimSpace(data.IntendedUse)
	rec.WaterAllocation = permit.Allocation(data.PermitType, data.WaterAllocation)
	rec.ValidityPeriod = 0
	if data.PermitType == models.PermitTypeBulkWater {
		rec.ValidityPeriod = data.ValidityPeriod
	}
}

func (i impl) Get(id string) (item applicationapimodels.ApplicationDetailView, hMsg string, err error) {
	rec, err := i.store.GetDetail(id)
	if err != nil {
		return applicationapimodels.ApplicationDetailView{}, "", errors.Wrap(err, "failed to get application")
	}
	if rec == nil {
		return applicationapimodels.ApplicationDetailView{}, "application not found", nil
	}
	return rec.ToDetailModel(), "", nil
}

func (i impl) List(filter applicationapimodels.ApplicationFilter) (list []applicationapimodels.ApplicationView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []applicationapimodels.ApplicationView{}, rowCount, nil
	}
	recList, err := i.store.List(filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]applicationapimodels.ApplicationView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, rowCount, nil
}

var openStatuses = []models.ApplicationStatus{
	models.AppStatusUnsubmitted,
	models.AppStatusSubmitted,
	models.AppStatusUnderReview,
}

func (i impl) Queue(actor models.Actor, filter applicationapimodels.ApplicationFilter) (list []applicationapimodels.ApplicationView, rowCount int64, err error) {
	filter.Statuses = openStatuses
	if !actor.Role.IsOverseer() {
		stage := models.StageOf(actor.Role)
		if stage == 0 {
			return []applicationapimodels.ApplicationView{}, 0, nil
		}
		filter.CurrentStage = stage
	}
	if filter.Sort.Field == "" {
		filter.Sort = applicationapimodels.ApplicationSort{Field: "updated_at"}
	}
	return i.List(filter)
}

func (i impl) Update(actor models.Actor, id string, data applicationapimodels.ApplicationData) (hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "failed to get application")
	}
	if rec == nil {
		return "application not found", nil
	}
	if !canEdit(actor, *rec) {
		return "you can only edit your own unsubmitted applications", nil
	}
	updated := *rec
	applyData(&updated, data)
	updMap, changes := diffApplication(*rec, updated)
	if len(updMap) == 0 {
		return "", nil
	}
	err = i.store.Update(id, updMap)
	if err != nil {
		return "", errors.Wrap(err, "failed to update application")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionAppEdited,
		fmt.Sprintf("Edited application %v", rec.ApplicationNumber)).
		ForApplication(id).
		WithChanges(changes))
	return "", nil
}

func canEdit(actor models.Actor, rec dbmodels.Application) bool {
	if actor.IsIct() {
		return true
	}
	return actor.Role == models.PermittingOfficerRole &&
		rec.IsCreator(actor.UserID) &&
		rec.Status == models.AppStatusUnsubmitted
}

func diffApplication(old, upd dbmodels.Application) (map[string]interface{}, dbmodels.EntityChanges) {
	updMap := map[string]interface{}{}
	changes := dbmodels.EntityChanges{Description: fmt.Sprintf("application %v updated", old.ApplicationNumber)}
	add := func(field string, oldValue, newValue interface{}) {
		if oldValue == newValue {
			return
		}
		updMap[field] = newValue
		changes.Data = append(changes.Data, dbmodels.FieldChanges{Field: field, OldValue: oldValue, NewValue: newValue})
	}
	add("applicant_name", old.ApplicantName, upd.ApplicantName)
	add("physical_address", old.PhysicalAddress, upd.PhysicalAddress)
	add("postal_address", old.PostalAddress, upd.PostalAddress)
	add("customer_account_number", old.CustomerAccountNumber, upd.CustomerAccountNumber)
	add("cellular_number", old.CellularNumber, upd.CellularNumber)
	add("number_of_boreholes", old.NumberOfBoreholes, upd.NumberOfBoreholes)
	add("land_size", old.LandSize, upd.LandSize)
	add("gps_latitude", old.GpsLatitude, upd.GpsLatitude)
	add("gps_longitude", old.GpsLongitude, upd.GpsLongitude)
	add("water_source", old.WaterSource, upd.WaterSource)
	add("water_source_details", old.WaterSourceDetails, upd.WaterSourceDetails)
	add("permit_type", old.PermitType, upd.PermitType)
	add("intended_use", old.IntendedUse, upd.IntendedUse)
	add("water_allocation", old.WaterAllocation, upd.WaterAllocation)
	add("validity_period", old.ValidityPeriod, upd.ValidityPeriod)
	return updMap, changes
}

func (i impl) Delete(ctx context.Context, actor models.Actor, id string) (hMsg string, err error) {
	if !actor.IsIct() {
		return "only ICT may delete applications", nil
	}
	rec, err := i.store.GetDetail(id)
	if err != nil {
		return "", errors.Wrap(err, "failed to get application")
	}
	if rec == nil {
		return "application not found", nil
	}
	err = i.store.Delete(id)
	if err != nil {
		return "", errors.Wrap(err, "failed to delete application")
	}
	for _, doc := range rec.Documents {
		if err = i.fileStorage.DeleteFile(ctx, doc.ObjectKey); err != nil {
			log.WithError(err).
				WithField("application_id", id).
				WithField("object_key", doc.ObjectKey).
				Error("failed to delete document file")
		}
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionAppDeleted,
		fmt.Sprintf("Deleted application %v (%v) with %d documents", rec.ApplicationNumber, rec.ApplicantName, len(rec.Documents))))
	return "", nil
}

func (i impl) GetRbacCreatorAllow() models.RbacFunc {
	return func(userID string, role models.UserRole, path string) bool {
		if role != models.PermittingOfficerRole {
			return true
		}
		id := applicationIDFromPath(path)
		if id == "" {
			return false
		}
		rec, err := i.store.GetByID(id)
		if err != nil {
			log.WithError(err).WithField("application_id", id).Error("rbac: failed to get application")
			return false
		}
		return rec != nil && rec.IsCreator(userID)
	}
}

// applicationIDFromPath extracts {id} from /api/v1/applications/{id}[/...].
func applicationIDFromPath(path string) string {
	const marker = "/applications/"
	idx := strings.Index(path, marker)
	if idx < 0 {
		return ""
	}
	rest := path[idx+len(marker):]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}
