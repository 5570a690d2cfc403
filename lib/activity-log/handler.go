package activityloghandler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"permit-workflow-backend/db"
	activitylogstore "permit-workflow-backend/lib/activity-log/store"
	csvexport "permit-workflow-backend/lib/export/csv"
	xlsexport "permit-workflow-backend/lib/export/xls"
	reportstore "permit-workflow-backend/lib/reports/store"
	"permit-workflow-backend/lib/utils/helpers"
	initchecker "permit-workflow-backend/lib/utils/init-checker"
	"permit-workflow-backend/models"
	activitylogapimodels "permit-workflow-backend/models/api/activitylog"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	// Save writes the record and only logs failures.
	Save(rec dbmodels.ActivityLog)
	List(filter activitylogapimodels.ActivityLogFilter) (list []activitylogapimodels.ActivityLogView, rowCount int64, err error)
	ApplicationTimeline(applicationID string) (list []activitylogapimodels.ActivityLogView, err error)
	DocumentHistory(documentID string) (list []activitylogapimodels.ActivityLogView, err error)
	Update(actor models.Actor, id string, data activitylogapimodels.ActivityLogUpdate) (hMsg string, err error)
	Delete(actor models.Actor, id string) (hMsg string, err error)
	Stats(filter activitylogapimodels.StatsFilter) (result activitylogapimodels.StatsView, err error)
	Export(actor models.Actor, request activitylogapimodels.ExportRequest) (body []byte, fileName string, err error)
}

var Instance Provider

const (
	StatsDefaultDays = 30
	TopUsersLimit    = 10
	TopAppsLimit     = 10
	MaxExportRows    = 50000
)

func NewHandler() {
	instance := impl{
		store:       activitylogstore.NewInstance(db.DB),
		reportStore: reportstore.NewInstance(db.DB),
		xlsExport:   xlsexport.Instance,
	}
	initchecker.CheckInit(
		"xlsExport", instance.xlsExport,
	)
	Instance = instance
}

type impl struct {
	store       activitylogstore.Provider
	reportStore reportstore.Provider
	xlsExport   xlsexport.Provider
}

func (i impl) Save(rec dbmodels.ActivityLog) {
	logger := log.WithField("user_id", rec.UserID).
		WithField("action", rec.Action)
	if rec.ApplicationID != nil {
		logger = logger.WithField("application_id", *rec.ApplicationID)
	}
	if rec.Username == "" {
		rec.Username = models.SystemUser
	}
	_, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("failed to save activity log")
	}
}

func (i impl) List(filter activitylogapimodels.ActivityLogFilter) (list []activitylogapimodels.ActivityLogView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []activitylogapimodels.ActivityLogView{}, rowCount, nil
	}
	recList, err := i.store.List(filter)
	if err != nil {
		return nil, 0, err
	}
	return toViews(recList), rowCount, nil
}

func (i impl) ApplicationTimeline(applicationID string) (list []activitylogapimodels.ActivityLogView, err error) {
	recList, err := i.store.ListByApplication(applicationID)
	if err != nil {
		return nil, err
	}
	return toViews(recList), nil
}

func (i impl) DocumentHistory(documentID string) (list []activitylogapimodels.ActivityLogView, err error) {
	recList, err := i.store.ListByDocument(documentID)
	if err != nil {
		return nil, err
	}
	return toViews(recList), nil
}

func (i impl) Update(actor models.Actor, id string, data activitylogapimodels.ActivityLogUpdate) (hMsg string, err error) {
	if !actor.IsIct() {
		return "only ICT may edit activity logs", nil
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "activity log not found", nil
	}
	changes := dbmodels.EntityChanges{Description: fmt.Sprintf("activity log %v edited", id)}
	updMap := map[string]interface{}{}
	if rec.Action != data.Action {
		updMap["action"] = data.Action
		changes.Data = append(changes.Data, dbmodels.FieldChanges{Field: "action", OldValue: rec.Action, NewValue: data.Action})
	}
	if rec.Details != data.Details {
		updMap["details"] = data.Details
		changes.Data = append(changes.Data, dbmodels.FieldChanges{Field: "details", OldValue: rec.Details, NewValue: data.Details})
	}
	if len(updMap) == 0 {
		return "", nil
	}
	if err = i.store.Update(id, updMap); err != nil {
		return "", err
	}
	i.Save(dbmodels.NewActivityLog(actor, models.ActionLogEdited, fmt.Sprintf("Edited activity log %v (%v)", id, rec.Action)).
		ForApplication(helpers.StringValue(rec.ApplicationID)).
		WithChanges(changes))
	return "", nil
}

func (i impl) Delete(actor models.Actor, id string) (hMsg string, err error) {
	if !actor.IsIct() {
		return "only ICT may delete activity logs", nil
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "activity log not found", nil
	}
	if err = i.store.Delete(id); err != nil {
		return "", err
	}
	details := fmt.Sprintf("Deleted activity log %v: %v by %v at %v", id, rec.Action, rec.Username, rec.CreatedAt.Format(time.RFC3339))
	i.Save(dbmodels.NewActivityLog(actor, models.ActionLogDeleted, details).
		ForApplication(helpers.StringValue(rec.ApplicationID)))
	return "", nil
}

func (i impl) Stats(filter activitylogapimodels.StatsFilter) (result activitylogapimodels.StatsView, err error) {
	from, to := filter.GetRange(StatsDefaultDays)
	result = activitylogapimodels.StatsView{
		DateFrom: from,
		DateTo:   to,
	}
	if result.TotalActions, err = i.store.CountTotal(from, to); err != nil {
		return result, errors.Wrap(err, "failed to count actions")
	}
	if result.TotalApplications, err = i.reportStore.CountApplications(from, to); err != nil {
		return result, errors.Wrap(err, "failed to count applications")
	}
	if result.NewUsers, err = i.reportStore.CountNewUsers(from, to); err != nil {
		return result, errors.Wrap(err, "failed to count new users")
	}
	duration, err := i.reportStore.ProcessingTime(reportstore.FromCreated, from, to)
	if err != nil {
		return result, errors.Wrap(err, "failed to get processing time")
	}
	result.ProcessingTime = activitylogapimodels.ProcessingTime{
		AvgHours: duration.AvgHours,
		MinHours: duration.MinHours,
		MaxHours: duration.MaxHours,
		Count:    duration.Count,
	}

	logGroups := []struct {
		expr   string
		target *[]activitylogapimodels.CountItem
	}{
		{activitylogstore.GroupByAction, &result.ActionsByType},
		{activitylogstore.GroupByRole, &result.ActionsByRole},
		{activitylogstore.GroupByDay, &result.ActionsByDay},
		{activitylogstore.GroupByHour, &result.ActionsByHour},
		{activitylogstore.GroupByWeekday, &result.ActionsByWeekday},
	}
	for _, group := range logGroups {
		rows, err := i.store.CountBy(group.expr, from, to)
		if err != nil {
			return result, errors.Wrapf(err, "failed to count actions by %v", group.expr)
		}
		*group.target = toCountItems(rows)
	}
	roleRows, err := i.store.UserActivityByRole(from, to)
	if err != nil {
		return result, errors.Wrap(err, "failed to get user activity by role")
	}
	result.UserActivityByRole = make([]activitylogapimodels.RoleActivity, 0, len(roleRows))
	for _, row := range roleRows {
		result.UserActivityByRole = append(result.UserActivityByRole, activitylogapimodels.RoleActivity{
			UserType:    row.UserType,
			UniqueUsers: row.UniqueUsers,
			Actions:     row.Actions,
		})
	}

	appGroups := []struct {
		expr   string
		target *[]activitylogapimodels.CountItem
	}{
		{reportstore.GroupByStatus, &result.StatusDistribution},
		{reportstore.GroupByPermitType, &result.PermitTypeDistribution},
		{reportstore.GroupByWaterSource, &result.WaterSourceDistribution},
	}
	for _, group := range appGroups {
		rows, err := i.reportStore.ApplicationsBy(group.expr, from, to)
		if err != nil {
			return result, errors.Wrapf(err, "failed to count applications by %v", group.expr)
		}
		*group.target = toCountItems(rows)
	}

	topUsers, err := i.store.TopUsers(from, to, TopUsersLimit)
	if err != nil {
		return result, errors.Wrap(err, "failed to get top users")
	}
	result.TopUsers = make([]activitylogapimodels.UserActivity, 0, len(topUsers))
	for _, row := range topUsers {
		result.TopUsers = append(result.TopUsers, activitylogapimodels.UserActivity{
			UserID:   row.UserID,
			Username: row.Username,
			UserType: row.UserType,
			Count:    row.Count,
		})
	}

	docsByType, err := i.reportStore.DocumentsByType(from, to)
	if err != nil {
		return result, errors.Wrap(err, "failed to count documents")
	}
	result.DocumentsByType = toCountItems(docsByType)
	docCount, err := i.reportStore.CountDocuments(from, to)
	if err != nil {
		return result, errors.Wrap(err, "failed to count documents")
	}
	if result.TotalApplications > 0 {
		result.AvgDocumentsPerApp = float64(docCount) / float64(result.TotalApplications)
	}

	if result.TotalComments, err = i.reportStore.CountComments(from, to); err != nil {
		return result, errors.Wrap(err, "failed to count comments")
	}
	topApps, err := i.reportStore.TopCommentedApplications(from, to, TopAppsLimit)
	if err != nil {
		return result, errors.Wrap(err, "failed to get top commented applications")
	}
	result.TopCommentedApps = toCountItems(topApps)
	return result, nil
}

func (i impl) Export(actor models.Actor, request activitylogapimodels.ExportRequest) (body []byte, fileName string, err error) {
	logger := log.WithField("user_id", actor.UserID).
		WithField("format", request.Format)
	recList, err := i.store.ListAll(request.ActivityLogFilter, MaxExportRows)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to load activity logs")
	}
	rows := make([]activitylogapimodels.ExportRow, 0, len(recList))
	for _, rec := range recList {
		rows = append(rows, activitylogapimodels.ExportRow{
			Timestamp:         rec.CreatedAt,
			ApplicationNumber: rec.GetApplicationNumber(),
			Username:          rec.Username,
			UserType:          string(rec.UserType),
			Action:            string(rec.Action),
			Details:           rec.Details,
		})
	}
	var stats *activitylogapimodels.ExportStats
	if request.IncludeStats {
		stats = buildExportStats(recList)
	}

	fileName = fmt.Sprintf("activity_logs_%v.%v", time.Now().Format("20060102_150405"), request.Format)
	switch request.Format {
	case models.ExportCSV:
		body, err = csvexport.ActivityLogs(rows, stats)
	case models.ExportJSON:
		body, err = json.MarshalIndent(activitylogapimodels.ExportDocument{
			ExportedAt: time.Now(),
			Logs:       rows,
			Stats:      stats,
		}, "", "  ")
	case models.ExportXLSX:
		buf, xErr := i.xlsExport.ExportActivityLogs(rows, stats)
		if xErr == nil {
			body = buf.Bytes()
		}
		err = xErr
	default:
		return nil, "", errors.Errorf("unsupported export format: %v", request.Format)
	}
	if err != nil {
		logger.WithError(err).Error("failed to build activity log export")
		return nil, "", errors.Wrap(err, "failed to build export")
	}
	i.Save(dbmodels.NewActivityLog(actor, models.ActionLogsExported,
		fmt.Sprintf("Exported %d activity logs as %v", len(rows), request.Format)))
	return body, fileName, nil
}

func buildExportStats(list []dbmodels.ActivityLog) *activitylogapimodels.ExportStats {
	stats := &activitylogapimodels.ExportStats{
		TotalActions:  int64(len(list)),
		ActionsByType: map[string]int64{},
		ActionsByRole: map[string]int64{},
	}
	users := map[string]bool{}
	apps := map[string]bool{}
	for _, rec := range list {
		stats.ActionsByType[string(rec.Action)]++
		stats.ActionsByRole[string(rec.UserType)]++
		if rec.UserID != "" {
			users[rec.UserID] = true
		}
		if rec.ApplicationID != nil {
			apps[*rec.ApplicationID] = true
		}
	}
	stats.UniqueUsers = len(users)
	stats.UniqueApplications = len(apps)
	return stats
}

func toViews(list []dbmodels.ActivityLog) []activitylogapimodels.ActivityLogView {
	result := make([]activitylogapimodels.ActivityLogView, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result
}

func toCountItems(rows []dbmodels.CountRow) []activitylogapimodels.CountItem {
	result := make([]activitylogapimodels.CountItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, activitylogapimodels.CountItem{Key: row.Key, Count: row.Count})
	}
	return result
}
