package reportshandler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"permit-workflow-backend/db"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	applicationstore "permit-workflow-backend/lib/applications/store"
	csvexport "permit-workflow-backend/lib/export/csv"
	xlsexport "permit-workflow-backend/lib/export/xls"
	reportstore "permit-workflow-backend/lib/reports/store"
	initchecker "permit-workflow-backend/lib/utils/init-checker"
	"permit-workflow-backend/models"
	applicationapimodels "permit-workflow-backend/models/api/application"
	reportapimodels "permit-workflow-backend/models/api/report"
	dbmodels "permit-workflow-backend/models/db"
)

type Provider interface {
	Summary(filter reportapimodels.ReportFilter) (result reportapimodels.SummaryView, err error)
	ExportApplications(actor models.Actor, request reportapimodels.ApplicationExportRequest) (body []byte, fileName string, err error)
}

var Instance Provider

const (
	defaultRangeDays = 30
	MaxExportRows    = 10000
)

func NewHandler() {
	instance := impl{
		store:          reportstore.NewInstance(db.DB),
		appStore:       applicationstore.NewInstance(db.DB),
		xlsExport:      xlsexport.Instance,
		activityLogger: activityloghandler.Instance,
	}
	initchecker.CheckInit(
		"xlsExport", instance.xlsExport,
		"activityLogger", instance.activityLogger,
	)
	Instance = instance
}

type impl struct {
	store          reportstore.Provider
	appStore       applicationstore.Provider
	xlsExport      xlsexport.Provider
	activityLogger activityloghandler.Provider
}

func (i impl) Summary(filter reportapimodels.ReportFilter) (result reportapimodels.SummaryView, err error) {
	from, to := filter.GetRange(defaultRangeDays)
	result.DateFrom = from
	result.DateTo = to

	result.TotalApplications, err = i.store.CountApplications(from, to)
	if err != nil {
		return result, errors.Wrap(err, "failed to count applications")
	}
	groups := []struct {
		expr   string
		target *[]reportapimodels.CountItem
	}{
		{reportstore.GroupByStatus, &result.ByStatus},
		{reportstore.GroupByPermitType, &result.ByPermitType},
		{reportstore.GroupByWaterSource, &result.ByWaterSource},
		{reportstore.GroupByDay, &result.ApplicationsPerDay},
	}
	for _, group := range groups {
		rows, err := i.store.ApplicationsBy(group.expr, from, to)
		if err != nil {
			return result, errors.Wrapf(err, "failed to group applications by %v", group.expr)
		}
		*group.target = toCountItems(rows)
	}

	processing, err := i.store.ProcessingTime(reportstore.FromSubmitted, from, to)
	if err != nil {
		return result, errors.Wrap(err, "failed to get processing time")
	}
	result.AvgProcessingTimeHours = processing.AvgHours

	docs, err := i.store.DocumentsByType(from, to)
	if err != nil {
		return result, errors.Wrap(err, "failed to group documents")
	}
	result.DocumentsByType = toCountItems(docs)

	comments, err := i.store.CommentsByUser(from, to)
	if err != nil {
		return result, errors.Wrap(err, "failed to group comments")
	}
	result.CommentsByUser = toCountItems(comments)

	result.TotalWaterAllocation, err = i.store.WaterAllocation(from, to, nil)
	if err != nil {
		return result, errors.Wrap(err, "failed to sum water allocation")
	}
	result.ApprovedWaterAllocation, err = i.store.WaterAllocation(from, to, []models.ApplicationStatus{models.AppStatusApproved})
	if err != nil {
		return result, errors.Wrap(err, "failed to sum approved water allocation")
	}
	return result, nil
}

func (i impl) ExportApplications(actor models.Actor, request reportapimodels.ApplicationExportRequest) (body []byte, fileName string, err error) {
	logger := log.WithField("user_id", actor.UserID).
		WithField("format", request.Format)
	recList, err := i.appStore.ListAll(request.ApplicationFilter, MaxExportRows)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to load applications")
	}
	list := make([]applicationapimodels.ApplicationView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}

	fileName = fmt.Sprintf("applications_%v.%v", time.Now().Format("20060102_150405"), request.Format)
	switch request.Format {
	case models.ExportCSV:
		body, err = csvexport.Applications(list)
	case models.ExportJSON:
		body, err = json.MarshalIndent(list, "", "  ")
	case models.ExportXLSX:
		buf, xErr := i.xlsExport.ExportApplications(list)
		if xErr == nil {
			body = buf.Bytes()
		}
		err = xErr
	default:
		return nil, "", errors.Errorf("unsupported export format: %v", request.Format)
	}
	if err != nil {
		logger.WithError(err).Error("failed to build applications export")
		return nil, "", errors.Wrap(err, "failed to build export")
	}
	i.activityLogger.Save(dbmodels.NewActivityLog(actor, models.ActionReportExported,
		fmt.Sprintf("Exported %d applications as %v", len(list), request.Format)))
	return body, fileName, nil
}

func toCountItems(rows []dbmodels.CountRow) []reportapimodels.CountItem {
	result := make([]reportapimodels.CountItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, reportapimodels.CountItem{Key: row.Key, Count: row.Count})
	}
	return result
}
