package reportshandler

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	applicationstore "permit-workflow-backend/lib/applications/store"
	xlsexport "permit-workflow-backend/lib/export/xls"
	reportstore "permit-workflow-backend/lib/reports/store"
	"permit-workflow-backend/models"
	apimodels "permit-workflow-backend/models/api"
	applicationapimodels "permit-workflow-backend/models/api/application"
	reportapimodels "permit-workflow-backend/models/api/report"
	dbmodels "permit-workflow-backend/models/db"
)

type fakeReportStore struct {
	reportstore.Provider
	groups map[string][]dbmodels.CountRow
}

func (f *fakeReportStore) CountApplications(from, to time.Time) (int64, error) {
	return 12, nil
}

func (f *fakeReportStore) ApplicationsBy(groupExpr string, from, to time.Time) ([]dbmodels.CountRow, error) {
	return f.groups[groupExpr], nil
}

func (f *fakeReportStore) ProcessingTime(startColumn string, from, to time.Time) (dbmodels.DurationRow, error) {
	return dbmodels.DurationRow{AvgHours: 36.5, Count: 4}, nil
}

func (f *fakeReportStore) DocumentsByType(from, to time.Time) ([]dbmodels.CountRow, error) {
	return []dbmodels.CountRow{{Key: "site_plan", Count: 5}}, nil
}

func (f *fakeReportStore) CommentsByUser(from, to time.Time) ([]dbmodels.CountRow, error) {
	return []dbmodels.CountRow{{Key: "manager", Count: 9}}, nil
}

func (f *fakeReportStore) WaterAllocation(from, to time.Time, statuses []models.ApplicationStatus) (float64, error) {
	if len(statuses) > 0 {
		return 40, nil
	}
	return 100, nil
}

type fakeAppStore struct {
	applicationstore.Provider
	maxRows int
}

func (f *fakeAppStore) ListAll(filter applicationapimodels.ApplicationFilter, maxRows int) ([]dbmodels.Application, error) {
	f.maxRows = maxRows
	return []dbmodels.Application{
		{BaseModel: dbmodels.BaseModel{ID: "a1"}, ApplicationNumber: "MC2026-001", ApplicantName: "Ruwa Farms", Status: models.AppStatusApproved},
	}, nil
}

type fakeXlsExport struct {
	xlsexport.Provider
}

func (f fakeXlsExport) ExportApplications(list []applicationapimodels.ApplicationView) (*bytes.Buffer, error) {
	return bytes.NewBufferString("xlsx"), nil
}

type fakeActivityLogger struct {
	activityloghandler.Provider
	saved []dbmodels.ActivityLog
}

func (f *fakeActivityLogger) Save(rec dbmodels.ActivityLog) {
	f.saved = append(f.saved, rec)
}

func TestSummary(t *testing.T) {
	handler := impl{store: &fakeReportStore{groups: map[string][]dbmodels.CountRow{
		reportstore.GroupByStatus: {{Key: "approved", Count: 4}, {Key: "submitted", Count: 8}},
		reportstore.GroupByDay:    {{Key: "2026-10-01", Count: 12}},
	}}}
	to := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	result, err := handler.Summary(reportapimodels.ReportFilter{DateRange: apimodels.DateRange{DateTo: &to}})
	require.NoError(t, err)
	require.Equal(t, to.AddDate(0, 0, -defaultRangeDays), result.DateFrom)
	require.EqualValues(t, 12, result.TotalApplications)
	require.Len(t, result.ByStatus, 2)
	require.Empty(t, result.ByPermitType)
	require.Equal(t, []reportapimodels.CountItem{{Key: "2026-10-01", Count: 12}}, result.ApplicationsPerDay)
	require.Equal(t, 36.5, result.AvgProcessingTimeHours)
	require.Equal(t, "site_plan", result.DocumentsByType[0].Key)
	require.EqualValues(t, 9, result.CommentsByUser[0].Count)
	require.Equal(t, 100.0, result.TotalWaterAllocation)
	require.Equal(t, 40.0, result.ApprovedWaterAllocation)
}

func TestExportApplications(t *testing.T) {
	actor := models.Actor{UserID: "u1", Role: models.PermitSupervisorRole, Username: "supervisor"}
	newImpl := func() (impl, *fakeAppStore, *fakeActivityLogger) {
		apps := &fakeAppStore{}
		logger := &fakeActivityLogger{}
		return impl{appStore: apps, xlsExport: fakeXlsExport{}, activityLogger: logger}, apps, logger
	}
	t.Run("csv", func(t *testing.T) {
		handler, apps, logger := newImpl()
		body, fileName, err := handler.ExportApplications(actor, reportapimodels.ApplicationExportRequest{Format: models.ExportCSV})
		require.NoError(t, err)
		require.True(t, strings.HasSuffix(fileName, ".csv"))
		require.Contains(t, string(body), "MC2026-001")
		require.Equal(t, MaxExportRows, apps.maxRows)
		require.Len(t, logger.saved, 1)
		require.Equal(t, models.ActionReportExported, logger.saved[0].Action)
	})
	t.Run("json", func(t *testing.T) {
		handler, _, _ := newImpl()
		body, _, err := handler.ExportApplications(actor, reportapimodels.ApplicationExportRequest{Format: models.ExportJSON})
		require.NoError(t, err)
		var list []applicationapimodels.ApplicationView
		require.NoError(t, json.Unmarshal(body, &list))
		require.Len(t, list, 1)
		require.Equal(t, "Ruwa Farms", list[0].ApplicantName)
	})
	t.Run("xlsx", func(t *testing.T) {
		handler, _, _ := newImpl()
		body, fileName, err := handler.ExportApplications(actor, reportapimodels.ApplicationExportRequest{Format: models.ExportXLSX})
		require.NoError(t, err)
		require.Equal(t, "xlsx", string(body))
		require.True(t, strings.HasSuffix(fileName, ".xlsx"))
	})
	t.Run("unknown format", func(t *testing.T) {
		handler, _, logger := newImpl()
		_, _, err := handler.ExportApplications(actor, reportapimodels.ApplicationExportRequest{Format: "pdf"})
		require.Error(t, err)
		require.Empty(t, logger.saved)
	})
}
