package xlsexport

import (
	"bytes"
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	activitylogapimodels "permit-workflow-backend/models/api/activitylog"
	applicationapimodels "permit-workflow-backend/models/api/application"
)

type Provider interface {
	ExportActivityLogs(rows []activitylogapimodels.ExportRow, stats *activitylogapimodels.ExportStats) (*bytes.Buffer, error)
	ExportApplications(list []applicationapimodels.ApplicationView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const timeLayout = "2006-01-02 15:04:05"

var activityLogHeaders = []string{"Timestamp", "Application ID", "User", "Role", "Action", "Details"}

var applicationHeaders = []string{"Application ID", "Applicant", "Account Number", "Permit Type", "Water Source",
	"Allocation (ML)", "Status", "Stage", "Permit Number", "Created", "Submitted", "Approved"}

func (i impl) ExportActivityLogs(rows []activitylogapimodels.ExportRow, stats *activitylogapimodels.ExportStats) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer closeFile(f)
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, activityLogHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx header")
	}
	if len(rows) != 0 {
		if err = applyDataCellStyle(f, sheet, 1, row+1, len(activityLogHeaders), row+len(rows)); err != nil {
			return nil, errors.Wrap(err, "failed to style xlsx data")
		}
		for _, item := range rows {
			row++
			values := []interface{}{item.Timestamp.Format(timeLayout), item.ApplicationNumber, item.Username,
				item.UserType, item.Action, item.Details}
			if err = writeRow(f, sheet, row, values); err != nil {
				return nil, errors.Wrap(err, "failed to write xlsx data")
			}
		}
	}
	f.SetSheetName(sheet, "Activity Logs")
	if stats != nil {
		if err = writeExportStats(f, *stats); err != nil {
			return nil, errors.Wrap(err, "failed to write xlsx statistics")
		}
	}
	return f.WriteToBuffer()
}

func writeExportStats(f *excelize.File, stats activitylogapimodels.ExportStats) error {
	sheet := "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	row, err := writeHeader(f, sheet, 0, []string{"Metric", "Value"})
	if err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Total Actions", stats.TotalActions},
		{"Unique Users", stats.UniqueUsers},
		{"Unique Applications", stats.UniqueApplications},
	}
	for _, values := range summary {
		row++
		if err = writeRow(f, sheet, row, values); err != nil {
			return err
		}
	}
	if err = writeCounts(f, "Actions by Type", "Action", stats.ActionsByType); err != nil {
		return err
	}
	return writeCounts(f, "Actions by Role", "Role", stats.ActionsByRole)
}

func (i impl) ExportApplications(list []applicationapimodels.ApplicationView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer closeFile(f)
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, applicationHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx header")
	}
	if len(list) != 0 {
		if err = applyDataCellStyle(f, sheet, 1, row+1, len(applicationHeaders), row+len(list)); err != nil {
			return nil, errors.Wrap(err, "failed to style xlsx data")
		}
		for _, item := range list {
			row++
			values := []interface{}{item.ApplicationNumber, item.ApplicantName, item.CustomerAccountNumber,
				item.PermitType.ToHuman(), item.WaterSource.ToHuman(), item.WaterAllocation, item.StatusHuman,
				item.StageName, item.PermitNumber, item.CreatedAt.Format(timeLayout),
				formatTime(item.SubmittedAt), formatTime(item.ApprovedAt)}
			if err = writeRow(f, sheet, row, values); err != nil {
				return nil, errors.Wrap(err, "failed to write xlsx data")
			}
		}
	}
	f.SetSheetName(sheet, "Applications")
	return f.WriteToBuffer()
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for idx, value := range values {
		if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
			return err
		}
	}
	return nil
}

func closeFile(f *excelize.File) {
	if err := f.Close(); err != nil {
		log.WithError(err).Error("failed to close xlsx file")
	}
}

func sortedKeys(counts map[string]int64) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool {
		if counts[keys[a]] != counts[keys[b]] {
			return counts[keys[a]] > counts[keys[b]]
		}
		return keys[a] < keys[b]
	})
	return keys
}

func formatTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(timeLayout)
}
