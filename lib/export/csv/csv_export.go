package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	activitylogapimodels "permit-workflow-backend/models/api/activitylog"
	applicationapimodels "permit-workflow-backend/models/api/application"
)

const timeLayout = "2006-01-02 15:04:05"

func ActivityLogs(rows []activitylogapimodels.ExportRow, stats *activitylogapimodels.ExportStats) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	records := [][]string{{"Timestamp", "Application ID", "User", "Role", "Action", "Details"}}
	for _, item := range rows {
		records = append(records, []string{item.Timestamp.Format(timeLayout), item.ApplicationNumber, item.Username,
			item.UserType, item.Action, item.Details})
	}
	if stats != nil {
		records = append(records,
			[]string{},
			[]string{"Statistics"},
			[]string{"Total Actions", fmt.Sprint(stats.TotalActions)},
			[]string{"Unique Users", fmt.Sprint(stats.UniqueUsers)},
			[]string{"Unique Applications", fmt.Sprint(stats.UniqueApplications)},
			[]string{},
			[]string{"Action", "Count"})
		records = append(records, countRecords(stats.ActionsByType)...)
		records = append(records, []string{}, []string{"Role", "Count"})
		records = append(records, countRecords(stats.ActionsByRole)...)
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Applications(list []applicationapimodels.ApplicationView) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	records := [][]string{{"Application ID", "Applicant", "Account Number", "Permit Type", "Water Source",
		"Allocation (ML)", "Status", "Stage", "Permit Number", "Created", "Submitted", "Approved"}}
	for _, item := range list {
		records = append(records, []string{item.ApplicationNumber, item.ApplicantName, item.CustomerAccountNumber,
			item.PermitType.ToHuman(), item.WaterSource.ToHuman(), fmt.Sprint(item.WaterAllocation), item.StatusHuman,
			item.StageName, item.PermitNumber, item.CreatedAt.Format(timeLayout), formatTime(item.SubmittedAt),
			formatTime(item.ApprovedAt)})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func countRecords(counts map[string]int64) [][]string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	result := make([][]string, 0, len(keys))
	for _, key := range keys {
		result = append(result, []string{key, fmt.Sprint(counts[key])})
	}
	return result
}

func formatTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(timeLayout)
}
