package xlsexport

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"permit-workflow-backend/models"
	activitylogapimodels "permit-workflow-backend/models/api/activitylog"
	applicationapimodels "permit-workflow-backend/models/api/application"
)

func TestExportActivityLogs(t *testing.T) {
	rows := []activitylogapimodels.ExportRow{
		{Timestamp: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC), ApplicationNumber: "MC2026-001", Username: "officer",
			UserType: "permitting_officer", Action: "Application Created", Details: "created"},
		{Timestamp: time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC), ApplicationNumber: "MC2026-001", Username: "chair",
			UserType: "chairperson", Action: "Reviewed and Forwarded Application"},
	}
	t.Run("without stats", func(t *testing.T) {
		buf, err := impl{}.ExportActivityLogs(rows, nil)
		require.NoError(t, err)
		f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, []string{"Activity Logs"}, f.GetSheetList())
		value, err := f.GetCellValue("Activity Logs", "A2")
		require.NoError(t, err)
		require.Equal(t, "2026-05-01 09:30:00", value)
		value, err = f.GetCellValue("Activity Logs", "E3")
		require.NoError(t, err)
		require.Equal(t, "Reviewed and Forwarded Application", value)
	})
	t.Run("stats are placed on their own sheets", func(t *testing.T) {
		stats := &activitylogapimodels.ExportStats{
			TotalActions:       2,
			UniqueUsers:        2,
			UniqueApplications: 1,
			ActionsByType:      map[string]int64{"Application Created": 1, "Reviewed and Forwarded Application": 1},
			ActionsByRole:      map[string]int64{"permitting_officer": 1, "chairperson": 1},
		}
		buf, err := impl{}.ExportActivityLogs(rows, stats)
		require.NoError(t, err)
		f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"Activity Logs", "Summary", "Actions by Type", "Actions by Role"}, f.GetSheetList())
		value, err := f.GetCellValue("Summary", "B2")
		require.NoError(t, err)
		require.Equal(t, "2", value)
		value, err = f.GetCellValue("Actions by Role", "A2")
		require.NoError(t, err)
		require.Equal(t, "chairperson", value)
	})
}

func TestExportApplications(t *testing.T) {
	list := []applicationapimodels.ApplicationView{
		{
			ApplicationNumber: "MC2026-001",
			ApplicationData: applicationapimodels.ApplicationData{
				ApplicantName:   "Tendai Moyo",
				PermitType:      models.PermitTypeUrban,
				WaterSource:     models.WaterSourceGround,
				WaterAllocation: 2500,
			},
			StatusHuman: "Approved",
			CreatedAt:   time.Now(),
		},
	}
	buf, err := impl{}.ExportApplications(list)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	value, err := f.GetCellValue("Applications", "D2")
	require.NoError(t, err)
	require.Equal(t, "Urban", value)
}

func TestSortedKeys(t *testing.T) {
	require.Equal(t, []string{"b", "a", "c"}, sortedKeys(map[string]int64{"a": 1, "b": 3, "c": 1}))
}
