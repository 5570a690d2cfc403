package csvexport

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"permit-workflow-backend/models"
	activitylogapimodels "permit-workflow-backend/models/api/activitylog"
	applicationapimodels "permit-workflow-backend/models/api/application"
)

func TestActivityLogs(t *testing.T) {
	rows := []activitylogapimodels.ExportRow{
		{Timestamp: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC), ApplicationNumber: "MC2026-001", Username: "officer",
			UserType: "permitting_officer", Action: "Application Created", Details: "created, with comma"},
	}
	t.Run("rows only", func(t *testing.T) {
		body, err := ActivityLogs(rows, nil)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(body)), "\n")
		require.Len(t, lines, 2)
		require.Equal(t, "Timestamp,Application ID,User,Role,Action,Details", lines[0])
		require.Equal(t, `2026-05-01 09:30:00,MC2026-001,officer,permitting_officer,Application Created,"created, with comma"`, lines[1])
	})
	t.Run("with stats", func(t *testing.T) {
		stats := &activitylogapimodels.ExportStats{
			TotalActions:  1,
			UniqueUsers:   1,
			ActionsByType: map[string]int64{"Application Created": 1},
			ActionsByRole: map[string]int64{"permitting_officer": 1},
		}
		body, err := ActivityLogs(rows, stats)
		require.NoError(t, err)
		require.Contains(t, string(body), "Total Actions,1\n")
		require.Contains(t, string(body), "Application Created,1\n")
		require.Contains(t, string(body), "permitting_officer,1\n")
	})
}

func TestApplications(t *testing.T) {
	list := []applicationapimodels.ApplicationView{
		{
			ApplicationNumber: "MC2026-002",
			ApplicationData: applicationapimodels.ApplicationData{
				ApplicantName:   "Rudo Chikore",
				PermitType:      models.PermitTypeBulkWater,
				WaterSource:     models.WaterSourceSurface,
				WaterAllocation: 750,
			},
			StatusHuman: "Submitted",
			CreatedAt:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	body, err := Applications(list)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[1], "MC2026-002,Rudo Chikore,,Bulk Water,"))
	require.Contains(t, lines[1], ",750,Submitted,")
}
