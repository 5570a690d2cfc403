package activityloghandler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	activitylogstore "permit-workflow-backend/lib/activity-log/store"
	xlsexport "permit-workflow-backend/lib/export/xls"
	reportstore "permit-workflow-backend/lib/reports/store"
	"permit-workflow-backend/models"
	activitylogapimodels "permit-workflow-backend/models/api/activitylog"
	dbmodels "permit-workflow-backend/models/db"
)

type fakeStore struct {
	activitylogstore.Provider
	records map[string]dbmodels.ActivityLog
	created []dbmodels.ActivityLog
	updated map[string]interface{}
	deleted []string
}

func newFakeStore(records ...dbmodels.ActivityLog) *fakeStore {
	store := &fakeStore{records: map[string]dbmodels.ActivityLog{}}
	for _, rec := range records {
		store.records[rec.ID] = rec
	}
	return store
}

func (f *fakeStore) Create(rec dbmodels.ActivityLog) (string, error) {
	f.created = append(f.created, rec)
	return "new-id", nil
}

func (f *fakeStore) GetByID(id string) (*dbmodels.ActivityLog, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeStore) Update(id string, updMap map[string]interface{}) error {
	f.updated = updMap
	return nil
}

func (f *fakeStore) Delete(id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) ListAll(filter activitylogapimodels.ActivityLogFilter, maxRows int) ([]dbmodels.ActivityLog, error) {
	list := make([]dbmodels.ActivityLog, 0, len(f.records))
	for _, rec := range f.records {
		list = append(list, rec)
	}
	return list, nil
}

var (
	ict     = models.Actor{UserID: "u-ict", Role: models.IctRole, Username: "admin"}
	officer = models.Actor{UserID: "u-off", Role: models.PermittingOfficerRole, Username: "officer"}
)

func appLog(id, appID, userID string, role models.UserRole, action models.ActivityAction) dbmodels.ActivityLog {
	rec := dbmodels.NewActivityLog(models.Actor{UserID: userID, Role: role, Username: userID}, action, "details").
		ForApplication(appID)
	rec.ID = id
	rec.CreatedAt = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return rec
}

func TestSave(t *testing.T) {
	store := newFakeStore()
	i := impl{store: store}
	i.Save(dbmodels.NewActivityLog(models.SystemActor(), models.ActionAppSubmitted, "reminder"))
	require.Len(t, store.created, 1)
	require.Equal(t, models.SystemUser, store.created[0].Username)
}

func TestUpdate(t *testing.T) {
	rec := appLog("l1", "a1", "u-off", models.PermittingOfficerRole, models.ActionAppCreated)
	t.Run("only ict", func(t *testing.T) {
		store := newFakeStore(rec)
		hMsg, err := impl{store: store}.Update(officer, "l1", activitylogapimodels.ActivityLogUpdate{Action: "x"})
		require.NoError(t, err)
		require.Equal(t, "only ICT may edit activity logs", hMsg)
		require.Nil(t, store.updated)
	})
	t.Run("not found", func(t *testing.T) {
		hMsg, err := impl{store: newFakeStore()}.Update(ict, "missing", activitylogapimodels.ActivityLogUpdate{Action: "x"})
		require.NoError(t, err)
		require.Equal(t, "activity log not found", hMsg)
	})
	t.Run("edit is applied and logged", func(t *testing.T) {
		store := newFakeStore(rec)
		hMsg, err := impl{store: store}.Update(ict, "l1", activitylogapimodels.ActivityLogUpdate{
			Action:  models.ActionAppCreated,
			Details: "corrected",
		})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, map[string]interface{}{"details": "corrected"}, store.updated)
		require.Len(t, store.created, 1)
		require.Equal(t, models.ActionLogEdited, store.created[0].Action)
		require.Equal(t, "a1", *store.created[0].ApplicationID)
		require.Len(t, store.created[0].Changes.Data, 1)
	})
}

func TestDelete(t *testing.T) {
	rec := appLog("l1", "a1", "u-off", models.PermittingOfficerRole, models.ActionAppCreated)
	t.Run("only ict", func(t *testing.T) {
		store := newFakeStore(rec)
		hMsg, err := impl{store: store}.Delete(officer, "l1")
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
		require.Empty(t, store.deleted)
	})
	t.Run("deletion is logged", func(t *testing.T) {
		store := newFakeStore(rec)
		hMsg, err := impl{store: store}.Delete(ict, "l1")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, []string{"l1"}, store.deleted)
		require.Len(t, store.created, 1)
		require.Equal(t, models.ActionLogDeleted, store.created[0].Action)
	})
}

func TestExport(t *testing.T) {
	store := newFakeStore(
		appLog("l1", "a1", "u-off", models.PermittingOfficerRole, models.ActionAppCreated),
		appLog("l2", "a1", "u-chair", models.ChairpersonRole, models.ActionAppForwarded),
		appLog("l3", "a2", "u-off", models.PermittingOfficerRole, models.ActionAppCreated),
	)
	xlsexport.NewHandler()
	i := impl{store: store, xlsExport: xlsexport.Instance}

	t.Run("json with stats", func(t *testing.T) {
		body, fileName, err := i.Export(ict, activitylogapimodels.ExportRequest{Format: models.ExportJSON, IncludeStats: true})
		require.NoError(t, err)
		require.Contains(t, fileName, ".json")
		doc := activitylogapimodels.ExportDocument{}
		require.NoError(t, json.Unmarshal(body, &doc))
		require.Len(t, doc.Logs, 3)
		require.NotNil(t, doc.Stats)
		require.Equal(t, int64(3), doc.Stats.TotalActions)
		require.Equal(t, 2, doc.Stats.UniqueUsers)
		require.Equal(t, 2, doc.Stats.UniqueApplications)
		require.Equal(t, int64(2), doc.Stats.ActionsByType[string(models.ActionAppCreated)])
		require.Equal(t, int64(1), doc.Stats.ActionsByRole[string(models.ChairpersonRole)])
	})
	t.Run("csv", func(t *testing.T) {
		body, fileName, err := i.Export(ict, activitylogapimodels.ExportRequest{Format: models.ExportCSV})
		require.NoError(t, err)
		require.Contains(t, fileName, ".csv")
		require.Contains(t, string(body), "Timestamp,Application ID")
	})
	t.Run("xlsx", func(t *testing.T) {
		body, _, err := i.Export(ict, activitylogapimodels.ExportRequest{Format: models.ExportXLSX, IncludeStats: true})
		require.NoError(t, err)
		require.Equal(t, "PK", string(body[:2]))
	})
	t.Run("export is logged", func(t *testing.T) {
		last := store.created[len(store.created)-1]
		require.Equal(t, models.ActionLogsExported, last.Action)
		require.Equal(t, ict.UserID, last.UserID)
	})
}

type statsStore struct {
	activitylogstore.Provider
	byExpr map[string][]dbmodels.CountRow
}

func (f statsStore) CountTotal(from, to time.Time) (int64, error) {
	return 19, nil
}

func (f statsStore) CountBy(groupExpr string, from, to time.Time) ([]dbmodels.CountRow, error) {
	return f.byExpr[groupExpr], nil
}

func (f statsStore) TopUsers(from, to time.Time, limit int) ([]dbmodels.UserCountRow, error) {
	return []dbmodels.UserCountRow{{UserID: "u-chair", Username: "chair", UserType: "chairperson", Count: 12}}, nil
}

func (f statsStore) UserActivityByRole(from, to time.Time) ([]dbmodels.RoleActivityRow, error) {
	return []dbmodels.RoleActivityRow{
		{UserType: "chairperson", UniqueUsers: 2, Actions: 15},
		{UserType: "ict", UniqueUsers: 1, Actions: 4},
	}, nil
}

type statsReportStore struct {
	reportstore.Provider
}

func (f statsReportStore) CountApplications(from, to time.Time) (int64, error) {
	return 4, nil
}

func (f statsReportStore) CountNewUsers(from, to time.Time) (int64, error) {
	return 1, nil
}

func (f statsReportStore) ProcessingTime(startColumn string, from, to time.Time) (dbmodels.DurationRow, error) {
	return dbmodels.DurationRow{AvgHours: 30, MinHours: 10, MaxHours: 50, Count: 2}, nil
}

func (f statsReportStore) ApplicationsBy(groupExpr string, from, to time.Time) ([]dbmodels.CountRow, error) {
	return []dbmodels.CountRow{{Key: groupExpr, Count: 4}}, nil
}

func (f statsReportStore) DocumentsByType(from, to time.Time) ([]dbmodels.CountRow, error) {
	return []dbmodels.CountRow{{Key: "id_copy", Count: 4}}, nil
}

func (f statsReportStore) CountDocuments(from, to time.Time) (int64, error) {
	return 10, nil
}

func (f statsReportStore) CountComments(from, to time.Time) (int64, error) {
	return 7, nil
}

func (f statsReportStore) TopCommentedApplications(from, to time.Time, limit int) ([]dbmodels.CountRow, error) {
	return []dbmodels.CountRow{{Key: "MC2026-001", Count: 5}}, nil
}

func TestStats(t *testing.T) {
	store := statsStore{byExpr: map[string][]dbmodels.CountRow{
		activitylogstore.GroupByRole: {{Key: "chairperson", Count: 15}, {Key: "ict", Count: 4}},
	}}
	result, err := impl{store: store, reportStore: statsReportStore{}}.Stats(activitylogapimodels.StatsFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(19), result.TotalActions)
	require.Equal(t, 2.5, result.AvgDocumentsPerApp)
	require.Equal(t, int64(7), result.TotalComments)
	require.Len(t, result.ActionsByRole, 2)
	t.Run("user activity by role counts distinct users", func(t *testing.T) {
		require.Equal(t, []activitylogapimodels.RoleActivity{
			{UserType: "chairperson", UniqueUsers: 2, Actions: 15},
			{UserType: "ict", UniqueUsers: 1, Actions: 4},
		}, result.UserActivityByRole)
	})
	t.Run("default range is the last 30 days", func(t *testing.T) {
		require.WithinDuration(t, result.DateTo.AddDate(0, 0, -StatsDefaultDays), result.DateFrom, time.Second)
	})
}
