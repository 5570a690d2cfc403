package applicationstore

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"permit-workflow-backend/models"
	applicationapimodels "permit-workflow-backend/models/api/application"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gormDB, mock
}

func TestUpdateState(t *testing.T) {
	updMap := map[string]interface{}{
		"status":        models.AppStatusUnderReview,
		"current_stage": models.StageCatchmentManager,
	}
	t.Run("matching row is updated", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "applications" SET`) + `.*` +
			regexp.QuoteMeta(`WHERE id = $`) + `\d+` + regexp.QuoteMeta(` AND current_stage = $`) + `\d+` + regexp.QuoteMeta(` AND status = $`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		updated, err := NewInstance(gormDB).UpdateState("app-1", models.StageChairperson, models.AppStatusSubmitted, updMap)
		require.NoError(t, err)
		require.True(t, updated)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("stale state updates nothing", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "applications" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		updated, err := NewInstance(gormDB).UpdateState("app-1", models.StageChairperson, models.AppStatusSubmitted, updMap)
		require.NoError(t, err)
		require.False(t, updated)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByIDMissing(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "applications" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, err := NewInstance(gormDB).GetByID("missing")
	require.NoError(t, err)
	require.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListCount(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "applications" WHERE`) + `.*status in \(\$\d+,\$\d+\).*current_stage = \$\d+`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := NewInstance(gormDB).ListCount(applicationapimodels.ApplicationFilter{
		Search:       "MC2025",
		Statuses:     []models.ApplicationStatus{models.AppStatusSubmitted, models.AppStatusUnderReview},
		CurrentStage: models.StageChairperson,
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMaxNumberSuffix(t *testing.T) {
	t.Run("existing numbers", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(CAST(SUBSTRING(permit_number FROM 11) AS INTEGER)), 0) FROM "applications" WHERE permit_number LIKE $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(12))

		seq, err := NewInstance(gormDB).MaxNumberSuffix("permit_number", "WP-202506-")
		require.NoError(t, err)
		require.Equal(t, 12, seq)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("no numbers yet", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT COALESCE\(MAX`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		seq, err := NewInstance(gormDB).MaxNumberSuffix("application_number", "MC2025-")
		require.NoError(t, err)
		require.Equal(t, 0, seq)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("unknown column", func(t *testing.T) {
		gormDB, _ := newMockDB(t)
		_, err := NewInstance(gormDB).MaxNumberSuffix("applicant_name", "x")
		require.Error(t, err)
	})
}

func TestMarkSent(t *testing.T) {
	t.Run("reminder column", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "applications" SET "reminder_sent_at"=$1 WHERE id = $2`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := NewInstance(gormDB).MarkSent("app-1", ReminderSentColumn, time.Now())
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("unknown column", func(t *testing.T) {
		gormDB, _ := newMockDB(t)
		err := NewInstance(gormDB).MarkSent("app-1", "status", time.Now())
		require.Error(t, err)
	})
}

func TestListAll(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "applications" WHERE status in ($1) ORDER BY created_at desc LIMIT`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	list, err := NewInstance(gormDB).ListAll(applicationapimodels.ApplicationFilter{
		Statuses: []models.ApplicationStatus{models.AppStatusApproved},
	}, 500)
	require.NoError(t, err)
	require.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}
