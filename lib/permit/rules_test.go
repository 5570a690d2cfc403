package permit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"permit-workflow-backend/models"
	dbmodels "permit-workflow-backend/models/db"
)

func TestAllocation(t *testing.T) {
	t.Run("urban", func(t *testing.T) {
		require.Equal(t, 2500.0, Allocation(models.PermitTypeUrban, 700))
	})
	t.Run("bulk water keeps custom value", func(t *testing.T) {
		require.Equal(t, 700.0, Allocation(models.PermitTypeBulkWater, 700))
	})
	t.Run("other types", func(t *testing.T) {
		require.Equal(t, 10000.0, Allocation(models.PermitTypeIrrigation, 700))
		require.Equal(t, 10000.0, Allocation(models.PermitTypeTempering, 0))
	})
}

func TestValidUntil(t *testing.T) {
	approvedAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	t.Run("default validity", func(t *testing.T) {
		require.Equal(t, time.Date(2031, 3, 15, 10, 0, 0, 0, time.UTC), ValidUntil(approvedAt, models.PermitTypeUrban, 0))
	})
	t.Run("custom period only for bulk water", func(t *testing.T) {
		require.Equal(t, 2036, ValidUntil(approvedAt, models.PermitTypeBulkWater, 10).Year())
		require.Equal(t, 2031, ValidUntil(approvedAt, models.PermitTypeIndustrial, 10).Year())
	})
	t.Run("out of range custom period is ignored", func(t *testing.T) {
		require.Equal(t, 2031, ValidUntil(approvedAt, models.PermitTypeBulkWater, 80).Year())
	})
}

func TestBoreholeSchedule(t *testing.T) {
	rec := dbmodels.Application{
		NumberOfBoreholes: 3,
		WaterAllocation:   10000,
		GpsLatitude:       -17.8252,
		GpsLongitude:      31.0335,
		IntendedUse:       "domestic",
	}
	rows := BoreholeSchedule(rec)
	require.Len(t, rows, 3)
	require.Equal(t, "BH-01", rows[0].Number)
	require.Equal(t, "BH-03", rows[2].Number)
	require.Equal(t, 3333.33, rows[1].Allocation)
	require.Equal(t, "-17.825200", rows[0].GpsX)
	require.Equal(t, "31.033500", rows[0].GpsY)
	require.Equal(t, "domestic", rows[0].IntendedUse)
	require.Equal(t, SampleFrequency, rows[0].SampleFrequency)

	rec.NumberOfBoreholes = 0
	require.Empty(t, BoreholeSchedule(rec))
}

func TestNumbers(t *testing.T) {
	ts := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "MC2026-", ApplicationNumberPrefix(ts))
	require.Equal(t, "MC2026-007", FormatApplicationNumber(ts, 7))
	require.Equal(t, "MC2026-1234", FormatApplicationNumber(ts, 1234))
	require.Equal(t, "WP-202607-", PermitNumberPrefix(ts))
	require.Equal(t, "WP-202607-0042", FormatPermitNumber(ts, 42))
}

func TestBuildPermit(t *testing.T) {
	approvedAt := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	number := "WP-202607-0001"
	rec := dbmodels.Application{
		ApplicationNumber: "MC2026-001",
		ApplicantName:     "John Doe",
		PermitType:        models.PermitTypeUrban,
		WaterAllocation:   2500,
		NumberOfBoreholes: 2,
		ApprovedAt:        &approvedAt,
		PermitNumber:      &number,
	}
	view := BuildPermit(rec)
	require.Equal(t, number, view.PermitNumber)
	require.Equal(t, "Urban", view.PermitType)
	require.Len(t, view.Boreholes, 2)
	require.Equal(t, approvedAt, view.IssueDate)
	require.Equal(t, 2031, view.ValidUntil.Year())
	require.NotEmpty(t, view.Conditions)
}
