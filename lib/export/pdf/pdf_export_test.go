package pdfexport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	applicationapimodels "permit-workflow-backend/models/api/application"
	permitapimodels "permit-workflow-backend/models/api/permit"
)

func TestGeneratePermit(t *testing.T) {
	view := permitapimodels.PermitView{
		PermitNumber:      "WP-202607-0001",
		ApplicationNumber: "MC2026-001",
		Catchment:         "MANYAME",
		SubCatchment:      "UPPER MANYAME",
		ApplicantName:     "Tendai Moyo",
		PhysicalAddress:   "12 Samora Machel Ave, Harare",
		NumberOfBoreholes: 2,
		LandSize:          1.5,
		PermitType:        "Urban",
		TotalAllocation:   2500,
		IssueDate:         time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:        time.Date(2031, 7, 1, 0, 0, 0, 0, time.UTC),
		Boreholes: []permitapimodels.BoreholeView{
			{Number: "BH-01", Allocation: 1250, GpsX: "-17.825200", GpsY: "31.033500", IntendedUse: "domestic", SampleFrequency: "3 months"},
			{Number: "BH-02", Allocation: 1250, GpsX: "-17.825200", GpsY: "31.033500", IntendedUse: "domestic", SampleFrequency: "3 months"},
		},
		Conditions:      []string{"condition one"},
		AdditionalTerms: []string{"term one"},
	}
	body, err := GeneratePermit(view)
	require.NoError(t, err)
	require.True(t, len(body) > 100)
	require.Equal(t, "%PDF", string(body[:4]))
}

func TestGenerateComments(t *testing.T) {
	app := applicationapimodels.ApplicationView{
		ApplicationNumber: "MC2026-001",
		StatusHuman:       "Rejected",
		CurrentStage:      4,
	}
	t.Run("with comments", func(t *testing.T) {
		comments := []applicationapimodels.CommentView{
			{UserName: "Chair", UserTypeHuman: "Chairperson", Stage: 2, Comment: "Looks fine", CreatedAt: time.Now()},
			{UserName: "Catchment Chair", Stage: 4, Comment: "Incomplete borehole data", IsRejectionReason: true, CreatedAt: time.Now()},
		}
		body, err := GenerateComments(app, comments)
		require.NoError(t, err)
		require.Equal(t, "%PDF", string(body[:4]))
	})
	t.Run("empty", func(t *testing.T) {
		body, err := GenerateComments(app, nil)
		require.NoError(t, err)
		require.Equal(t, "%PDF", string(body[:4]))
	})
}

func TestHelpers(t *testing.T) {
	require.Equal(t, "2500", formatAmount(2500))
	require.Equal(t, "3333.33", formatAmount(3333.33))
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
