package permit

import (
	"fmt"
	"math"
	"time"

	"permit-workflow-backend/config"
	"permit-workflow-backend/models"
	permitapimodels "permit-workflow-backend/models/api/permit"
	dbmodels "permit-workflow-backend/models/db"
)

const (
	UrbanAllocation   = 2500.0
	DefaultAllocation = 10000.0

	DefaultValidityYears = 5
	MaxValidityYears     = 50

	SampleFrequency = "3 months"

	ApplicationNumberColumn = "application_number"
	PermitNumberColumn      = "permit_number"
)

var Conditions = []string{
	"It is illegal to abstract groundwater for any other purpose other than primary purposes without an abstraction permit. " +
		"The owner of the property who wishes to abstract water in terms of this permit must observe the technical specifications " +
		"contained in the \"Operational Guidelines for Boreholes, Groundwater Monitoring and Groundwater Use\".",
	"All forms on which to record information as required by the permit are provided by the relevant Catchment Council. " +
		"The owner of the property shall submit the borehole monitoring data recorded every month, or as specified by the Catchment Council, " +
		"on Form GW 8 to the Catchment Manager's office every three months or as specified by the Catchment Council.",
	"The Catchment Council reserves the right to review the conditions of this permit in accordance with the Water Act [Chapter 20:24].",
	"In the event that the Minister declares part of or the whole Catchment area a groundwater development restriction area, " +
		"the Catchment Council has the right in terms of the Water Act [Chapter 20:24] to suspend or amend any permit, restrict the abstractions, " +
		"limit the validity period of the permit and determine the priority use of the water by re-issuing the permit.",
}

var AdditionalTerms = []string{
	"To install flow meters on all boreholes and keep records of water used",
	"Water Quality Analysis is to be carried out at most after every 3 months",
	"To submit abstraction and water quality records to catchment offices every six (6) months",
	"To allow unlimited access to ZINWA and SUB-CATCHMENT COUNCIL staff",
	"No cost shall be demanded from the Catchment Council in the event of permit cancellation",
}

// Allocation returns the annual water allocation for the permit type. Bulk water keeps the officer's value.
func Allocation(permitType models.PermitType, custom float64) float64 {
	switch permitType {
	case models.PermitTypeUrban:
		return UrbanAllocation
	case models.PermitTypeBulkWater:
		return custom
	}
	return DefaultAllocation
}

// ValidUntil returns the expiry date of a permit approved at approvedAt.
func ValidUntil(approvedAt time.Time, permitType models.PermitType, customYears int) time.Time {
	years := DefaultValidityYears
	if config.Conf != nil && config.Conf.Permit.ValidityYears > 0 {
		years = config.Conf.Permit.ValidityYears
	}
	if permitType == models.PermitTypeBulkWater && customYears > 0 && customYears <= MaxValidityYears {
		years = customYears
	}
	return approvedAt.AddDate(years, 0, 0)
}

func BoreholeSchedule(rec dbmodels.Application) []permitapimodels.BoreholeView {
	count := rec.NumberOfBoreholes
	if count <= 0 {
		return []permitapimodels.BoreholeView{}
	}
	perBorehole := math.Round(rec.WaterAllocation/float64(count)*100) / 100
	result := make([]permitapimodels.BoreholeView, 0, count)
	for n := 1; n <= count; n++ {
		result = append(result, permitapimodels.BoreholeView{
			Number:          fmt.Sprintf("BH-%02d", n),
			Allocation:      perBorehole,
			GpsX:            fmt.Sprintf("%.6f", rec.GpsLatitude),
			GpsY:            fmt.Sprintf("%.6f", rec.GpsLongitude),
			IntendedUse:     rec.IntendedUse,
			SampleFrequency: SampleFrequency,
		})
	}
	return result
}

func ApplicationNumberPrefix(t time.Time) string {
	return fmt.Sprintf("MC%d-", t.Year())
}

func FormatApplicationNumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", ApplicationNumberPrefix(t), seq)
}

func PermitNumberPrefix(t time.Time) string {
	return fmt.Sprintf("WP-%s-", t.Format("200601"))
}

func FormatPermitNumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", PermitNumberPrefix(t), seq)
}

// BuildPermit assembles the printable permit of an approved application.
func BuildPermit(rec dbmodels.Application) permitapimodels.PermitView {
	result := permitapimodels.PermitView{
		PermitNumber:      rec.GetPermitNumber(),
		ApplicationNumber: rec.ApplicationNumber,
		ApplicantName:     rec.ApplicantName,
		PhysicalAddress:   rec.PhysicalAddress,
		PostalAddress:     rec.PostalAddress,
		NumberOfBoreholes: rec.NumberOfBoreholes,
		LandSize:          rec.LandSize,
		PermitType:        rec.PermitType.ToHuman(),
		IntendedUse:       rec.IntendedUse,
		TotalAllocation:   rec.WaterAllocation,
		Boreholes:         BoreholeSchedule(rec),
		Conditions:        Conditions,
		AdditionalTerms:   AdditionalTerms,
		Catchment:         "MANYAME",
		SubCatchment:      "UPPER MANYAME",
	}
	if config.Conf != nil {
		result.Catchment = config.Conf.Permit.Catchment
		result.SubCatchment = config.Conf.Permit.SubCatchment
		result.SignatoryName = config.Conf.Permit.SignatoryName
	}
	if rec.ApprovedAt != nil {
		result.IssueDate = *rec.ApprovedAt
	}
	if rec.ValidUntil != nil {
		result.ValidUntil = *rec.ValidUntil
	} else if rec.ApprovedAt != nil {
		result.ValidUntil = ValidUntil(*rec.ApprovedAt, rec.PermitType, rec.ValidityPeriod)
	}
	return result
}
