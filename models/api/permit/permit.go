package permitapimodels

import "time"

// PermitView is the printable content of an issued permit (Form GW7B).
type PermitView struct {
	PermitNumber      string         `json:"permit_number"`
	ApplicationNumber string         `json:"application_id"`
	Catchment         string         `json:"catchment"`
	SubCatchment      string         `json:"sub_catchment"`
	ApplicantName     string         `json:"applicant_name"`
	PhysicalAddress   string         `json:"physical_address"`
	PostalAddress     string         `json:"postal_address"`
	NumberOfBoreholes int            `json:"number_of_boreholes"`
	LandSize          float64        `json:"land_size"`
	PermitType        string         `json:"permit_type"`
	IntendedUse       string         `json:"intended_use"`
	TotalAllocation   float64        `json:"total_allocation"`
	IssueDate         time.Time      `json:"issue_date"`
	ValidUntil        time.Time      `json:"valid_until"`
	Boreholes         []BoreholeView `json:"boreholes"`
	Conditions        []string       `json:"conditions"`
	AdditionalTerms   []string       `json:"additional_terms"`
	SignatoryName     string         `json:"signatory_name"`
}

type BoreholeView struct {
	Number          string  `json:"number"`
	Allocation      float64 `json:"allocation"`
	GpsX            string  `json:"gps_x"`
	GpsY            string  `json:"gps_y"`
	IntendedUse     string  `json:"intended_use"`
	SampleFrequency string  `json:"sample_frequency"`
}
