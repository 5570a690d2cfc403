package applicationapimodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"permit-workflow-backend/models"
	apimodels "permit-workflow-backend/models/api"
)

type ApplicationData struct {
	ApplicantName         string             `json:"applicant_name" validate:"required,min=2,max=100"`
	PhysicalAddress       string             `json:"physical_address" validate:"required,max=200"`
	PostalAddress         string             `json:"postal_address" validate:"max=200"`
	CustomerAccountNumber string             `json:"customer_account_number" validate:"required,max=50"`
	CellularNumber        string             `json:"cellular_number" validate:"required,phone"`
	NumberOfBoreholes     int                `json:"number_of_boreholes" validate:"gte=0,lte=100"`
	LandSize              float64            `json:"land_size" validate:"gte=0"`                    // hectares
	GpsLatitude           float64            `json:"gps_latitude" validate:"gte=-90,lte=90"`
	GpsLongitude          float64            `json:"gps_longitude" validate:"gte=-180,lte=180"`
	WaterSource           models.WaterSource `json:"water_source" validate:"required,oneof=ground_water surface_water"`
	WaterSourceDetails    string             `json:"water_source_details"`
	PermitType            models.PermitType  `json:"permit_type" validate:"required"`
	IntendedUse           string             `json:"intended_use" validate:"required,max=500"`
	WaterAllocation       float64            `json:"water_allocation" validate:"gte=0"` // ML per year, custom value for bulk water only
	ValidityPeriod        int                `json:"validity_period" validate:"gte=0,lte=50"` // years, custom value for bulk water only
}

func (r ApplicationData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.PermitType.IsValid() {
		return errors.New("permit_type is invalid")
	}
	if strings.TrimSpace(r.ApplicantName) == "" {
		return errors.New("applicant_name is required")
	}
	if r.PermitType == models.PermitTypeBulkWater && r.WaterAllocation <= 0 {
		return errors.New("water_allocation must be greater than 0 for bulk water permits")
	}
	return nil
}

type ApplicationView struct {
	ApplicationData
	ID                string                   `json:"id"`
	ApplicationNumber string                   `json:"application_id"`
	Status            models.ApplicationStatus `json:"status"`
	StatusHuman       string                   `json:"status_human"`
	CurrentStage      int                      `json:"current_stage"`
	StageName         string                   `json:"stage_name"`
	CreatedBy         string                   `json:"created_by"`
	CreatorName       string                   `json:"creator_name"`
	PermitNumber      string                   `json:"permit_number,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
	SubmittedAt       *time.Time               `json:"submitted_at"`
	ApprovedAt        *time.Time               `json:"approved_at"`
	RejectedAt        *time.Time               `json:"rejected_at"`
	ValidUntil        *time.Time               `json:"valid_until"`
}

type ApplicationDetailView struct {
	ApplicationView
	Comments  []CommentView  `json:"comments"`
	Documents []DocumentView `json:"documents"`
}

type CommentView struct {
	ID                string          `json:"id"`
	ApplicationID     string          `json:"application_id"`
	UserID            string          `json:"user_id"`
	UserName          string          `json:"user_name"`
	UserType          models.UserRole `json:"user_type"`
	UserTypeHuman     string          `json:"user_type_human"`
	Comment           string          `json:"comment"`
	Stage             int             `json:"stage"`
	IsRejectionReason bool            `json:"is_rejection_reason"`
	CreatedAt         time.Time       `json:"created_at"`
}

type DocumentView struct {
	ID                string              `json:"id"`
	ApplicationID     string              `json:"application_id"`
	FileName          string              `json:"file_name"`
	FileType          string              `json:"file_type"`
	FileSize          int64               `json:"file_size"`
	DocumentType      models.DocumentType `json:"document_type"`
	DocumentTypeHuman string              `json:"document_type_human"`
	FileHash          string              `json:"file_hash"`
	UploadedBy        string              `json:"uploaded_by"`
	UploadedAt        time.Time           `json:"uploaded_at"`
}

type ApplicationFilter struct {
	apimodels.Pagination
	apimodels.DateRange
	Search       string                     `json:"search"` // applicant name, application number, account number or permit number
	Statuses     []models.ApplicationStatus `json:"statuses"`
	PermitTypes  []models.PermitType        `json:"permit_types"`
	WaterSources []models.WaterSource       `json:"water_sources"`
	CurrentStage int                        `json:"current_stage"`
	CreatedBy    string                     `json:"created_by"`
	Sort         ApplicationSort            `json:"sort"`
}

func (r ApplicationFilter) Validate() error {
	if err := r.DateRange.Validate(); err != nil {
		return err
	}
	for _, status := range r.Statuses {
		if !status.IsValid() {
			return errors.Errorf("unknown status: %v", status)
		}
	}
	for _, permitType := range r.PermitTypes {
		if !permitType.IsValid() {
			return errors.Errorf("unknown permit type: %v", permitType)
		}
	}
	for _, source := range r.WaterSources {
		if !source.IsValid() {
			return errors.Errorf("unknown water source: %v", source)
		}
	}
	if r.CurrentStage < 0 || r.CurrentStage > models.StageCatchmentChairperson {
		return errors.New("current_stage must be between 1 and 4")
	}
	return r.Sort.Validate()
}

type ApplicationSort struct {
	Field string `json:"field"` // created_at, updated_at, applicant_name, application_id, status, current_stage, water_allocation
	Desc  bool   `json:"desc"`
}

var sortColumns = map[string]string{
	"created_at":       "created_at",
	"updated_at":       "updated_at",
	"submitted_at":     "submitted_at",
	"applicant_name":   "applicant_name",
	"application_id":   "application_number",
	"status":           "status",
	"current_stage":    "current_stage",
	"water_allocation": "water_allocation",
	"permit_type":      "permit_type",
}

func (r ApplicationSort) Validate() error {
	if r.Field == "" {
		return nil
	}
	if _, ok := sortColumns[r.Field]; !ok {
		return errors.Errorf("unsupported sort field: %v", r.Field)
	}
	return nil
}

// OrderBy returns a whitelisted ORDER BY clause.
func (r ApplicationSort) OrderBy() string {
	column, ok := sortColumns[r.Field]
	if !ok {
		column = "created_at"
		r.Desc = true
	}
	if r.Desc {
		return column + " desc"
	}
	return column + " asc"
}
