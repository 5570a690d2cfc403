package reportapimodels

import (
	"time"

	"github.com/pkg/errors"
	"permit-workflow-backend/models"
	apimodels "permit-workflow-backend/models/api"
	applicationapimodels "permit-workflow-backend/models/api/application"
)

type ReportFilter struct {
	apimodels.DateRange
}

func (r ReportFilter) Validate() error {
	return r.DateRange.Validate()
}

type CountItem struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type SummaryView struct {
	DateFrom                time.Time   `json:"date_from"`
	DateTo                  time.Time   `json:"date_to"`
	TotalApplications       int64       `json:"total_applications"`
	ByStatus                []CountItem `json:"by_status"`
	ByPermitType            []CountItem `json:"by_permit_type"`
	ByWaterSource           []CountItem `json:"by_water_source"`
	ApplicationsPerDay      []CountItem `json:"applications_per_day"`
	AvgProcessingTimeHours  float64     `json:"avg_processing_time_hours"` // submitted -> approved
	DocumentsByType         []CountItem `json:"documents_by_type"`
	CommentsByUser          []CountItem `json:"comments_by_user"`
	TotalWaterAllocation    float64     `json:"total_water_allocation"`
	ApprovedWaterAllocation float64     `json:"approved_water_allocation"`
}

type ApplicationExportRequest struct {
	applicationapimodels.ApplicationFilter
	Format models.ExportFormat `json:"format"`
}

func (r ApplicationExportRequest) Validate() error {
	if !r.Format.IsValid() {
		return errors.New("format must be one of: csv, json, xlsx")
	}
	return r.ApplicationFilter.Validate()
}
