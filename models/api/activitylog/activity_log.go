package activitylogapimodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"permit-workflow-backend/models"
	apimodels "permit-workflow-backend/models/api"
)

type ActivityLogView struct {
	ID                string                   `json:"id"`
	UserID            string                   `json:"user_id"`
	UserType          models.UserRole          `json:"user_type"`
	UserTypeHuman     string                   `json:"user_type_human"`
	Username          string                   `json:"username"`
	Action            models.ActivityAction    `json:"action"`
	Details           string                   `json:"details"`
	ApplicationID     string                   `json:"application_id,omitempty"`
	ApplicationNumber string                   `json:"application_number,omitempty"`
	ApplicationStatus models.ApplicationStatus `json:"application_status,omitempty"`
	DocumentID        string                   `json:"document_id,omitempty"`
	IPAddress         string                   `json:"ip_address"`
	UserAgent         string                   `json:"user_agent"`
	Changes           *Changes                 `json:"changes,omitempty"`
	Timestamp         time.Time                `json:"timestamp"`
}

type Changes struct {
	Description string        `json:"description"`
	Data        []FieldChange `json:"data"`
}

type FieldChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

type ActivityLogFilter struct {
	apimodels.Pagination
	apimodels.DateRange
	Action            models.ActivityAction    `json:"action"`
	UserType          models.UserRole          `json:"user_type"`
	ApplicationStatus models.ApplicationStatus `json:"application_status"`
	ApplicationID     string                   `json:"application_id"`
	UserID            string                   `json:"user_id"`
	Search            string                   `json:"search"` // details, username or action
}

func (r ActivityLogFilter) Validate() error {
	if err := r.DateRange.Validate(); err != nil {
		return err
	}
	if r.UserType != "" && !r.UserType.IsValid() {
		return errors.New("user_type is invalid")
	}
	if r.ApplicationStatus != "" && !r.ApplicationStatus.IsValid() {
		return errors.New("application_status is invalid")
	}
	return nil
}

type ActivityLogUpdate struct {
	Action  models.ActivityAction `json:"action"`
	Details string                `json:"details"`
}

func (r ActivityLogUpdate) Validate() error {
	if strings.TrimSpace(string(r.Action)) == "" {
		return errors.New("action must not be empty")
	}
	if len(r.Action) > 100 {
		return errors.New("action must not exceed 100 characters")
	}
	return nil
}

type ExportRequest struct {
	ActivityLogFilter
	Format       models.ExportFormat `json:"format"`
	IncludeStats bool                `json:"include_stats"`
}

func (r ExportRequest) Validate() error {
	if !r.Format.IsValid() {
		return errors.New("format must be one of: csv, json, xlsx")
	}
	return r.ActivityLogFilter.Validate()
}

// ExportStats is the summary attached to an export when include_stats is set.
type ExportStats struct {
	TotalActions       int64            `json:"total_actions"`
	UniqueUsers        int              `json:"unique_users"`
	UniqueApplications int              `json:"unique_applications"`
	ActionsByType      map[string]int64 `json:"actions_by_type"`
	ActionsByRole      map[string]int64 `json:"actions_by_role"`
}

type ExportRow struct {
	Timestamp         time.Time `json:"timestamp"`
	ApplicationNumber string    `json:"application_number"`
	Username          string    `json:"username"`
	UserType          string    `json:"user_type"`
	Action            string    `json:"action"`
	Details           string    `json:"details"`
}

type ExportDocument struct {
	ExportedAt time.Time    `json:"exported_at"`
	Logs       []ExportRow  `json:"logs"`
	Stats      *ExportStats `json:"stats,omitempty"`
}

type StatsFilter struct {
	apimodels.DateRange
}

func (r StatsFilter) Validate() error {
	return r.DateRange.Validate()
}

type CountItem struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type UserActivity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	UserType string `json:"user_type"`
	Count    int64  `json:"count"`
}

type RoleActivity struct {
	UserType    string `json:"user_type"`
	UniqueUsers int64  `json:"unique_users"`
	Actions     int64  `json:"actions"`
}

type ProcessingTime struct {
	AvgHours float64 `json:"avg_hours"`
	MinHours float64 `json:"min_hours"`
	MaxHours float64 `json:"max_hours"`
	Count    int64   `json:"count"`
}

type StatsView struct {
	DateFrom                time.Time      `json:"date_from"`
	DateTo                  time.Time      `json:"date_to"`
	TotalActions            int64          `json:"total_actions"`
	TotalApplications       int64          `json:"total_applications"`
	NewUsers                int64          `json:"new_users"`
	ProcessingTime          ProcessingTime `json:"processing_time"`
	ActionsByType           []CountItem    `json:"actions_by_type"`
	ActionsByRole           []CountItem    `json:"actions_by_role"`
	ActionsByDay            []CountItem    `json:"actions_by_day"`
	ActionsByHour           []CountItem    `json:"actions_by_hour"`
	ActionsByWeekday        []CountItem    `json:"actions_by_weekday"`
	StatusDistribution      []CountItem    `json:"status_distribution"`
	PermitTypeDistribution  []CountItem    `json:"permit_type_distribution"`
	WaterSourceDistribution []CountItem    `json:"water_source_distribution"`
	TopUsers                []UserActivity `json:"top_users"`
	UserActivityByRole      []RoleActivity `json:"user_activity_by_role"`
	DocumentsByType         []CountItem    `json:"documents_by_type"`
	AvgDocumentsPerApp      float64        `json:"avg_documents_per_application"`
	TotalComments           int64          `json:"total_comments"`
	TopCommentedApps        []CountItem    `json:"top_commented_applications"`
}
