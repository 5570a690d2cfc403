package dbmodels

import (
	"permit-workflow-backend/models"
	applicationapimodels "permit-workflow-backend/models/api/application"
	"time"
)

type Application struct {
	BaseModel
	ApplicationNumber     string `gorm:"type:varchar(20);uniqueIndex"`
	ApplicantName         string `gorm:"type:varchar(100)"`
	PhysicalAddress       string `gorm:"type:varchar(200)"`
	PostalAddress         string `gorm:"type:varchar(200)"`
	CustomerAccountNumber string `gorm:"type:varchar(50);index"`
	CellularNumber        string `gorm:"type:varchar(20)"`
	NumberOfBoreholes     int
	LandSize              float64
	GpsLatitude           float64
	GpsLongitude          float64
	WaterSource           models.WaterSource `gorm:"type:varchar(50);index"`
	WaterSourceDetails    string
	PermitType            models.PermitType `gorm:"type:varchar(50);index"`
	IntendedUse           string
	WaterAllocation       float64
	ValidityPeriod        int
	Status                models.ApplicationStatus `gorm:"type:varchar(20);index"`
	CurrentStage          int                      `gorm:"index"`
	CreatedBy             string                   `gorm:"type:varchar(36);index"`
	Creator               *User                    `gorm:"foreignKey:CreatedBy"`
	SubmittedAt           *time.Time
	ApprovedAt            *time.Time
	RejectedAt            *time.Time
	PermitNumber          *string `gorm:"type:varchar(20);uniqueIndex"`
	ValidUntil            *time.Time
	ReminderSentAt        *time.Time
	ExpiryNoticeSentAt    *time.Time
	Comments              []WorkflowComment `gorm:"foreignKey:ApplicationID"`
	Documents             []Document        `gorm:"foreignKey:ApplicationID"`
}

func (Application) TableName() string {
	return "applications"
}

func (r Application) GetPermitNumber() string {
	if r.PermitNumber == nil {
		return ""
	}
	return *r.PermitNumber
}

func (r Application) IsCreator(userID string) bool {
	return r.CreatedBy != "" && r.CreatedBy == userID
}

func (r Application) ToModel() applicationapimodels.ApplicationView {
	result := applicationapimodels.ApplicationView{
		ID:                r.ID,
		ApplicationNumber: r.ApplicationNumber,
		ApplicationData: applicationapimodels.ApplicationData{
			ApplicantName:         r.ApplicantName,
			PhysicalAddress:       r.PhysicalAddress,
			PostalAddress:         r.PostalAddress,
			CustomerAccountNumber: r.CustomerAccountNumber,
			CellularNumber:        r.CellularNumber,
			NumberOfBoreholes:     r.NumberOfBoreholes,
			LandSize:              r.LandSize,
			GpsLatitude:           r.GpsLatitude,
			GpsLongitude:          r.GpsLongitude,
			WaterSource:           r.WaterSource,
			WaterSourceDetails:    r.WaterSourceDetails,
			PermitType:            r.PermitType,
			IntendedUse:           r.IntendedUse,
			WaterAllocation:       r.WaterAllocation,
			ValidityPeriod:        r.ValidityPeriod,
		},
		Status:       r.Status,
		StatusHuman:  r.Status.ToHuman(),
		CurrentStage: r.CurrentStage,
		StageName:    models.StageName(r.CurrentStage),
		CreatedBy:    r.CreatedBy,
		PermitNumber: r.GetPermitNumber(),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		SubmittedAt:  r.SubmittedAt,
		ApprovedAt:   r.ApprovedAt,
		RejectedAt:   r.RejectedAt,
		ValidUntil:   r.ValidUntil,
	}
	if r.Creator != nil {
		result.CreatorName = r.Creator.GetFullName()
	}
	return result
}

func (r Application) ToDetailModel() applicationapimodels.ApplicationDetailView {
	result := applicationapimodels.ApplicationDetailView{
		ApplicationView: r.ToModel(),
		Comments:        make([]applicationapimodels.CommentView, 0, len(r.Comments)),
		Documents:       make([]applicationapimodels.DocumentView, 0, len(r.Documents)),
	}
	for _, comment := range r.Comments {
		result.Comments = append(result.Comments, comment.ToModel())
	}
	for _, doc := range r.Documents {
		result.Documents = append(result.Documents, doc.ToModel())
	}
	return result
}
