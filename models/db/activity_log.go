package dbmodels

import (
	"permit-workflow-backend/models"
	activitylogapimodels "permit-workflow-backend/models/api/activitylog"
)

type ActivityLog struct {
	BaseModel
	UserID        string                `gorm:"type:varchar(36);index"`
	UserType      models.UserRole       `gorm:"type:varchar(50);index"`
	Username      string                `gorm:"type:varchar(50)"`
	Action        models.ActivityAction `gorm:"type:varchar(100);index"`
	Details       string
	ApplicationID *string      `gorm:"type:varchar(36);index"`
	Application   *Application `gorm:"foreignKey:ApplicationID"`
	DocumentID    *string      `gorm:"type:varchar(36);index"`
	IPAddress     string       `gorm:"type:varchar(45)"`
	UserAgent     string
	Changes       EntityChanges `gorm:"type:jsonb"`
}

func (r ActivityLog) ToModel() activitylogapimodels.ActivityLogView {
	result := activitylogapimodels.ActivityLogView{
		ID:            r.ID,
		UserID:        r.UserID,
		UserType:      r.UserType,
		UserTypeHuman: r.UserType.ToHuman(),
		Username:      r.Username,
		Action:        r.Action,
		Details:       r.Details,
		IPAddress:     r.IPAddress,
		UserAgent:     r.UserAgent,
		Changes:       r.Changes.ToModel(),
		Timestamp:     r.CreatedAt,
	}
	if r.ApplicationID != nil {
		result.ApplicationID = *r.ApplicationID
	}
	if r.DocumentID != nil {
		result.DocumentID = *r.DocumentID
	}
	if r.Application != nil {
		result.ApplicationNumber = r.Application.ApplicationNumber
		result.ApplicationStatus = r.Application.Status
	}
	return result
}

func NewActivityLog(actor models.Actor, action models.ActivityAction, details string) ActivityLog {
	return ActivityLog{
		UserID:    actor.UserID,
		UserType:  actor.Role,
		Username:  actor.Username,
		Action:    action,
		Details:   details,
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	}
}

func (r ActivityLog) ForApplication(applicationID string) ActivityLog {
	if applicationID != "" {
		r.ApplicationID = &applicationID
	}
	return r
}

func (r ActivityLog) ForDocument(documentID string) ActivityLog {
	if documentID != "" {
		r.DocumentID = &documentID
	}
	return r
}

func (r ActivityLog) WithChanges(changes EntityChanges) ActivityLog {
	r.Changes = changes
	return r
}

func (r ActivityLog) GetApplicationNumber() string {
	if r.Application == nil {
		return ""
	}
	return r.Application.ApplicationNumber
}
