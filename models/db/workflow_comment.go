package dbmodels

import (
	"permit-workflow-backend/models"
	applicationapimodels "permit-workflow-backend/models/api/application"
)

type WorkflowComment struct {
	BaseModel
	ApplicationID     string          `gorm:"type:varchar(36);index"`
	UserID            string          `gorm:"type:varchar(36)"`
	User              *User           `gorm:"foreignKey:UserID"`
	UserType          models.UserRole `gorm:"type:varchar(50)"`
	Comment           string
	Stage             int
	IsRejectionReason bool
}

func (r WorkflowComment) ToModel() applicationapimodels.CommentView {
	result := applicationapimodels.CommentView{
		ID:                r.ID,
		ApplicationID:     r.ApplicationID,
		UserID:            r.UserID,
		UserType:          r.UserType,
		UserTypeHuman:     r.UserType.ToHuman(),
		Comment:           r.Comment,
		Stage:             r.Stage,
		IsRejectionReason: r.IsRejectionReason,
		CreatedAt:         r.CreatedAt,
	}
	if r.User != nil {
		result.UserName = r.User.GetFullName()
	}
	return result
}
