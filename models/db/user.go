package dbmodels

import (
	"permit-workflow-backend/models"
	userapimodels "permit-workflow-backend/models/api/user"
	"time"
)

type User struct {
	BaseModel
	Username  string          `gorm:"type:varchar(50);uniqueIndex"`
	Email     string          `gorm:"type:varchar(255)"`
	Password  string          `gorm:"type:varchar(128)"`
	UserType  models.UserRole `gorm:"type:varchar(50);index"`
	FirstName string          `gorm:"type:varchar(100)"`
	LastName  string          `gorm:"type:varchar(100)"`
	IsActive  bool
	LastLogin *time.Time
}

func (r User) ToModel() userapimodels.UserView {
	return userapimodels.UserView{
		ID:            r.ID,
		Username:      r.Username,
		Email:         r.Email,
		UserType:      r.UserType,
		UserTypeHuman: r.UserType.ToHuman(),
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		IsActive:      r.IsActive,
		LastLogin:     r.LastLogin,
		CreatedAt:     r.CreatedAt,
	}
}

func (r User) GetFullName() string {
	if r.FirstName == "" && r.LastName == "" {
		return r.Username
	}
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}
