package userapimodels

import (
	"time"

	"github.com/pkg/errors"
	"permit-workflow-backend/models"
	apimodels "permit-workflow-backend/models/api"
)

type UserView struct {
	ID            string          `json:"id"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	UserType      models.UserRole `json:"user_type"`
	UserTypeHuman string          `json:"user_type_human"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	IsActive      bool            `json:"is_active"`
	LastLogin     *time.Time      `json:"last_login"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CreateUser struct {
	Username  string          `json:"username" validate:"required,min=3,max=50"`
	Password  string          `json:"password" validate:"required,min=8,max=128"`
	Email     string          `json:"email" validate:"omitempty,email"`
	UserType  models.UserRole `json:"user_type" validate:"required"`
	FirstName string          `json:"first_name" validate:"max=100"`
	LastName  string          `json:"last_name" validate:"max=100"`
}

func (r CreateUser) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.UserType.IsValid() {
		return errors.New("user_type is invalid")
	}
	return nil
}

type UpdateUser struct {
	Email     *string          `json:"email" validate:"omitempty,email"`
	UserType  *models.UserRole `json:"user_type"`
	FirstName *string          `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string          `json:"last_name" validate:"omitempty,max=100"`
	IsActive  *bool            `json:"is_active"`
}

func (r UpdateUser) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if r.UserType != nil && !r.UserType.IsValid() {
		return errors.New("user_type is invalid")
	}
	return nil
}

type ResetPassword struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

func (r ResetPassword) Validate() error {
	return apimodels.ValidateStruct(r)
}

type UserFilter struct {
	apimodels.Pagination
	Search   string          `json:"search"`    // username, email or name
	UserType models.UserRole `json:"user_type"` // role filter
	IsActive *bool           `json:"is_active"`
}

func (r UserFilter) Validate() error {
	if r.UserType != "" && !r.UserType.IsValid() {
		return errors.New("user_type is invalid")
	}
	return nil
}
