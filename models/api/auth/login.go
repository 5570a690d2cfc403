package authapimodels

import (
	"strings"

	"github.com/pkg/errors"
	apimodels "permit-workflow-backend/models/api"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() error {
	return apimodels.ValidateStruct(r)
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

func (r PasswordChange) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if r.CurrentPassword == r.NewPassword {
		return errors.New("new password must differ from the current one")
	}
	if strings.TrimSpace(r.NewPassword) != r.NewPassword {
		return errors.New("password must not start or end with spaces")
	}
	return nil
}
