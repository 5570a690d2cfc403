package authapimodels

import (
	"strings"

	"github.com/pkg/errors"
	"permit-workflow-backend/models"
	userapimodels "permit-workflow-backend/models/api/user"
)

type JWTResponse struct {
	Token        string                  `json:"token"`
	RefreshToken string                  `json:"refresh_token"`
	User         *userapimodels.UserView `json:"user,omitempty"`
}

type JWTRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r JWTRefreshRequest) Validate() error {
	if len(strings.TrimSpace(r.RefreshToken)) == 0 {
		return errors.New("refresh token must not be empty")
	}
	return nil
}

// PermissionsView lists the permissions granted to a role per module.
type PermissionsView struct {
	Role        models.UserRole                       `json:"role"`
	RoleHuman   string                                `json:"role_human"`
	Permissions map[models.Module][]models.Permission `json:"permissions"`
}
