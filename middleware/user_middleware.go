package middleware

import (
	"github.com/gofiber/fiber/v2"
	authutils "permit-workflow-backend/lib/utils/auth-utils"
	"permit-workflow-backend/models"
	apimodels "permit-workflow-backend/models/api"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, ok := claims["role"].(string); ok {
		return models.UserRole(role)
	}
	return ""
}

func GetUserName(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if name, ok := claims["name"].(string); ok {
		return name
	}
	return ""
}

// RoleRequired lets through only the listed roles.
func RoleRequired(roles ...models.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		role := GetUserRole(ctx)
		for _, allowed := range roles {
			if role == allowed {
				return ctx.Next()
			}
		}
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation is not allowed for your role"))
	}
}

func IctRoleRequired() fiber.Handler {
	return RoleRequired(models.IctRole)
}
