package controllers

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"permit-workflow-backend/middleware"
	"permit-workflow-backend/models"
	apimodels "permit-workflow-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("failed to parse request body")
		return errors.New("failed to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetParamID(ctx, "id")
}

func (c *BaseAPIController) GetParamID(ctx *fiber.Ctx, name string) (string, error) {
	id := ctx.Params(name)
	if id == "" {
		return "", errors.Errorf("%v is required", name)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.Errorf("%v must be a valid uuid", name)
	}
	return id, nil
}

// GetActor builds the caller from the token claims and the request.
func (c *BaseAPIController) GetActor(ctx *fiber.Ctx) models.Actor {
	return models.Actor{
		UserID:    middleware.GetUserID(ctx),
		Role:      middleware.GetUserRole(ctx),
		Username:  middleware.GetUserName(ctx),
		IPAddress: ctx.IP(),
		UserAgent: string(ctx.Request().Header.UserAgent()),
	}
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
	if userID := middleware.GetUserID(ctx); userID != "" {
		logger = logger.WithField("user_id", userID)
	}
	return logger
}

// SendError logs err and answers 500 with msg.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
}

func (c *BaseAPIController) SendFile(ctx *fiber.Ctx, body []byte, fileName, contentType string) error {
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fileName, url.PathEscape(fileName)))
	return ctx.Status(fiber.StatusOK).Send(body)
}
