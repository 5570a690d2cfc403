package apiv1

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"permit-workflow-backend/controllers"
	workflowhandler "permit-workflow-backend/lib/workflow"
	"permit-workflow-backend/models"
	apimodels "permit-workflow-backend/models/api"
	workflowapimodels "permit-workflow-backend/models/api/workflow"
)

type workflowApiController struct {
	controllers.BaseAPIController
}

type transitionFunc func(ctx context.Context, actor models.Actor, id string, data workflowapimodels.TransitionRequest) (workflowapimodels.TransitionResult, string, error)

func InitWorkflowApiRouters(app fiber.Router) {
	controller := workflowApiController{}
	app.Route("applications/:id", func(router fiber.Router) {
		router.Put("submit", controller.submit)
		router.Put("forward", controller.forward)
		router.Put("technical_review", controller.technicalReview)
		router.Put("approve", controller.approve)
		router.Put("reject", controller.reject)
		router.Put("return", controller.returnToOfficer)
	})
}

// @Summary Submit application
// @Tags Workflow
// @Description Permitting officer submits the application to the sub catchment council chairperson
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.TransitionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/submit [put]
func (c *workflowApiController) submit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, hMsg, err := workflowhandler.Instance.Submit(ctx.UserContext(), c.GetActor(ctx), id)
	return c.sendResult(ctx, resp, hMsg, err)
}

// @Summary Forward application
// @Tags Workflow
// @Description Stage 2 review, forwards the application to the catchment manager
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param	body body	 workflowapimodels.TransitionRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.TransitionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/forward [put]
func (c *workflowApiController) forward(ctx *fiber.Ctx) error {
	return c.transit(ctx, workflowhandler.Instance.Forward)
}

// @Summary Technical review
// @Tags Workflow
// @Description Stage 3 technical assessment, forwards the application to the catchment chairperson
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param	body body	 workflowapimodels.TransitionRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.TransitionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/technical_review [put]
func (c *workflowApiController) technicalReview(ctx *fiber.Ctx) error {
	return c.transit(ctx, workflowhandler.Instance.TechnicalReview)
}

// @Summary Approve application
// @Tags Workflow
// @Description Final approval, issues the permit number
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param	body body	 workflowapimodels.TransitionRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.TransitionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/approve [put]
func (c *workflowApiController) approve(ctx *fiber.Ctx) error {
	return c.transit(ctx, workflowhandler.Instance.Approve)
}

// @Summary Reject application
// @Tags Workflow
// @Description Final rejection, the comment is the rejection reason
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param	body body	 workflowapimodels.TransitionRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.TransitionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/reject [put]
func (c *workflowApiController) reject(ctx *fiber.Ctx) error {
	return c.transit(ctx, workflowhandler.Instance.Reject)
}

// @Summary Return application
// @Tags Workflow
// @Description Returns the application to the permitting officer for corrections
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param	body body	 workflowapimodels.TransitionRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.TransitionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/return [put]
func (c *workflowApiController) returnToOfficer(ctx *fiber.Ctx) error {
	return c.transit(ctx, workflowhandler.Instance.Return)
}

func (c *workflowApiController) transit(ctx *fiber.Ctx, fn transitionFunc) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.TransitionRequest
	if len(ctx.Body()) > 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, hMsg, err := fn(ctx.UserContext(), c.GetActor(ctx), id, payload)
	return c.sendResult(ctx, resp, hMsg, err)
}

func (c *workflowApiController) sendResult(ctx *fiber.Ctx, resp workflowapimodels.TransitionResult, hMsg string, err error) error {
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "workflow action failed")
	}
	if hMsg == workflowhandler.ErrChangedMessage {
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(hMsg))
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
