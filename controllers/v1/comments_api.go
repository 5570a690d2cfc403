package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"permit-workflow-backend/controllers"
	commentshandler "permit-workflow-backend/lib/workflow-comments"
	apimodels "permit-workflow-backend/models/api"
	workflowapimodels "permit-workflow-backend/models/api/workflow"
)

type commentsApiController struct {
	controllers.BaseAPIController
}

func InitCommentsApiRouters(app fiber.Router) {
	controller := commentsApiController{}
	app.Route("applications/:id/comments", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.add)
		router.Get("print", controller.print)
		router.Delete(":comment_id", controller.delete)
	})
}

// @Summary Comment list
// @Tags Comments
// @Description Workflow comments of an application ordered by time
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Success 200 {object} apimodels.Response{data=[]applicationapimodels.CommentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/comments [get]
func (c *commentsApiController) list(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, hMsg, err := commentshandler.Instance.List(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get comments")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Add comment
// @Tags Comments
// @Description Comment on the current stage of an application
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param	body body	 workflowapimodels.CommentCreate	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/comments [post]
func (c *commentsApiController) add(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.CommentCreate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	commentID, hMsg, err := commentshandler.Instance.Add(c.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to add comment")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(commentID))
}

// @Summary Delete comment
// @Tags Comments
// @Description Delete a workflow comment, ICT only
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param   comment_id     		path    string  				    	true         "comment ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/comments/{comment_id} [delete]
func (c *commentsApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	commentID, err := c.GetParamID(ctx, "comment_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := commentshandler.Instance.Delete(c.GetActor(ctx), id, commentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete comment")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Print comments
// @Tags Comments
// @Description Workflow comments of an application as PDF
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/comments/print [get]
func (c *commentsApiController) print(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, fileName, hMsg, err := commentshandler.Instance.Print(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to print comments")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return c.SendFile(ctx, body, fileName, "application/pdf")
}
