package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"permit-workflow-backend/controllers"
	activityloghandler "permit-workflow-backend/lib/activity-log"
	apimodels "permit-workflow-backend/models/api"
	activitylogapimodels "permit-workflow-backend/models/api/activitylog"
)

type activityLogsApiController struct {
	controllers.BaseAPIController
}

func InitActivityLogsApiRouters(app fiber.Router) {
	controller := activityLogsApiController{}
	app.Route("activity_logs", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("stats", controller.stats)
		router.Post("export", controller.export)
		router.Put(":id", controller.update)
		router.Delete(":id", controller.delete)
	})
}

// @Summary Activity log list
// @Tags Activity logs
// @Description Audit trail with filters, newest first
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 activitylogapimodels.ActivityLogFilter	true	"request filter body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]activitylogapimodels.ActivityLogView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/activity_logs/list [post]
func (c *activityLogsApiController) list(ctx *fiber.Ctx) error {
	var payload activitylogapimodels.ActivityLogFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := activityloghandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get activity logs")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Activity statistics
// @Tags Activity logs
// @Description Activity and application statistics over a date range, the last 30 days by default
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 activitylogapimodels.StatsFilter	true	"request filter body"
// @Success 200 {object} apimodels.Response{data=activitylogapimodels.StatsView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/activity_logs/stats [post]
func (c *activityLogsApiController) stats(ctx *fiber.Ctx) error {
	var payload activitylogapimodels.StatsFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := activityloghandler.Instance.Stats(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get activity statistics")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Export activity logs
// @Tags Activity logs
// @Description Export filtered activity logs as csv, json or xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 activitylogapimodels.ExportRequest	true	"request body"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/activity_logs/export [post]
func (c *activityLogsApiController) export(ctx *fiber.Ctx) error {
	var payload activitylogapimodels.ExportRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, fileName, err := activityloghandler.Instance.Export(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export activity logs")
	}
	return c.SendFile(ctx, body, fileName, payload.Format.ContentType())
}

// @Summary Edit activity log
// @Tags Activity logs
// @Description Edit action and details of a log entry, ICT only
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "log ID"
// @Param	body body	 activitylogapimodels.ActivityLogUpdate	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/activity_logs/{id} [put]
func (c *activityLogsApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload activitylogapimodels.ActivityLogUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := activityloghandler.Instance.Update(c.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update activity log")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Delete activity log
// @Tags Activity logs
// @Description Delete a log entry, ICT only. The deletion itself is logged
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "log ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/activity_logs/{id} [delete]
func (c *activityLogsApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := activityloghandler.Instance.Delete(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete activity log")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
