package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"permit-workflow-backend/controllers"
	reportshandler "permit-workflow-backend/lib/reports"
	apimodels "permit-workflow-backend/models/api"
	reportapimodels "permit-workflow-backend/models/api/report"
)

type reportsApiController struct {
	controllers.BaseAPIController
}

func InitReportsApiRouters(app fiber.Router) {
	controller := reportsApiController{}
	app.Route("reports", func(router fiber.Router) {
		router.Post("summary", controller.summary)
		router.Post("applications/export", controller.exportApplications)
	})
}

// @Summary Summary report
// @Tags Reports
// @Description Application, document and comment totals over a date range
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 reportapimodels.ReportFilter	true	"request filter body"
// @Success 200 {object} apimodels.Response{data=reportapimodels.SummaryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/reports/summary [post]
func (c *reportsApiController) summary(ctx *fiber.Ctx) error {
	var payload reportapimodels.ReportFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := reportshandler.Instance.Summary(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to build summary report")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Export applications
// @Tags Reports
// @Description Export the filtered application list as csv, json or xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 reportapimodels.ApplicationExportRequest	true	"request body"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/reports/applications/export [post]
func (c *reportsApiController) exportApplications(ctx *fiber.Ctx) error {
	var payload reportapimodels.ApplicationExportRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, fileName, err := reportshandler.Instance.ExportApplications(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export applications")
	}
	return c.SendFile(ctx, body, fileName, payload.Format.ContentType())
}
