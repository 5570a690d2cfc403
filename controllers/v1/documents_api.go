package apiv1

import (
	"io"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"permit-workflow-backend/controllers"
	documentshandler "permit-workflow-backend/lib/documents"
	"permit-workflow-backend/models"
	apimodels "permit-workflow-backend/models/api"
)

type documentsApiController struct {
	controllers.BaseAPIController
}

func InitDocumentsApiRouters(app fiber.Router) {
	controller := documentsApiController{}
	app.Route("applications/:id/documents", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.upload)
	})
	app.Route("documents/:id", func(router fiber.Router) {
		router.Get("download", controller.download)
		router.Get("history", controller.history)
		router.Delete("", controller.delete)
	})
}

// @Summary Document list
// @Tags Documents
// @Description Documents attached to an application
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Success 200 {object} apimodels.Response{data=[]applicationapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/documents [get]
func (c *documentsApiController) list(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, hMsg, err := documentshandler.Instance.List(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get documents")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Upload document
// @Tags Documents
// @Description Upload a supporting document (pdf, jpg, jpeg, png, doc, docx)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param   document_type		formData	string	true	"document type"
// @Param   file				formData	file 	true 	"file to upload"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/documents [post]
func (c *documentsApiController) upload(ctx *fiber.Ctx) error {
	applicationID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("file is required"))
	}
	buffer, err := file.Open()
	if err != nil {
		log.WithError(err).Error("failed to open uploaded file")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	defer buffer.Close()
	fileBody, err := io.ReadAll(buffer)
	if err != nil {
		log.WithError(err).Error("failed to read uploaded file")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	docType := models.DocumentType(ctx.FormValue("document_type"))
	id, hMsg, err := documentshandler.Instance.Upload(ctx.UserContext(), c.GetActor(ctx), applicationID, docType, file.Filename, fileBody)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to upload document")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Download document
// @Tags Documents
// @Description Download a document, the access is logged
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/download [get]
func (c *documentsApiController) download(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, doc, hMsg, err := documentshandler.Instance.Download(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to download document")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(hMsg))
	}
	return c.SendFile(ctx, body, doc.FileName, doc.FileType)
}

// @Summary Document history
// @Tags Documents
// @Description Activity log entries referencing the document
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response{data=[]activitylogapimodels.ActivityLogView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/history [get]
func (c *documentsApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, hMsg, err := documentshandler.Instance.History(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get document history")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Delete document
// @Tags Documents
// @Description Delete a document and its stored file
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id} [delete]
func (c *documentsApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := documentshandler.Instance.Delete(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete document")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
