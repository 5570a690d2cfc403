package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"permit-workflow-backend/controllers"
	messageshandler "permit-workflow-backend/lib/messages"
	usershandler "permit-workflow-backend/lib/users"
	apimodels "permit-workflow-backend/models/api"
	messageapimodels "permit-workflow-backend/models/api/message"
)

type messagesApiController struct {
	controllers.BaseAPIController
}

func InitMessagesApiRouters(app fiber.Router) {
	controller := messagesApiController{}
	app.Route("messages", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Get("unread_count", controller.unreadCount)
		router.Get("recipients", controller.recipients)
		router.Post("", controller.send)
		router.Put(":id/read", controller.markAsRead)
		router.Delete(":id", controller.delete)
	})
}

// @Summary Message list
// @Tags Messages
// @Description Public messages and private messages sent to or by the user
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 messageapimodels.MessageFilter	true	"request filter body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]messageapimodels.MessageView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/messages/list [post]
func (c *messagesApiController) list(ctx *fiber.Ctx) error {
	var payload messageapimodels.MessageFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := messageshandler.Instance.List(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get messages")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Unread message count
// @Tags Messages
// @Description Number of unread public and private messages
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=messageapimodels.UnreadCount}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/messages/unread_count [get]
func (c *messagesApiController) unreadCount(ctx *fiber.Ctx) error {
	resp, err := messageshandler.Instance.UnreadCount(c.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to count unread messages")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Message recipients
// @Tags Messages
// @Description Active users a private message can be sent to
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]userapimodels.UserView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/messages/recipients [get]
func (c *messagesApiController) recipients(ctx *fiber.Ctx) error {
	list, err := usershandler.Instance.Recipients()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get recipients")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Send message
// @Tags Messages
// @Description Send a private message or a public announcement
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 messageapimodels.MessageCreate	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/messages [post]
func (c *messagesApiController) send(ctx *fiber.Ctx) error {
	var payload messageapimodels.MessageCreate
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, hMsg, err := messageshandler.Instance.Send(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to send message")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Mark message as read
// @Tags Messages
// @Description Mark a message as read by the current user
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "message ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/messages/{id}/read [put]
func (c *messagesApiController) markAsRead(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := messageshandler.Instance.MarkAsRead(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to mark message as read")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Delete message
// @Tags Messages
// @Description Delete a message, sender or ICT only
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "message ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/messages/{id} [delete]
func (c *messagesApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := messageshandler.Instance.Delete(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete message")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
