package ws

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	wsclient "permit-workflow-backend/lib/ws/client"
	connectionhub "permit-workflow-backend/lib/ws/hub/connection-hub"
	"permit-workflow-backend/middleware"
)

func InitWs(app *fiber.App) {
	app.Use("ws", middleware.QueryAuthorizationRequired(), func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals("userID", middleware.GetUserID(ctx))
		return ctx.Next()
	})
	app.Get("ws", websocket.New(pushHandler))
}

// @Summary System pushes
// @Tags Websocket
// @Description Workflow and message events for the current user. Events raised while offline are delivered on connect
// @Param   token		query		string		true		"access token"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 401
// @Failure 426
// @router /api/v1/ws [get]
func pushHandler(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return
	}
	client := wsclient.NewClient(userID, c)
	connectionhub.Instance.AddClient(userID, c)
	defer connectionhub.Instance.DeleteClient(userID, c)
	client.Dispatch()
}
