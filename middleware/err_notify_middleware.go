package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// AlertFunc receives a short description of a failed request.
type AlertFunc func(subject, details string)

// ErrNotify reports every 5xx response through alert.
func ErrNotify(alert AlertFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError || alert == nil {
			return err
		}
		var data struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil {
			log.WithError(unmErr).Debug("error unmarshalling response body in middleware")
		}
		method := c.Method()
		path := c.OriginalURL()
		if r := c.Route(); r != nil {
			path = r.Path
		}
		msg := data.Message
		if msg == "" {
			msg = string(c.Response().Body())
		}
		subject := fmt.Sprintf("API error %d", statusCode)
		details := fmt.Sprintf("%s %s: %s", method, path, msg)
		go alert(subject, details)
		return err
	}
}
