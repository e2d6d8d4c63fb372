package middleware

import (
	"UIAnnotator/pkg/log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

const maxLoggedBody = 2048

func LoggerConfig() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID, ok := c.Locals(RequestIDKey).(string)
		if !ok || requestID == "" {
			requestID = "unknown"
		}

		c.Locals(log.RequestIDKey, requestID)

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		if err != nil && status == fiber.StatusInternalServerError {
			return err
		}

		logFields := log.Fields{
			log.RequestIDKey: requestID,
			"method":         c.Method(),
			"path":           c.Path(),
			"status":         status,
			"latency_ms":     latency.Milliseconds(),
			"ip":             c.IP(),
			"user_agent":     c.Get("User-Agent"),
			"response_size":  len(c.Response().Body()),
		}

		if id := c.Params("id"); id != "" {
			logFields[log.SessionIDKey] = id
		}

		if body := c.Request().Body(); len(body) > 0 {
			logFields["request_body"] = summarizeBody(string(c.Request().Header.ContentType()), body)
		}

		if status >= 500 {
			log.Error(logFields, "Server error")
		} else if status >= 400 {
			log.Warn(logFields, "Client error")
		} else {
			log.Info(logFields, "Success")
		}

		return err
	}
}

// summarizeBody keeps small JSON bodies for the log line. Image uploads and
// other binary payloads are reduced to their size.
func summarizeBody(contentType string, body []byte) string {
	if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		return "[" + contentType + " body]"
	}
	if len(body) > maxLoggedBody {
		return "[large JSON body]"
	}

	var jsonBody interface{}
	if err := jsoniter.Unmarshal(body, &jsonBody); err != nil {
		return "[non-JSON body]"
	}

	compact, err := jsoniter.Marshal(jsonBody)
	if err != nil {
		return "[unprintable body]"
	}

	return string(compact)
}
