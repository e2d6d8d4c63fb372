package config

import (
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger, env Env) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:           "UI Annotator",
			BodyLimit:         int(env.MaxImageBytes) + 1024*1024,
			DisableKeepalive:  false,
			StrictRouting:     true,
			CaseSensitive:     true,
			EnablePrintRoutes: env.Env == "development",
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
		})

	logger.WithField("app", app.Config().AppName).Debug("Fiber app created")

	return app
}
