package http

import (
	"errors"
	"time"

	"resume-service/internal/domain"
	"resume-service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewApp wires the routes and middleware. A nil registry disables /metrics.
func NewApp(h *Handler, log logger.Logger, registry *prometheus.Registry) *fiber.App {
	if log == nil {
		log = logger.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               "resume-service",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(accessLog(log))

	if registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
	app.Get("/healthz", h.Health)

	resume := app.Group("/resume")
	resume.Get("/download", h.Download)
	resume.Get("/downloads/stats", h.Stats)
	resume.Get("/preview", h.Preview)

	return app
}

// errorHandler renders domain errors as {"error": code, "message": msg}.
func errorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": "http_error", "message": fe.Message})
		}

		status := domain.HTTPStatus(err)
		if status >= fiber.StatusInternalServerError {
			logger.FromContext(c.UserContext(), log).Error("request failed", err, zap.Int("status", status))
		}
		return c.Status(status).JSON(fiber.Map{
			"error":   domain.Code(err),
			"message": domain.Message(err),
		})
	}
}

// accessLog stores a request-scoped logger in the user context and logs
// one line per request with it.
func accessLog(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID, _ := c.Locals("requestid").(string)
		ctx, reqLog := logger.ForRequest(c.UserContext(), log, reqID, utils.CopyString(c.Method()), utils.CopyString(c.Path()))
		c.SetUserContext(ctx)

		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = domain.HTTPStatus(err)
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		reqLog.Info("request",
			zap.String("query", string(c.Request().URI().QueryString())),
			zap.Int("status", status),
			zap.Duration("took", time.Since(start)))
		return err
	}
}
