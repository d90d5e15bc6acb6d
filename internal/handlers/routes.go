package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(app *fiber.App, screen *ScreenHandler, result *ResultHandler) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/profile", screen.HandleProfile)
	api.Post("/screen", screen.HandleScreen)
	api.Get("/result/:id", result.HandleGetResult)
	api.Get("/result/:id/report.csv", result.HandleDownloadReport)
	api.Post("/result/:id/export", result.HandleExport)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Bulk Resume Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/profile",
				"POST /api/v1/screen",
				"GET /api/v1/result/:id",
				"GET /api/v1/result/:id/report.csv",
				"POST /api/v1/result/:id/export",
			},
		})
	})
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
