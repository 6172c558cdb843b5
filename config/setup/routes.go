package setup

import (
	"qr-cache/app"
	"qr-cache/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {

	// Static assets with aggressive caching
	fiberApp.Static("/static", "./static", fiber.Static{
		Compress: true,
		MaxAge:   86400,
	})
	fiberApp.Get("/robots.txt", func(c *fiber.Ctx) error {
		return c.SendFile("./static/robots.txt")
	})

	// Public routes
	fiberApp.Get("/", handlers.HomePage)
	fiberApp.Get("/health", handlers.Health)

	api := fiberApp.Group("/api")

	// Bank directory (proxied verbatim)
	api.Get("/banks", handlers.GetBanks(application))

	// QR history
	api.Post("/qrcodes", handlers.CreateQRCode(application))
	api.Get("/qrcodes", handlers.ListQRCodes(application))
	api.Put("/qrcodes/:id", handlers.UpdateQRCode(application))
	api.Put("/qrcodes/:id/pin", handlers.TogglePin(application))
	api.Delete("/qrcodes/:id", handlers.DeleteQRCode(application))
	api.Get("/qrcodes/:id/download", handlers.DownloadQRCode(application))

	// Bulk actions
	api.Post("/qrcodes/bulk/pin", handlers.BulkPin(application))
	api.Post("/qrcodes/bulk/delete", handlers.BulkDelete(application))
	api.Post("/qrcodes/bulk/download", handlers.BulkDownload(application))

	// Default profile
	api.Get("/settings", handlers.GetSettings(application))
	api.Put("/settings", handlers.UpdateSettings(application))
}
